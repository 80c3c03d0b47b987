package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

type stubTokens struct {
	token string
}

func (s *stubTokens) Token() (string, bool) {
	return s.token, s.token != ""
}

type recordingNotifier struct {
	errorMessages   []string
	successMessages []string
}

func (r *recordingNotifier) Error(message string)   { r.errorMessages = append(r.errorMessages, message) }
func (r *recordingNotifier) Success(message string) { r.successMessages = append(r.successMessages, message) }

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &stubTokens{token: "abc123"}, zerolog.Nop())
	if err := client.Get(context.Background(), "/ping", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestClientOmitsBearerWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &stubTokens{}, zerolog.Nop())
	if err := client.Get(context.Background(), "/ping", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no auth header, got %q", gotAuth)
	}
}

func TestClientNormalizesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"conversation not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &stubTokens{}, zerolog.Nop())
	err := client.Get(context.Background(), "/chat/messages/x", nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.Status)
	}
	if apiErr.Message != "conversation not found" {
		t.Errorf("expected server message, got %q", apiErr.Message)
	}
	if !IsNotFound(err) {
		t.Error("expected IsNotFound to be true")
	}
}

func TestClientFallsBackToGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, &stubTokens{}, zerolog.Nop())
	err := client.Get(context.Background(), "/boom", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "Something went wrong. Please try again." {
		t.Errorf("expected generic fallback message, got %q", apiErr.Message)
	}
}

func TestClientDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Amina"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &stubTokens{}, zerolog.Nop())
	var out struct {
		Name string `json:"name"`
	}
	if err := client.Get(context.Background(), "/me", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Name != "Amina" {
		t.Errorf("expected decoded name, got %q", out.Name)
	}
}

func TestNotifyingClientToastsAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"not allowed"}`))
	}))
	defer server.Close()

	toasts := &recordingNotifier{}
	client := NewNotifyingClient(NewClient(server.URL, &stubTokens{}, zerolog.Nop()), toasts)

	if err := client.Get(context.Background(), "/x", nil); err == nil {
		t.Fatal("expected error")
	}
	if len(toasts.errorMessages) != 1 || toasts.errorMessages[0] != "not allowed" {
		t.Fatalf("expected server message toast, got %v", toasts.errorMessages)
	}
}

func TestNotifyingClientToastsNetworkErrors(t *testing.T) {
	toasts := &recordingNotifier{}
	client := NewNotifyingClient(NewClient("http://127.0.0.1:1", &stubTokens{}, zerolog.Nop()), toasts)

	if err := client.Get(context.Background(), "/x", nil); err == nil {
		t.Fatal("expected error")
	}
	if len(toasts.errorMessages) != 1 || toasts.errorMessages[0] != networkErrorMessage {
		t.Fatalf("expected network error toast, got %v", toasts.errorMessages)
	}
}
