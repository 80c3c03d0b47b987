package services

import (
	"context"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/api"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
)

type stubNotifier struct {
	errors    []string
	successes []string
	infos     []string
}

func (n *stubNotifier) Error(message string)   { n.errors = append(n.errors, message) }
func (n *stubNotifier) Success(message string) { n.successes = append(n.successes, message) }
func (n *stubNotifier) Info(message string)    { n.infos = append(n.infos, message) }

type stubChatAPI struct {
	conversations []models.ConversationSummary
	history       func(ctx context.Context, userID string) ([]models.ChatMessage, error)
	send          func(ctx context.Context, recipientID, text string) (*models.ChatMessage, error)
	sendCalls     int
	markReadCalls []string
}

func (s *stubChatAPI) Conversations(_ context.Context) ([]models.ConversationSummary, error) {
	return s.conversations, nil
}

func (s *stubChatAPI) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history(ctx, userID)
}

func (s *stubChatAPI) Send(ctx context.Context, recipientID, text string) (*models.ChatMessage, error) {
	s.sendCalls++
	if s.send == nil {
		return &models.ChatMessage{}, nil
	}
	return s.send(ctx, recipientID, text)
}

func (s *stubChatAPI) MarkRead(_ context.Context, userID string) error {
	s.markReadCalls = append(s.markReadCalls, userID)
	return nil
}

type stubConnectionsAPI struct {
	lists       *models.ConnectionLists
	listsCalls  int
	acceptCalls []string
	rejectCalls []string
	cancelCalls []string
	blockCalls  []string
	removeCalls []string
}

func (s *stubConnectionsAPI) Lists(_ context.Context) (*models.ConnectionLists, error) {
	s.listsCalls++
	if s.lists == nil {
		return &models.ConnectionLists{}, nil
	}
	lists := *s.lists
	return &lists, nil
}

func (s *stubConnectionsAPI) Request(_ context.Context, _, _, _ string) error { return nil }

func (s *stubConnectionsAPI) Accept(_ context.Context, id string) error {
	s.acceptCalls = append(s.acceptCalls, id)
	return nil
}

func (s *stubConnectionsAPI) Reject(_ context.Context, id string) error {
	s.rejectCalls = append(s.rejectCalls, id)
	return nil
}

func (s *stubConnectionsAPI) Cancel(_ context.Context, id string) error {
	s.cancelCalls = append(s.cancelCalls, id)
	return nil
}

func (s *stubConnectionsAPI) Block(_ context.Context, id string) error {
	s.blockCalls = append(s.blockCalls, id)
	return nil
}

func (s *stubConnectionsAPI) Remove(_ context.Context, id string) error {
	s.removeCalls = append(s.removeCalls, id)
	return nil
}

type stubStatusSource struct {
	statuses    map[string]*models.MentorshipStatus
	invalidated []string
}

func (s *stubStatusSource) Status(_ context.Context, connectionID string) (*models.MentorshipStatus, error) {
	if status, ok := s.statuses[connectionID]; ok {
		return status, nil
	}
	return &models.MentorshipStatus{}, nil
}

func (s *stubStatusSource) Invalidate(connectionID string) {
	s.invalidated = append(s.invalidated, connectionID)
}

type stubMentorshipAPI struct {
	status        *models.MentorshipStatus
	statusErr     error
	statusCalls   int
	applyResult   *api.ApplyResult
	applyErr      error
	finalizeCalls []string
}

func (s *stubMentorshipAPI) Status(_ context.Context, _ string) (*models.MentorshipStatus, error) {
	s.statusCalls++
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	if s.status == nil {
		return &models.MentorshipStatus{}, nil
	}
	status := *s.status
	return &status, nil
}

func (s *stubMentorshipAPI) Apply(_ context.Context, _ api.ApplyRequest) (*api.ApplyResult, error) {
	return s.applyResult, s.applyErr
}

func (s *stubMentorshipAPI) Finalize(_ context.Context, applicationID, paymentIntentID string) error {
	s.finalizeCalls = append(s.finalizeCalls, applicationID+":"+paymentIntentID)
	return nil
}

type stubPayments struct {
	intent     *api.PaymentIntent
	confirmErr error
}

func (s *stubPayments) ConfirmIntent(_ context.Context, _, _ string) (*api.PaymentIntent, error) {
	return s.intent, s.confirmErr
}

type stubAuthAPI struct {
	loginResult *api.LoginResult
	loginErr    error
	logoutErr   error
	logoutCalls int
}

func (s *stubAuthAPI) Login(_ context.Context, _, _ string) (*api.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthAPI) Register(_ context.Context, _ api.RegisterRequest) (*api.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthAPI) Logout(_ context.Context) error {
	s.logoutCalls++
	return s.logoutErr
}

type stubCallsAPI struct {
	room     *api.CallRoom
	issueErr error
	endCalls []string
}

func (s *stubCallsAPI) IssueRoom(_ context.Context, _ string) (*api.CallRoom, error) {
	return s.room, s.issueErr
}

func (s *stubCallsAPI) End(_ context.Context, roomName string) error {
	s.endCalls = append(s.endCalls, roomName)
	return nil
}
