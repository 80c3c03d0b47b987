package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/api"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/socket"
	"github.com/Jill-Vadsola/study-abroad-sub000/pkg/utils"
)

var (
	ErrInvalidRecipient = errors.New("invalid recipient id")
	ErrEmptyMessage     = errors.New("empty message")
)

const pollFetchTimeout = 5 * time.Second

type chatAPI interface {
	Conversations(ctx context.Context) ([]models.ConversationSummary, error)
	History(ctx context.Context, userID string) ([]models.ChatMessage, error)
	Send(ctx context.Context, recipientID, text string) (*models.ChatMessage, error)
	MarkRead(ctx context.Context, userID string) error
}

// ChatService keeps per-conversation message lists current across three
// overlapping paths: the fetch on selection, socket pushes, and a
// fixed-interval poll of the open conversation. All three reconcile by
// message id; a mutation counter taken before each poll fetch drops poll
// results that raced a newer update.
type ChatService struct {
	api          chatAPI
	toasts       notifier
	log          zerolog.Logger
	pollInterval time.Duration

	mu            sync.Mutex
	selfID        string
	conversations map[string]*models.ConversationSummary
	threads       map[string][]models.ChatMessage
	loading       map[string]bool
	mutations     map[string]uint64
	selected      string
	totalUnread   int
}

func NewChatService(chat chatAPI, toasts notifier, log zerolog.Logger, pollInterval time.Duration) *ChatService {
	return &ChatService{
		api:           chat,
		toasts:        toasts,
		log:           log,
		pollInterval:  pollInterval,
		conversations: make(map[string]*models.ConversationSummary),
		threads:       make(map[string][]models.ChatMessage),
		loading:       make(map[string]bool),
		mutations:     make(map[string]uint64),
	}
}

// SetSelf records the signed-in user's id, stamped onto outgoing messages.
func (s *ChatService) SetSelf(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selfID = userID
}

func (s *ChatService) LoadConversations(ctx context.Context) error {
	summaries, err := s.api.Conversations(ctx)
	if err != nil {
		s.toasts.Error("Failed to load conversations.")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range summaries {
		summary := summaries[i]
		if existing, ok := s.conversations[summary.UserID]; ok {
			summary.IsOnline = existing.IsOnline
			summary.IsTyping = existing.IsTyping
		}
		s.conversations[summary.UserID] = &summary
	}
	return nil
}

// SelectConversation fetches the thread for a counterparty and makes it the
// open conversation. A failed fetch falls open to an empty thread; only
// non-404 failures surface a toast.
func (s *ChatService) SelectConversation(ctx context.Context, counterpartyID string) error {
	s.mu.Lock()
	s.selected = counterpartyID
	s.loading[counterpartyID] = true
	s.mu.Unlock()

	messages, err := s.api.History(ctx, counterpartyID)

	s.mu.Lock()
	delete(s.loading, counterpartyID)
	if err != nil {
		if !api.IsNotFound(err) {
			s.toasts.Error("Failed to load messages.")
		}
		s.threads[counterpartyID] = []models.ChatMessage{}
	} else {
		s.threads[counterpartyID] = messages
	}
	s.mutations[counterpartyID]++
	if summary, ok := s.conversations[counterpartyID]; ok {
		summary.UnreadCount = 0
	}
	s.mu.Unlock()

	if markErr := s.api.MarkRead(ctx, counterpartyID); markErr != nil {
		s.log.Debug().Err(markErr).Str("conversation", counterpartyID).Msg("mark read failed")
	}
	return err
}

// SendMessage validates the recipient id, appends an optimistic entry, and
// re-keys it to the server's echoed id on ack so later poll or push delivery
// of the same message dedups cleanly.
func (s *ChatService) SendMessage(ctx context.Context, recipientID, text string) error {
	if !utils.IsObjectID(recipientID) {
		s.toasts.Error("Invalid recipient.")
		return ErrInvalidRecipient
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	pendingID := "pending-" + uuid.NewString()
	optimistic := models.ChatMessage{
		ID:        pendingID,
		Text:      text,
		Timestamp: time.Now(),
		IsOwn:     true,
		IsRead:    true,
		Pending:   true,
	}

	s.mu.Lock()
	optimistic.SenderID = s.selfID
	s.threads[recipientID] = append(s.threads[recipientID], optimistic)
	s.mutations[recipientID]++
	summary := s.ensureConversation(recipientID)
	summary.LastMessage = text
	summary.LastMessageTime = optimistic.Timestamp
	s.mu.Unlock()

	sent, err := s.api.Send(ctx, recipientID, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.removePending(recipientID, pendingID)
		s.mutations[recipientID]++
		s.toasts.Error("Message failed to send.")
		return err
	}

	if sent != nil && sent.ID != "" {
		for i := range s.threads[recipientID] {
			if s.threads[recipientID][i].ID == pendingID {
				s.threads[recipientID][i].ID = sent.ID
				s.threads[recipientID][i].Pending = false
				if !sent.Timestamp.IsZero() {
					s.threads[recipientID][i].Timestamp = sent.Timestamp
				}
				break
			}
		}
		s.mutations[recipientID]++
	}
	return nil
}

// HandleIncoming applies a socket-pushed message to the sender's thread.
func (s *ChatService) HandleIncoming(msg socket.IncomingMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := msg.MessageID
	if id == "" {
		id = "recv-" + uuid.NewString()
	}
	if containsID(s.threads[msg.SenderID], id) {
		return
	}

	timestamp := msg.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	s.threads[msg.SenderID] = append(s.threads[msg.SenderID], models.ChatMessage{
		ID:        id,
		SenderID:  msg.SenderID,
		Text:      msg.Text,
		Timestamp: timestamp,
		IsRead:    s.selected == msg.SenderID,
	})
	s.mutations[msg.SenderID]++

	summary := s.ensureConversation(msg.SenderID)
	summary.LastMessage = msg.Text
	summary.LastMessageTime = timestamp
	if s.selected != msg.SenderID {
		summary.UnreadCount++
	}
}

func (s *ChatService) HandleTyping(ev socket.TypingEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if summary, ok := s.conversations[ev.UserID]; ok {
		summary.IsTyping = ev.IsTyping
	}
}

func (s *ChatService) HandleMarkedRead(ev socket.MarkedReadEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread := s.threads[ev.UserID]
	for i := range thread {
		if thread[i].IsOwn {
			thread[i].IsRead = true
		}
	}
	s.mutations[ev.UserID]++
}

func (s *ChatService) HandleOnlineUsers(ev socket.OnlineUsersEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	online := make(map[string]bool, len(ev.UserIDs))
	for _, id := range ev.UserIDs {
		online[id] = true
	}
	for id, summary := range s.conversations {
		summary.IsOnline = online[id]
	}
}

func (s *ChatService) HandleUnreadCount(ev socket.UnreadCountEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalUnread = ev.Total
}

// Start runs the poll loop until ctx is cancelled.
func (s *ChatService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.poll(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *ChatService) poll(ctx context.Context) {
	s.mu.Lock()
	id := s.selected
	baseline := s.mutations[id]
	s.mu.Unlock()

	if id == "" {
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, pollFetchTimeout)
	defer cancel()

	messages, err := s.api.History(fetchCtx, id)
	if err != nil {
		s.log.Debug().Err(err).Str("conversation", id).Msg("poll fetch failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Anything that touched the thread while the fetch was in flight wins
	// over the poll result.
	if s.selected != id || s.mutations[id] != baseline {
		return
	}

	merged, changed := mergeByID(s.threads[id], messages)
	if changed == 0 {
		return
	}

	s.threads[id] = merged
	s.mutations[id]++
	if last := lastMessage(merged); last != nil {
		summary := s.ensureConversation(id)
		summary.LastMessage = last.Text
		summary.LastMessageTime = last.Timestamp
	}
}

func (s *ChatService) Conversations() []models.ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ConversationSummary, 0, len(s.conversations))
	for _, summary := range s.conversations {
		out = append(out, *summary)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageTime.After(out[j].LastMessageTime)
	})
	return out
}

func (s *ChatService) Messages(counterpartyID string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread := s.threads[counterpartyID]
	out := make([]models.ChatMessage, len(thread))
	copy(out, thread)
	return out
}

func (s *ChatService) IsLoading(counterpartyID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading[counterpartyID]
}

func (s *ChatService) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected
}

func (s *ChatService) TotalUnread() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalUnread
}

func (s *ChatService) ensureConversation(userID string) *models.ConversationSummary {
	summary, ok := s.conversations[userID]
	if !ok {
		summary = &models.ConversationSummary{UserID: userID}
		s.conversations[userID] = summary
	}
	return summary
}

func (s *ChatService) removePending(conversationID, pendingID string) {
	thread := s.threads[conversationID]
	for i := range thread {
		if thread[i].ID == pendingID {
			s.threads[conversationID] = append(thread[:i], thread[i+1:]...)
			return
		}
	}
}

// mergeByID appends remote messages whose ids are not held locally, in
// server order. A remote own-message matching a pending optimistic entry by
// text adopts that entry instead of duplicating it. The returned count is
// the number of applied changes.
func mergeByID(local, remote []models.ChatMessage) ([]models.ChatMessage, int) {
	seen := make(map[string]struct{}, len(local))
	pendingByText := make(map[string]int)
	out := make([]models.ChatMessage, len(local))
	copy(out, local)

	for i := range out {
		if out[i].ID != "" {
			seen[out[i].ID] = struct{}{}
		}
		if out[i].Pending {
			pendingByText[out[i].Text] = i
		}
	}

	changed := 0
	for _, msg := range remote {
		if msg.ID != "" {
			if _, ok := seen[msg.ID]; ok {
				continue
			}
		}
		if msg.IsOwn {
			if idx, ok := pendingByText[msg.Text]; ok {
				out[idx].ID = msg.ID
				out[idx].Pending = false
				seen[msg.ID] = struct{}{}
				delete(pendingByText, msg.Text)
				changed++
				continue
			}
		}
		out = append(out, msg)
		if msg.ID != "" {
			seen[msg.ID] = struct{}{}
		}
		changed++
	}
	return out, changed
}

func containsID(thread []models.ChatMessage, id string) bool {
	for i := range thread {
		if thread[i].ID == id {
			return true
		}
	}
	return false
}

func lastMessage(thread []models.ChatMessage) *models.ChatMessage {
	if len(thread) == 0 {
		return nil
	}
	return &thread[len(thread)-1]
}
