package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/api"
)

var ErrCallInProgress = errors.New("a call is already in progress")

const callEndTimeout = 5 * time.Second

type callsAPI interface {
	IssueRoom(ctx context.Context, connectionID string) (*api.CallRoom, error)
	End(ctx context.Context, roomName string) error
}

type ActiveCall struct {
	RoomName  string
	RoomURL   string
	StartedAt time.Time
	Deadline  time.Time
}

// CallService tracks the single active video session. Every session carries
// a fixed time budget; hitting the deadline auto-ends the call.
type CallService struct {
	api          callsAPI
	toasts       notifier
	log          zerolog.Logger
	jitsiBaseURL string
	budget       time.Duration

	mu     sync.Mutex
	active *ActiveCall
	timer  *time.Timer
}

func NewCallService(calls callsAPI, toasts notifier, log zerolog.Logger, jitsiBaseURL string, budget time.Duration) *CallService {
	return &CallService{
		api:          calls,
		toasts:       toasts,
		log:          log,
		jitsiBaseURL: strings.TrimSuffix(jitsiBaseURL, "/"),
		budget:       budget,
	}
}

func (s *CallService) Start(ctx context.Context, connectionID string) (*ActiveCall, error) {
	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		return nil, ErrCallInProgress
	}
	s.mu.Unlock()

	room, err := s.api.IssueRoom(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	call := &ActiveCall{
		RoomName:  room.RoomName,
		RoomURL:   s.jitsiBaseURL + "/" + room.RoomName,
		StartedAt: now,
		Deadline:  now.Add(s.budget),
	}

	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		return nil, ErrCallInProgress
	}
	s.active = call
	s.timer = time.AfterFunc(s.budget, s.expire)
	s.mu.Unlock()

	return call, nil
}

func (s *CallService) End(ctx context.Context) {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	roomName := s.active.RoomName
	s.active = nil
	s.mu.Unlock()

	if err := s.api.End(ctx, roomName); err != nil {
		s.log.Warn().Err(err).Str("room", roomName).Msg("call end notification failed")
	}
}

// HandleRemoteEnded clears the active call when the counterparty hung up.
func (s *CallService) HandleRemoteEnded(roomName string) {
	s.mu.Lock()
	if s.active == nil || s.active.RoomName != roomName {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.active = nil
	s.mu.Unlock()

	s.toasts.Info("The call has ended.")
}

func (s *CallService) Active() *ActiveCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}
	call := *s.active
	return &call
}

func (s *CallService) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return 0
	}
	remaining := time.Until(s.active.Deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *CallService) expire() {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return
	}
	roomName := s.active.RoomName
	s.active = nil
	s.timer = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), callEndTimeout)
	defer cancel()
	if err := s.api.End(ctx, roomName); err != nil {
		s.log.Warn().Err(err).Str("room", roomName).Msg("call end notification failed")
	}

	s.toasts.Info("Call ended: the session time limit was reached.")
}
