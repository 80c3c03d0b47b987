// Package app assembles the client: secure store, REST and socket clients,
// and the domain services, with lifecycle tied to Start/Close.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/api"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/config"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/notify"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/routes"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/securestore"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/services"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/socket"
)

const guardGrace = 500 * time.Millisecond

type App struct {
	cfg *config.Config
	log zerolog.Logger

	backend securestore.Backend

	Store       *securestore.Store
	Toasts      *notify.Center
	Session     *services.SessionService
	Chat        *services.ChatService
	Connections *services.ConnectionService
	Mentorship  *services.MentorshipService
	Calls       *services.CallService
	Content     *api.ContentAPI
	Guard       *routes.Guard

	mu         sync.Mutex
	socket     *socket.Client
	cancelPoll context.CancelFunc
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	backend, err := securestore.OpenSQLite(cfg.StorePath)
	if err != nil {
		return nil, err
	}

	store := securestore.New(backend, cfg.StoreSecret)
	toasts := notify.NewCenter()

	base := api.NewClient(cfg.APIBaseURL, store, log)
	notifying := api.NewNotifyingClient(base, toasts)

	session := services.NewSessionService(
		api.NewAuthAPI(notifying),
		store,
		toasts,
		log,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute,
	)

	// Chat and mentorship apply their own toast policies (a missing thread
	// or mentorship reads as empty, no toast), so they run on the
	// undecorated client.
	chat := services.NewChatService(api.NewChatAPI(base), toasts, log, cfg.PollInterval)

	mentorship := services.NewMentorshipService(
		api.NewMentorshipAPI(base),
		api.NewPaymentsClient(cfg.PaymentAPIURL, cfg.PaymentPublicKey),
		toasts,
		log,
	)
	connections := services.NewConnectionService(api.NewConnectionsAPI(notifying), mentorship, toasts, log)
	calls := services.NewCallService(api.NewCallsAPI(notifying), toasts, log, cfg.JitsiBaseURL, cfg.CallBudget)

	return &App{
		cfg:         cfg,
		log:         log,
		backend:     backend,
		Store:       store,
		Toasts:      toasts,
		Session:     session,
		Chat:        chat,
		Connections: connections,
		Mentorship:  mentorship,
		Calls:       calls,
		Content:     api.NewContentAPI(notifying),
		Guard:       routes.NewGuard(session, guardGrace),
	}, nil
}

func (a *App) Start(ctx context.Context) {
	// Runs both for a session restored from disk and for a later login.
	a.Session.OnEstablish(func(user *models.User) {
		a.Chat.SetSelf(user.ID)
		a.Connections.SetProfile(user)
		a.connectSocket(ctx, user.ID)
	})
	a.Session.Restore()

	pollCtx, cancel := context.WithCancel(ctx)
	a.cancelPoll = cancel
	a.Chat.Start(pollCtx)
}

func (a *App) connectSocket(ctx context.Context, userID string) {
	a.mu.Lock()
	if a.socket != nil {
		a.mu.Unlock()
		return
	}
	client := socket.NewClient(a.cfg.SocketURL, userID, a.log)
	a.socket = client
	a.mu.Unlock()

	client.On(socket.EventReceiveMessage, func(data json.RawMessage) {
		var msg socket.IncomingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			a.log.Warn().Err(err).Msg("malformed receive_message payload")
			return
		}
		a.Chat.HandleIncoming(msg)
	})
	client.On(socket.EventUserTyping, func(data json.RawMessage) {
		var ev socket.TypingEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		a.Chat.HandleTyping(ev)
	})
	client.On(socket.EventMessagesMarkedRead, func(data json.RawMessage) {
		var ev socket.MarkedReadEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		a.Chat.HandleMarkedRead(ev)
	})
	client.On(socket.EventUnreadCount, func(data json.RawMessage) {
		var ev socket.UnreadCountEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		a.Chat.HandleUnreadCount(ev)
	})
	client.On(socket.EventOnlineUsers, func(data json.RawMessage) {
		var ev socket.OnlineUsersEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		a.Chat.HandleOnlineUsers(ev)
	})
	client.On(socket.EventIncomingCall, func(data json.RawMessage) {
		var ev socket.IncomingCallEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		a.Toasts.Info("Incoming video call.")
	})
	client.On(socket.EventCallEnded, func(data json.RawMessage) {
		var ev socket.CallEndedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		a.Calls.HandleRemoteEnded(ev.RoomName)
	})

	if err := client.Connect(ctx); err != nil {
		// The poll loop still keeps the open conversation current.
		a.log.Warn().Err(err).Msg("socket connect failed")
	}
}

func (a *App) Close() {
	if a.cancelPoll != nil {
		a.cancelPoll()
	}
	a.mu.Lock()
	sock := a.socket
	a.mu.Unlock()
	if sock != nil {
		_ = sock.Close()
	}
	a.Mentorship.Close()
	a.Toasts.Close()
	if err := a.backend.Close(); err != nil {
		a.log.Error().Err(err).Msg("close session store")
	}
}
