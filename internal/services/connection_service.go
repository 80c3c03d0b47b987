package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
)

type connectionsAPI interface {
	Lists(ctx context.Context) (*models.ConnectionLists, error)
	Request(ctx context.Context, userID, connectionType, message string) error
	Accept(ctx context.Context, connectionID string) error
	Reject(ctx context.Context, connectionID string) error
	Cancel(ctx context.Context, connectionID string) error
	Block(ctx context.Context, connectionID string) error
	Remove(ctx context.Context, connectionID string) error
}

type statusSource interface {
	Status(ctx context.Context, connectionID string) (*models.MentorshipStatus, error)
	Invalidate(connectionID string)
}

// ConnectionService holds the four server-owned connection lists. Status
// transitions are requested and then answered with a full refetch; the
// client never mutates a status locally.
type ConnectionService struct {
	api      connectionsAPI
	statuses statusSource
	toasts   notifier
	log      zerolog.Logger

	profile *models.User

	mu    sync.Mutex
	lists models.ConnectionLists
}

func NewConnectionService(connections connectionsAPI, statuses statusSource, toasts notifier, log zerolog.Logger) *ConnectionService {
	return &ConnectionService{
		api:      connections,
		statuses: statuses,
		toasts:   toasts,
		log:      log,
	}
}

// SetProfile provides the signed-in user's profile for potential-match
// ranking.
func (s *ConnectionService) SetProfile(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = user
}

func (s *ConnectionService) Refresh(ctx context.Context) error {
	lists, err := s.api.Lists(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lists.Potential = rankPotential(s.profile, lists.Potential)
	s.lists = *lists
	return nil
}

func (s *ConnectionService) Lists() models.ConnectionLists {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lists
}

func (s *ConnectionService) Request(ctx context.Context, userID, connectionType, message string) error {
	if err := s.api.Request(ctx, userID, connectionType, message); err != nil {
		return err
	}
	s.toasts.Success("Connection request sent.")
	return s.Refresh(ctx)
}

func (s *ConnectionService) Accept(ctx context.Context, connectionID string) error {
	return s.transition(ctx, connectionID, s.api.Accept, "Connection accepted.")
}

func (s *ConnectionService) Reject(ctx context.Context, connectionID string) error {
	return s.transition(ctx, connectionID, s.api.Reject, "Connection request rejected.")
}

func (s *ConnectionService) Cancel(ctx context.Context, connectionID string) error {
	return s.transition(ctx, connectionID, s.api.Cancel, "Connection request cancelled.")
}

func (s *ConnectionService) Block(ctx context.Context, connectionID string) error {
	return s.transition(ctx, connectionID, s.api.Block, "User blocked.")
}

func (s *ConnectionService) Remove(ctx context.Context, connectionID string) error {
	return s.transition(ctx, connectionID, s.api.Remove, "Connection removed.")
}

func (s *ConnectionService) transition(
	ctx context.Context,
	connectionID string,
	op func(context.Context, string) error,
	successMessage string,
) error {
	if err := op(ctx, connectionID); err != nil {
		return err
	}

	s.statuses.Invalidate(connectionID)
	s.toasts.Success(successMessage)
	return s.Refresh(ctx)
}

// CardState derives which actions a connection card offers from the
// connection status plus the mentorship status. The server owns both; the
// client only picks the rendering.
func (s *ConnectionService) CardState(ctx context.Context, conn models.Connection) models.CardState {
	switch conn.Status {
	case models.ConnectionPending:
		if conn.IsFromUser {
			return models.CardPendingOutgoing
		}
		return models.CardPendingIncoming
	case models.ConnectionAccepted:
		if !strings.EqualFold(conn.ConnectionType, "mentor") {
			return models.CardAcceptedOtherEntity
		}
		status, err := s.statuses.Status(ctx, conn.ID)
		if err != nil {
			s.log.Debug().Err(err).Str("connection", conn.ID).Msg("mentorship status unavailable")
			return models.CardAcceptedNoMentor
		}
		if Applied(status) {
			return models.CardAcceptedMentorship
		}
		return models.CardAcceptedNoMentor
	default:
		return ""
	}
}

const (
	sharedInterestScore = 25
	sameUniversityScore = 20
	sameCountryScore    = 10

	maxPotential = 50
)

// rankPotential orders potential matches by affinity with the signed-in
// user's profile. Stable sort keeps the server order between equals.
func rankPotential(profile *models.User, potential []models.Connection) []models.Connection {
	if profile == nil || len(potential) == 0 {
		return potential
	}

	interests := make(map[string]struct{}, len(profile.Interests))
	for _, interest := range profile.Interests {
		interests[normalizeTag(interest)] = struct{}{}
	}

	type scored struct {
		conn  models.Connection
		score int
	}
	entries := make([]scored, len(potential))
	for i, conn := range potential {
		entries[i] = scored{conn: conn, score: matchScore(profile, interests, conn.OtherUser)}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	if len(entries) > maxPotential {
		entries = entries[:maxPotential]
	}
	ranked := make([]models.Connection, len(entries))
	for i, entry := range entries {
		ranked[i] = entry.conn
	}
	return ranked
}

func matchScore(profile *models.User, interests map[string]struct{}, other models.UserSummary) int {
	score := 0
	for _, interest := range other.Interests {
		if _, ok := interests[normalizeTag(interest)]; ok {
			score += sharedInterestScore
		}
	}
	if profile.University != "" && strings.EqualFold(profile.University, other.University) {
		score += sameUniversityScore
	}
	if profile.Country != "" && strings.EqualFold(profile.Country, other.Country) {
		score += sameCountryScore
	}
	return score
}

func normalizeTag(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.ReplaceAll(value, " ", "_")
	value = strings.ReplaceAll(value, "-", "_")
	return value
}
