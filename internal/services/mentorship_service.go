package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/api"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
	"github.com/Jill-Vadsola/study-abroad-sub000/pkg/cache"
)

var ErrPaymentDeclined = errors.New("payment declined")

const (
	statusCacheTTL   = 30 * time.Second
	statusCacheSweep = 5 * time.Minute
)

type mentorshipAPI interface {
	Status(ctx context.Context, connectionID string) (*models.MentorshipStatus, error)
	Apply(ctx context.Context, req api.ApplyRequest) (*api.ApplyResult, error)
	Finalize(ctx context.Context, applicationID, paymentIntentID string) error
}

type paymentConfirmer interface {
	ConfirmIntent(ctx context.Context, clientSecret, paymentMethod string) (*api.PaymentIntent, error)
}

// MentorshipService is the single source of mentorship status per
// connection. Statuses live in one TTL-cached store keyed by connection id;
// every mutating action invalidates its key, so cards never issue their own
// ad-hoc fetches.
type MentorshipService struct {
	api      mentorshipAPI
	payments paymentConfirmer
	statuses *cache.TTLCache[string, models.MentorshipStatus]
	toasts   notifier
	log      zerolog.Logger
}

func NewMentorshipService(mentorship mentorshipAPI, payments paymentConfirmer, toasts notifier, log zerolog.Logger) *MentorshipService {
	return &MentorshipService{
		api:      mentorship,
		payments: payments,
		statuses: cache.New[string, models.MentorshipStatus](statusCacheTTL, statusCacheSweep),
		toasts:   toasts,
		log:      log,
	}
}

func (s *MentorshipService) Status(ctx context.Context, connectionID string) (*models.MentorshipStatus, error) {
	if status, ok := s.statuses.Get(connectionID); ok {
		return &status, nil
	}

	status, err := s.api.Status(ctx, connectionID)
	if err != nil {
		if api.IsNotFound(err) {
			empty := models.MentorshipStatus{}
			s.statuses.Set(connectionID, empty)
			return &empty, nil
		}
		return nil, err
	}

	s.statuses.Set(connectionID, *status)
	return status, nil
}

func (s *MentorshipService) Invalidate(connectionID string) {
	s.statuses.Delete(connectionID)
}

// Apply submits the application, confirms the payment intent with the card
// details, and finalizes with the intent id. The cached status for the
// connection is invalidated on any outcome past the payment step.
func (s *MentorshipService) Apply(ctx context.Context, req api.ApplyRequest, paymentMethod string) error {
	result, err := s.api.Apply(ctx, req)
	if err != nil {
		s.toasts.Error(api.ErrorMessage(err))
		return err
	}

	intent, err := s.payments.ConfirmIntent(ctx, result.ClientSecret, paymentMethod)
	if err != nil {
		s.toasts.Error("Payment failed. You have not been charged.")
		return err
	}
	if intent.Status != "succeeded" && intent.Status != "requires_capture" {
		s.toasts.Error("Payment was declined.")
		return ErrPaymentDeclined
	}

	if err := s.api.Finalize(ctx, result.ApplicationID, intent.ID); err != nil {
		s.statuses.Delete(req.ConnectionID)
		s.toasts.Error(api.ErrorMessage(err))
		return err
	}

	s.statuses.Delete(req.ConnectionID)
	s.toasts.Success("Mentorship application submitted.")
	return nil
}

func (s *MentorshipService) Close() {
	s.statuses.Close()
}

// Applied reports whether a mentorship blocks re-application: a truthy
// mentorship id with a pending or active status. Rejected and completed
// mentorships do not block.
func Applied(status *models.MentorshipStatus) bool {
	if status == nil || status.MentorshipID == "" {
		return false
	}
	return strings.EqualFold(status.Status, models.MentorshipPending) ||
		strings.EqualFold(status.Status, models.MentorshipActive)
}
