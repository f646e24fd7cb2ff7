package lead

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"brandae-leads-api/internal/metrics"
	"brandae-leads-api/internal/webhook"
)

// Repository persists submissions.
type Repository interface {
	Create(ctx context.Context, s Submission) error
	List(ctx context.Context, f Filter) ([]Submission, error)
}

// Notifier fans a persisted submission out to webhooks. *webhook.Dispatcher implements it.
type Notifier interface {
	Notify(ctx context.Context, ev webhook.Event) webhook.Report
	NotifyAsync(ctx context.Context, ev webhook.Event)
}

// Result is the outcome of one Submit call. State is settled when the
// dispatch round finished, or dispatching when it was handed off (async).
type Result struct {
	Submission Submission
	State      State
	Trace      []State
	Dispatch   webhook.Report
}

// Service holds the submit flow: validate, persist, then notify.
type Service struct {
	Repo     Repository
	Notifier Notifier
	// Async hands the dispatch round to the Notifier and returns without waiting.
	Async bool

	Now   func() time.Time
	NewID func() string
}

// Submit validates and stores one lead, then notifies every active webhook.
// Only validation and persistence errors are returned; webhook outcomes
// never fail the call. Identical submissions are not deduplicated.
func (s *Service) Submit(ctx context.Context, kind Kind, form FormData) (Result, error) {
	logger := log.Ctx(ctx)
	a := newAttempt()
	fail := func(err error) (Result, error) {
		_ = a.advance(StateFailed)
		return Result{State: a.state, Trace: a.trace}, err
	}

	if err := a.advance(StateSubmitting); err != nil {
		return Result{}, err
	}

	if !kind.Valid() {
		metrics.LeadSubmissions.WithLabelValues(string(kind), "invalid").Inc()
		return fail(fmt.Errorf("%w: unknown kind %q", ErrInvalid, kind))
	}
	form = form.Normalize()
	if err := Validate(form); err != nil {
		metrics.LeadSubmissions.WithLabelValues(string(kind), "invalid").Inc()
		logger.Debug().Err(err).Str("kind", string(kind)).Msg("Lead submission rejected")
		return fail(err)
	}

	sub := Submission{
		ID:        s.newID(),
		Kind:      kind,
		Form:      form,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, sub); err != nil {
		metrics.LeadSubmissions.WithLabelValues(string(kind), "failed").Inc()
		logger.Error().
			Err(err).
			Str("kind", string(kind)).
			Msg("Failed to persist lead submission")
		return fail(fmt.Errorf("persist submission: %w", err))
	}
	metrics.LeadSubmissions.WithLabelValues(string(kind), "persisted").Inc()
	if err := a.advance(StatePersisted); err != nil {
		return Result{}, err
	}

	logger.Info().
		Str("submission_id", sub.ID).
		Str("kind", string(kind)).
		Msg("Lead submission persisted")

	res := Result{Submission: sub}
	if err := a.advance(StateDispatching); err != nil {
		return Result{}, err
	}

	if s.Notifier != nil {
		ev := webhook.Event{Type: string(kind), Source: kind.Source(), FormData: form}
		if s.Async {
			s.Notifier.NotifyAsync(ctx, ev)
			res.State, res.Trace = a.state, a.trace
			return res, nil
		}
		res.Dispatch = s.Notifier.Notify(ctx, ev)
	}

	if err := a.advance(StateSettled); err != nil {
		return Result{}, err
	}
	res.State, res.Trace = a.state, a.trace
	return res, nil
}

// List returns submissions for the admin listing, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Submission, error) {
	return s.Repo.List(ctx, f.Clamped())
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
