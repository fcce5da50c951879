// internal/wizard/store.go
package wizard

import (
	"context"
	"encoding/json"
	"strconv"

	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"
)

const (
	MinStep = 1
	MaxStep = 7
)

// Persistence is the save/load contract the store talks to. Every mutation
// saves synchronously; there is no debouncing.
type Persistence interface {
	SaveDraft(ctx context.Context, draft *models.Draft) error
	SaveStep(ctx context.Context, step int) error
	LoadDraft(ctx context.Context) (*models.Draft, error)
	LoadStep(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// Store holds the in-progress draft and current step. It is a pure
// container: no validation happens here.
type Store struct {
	draft   *models.Draft
	step    int
	persist Persistence
	logger  logger.Logger
}

// NewStore restores the previous session when one exists, otherwise starts
// with an empty draft at step 1. Restore failures are logged and fall back
// to empty; a corrupt snapshot never blocks the wizard.
func NewStore(ctx context.Context, persist Persistence, log logger.Logger) *Store {
	s := &Store{
		draft:   models.NewDraft(),
		step:    MinStep,
		persist: persist,
		logger:  log,
	}

	if draft, err := persist.LoadDraft(ctx); err != nil {
		log.WithError(err).Warn("draft restore failed, starting empty", nil)
	} else if draft != nil {
		s.draft = draft
	}

	if step, err := persist.LoadStep(ctx); err == nil && step >= MinStep && step <= MaxStep {
		s.step = step
	}

	return s
}

// Draft returns the live draft. Callers mutate through UpdateDraft so every
// change is persisted.
func (s *Store) Draft() *models.Draft {
	return s.draft
}

func (s *Store) Step() int {
	return s.step
}

// UpdateDraft applies a shallow mutation to the draft and persists the full
// record synchronously.
func (s *Store) UpdateDraft(ctx context.Context, mutate func(*models.Draft)) error {
	mutate(s.draft)
	if err := s.persist.SaveDraft(ctx, s.draft); err != nil {
		s.logger.WithError(err).Error("draft persist failed", map[string]interface{}{
			"step": s.step,
		})
		return errors.NewDraftPersistFailedError(err)
	}
	return nil
}

// GoNext advances one step, bounded at the last step.
func (s *Store) GoNext(ctx context.Context) int {
	return s.setStep(ctx, s.step+1)
}

// GoBack retreats one step, bounded at the first step.
func (s *Store) GoBack(ctx context.Context) int {
	return s.setStep(ctx, s.step-1)
}

func (s *Store) setStep(ctx context.Context, step int) int {
	if step < MinStep {
		step = MinStep
	}
	if step > MaxStep {
		step = MaxStep
	}
	if step == s.step {
		return s.step
	}
	s.step = step
	if err := s.persist.SaveStep(ctx, step); err != nil {
		s.logger.WithError(err).Warn("step persist failed", map[string]interface{}{
			"step": step,
		})
	}
	return s.step
}

// Reset restores an empty draft at step 1 and clears persistence.
func (s *Store) Reset(ctx context.Context) error {
	s.draft = models.NewDraft()
	s.step = MinStep
	if err := s.persist.Clear(ctx); err != nil {
		return errors.NewDraftPersistFailedError(err)
	}
	return nil
}

// snapshot is the serialized form kept in persistence, shared by the Redis
// adapter and its schema validation.
func marshalDraft(draft *models.Draft) (string, error) {
	data, err := json.Marshal(draft)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func parseStep(raw string) (int, error) {
	return strconv.Atoi(raw)
}
