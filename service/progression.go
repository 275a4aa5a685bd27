package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"recruitment-tracker/domain"
)

//go:generate mockgen -source=progression.go -destination=mocks/mock_progression.go -package=mocks

// EventPublisher receives committed stage changes.
type EventPublisher interface {
	PublishStageChange(ctx context.Context, event domain.StageChangeEvent) error
}

// Progression moves applications through their role's stage pipeline.
type Progression struct {
	db     *gorm.DB
	events EventPublisher
	log    *logrus.Logger
	now    func() time.Time
}

// NewProgression builds the engine. events may be nil.
func NewProgression(db *gorm.DB, events EventPublisher, log *logrus.Logger) *Progression {
	return &Progression{db: db, events: events, log: log, now: time.Now}
}

// AdvanceRequest is one transition request. ExpectedStageID, when set, must
// match the application's current stage at read time.
type AdvanceRequest struct {
	ApplicationID   uint
	Action          string
	ExpectedStageID *uint
}

// Advance applies the action and persists the result with a single
// conditional update. Every failure is reported before anything is
// written. A concurrent change between read and write yields ErrConflict.
func (p *Progression) Advance(ctx context.Context, req AdvanceRequest) (*domain.Application, error) {
	var before, after domain.Application
	var action domain.Action

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := Find[domain.Application](ctx, tx, "application", req.ApplicationID)
		if err != nil {
			return err
		}
		before = *app

		action, err = domain.ParseAction(req.Action)
		if err != nil {
			return err
		}
		if req.ExpectedStageID != nil && *req.ExpectedStageID != before.CurrentStageID {
			return domain.ConflictError("application %d is at stage %d, expected %d",
				before.ID, before.CurrentStageID, *req.ExpectedStageID)
		}

		var stages []domain.Stage
		if action == domain.ActionNext {
			if stages, err = roleStages(tx, before.RoleID); err != nil {
				return err
			}
		}

		after, err = domain.Advance(before, action, stages)
		if err != nil {
			return err
		}
		after.UpdatedAt = p.now()

		res := tx.Model(&domain.Application{}).
			Where("id = ? AND status = ? AND current_stage_id = ?", before.ID, before.Status, before.CurrentStageID).
			Updates(map[string]interface{}{
				"status":           after.Status,
				"current_stage_id": after.CurrentStageID,
				"updated_at":       after.UpdatedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update application %d: %w", before.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ConflictError("application %d changed concurrently", before.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := domain.StageChangeEvent{
		ApplicationID: after.ID,
		Action:        action,
		FromStageID:   before.CurrentStageID,
		ToStageID:     after.CurrentStageID,
		FromStatus:    before.Status,
		ToStatus:      after.Status,
		OccurredAt:    after.UpdatedAt,
	}
	p.log.WithFields(logrus.Fields{
		"application_id": event.ApplicationID,
		"action":         event.Action,
		"from_stage":     event.FromStageID,
		"to_stage":       event.ToStageID,
		"status":         event.ToStatus,
	}).Info("application stage updated")

	if p.events != nil {
		if err := p.events.PublishStageChange(ctx, event); err != nil {
			p.log.WithError(err).WithField("application_id", event.ApplicationID).Warn("failed to publish stage change")
		}
	}
	return &after, nil
}
