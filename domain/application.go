package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status values of an Application. Accepted and rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// ParseStatus accepts any letter case, so legacy enum names like
// "PENDING" resolve as well.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusAccepted, StatusRejected:
		return st, nil
	}
	return "", ValidationError("unknown application status %q", s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

type Application struct {
	ID              uint      `gorm:"primaryKey" json:"application_id"`
	CandidateID     uint      `gorm:"not null;index" json:"candidate_id"`
	OpeningID       uint      `gorm:"not null;index" json:"opening_id"`
	RoleID          uint      `gorm:"not null;index" json:"role_id"`
	CurrentStageID  uint      `gorm:"column:current_stage_id;not null;index" json:"current_stage"`
	Status          Status    `gorm:"size:16;not null;index" json:"status"`
	Rating          *int      `json:"rating"`
	Attachments     *string   `gorm:"size:1024" json:"attachments"`
	ApplicationDate time.Time `gorm:"not null;index" json:"application_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Action is a requested stage transition.
type Action string

const (
	ActionNext   Action = "next"
	ActionReject Action = "reject"
)

func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(s))
	switch a {
	case ActionNext, ActionReject:
		return a, nil
	}
	return "", fmt.Errorf("%w %q: must be 'next' or 'reject'", ErrInvalidAction, s)
}

// Advance computes the state that follows app under action. stages must
// hold every stage of the application's role, ordered by sequence. app is
// not modified.
func Advance(app Application, action Action, stages []Stage) (Application, error) {
	switch action {
	case ActionReject:
		app.Status = StatusRejected
		return app, nil
	case ActionNext:
		if !app.Status.Valid() {
			return app, ValidationError("application %d has unknown status %q", app.ID, string(app.Status))
		}
		if app.Status.IsTerminal() {
			return app, fmt.Errorf("application %d is %s: %w", app.ID, app.Status, ErrApplicationClosed)
		}
		if len(stages) == 0 {
			return app, fmt.Errorf("role %d: %w", app.RoleID, ErrNoStagesConfigured)
		}
		idx := -1
		for i, st := range stages {
			if st.ID == app.CurrentStageID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return app, fmt.Errorf("stage %d, role %d: %w", app.CurrentStageID, app.RoleID, ErrStageNotInRole)
		}
		if idx+1 < len(stages) {
			app.CurrentStageID = stages[idx+1].ID
		} else {
			app.Status = StatusAccepted
		}
		return app, nil
	default:
		return app, fmt.Errorf("%w %q", ErrInvalidAction, string(action))
	}
}

// StageChangeEvent describes one committed transition.
type StageChangeEvent struct {
	ApplicationID uint      `json:"application_id"`
	Action        Action    `json:"action"`
	FromStageID   uint      `json:"from_stage_id"`
	ToStageID     uint      `json:"to_stage_id"`
	FromStatus    Status    `json:"from_status"`
	ToStatus      Status    `json:"to_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}
