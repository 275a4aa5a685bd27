package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"recruitment-tracker/domain"
)

// Catalog holds the per-entity create, update and delete rules that go
// beyond a plain row write.
type Catalog struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db, now: time.Now}
}

func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ConflictError("duplicate value violates a unique constraint")
	}
	return err
}

func (s *Catalog) CreateCandidate(ctx context.Context, c *domain.Candidate) error {
	return translateWriteError(s.db.WithContext(ctx).Create(c).Error)
}

func (s *Catalog) UpdateCandidate(ctx context.Context, id uint, patch domain.CandidatePatch) (*domain.Candidate, error) {
	c, err := Find[domain.Candidate](ctx, s.db, "candidate", id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, translateWriteError(err)
	}
	return c, nil
}

func (s *Catalog) DeleteCandidate(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Find[domain.Candidate](ctx, tx, "candidate", id); err != nil {
			return err
		}
		used, err := exists(tx, &domain.Application{}, "candidate_id = ?", id)
		if err != nil {
			return err
		}
		if used {
			return domain.ConflictError("candidate %d still has applications", id)
		}
		return tx.Delete(&domain.Candidate{}, id).Error
	})
}

func (s *Catalog) CreateRole(ctx context.Context, r *domain.Role) error {
	return translateWriteError(s.db.WithContext(ctx).Create(r).Error)
}

func (s *Catalog) UpdateRole(ctx context.Context, id uint, patch domain.RolePatch) (*domain.Role, error) {
	r, err := Find[domain.Role](ctx, s.db, "role", id)
	if err != nil {
		return nil, err
	}
	patch.Apply(r)
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return nil, translateWriteError(err)
	}
	return r, nil
}

// DeleteRole refuses while stages, openings or applications reference it.
func (s *Catalog) DeleteRole(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Find[domain.Role](ctx, tx, "role", id); err != nil {
			return err
		}
		for _, ref := range []struct {
			model interface{}
			name  string
		}{
			{&domain.Stage{}, "stages"},
			{&domain.Opening{}, "openings"},
			{&domain.Application{}, "applications"},
		} {
			used, err := exists(tx, ref.model, "role_id = ?", id)
			if err != nil {
				return err
			}
			if used {
				return domain.ConflictError("role %d is still referenced by %s", id, ref.name)
			}
		}
		return tx.Delete(&domain.Role{}, id).Error
	})
}

func (s *Catalog) CreateStage(ctx context.Context, st *domain.Stage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Find[domain.Role](ctx, tx, "role", st.RoleID); err != nil {
			return err
		}
		return translateWriteError(tx.Create(st).Error)
	})
}

func (s *Catalog) UpdateStage(ctx context.Context, id uint, patch domain.StagePatch) (*domain.Stage, error) {
	st, err := Find[domain.Stage](ctx, s.db, "stage", id)
	if err != nil {
		return nil, err
	}
	patch.Apply(st)
	if err := s.db.WithContext(ctx).Save(st).Error; err != nil {
		return nil, translateWriteError(err)
	}
	return st, nil
}

// DeleteStage refuses to remove a stage that an application is sitting at.
func (s *Catalog) DeleteStage(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Find[domain.Stage](ctx, tx, "stage", id); err != nil {
			return err
		}
		used, err := exists(tx, &domain.Application{}, "current_stage_id = ?", id)
		if err != nil {
			return err
		}
		if used {
			return domain.ConflictError("stage %d is the current stage of an application", id)
		}
		return tx.Delete(&domain.Stage{}, id).Error
	})
}

func (s *Catalog) CreateOpening(ctx context.Context, o *domain.Opening) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Find[domain.Role](ctx, tx, "role", o.RoleID); err != nil {
			return err
		}
		if o.PostedDate.IsZero() {
			o.PostedDate = s.now()
		}
		return translateWriteError(tx.Create(o).Error)
	})
}

func (s *Catalog) UpdateOpening(ctx context.Context, id uint, patch domain.OpeningPatch) (*domain.Opening, error) {
	o, err := Find[domain.Opening](ctx, s.db, "opening", id)
	if err != nil {
		return nil, err
	}
	patch.Apply(o)
	if err := s.db.WithContext(ctx).Save(o).Error; err != nil {
		return nil, translateWriteError(err)
	}
	return o, nil
}

func (s *Catalog) DeleteOpening(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Find[domain.Opening](ctx, tx, "opening", id); err != nil {
			return err
		}
		used, err := exists(tx, &domain.Application{}, "opening_id = ?", id)
		if err != nil {
			return err
		}
		if used {
			return domain.ConflictError("opening %d still has applications", id)
		}
		return tx.Delete(&domain.Opening{}, id).Error
	})
}

func (s *Catalog) CreateExperience(ctx context.Context, e *domain.Experience) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Find[domain.Application](ctx, tx, "application", e.ApplicationID); err != nil {
			return err
		}
		if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
			return domain.ValidationError("end_date is before start_date")
		}
		return tx.Create(e).Error
	})
}

func (s *Catalog) UpdateExperience(ctx context.Context, id uint, patch domain.ExperiencePatch) (*domain.Experience, error) {
	e, err := Find[domain.Experience](ctx, s.db, "experience", id)
	if err != nil {
		return nil, err
	}
	patch.Apply(e)
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return nil, domain.ValidationError("end_date is before start_date")
	}
	if err := s.db.WithContext(ctx).Save(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Catalog) DeleteExperience(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Experience{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError("experience", id)
	}
	return nil
}

// NewApplication is the input for CreateApplication. RoleID defaults to
// the opening's role and CurrentStageID to the role's first stage.
type NewApplication struct {
	CandidateID     uint
	OpeningID       uint
	RoleID          *uint
	CurrentStageID  *uint
	Rating          *int
	Attachments     *string
	ApplicationDate *time.Time
}

// CreateApplication always starts the application as pending.
func (s *Catalog) CreateApplication(ctx context.Context, in NewApplication) (*domain.Application, error) {
	app := &domain.Application{
		CandidateID: in.CandidateID,
		OpeningID:   in.OpeningID,
		Status:      domain.StatusPending,
		Rating:      in.Rating,
		Attachments: in.Attachments,
	}
	if in.ApplicationDate != nil {
		app.ApplicationDate = *in.ApplicationDate
	} else {
		app.ApplicationDate = s.now()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Find[domain.Candidate](ctx, tx, "candidate", in.CandidateID); err != nil {
			return err
		}
		opening, err := Find[domain.Opening](ctx, tx, "opening", in.OpeningID)
		if err != nil {
			return err
		}
		app.RoleID = opening.RoleID
		if in.RoleID != nil && *in.RoleID != opening.RoleID {
			return domain.ValidationError("role %d does not match opening %d (role %d)", *in.RoleID, opening.ID, opening.RoleID)
		}

		stages, err := roleStages(tx, app.RoleID)
		if err != nil {
			return err
		}
		if len(stages) == 0 {
			return fmt.Errorf("role %d: %w", app.RoleID, domain.ErrNoStagesConfigured)
		}
		app.CurrentStageID = stages[0].ID
		if in.CurrentStageID != nil {
			found := false
			for _, st := range stages {
				if st.ID == *in.CurrentStageID {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("stage %d, role %d: %w", *in.CurrentStageID, app.RoleID, domain.ErrStageNotInRole)
			}
			app.CurrentStageID = *in.CurrentStageID
		}
		return tx.Create(app).Error
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *Catalog) UpdateApplication(ctx context.Context, id uint, patch domain.ApplicationPatch) (*domain.Application, error) {
	app, err := Find[domain.Application](ctx, s.db, "application", id)
	if err != nil {
		return nil, err
	}
	patch.Apply(app)
	res := s.db.WithContext(ctx).Model(&domain.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":           app.Rating,
			"attachments":      app.Attachments,
			"application_date": app.ApplicationDate,
			"updated_at":       s.now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	return Find[domain.Application](ctx, s.db, "application", id)
}

// DeleteApplication removes the application together with its experiences.
func (s *Catalog) DeleteApplication(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Find[domain.Application](ctx, tx, "application", id); err != nil {
			return err
		}
		if err := tx.Where("application_id = ?", id).Delete(&domain.Experience{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Application{}, id).Error
	})
}
