package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"recruitment-tracker/domain"
)

// Aggregator assembles read-only composite views of applications.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

type detailRow struct {
	ApplicationID        uint
	CandidateID          uint
	CandidateName        string
	RoleID               uint
	RoleName             string
	CurrentStageID       uint
	CurrentStageName     string
	CurrentStageSequence int
	Status               domain.Status
	ApplicationDate      time.Time
	Rating               *int
}

// Aggregate returns the detail view of one application. A dangling
// candidate, role or stage reference is reported as NotFound.
func (a *Aggregator) Aggregate(ctx context.Context, applicationID uint) (*domain.ApplicationDetail, error) {
	var detail *domain.ApplicationDetail

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row detailRow
		res := tx.Table("applications AS a").
			Select(`a.id AS application_id, a.candidate_id, c.candidate_name, a.role_id, r.name AS role_name,
				a.current_stage_id, s.stage_name AS current_stage_name, s.stage_sequence AS current_stage_sequence,
				a.status, a.application_date, a.rating`).
			Joins("JOIN candidates AS c ON c.id = a.candidate_id").
			Joins("JOIN roles AS r ON r.id = a.role_id").
			Joins("JOIN stages AS s ON s.id = a.current_stage_id").
			Where("a.id = ?", applicationID).
			Limit(1).
			Scan(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFoundError("application", applicationID)
		}

		var experiences []domain.Experience
		if err := tx.Where("application_id = ?", applicationID).Order("id").Find(&experiences).Error; err != nil {
			return err
		}
		stages, err := roleStages(tx, row.RoleID)
		if err != nil {
			return err
		}

		detail = &domain.ApplicationDetail{
			ApplicationID:        row.ApplicationID,
			CandidateID:          row.CandidateID,
			CandidateName:        row.CandidateName,
			RoleID:               row.RoleID,
			RoleName:             row.RoleName,
			CurrentStageID:       row.CurrentStageID,
			CurrentStageName:     row.CurrentStageName,
			CurrentStageSequence: row.CurrentStageSequence,
			Status:               row.Status,
			ApplicationDate:      row.ApplicationDate,
			Rating:               row.Rating,
			Experiences:          make([]domain.ExperienceDetail, 0, len(experiences)),
			RoleStages:           domain.StageProgress(row.Status, row.CurrentStageID, row.CurrentStageSequence, stages),
		}
		for _, e := range experiences {
			detail.Experiences = append(detail.Experiences, domain.ExperienceDetail{
				ExperienceID: e.ID,
				CompanyName:  e.CompanyName,
				Position:     e.Position,
				StartDate:    e.StartDate,
				EndDate:      e.EndDate,
				Description:  e.Description,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// SummaryFilter narrows the monthly listing. Year and Month only apply when
// both are set. A nil Status means all statuses.
type SummaryFilter struct {
	Year   *int
	Month  *int
	Status *domain.Status
}

type summaryRow struct {
	ApplicationID   uint
	CandidateName   string
	RoleName        string
	Rating          *int
	ApplicationDate time.Time
	Attachments     *string
	Status          domain.Status
	StageID         *uint
	StageName       *string
	StageSequence   *int
}

// Summaries lists applications with candidate, role and current stage. The
// stage is nil when the application's current stage no longer exists.
func (a *Aggregator) Summaries(ctx context.Context, filter SummaryFilter) ([]domain.ApplicationSummary, error) {
	q := a.db.WithContext(ctx).Table("applications AS a").
		Select(`a.id AS application_id, c.candidate_name, r.name AS role_name, a.rating, a.application_date,
			a.attachments, a.status, s.id AS stage_id, s.stage_name, s.stage_sequence`).
		Joins("JOIN candidates AS c ON c.id = a.candidate_id").
		Joins("JOIN roles AS r ON r.id = a.role_id").
		Joins("LEFT JOIN stages AS s ON s.id = a.current_stage_id")

	if filter.Year != nil && filter.Month != nil {
		start := time.Date(*filter.Year, time.Month(*filter.Month), 1, 0, 0, 0, 0, time.UTC)
		q = q.Where("a.application_date >= ? AND a.application_date < ?", start, start.AddDate(0, 1, 0))
	}
	if filter.Status != nil {
		q = q.Where("a.status = ?", *filter.Status)
	}

	var rows []summaryRow
	if err := q.Order("a.id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.ApplicationSummary, 0, len(rows))
	for _, row := range rows {
		s := domain.ApplicationSummary{
			ApplicationID:   row.ApplicationID,
			CandidateName:   row.CandidateName,
			RoleName:        row.RoleName,
			Rating:          row.Rating,
			ApplicationDate: row.ApplicationDate,
			Attachments:     row.Attachments,
			Status:          row.Status,
		}
		if row.StageID != nil {
			s.Stage = &domain.StageInfo{CurrentStage: *row.StageID}
			if row.StageName != nil {
				s.Stage.StageName = *row.StageName
			}
			if row.StageSequence != nil {
				s.Stage.StageSequence = *row.StageSequence
			}
		}
		out = append(out, s)
	}
	return out, nil
}
