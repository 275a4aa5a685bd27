package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"recruitment-tracker/domain"
)

// Page is offset pagination as accepted by list endpoints.
type Page struct {
	Skip  int
	Limit int
}

// Find loads one record of T by primary key. entity names the record in
// the returned NotFound error.
func Find[T any](ctx context.Context, db *gorm.DB, entity string, id uint) (*T, error) {
	var record T
	if err := db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError(entity, id)
		}
		return nil, err
	}
	return &record, nil
}

// List returns one page of T ordered by id. scopes narrow the query.
func List[T any](ctx context.Context, db *gorm.DB, page Page, scopes ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	records := make([]T, 0)
	err := db.WithContext(ctx).
		Scopes(scopes...).
		Order("id").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// roleStages returns the stages of a role by sequence. Equal sequences fall
// back to id order.
func roleStages(tx *gorm.DB, roleID uint) ([]domain.Stage, error) {
	var stages []domain.Stage
	err := tx.Where("role_id = ?", roleID).
		Order("stage_sequence").
		Order("id").
		Find(&stages).Error
	return stages, err
}
