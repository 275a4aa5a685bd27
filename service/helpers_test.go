package service

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recruitment-tracker/config"
	"recruitment-tracker/domain"
	"recruitment-tracker/infrastructure"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infrastructure.NewDatabase(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	role      domain.Role
	stages    []domain.Stage
	candidate domain.Candidate
	opening   domain.Opening
	app       domain.Application
}

// seedPipeline creates a role with stages at the given sequences, a
// candidate, an opening and a pending application at the first stage.
func seedPipeline(t *testing.T, db *gorm.DB, names []string, sequences []int) fixture {
	t.Helper()
	var f fixture

	f.role = domain.Role{Name: "Backend Engineer", IsActive: true}
	require.NoError(t, db.Create(&f.role).Error)

	for i, name := range names {
		st := domain.Stage{Name: name, RoleID: f.role.ID, Sequence: sequences[i], IsActive: true}
		require.NoError(t, db.Create(&st).Error)
		f.stages = append(f.stages, st)
	}

	f.candidate = domain.Candidate{Name: "Ada Lovelace", Email: "ada@example.com", PhoneNumber: "+100"}
	require.NoError(t, db.Create(&f.candidate).Error)

	f.opening = domain.Opening{
		Title: "Go Developer", Description: "d", Requirements: "r", SalaryRange: "n/a",
		Location: "Remote", RoleID: f.role.ID, Deadline: time.Now().Add(720 * time.Hour),
	}
	require.NoError(t, db.Create(&f.opening).Error)

	f.app = domain.Application{
		CandidateID: f.candidate.ID, OpeningID: f.opening.ID, RoleID: f.role.ID,
		Status: domain.StatusPending, ApplicationDate: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	if len(f.stages) > 0 {
		// stages may be created out of sequence order
		first := f.stages[0]
		for _, st := range f.stages {
			if st.Sequence < first.Sequence {
				first = st
			}
		}
		f.app.CurrentStageID = first.ID
	}
	require.NoError(t, db.Create(&f.app).Error)
	return f
}

func reload(t *testing.T, db *gorm.DB, id uint) domain.Application {
	t.Helper()
	var app domain.Application
	require.NoError(t, db.First(&app, id).Error)
	return app
}
