package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"recruitment-tracker/domain"
	"recruitment-tracker/service/mocks"
)

func TestAdvance_ScreeningInterviewScenario(t *testing.T) {
	db := newTestDB(t)
	f := seedPipeline(t, db, []string{"Screening", "Interview"}, []int{1, 2})
	p := NewProgression(db, nil, quietLogger())
	ctx := context.Background()

	got, err := p.Advance(ctx, AdvanceRequest{ApplicationID: f.app.ID, Action: "next"})
	require.NoError(t, err)
	assert.Equal(t, f.stages[1].ID, got.CurrentStageID)
	assert.Equal(t, domain.StatusPending, got.Status)

	stored := reload(t, db, f.app.ID)
	assert.Equal(t, f.stages[1].ID, stored.CurrentStageID)
	assert.Equal(t, domain.StatusPending, stored.Status)

	got, err = p.Advance(ctx, AdvanceRequest{ApplicationID: f.app.ID, Action: "NEXT"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, got.Status)
	assert.Equal(t, f.stages[1].ID, got.CurrentStageID)

	stored = reload(t, db, f.app.ID)
	assert.Equal(t, domain.StatusAccepted, stored.Status)
	assert.Equal(t, f.stages[1].ID, stored.CurrentStageID)
}

func TestAdvance_OrdersBySequenceNotInsertion(t *testing.T) {
	db := newTestDB(t)
	// inserted out of order, with gaps
	f := seedPipeline(t, db, []string{"Offer", "Screening", "Interview"}, []int{30, 10, 20})
	p := NewProgression(db, nil, quietLogger())

	require.Equal(t, f.stages[1].ID, f.app.CurrentStageID)

	got, err := p.Advance(context.Background(), AdvanceRequest{ApplicationID: f.app.ID, Action: "next"})
	require.NoError(t, err)
	assert.Equal(t, f.stages[2].ID, got.CurrentStageID)

	got, err = p.Advance(context.Background(), AdvanceRequest{ApplicationID: f.app.ID, Action: "next"})
	require.NoError(t, err)
	assert.Equal(t, f.stages[0].ID, got.CurrentStageID)
}

func TestAdvance_RejectIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	f := seedPipeline(t, db, []string{"Screening", "Interview"}, []int{1, 2})
	p := NewProgression(db, nil, quietLogger())

	for i := 0; i < 2; i++ {
		got, err := p.Advance(context.Background(), AdvanceRequest{ApplicationID: f.app.ID, Action: "reject"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, got.Status)
		assert.Equal(t, f.stages[0].ID, got.CurrentStageID)
	}
	assert.Equal(t, domain.StatusRejected, reload(t, db, f.app.ID).Status)
}

func TestAdvance_RejectAfterAcceptance(t *testing.T) {
	db := newTestDB(t)
	f := seedPipeline(t, db, []string{"Only"}, []int{1})
	p := NewProgression(db, nil, quietLogger())

	got, err := p.Advance(context.Background(), AdvanceRequest{ApplicationID: f.app.ID, Action: "next"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, got.Status)

	got, err = p.Advance(context.Background(), AdvanceRequest{ApplicationID: f.app.ID, Action: "reject"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
}

func TestAdvance_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing application", func(t *testing.T) {
		db := newTestDB(t)
		p := NewProgression(db, nil, quietLogger())
		_, err := p.Advance(ctx, AdvanceRequest{ApplicationID: 404, Action: "next"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid action leaves row untouched", func(t *testing.T) {
		db := newTestDB(t)
		f := seedPipeline(t, db, []string{"Screening", "Interview"}, []int{1, 2})
		p := NewProgression(db, nil, quietLogger())

		_, err := p.Advance(ctx, AdvanceRequest{ApplicationID: f.app.ID, Action: "promote"})
		assert.ErrorIs(t, err, domain.ErrInvalidAction)

		stored := reload(t, db, f.app.ID)
		assert.Equal(t, f.app.CurrentStageID, stored.CurrentStageID)
		assert.Equal(t, domain.StatusPending, stored.Status)
	})

	t.Run("role without stages", func(t *testing.T) {
		db := newTestDB(t)
		f := seedPipeline(t, db, []string{"Screening"}, []int{1})
		require.NoError(t, db.Delete(&domain.Stage{}, f.stages[0].ID).Error)
		p := NewProgression(db, nil, quietLogger())

		_, err := p.Advance(ctx, AdvanceRequest{ApplicationID: f.app.ID, Action: "next"})
		assert.ErrorIs(t, err, domain.ErrNoStagesConfigured)
	})

	t.Run("current stage belongs to another role", func(t *testing.T) {
		db := newTestDB(t)
		f := seedPipeline(t, db, []string{"Screening", "Interview"}, []int{1, 2})
		other := domain.Role{Name: "Designer", IsActive: true}
		require.NoError(t, db.Create(&other).Error)
		foreign := domain.Stage{Name: "Portfolio", RoleID: other.ID, Sequence: 1}
		require.NoError(t, db.Create(&foreign).Error)
		require.NoError(t, db.Model(&domain.Application{}).Where("id = ?", f.app.ID).
			Update("current_stage_id", foreign.ID).Error)
		p := NewProgression(db, nil, quietLogger())

		_, err := p.Advance(ctx, AdvanceRequest{ApplicationID: f.app.ID, Action: "next"})
		assert.ErrorIs(t, err, domain.ErrStageNotInRole)
		assert.Equal(t, foreign.ID, reload(t, db, f.app.ID).CurrentStageID)
	})

	t.Run("next after acceptance", func(t *testing.T) {
		db := newTestDB(t)
		f := seedPipeline(t, db, []string{"Only"}, []int{1})
		p := NewProgression(db, nil, quietLogger())

		_, err := p.Advance(ctx, AdvanceRequest{ApplicationID: f.app.ID, Action: "next"})
		require.NoError(t, err)
		_, err = p.Advance(ctx, AdvanceRequest{ApplicationID: f.app.ID, Action: "next"})
		assert.ErrorIs(t, err, domain.ErrApplicationClosed)
		assert.Equal(t, domain.StatusAccepted, reload(t, db, f.app.ID).Status)
	})

	t.Run("stale expected stage", func(t *testing.T) {
		db := newTestDB(t)
		f := seedPipeline(t, db, []string{"Screening", "Interview"}, []int{1, 2})
		p := NewProgression(db, nil, quietLogger())

		stale := f.stages[1].ID
		_, err := p.Advance(ctx, AdvanceRequest{ApplicationID: f.app.ID, Action: "next", ExpectedStageID: &stale})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, f.stages[0].ID, reload(t, db, f.app.ID).CurrentStageID)
	})
}

func TestAdvance_PublishesCommittedChange(t *testing.T) {
	db := newTestDB(t)
	f := seedPipeline(t, db, []string{"Screening", "Interview"}, []int{1, 2})

	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)

	var published domain.StageChangeEvent
	pub.EXPECT().
		PublishStageChange(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev domain.StageChangeEvent) error {
			published = ev
			return nil
		}).
		Times(1)

	p := NewProgression(db, pub, quietLogger())
	_, err := p.Advance(context.Background(), AdvanceRequest{ApplicationID: f.app.ID, Action: "next"})
	require.NoError(t, err)

	assert.Equal(t, f.app.ID, published.ApplicationID)
	assert.Equal(t, domain.ActionNext, published.Action)
	assert.Equal(t, f.stages[0].ID, published.FromStageID)
	assert.Equal(t, f.stages[1].ID, published.ToStageID)
	assert.Equal(t, domain.StatusPending, published.ToStatus)
	assert.False(t, published.OccurredAt.IsZero())
}

func TestAdvance_PublishFailureDoesNotFailRequest(t *testing.T) {
	db := newTestDB(t)
	f := seedPipeline(t, db, []string{"Screening", "Interview"}, []int{1, 2})

	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)
	pub.EXPECT().PublishStageChange(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	p := NewProgression(db, pub, quietLogger())
	got, err := p.Advance(context.Background(), AdvanceRequest{ApplicationID: f.app.ID, Action: "reject"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
}

func TestAdvance_NoEventOnFailure(t *testing.T) {
	db := newTestDB(t)
	f := seedPipeline(t, db, []string{"Screening"}, []int{1})

	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)
	pub.EXPECT().PublishStageChange(gomock.Any(), gomock.Any()).Times(0)

	p := NewProgression(db, pub, quietLogger())
	_, err := p.Advance(context.Background(), AdvanceRequest{ApplicationID: f.app.ID, Action: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
}

// Another writer moves the application after the engine has read it but
// before its conditional update runs.
func TestAdvance_ConcurrentWriterLoses(t *testing.T) {
	db := newTestDB(t)
	f := seedPipeline(t, db, []string{"Screening", "Interview", "Offer"}, []int{1, 2, 3})

	var fired bool
	err := db.Callback().Update().Before("gorm:update").Register("test:concurrent_writer", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "applications" {
			return
		}
		fired = true
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"UPDATE applications SET current_stage_id = ? WHERE id = ?", f.stages[2].ID, f.app.ID)
		require.NoError(t, err)
	})
	require.NoError(t, err)

	p := NewProgression(db, nil, quietLogger())
	got, err := p.Advance(context.Background(), AdvanceRequest{ApplicationID: f.app.ID, Action: "next"})
	require.True(t, fired)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Nil(t, got)

	// the engine wrote nothing
	stored := reload(t, db, f.app.ID)
	assert.Equal(t, f.stages[0].ID, stored.CurrentStageID)
	assert.Equal(t, domain.StatusPending, stored.Status)

	// once nothing interferes the same request goes through
	got, err = p.Advance(context.Background(), AdvanceRequest{ApplicationID: f.app.ID, Action: "next"})
	require.NoError(t, err)
	assert.Equal(t, f.stages[1].ID, got.CurrentStageID)
}
