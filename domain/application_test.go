package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeline() []Stage {
	return []Stage{
		{ID: 11, Name: "Screening", RoleID: 1, Sequence: 1},
		{ID: 12, Name: "Interview", RoleID: 1, Sequence: 2},
		{ID: 13, Name: "Offer", RoleID: 1, Sequence: 5},
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{in: "next", want: ActionNext},
		{in: "NEXT", want: ActionNext},
		{in: "Reject", want: ActionReject},
		{in: "approve", wantErr: true},
		{in: "", wantErr: true},
		{in: " next", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAction)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("PENDING")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)

	st, err = ParseStatus("accepted")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, st)

	_, err = ParseStatus("hired")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, Status("").IsTerminal())
	assert.False(t, Status("").Valid())
	assert.True(t, StatusPending.Valid())
}

func TestAdvance_NextMovesToSuccessor(t *testing.T) {
	app := Application{ID: 1, RoleID: 1, CurrentStageID: 11, Status: StatusPending}

	got, err := Advance(app, ActionNext, pipeline())
	require.NoError(t, err)
	assert.Equal(t, uint(12), got.CurrentStageID)
	assert.Equal(t, StatusPending, got.Status)

	// gaps in sequence are fine
	got, err = Advance(got, ActionNext, pipeline())
	require.NoError(t, err)
	assert.Equal(t, uint(13), got.CurrentStageID)
	assert.Equal(t, StatusPending, got.Status)
}

func TestAdvance_NextOnLastStageAccepts(t *testing.T) {
	app := Application{ID: 1, RoleID: 1, CurrentStageID: 13, Status: StatusPending}

	got, err := Advance(app, ActionNext, pipeline())
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)
	assert.Equal(t, uint(13), got.CurrentStageID)
}

func TestAdvance_NextFailures(t *testing.T) {
	t.Run("no stages", func(t *testing.T) {
		app := Application{ID: 1, RoleID: 1, CurrentStageID: 11, Status: StatusPending}
		_, err := Advance(app, ActionNext, nil)
		assert.ErrorIs(t, err, ErrNoStagesConfigured)
	})
	t.Run("stage from another role", func(t *testing.T) {
		app := Application{ID: 1, RoleID: 1, CurrentStageID: 99, Status: StatusPending}
		_, err := Advance(app, ActionNext, pipeline())
		assert.ErrorIs(t, err, ErrStageNotInRole)
	})
	t.Run("terminal status", func(t *testing.T) {
		for _, st := range []Status{StatusAccepted, StatusRejected} {
			app := Application{ID: 1, RoleID: 1, CurrentStageID: 13, Status: st}
			got, err := Advance(app, ActionNext, pipeline())
			assert.ErrorIs(t, err, ErrApplicationClosed)
			assert.Equal(t, app, got)
		}
	})
	t.Run("unknown stored status", func(t *testing.T) {
		app := Application{ID: 1, RoleID: 1, CurrentStageID: 11, Status: Status("HIRED")}
		var got Application
		var err error
		assert.NotPanics(t, func() { got, err = Advance(app, ActionNext, pipeline()) })
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, app, got)
	})
	t.Run("unknown action", func(t *testing.T) {
		app := Application{ID: 1, RoleID: 1, CurrentStageID: 11, Status: StatusPending}
		_, err := Advance(app, Action("skip"), pipeline())
		assert.ErrorIs(t, err, ErrInvalidAction)
	})
}

func TestAdvance_RejectFromAnyStatus(t *testing.T) {
	for _, st := range []Status{StatusPending, StatusAccepted, StatusRejected} {
		app := Application{ID: 1, RoleID: 1, CurrentStageID: 12, Status: st}

		got, err := Advance(app, ActionReject, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, got.Status)
		assert.Equal(t, uint(12), got.CurrentStageID)

		again, err := Advance(got, ActionReject, nil)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	app := Application{ID: 1, RoleID: 1, CurrentStageID: 11, Status: StatusPending}
	_, err := Advance(app, ActionNext, pipeline())
	require.NoError(t, err)
	assert.Equal(t, uint(11), app.CurrentStageID)
}
