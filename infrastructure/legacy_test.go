package infrastructure

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-tracker/domain"
)

const legacySchema = `
CREATE TABLE roles (role_id INTEGER PRIMARY KEY, role_name VARCHAR(100) NOT NULL, description TEXT,
	is_active BOOLEAN, created_at DATETIME, updated_at DATETIME);
CREATE TABLE openings (opening_id INTEGER PRIMARY KEY, title VARCHAR(200) NOT NULL, description TEXT NOT NULL,
	requirements TEXT NOT NULL, salary_range VARCHAR(100) NOT NULL, location VARCHAR(100) NOT NULL, is_remote BOOLEAN,
	is_active BOOLEAN, posted_date DATETIME, deadline DATETIME NOT NULL, role_id INTEGER NOT NULL, experience_required INTEGER);
CREATE TABLE stages (stage_id INTEGER PRIMARY KEY, stage_name VARCHAR(100) NOT NULL, role_id INTEGER NOT NULL,
	stage_sequence INTEGER NOT NULL);
CREATE TABLE candidates (candidate_id INTEGER PRIMARY KEY, photo VARCHAR(255), candidate_name VARCHAR(100) NOT NULL,
	email VARCHAR(100) NOT NULL, phone_number VARCHAR(20) NOT NULL, created_at DATETIME, updated_at DATETIME);
CREATE TABLE applications (application_id INTEGER PRIMARY KEY, candidate_id INTEGER NOT NULL, opening_id INTEGER NOT NULL,
	role_id INTEGER NOT NULL, current_stage INTEGER NOT NULL, status VARCHAR(8) NOT NULL, rating INTEGER,
	attachments VARCHAR(255), application_date DATETIME);
CREATE TABLE experiences (experience_id INTEGER PRIMARY KEY, application_id INTEGER NOT NULL, company_name VARCHAR(100) NOT NULL,
	position VARCHAR(100) NOT NULL, description TEXT, start_date DATE NOT NULL, end_date DATE);

INSERT INTO roles VALUES (7, 'Data Engineer', 'Pipelines', 1, '2024-05-01 10:00:00.000000', '2024-05-01 10:00:00.000000');
INSERT INTO openings VALUES (3, 'Senior Data Engineer', 'd', 'r', '100-120k', 'Jakarta', 0, 1,
	'2024-05-02 08:30:00', '2024-07-01 00:00:00', 7, 4);
INSERT INTO stages VALUES (11, 'Screening', 7, 1);
INSERT INTO stages VALUES (12, 'Interview', 7, 2);
INSERT INTO candidates VALUES (5, NULL, 'Grace Hopper', 'grace@example.com', '+62800', '2024-05-03 09:00:00', NULL);
INSERT INTO applications VALUES (21, 5, 3, 7, 12, 'PENDING', 4, 'cv.pdf', '2024-05-04 12:15:00.123456');
INSERT INTO applications VALUES (22, 5, 3, 7, 11, 'ON_HOLD', NULL, NULL, '2024-05-05 12:15:00');
INSERT INTO experiences VALUES (1, 21, 'Acme', 'Analyst', NULL, '2019-02-01', NULL);
`

func writeLegacyDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(legacySchema)
	require.NoError(t, err)
	return path
}

func TestImportLegacy(t *testing.T) {
	src, err := OpenLegacy(writeLegacyDB(t))
	require.NoError(t, err)
	defer src.Close()

	dst := newTestDB(t)
	ctx := context.Background()

	reports := ImportLegacy(ctx, src, dst, quietLogger())
	require.Len(t, reports, 6)

	byTable := map[string]TableReport{}
	for _, r := range reports {
		require.NoError(t, r.Err, r.Table)
		byTable[r.Table] = r
	}
	assert.Equal(t, []string{"roles", "openings", "stages", "candidates", "applications", "experiences"},
		[]string{reports[0].Table, reports[1].Table, reports[2].Table, reports[3].Table, reports[4].Table, reports[5].Table})
	assert.Equal(t, 1, byTable["roles"].Copied)
	assert.Equal(t, 2, byTable["stages"].Copied)
	assert.Equal(t, 1, byTable["applications"].Copied)
	assert.Equal(t, 1, byTable["applications"].Failed, "unknown status is rejected")
	assert.Equal(t, 1, byTable["experiences"].Copied)

	var app domain.Application
	require.NoError(t, dst.First(&app, 21).Error)
	assert.Equal(t, domain.StatusPending, app.Status)
	assert.EqualValues(t, 12, app.CurrentStageID)
	require.NotNil(t, app.Rating)
	assert.Equal(t, 4, *app.Rating)
	assert.Equal(t, 2024, app.ApplicationDate.Year())
	assert.Equal(t, 4, app.ApplicationDate.Day())

	var role domain.Role
	require.NoError(t, dst.First(&role, 7).Error)
	assert.Equal(t, "Data Engineer", role.Name)

	var exp domain.Experience
	require.NoError(t, dst.First(&exp, 1).Error)
	assert.Nil(t, exp.EndDate)
	assert.Equal(t, 2019, exp.StartDate.Year())

	// rerunning skips everything already present
	again := ImportLegacy(ctx, src, dst, quietLogger())
	for _, r := range again {
		require.NoError(t, r.Err, r.Table)
		assert.Zero(t, r.Copied, r.Table)
	}
	assert.Equal(t, 2, again[2].Skipped)

	// new rows continue after the imported ids
	stage := domain.Stage{Name: "Offer", RoleID: 7, Sequence: 3, IsActive: true}
	require.NoError(t, dst.Create(&stage).Error)
	assert.Greater(t, stage.ID, uint(12))
}

func TestSequenceResetSQL(t *testing.T) {
	assert.Equal(t,
		`SELECT setval(pg_get_serial_sequence('stages', 'id'), COALESCE(MAX(id), 1)) FROM stages`,
		sequenceResetSQL("postgres", "stages"))
	assert.Empty(t, sequenceResetSQL("sqlite", "stages"))
	assert.Empty(t, sequenceResetSQL("mysql", "stages"))
}

func TestLegacyTime(t *testing.T) {
	for _, in := range []string{
		"2024-05-04 12:15:00.123456",
		"2024-05-04 12:15:00",
		"2024-05-04",
		"2024-05-04T12:15:00Z",
	} {
		got, err := legacyTime(sql.NullString{String: in, Valid: true})
		require.NoError(t, err, in)
		require.NotNil(t, got, in)
		assert.Equal(t, 4, got.Day(), in)
	}

	got, err := legacyTime(sql.NullString{})
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = legacyTime(sql.NullString{String: "04/05/2024", Valid: true})
	assert.Error(t, err)
}
