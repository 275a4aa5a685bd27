package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"recruitment-tracker/domain"
)

// TableReport counts the outcome of copying one legacy table.
type TableReport struct {
	Table   string
	Copied  int
	Skipped int
	Failed  int
	Err     error
}

// legacyTable reads one table with a fixed column list and converts each
// row into a domain entity.
type legacyTable struct {
	name  string
	query string
	scan  func(rows *sql.Rows) (id uint, record interface{}, err error)
	model interface{}
}

var legacyTables = []legacyTable{
	{
		name:  "roles",
		query: `SELECT role_id, role_name, description, is_active, created_at, updated_at FROM roles`,
		model: &domain.Role{},
		scan: func(rows *sql.Rows) (uint, interface{}, error) {
			var (
				id               int64
				name             string
				desc             sql.NullString
				active           sql.NullBool
				created, updated sql.NullString
			)
			if err := rows.Scan(&id, &name, &desc, &active, &created, &updated); err != nil {
				return 0, nil, err
			}
			r := &domain.Role{
				ID:          uint(id),
				Name:        name,
				Description: nullString(desc),
				IsActive:    !active.Valid || active.Bool,
			}
			var err error
			if r.CreatedAt, err = legacyTimeOrZero(created); err != nil {
				return 0, nil, err
			}
			if r.UpdatedAt, err = legacyTimeOrZero(updated); err != nil {
				return 0, nil, err
			}
			return r.ID, r, nil
		},
	},
	{
		name: "openings",
		query: `SELECT opening_id, title, description, requirements, salary_range, location, is_remote, is_active,
			posted_date, deadline, role_id, experience_required FROM openings`,
		model: &domain.Opening{},
		scan: func(rows *sql.Rows) (uint, interface{}, error) {
			var (
				id, roleID                     int64
				title, desc, reqs, salary, loc string
				remote, active                 sql.NullBool
				posted, deadline               sql.NullString
				expRequired                    sql.NullInt64
			)
			if err := rows.Scan(&id, &title, &desc, &reqs, &salary, &loc, &remote, &active, &posted, &deadline, &roleID, &expRequired); err != nil {
				return 0, nil, err
			}
			o := &domain.Opening{
				ID:                 uint(id),
				Title:              title,
				Description:        desc,
				Requirements:       reqs,
				SalaryRange:        salary,
				Location:           loc,
				IsRemote:           remote.Valid && remote.Bool,
				IsActive:           !active.Valid || active.Bool,
				RoleID:             uint(roleID),
				ExperienceRequired: int(expRequired.Int64),
			}
			var err error
			if o.PostedDate, err = legacyTimeOrZero(posted); err != nil {
				return 0, nil, err
			}
			if o.Deadline, err = legacyTimeOrZero(deadline); err != nil {
				return 0, nil, err
			}
			return o.ID, o, nil
		},
	},
	{
		name:  "stages",
		query: `SELECT stage_id, stage_name, role_id, stage_sequence FROM stages`,
		model: &domain.Stage{},
		scan: func(rows *sql.Rows) (uint, interface{}, error) {
			var id, roleID, seq int64
			var name string
			if err := rows.Scan(&id, &name, &roleID, &seq); err != nil {
				return 0, nil, err
			}
			return uint(id), &domain.Stage{ID: uint(id), Name: name, RoleID: uint(roleID), Sequence: int(seq), IsActive: true}, nil
		},
	},
	{
		name:  "candidates",
		query: `SELECT candidate_id, photo, candidate_name, email, phone_number, created_at, updated_at FROM candidates`,
		model: &domain.Candidate{},
		scan: func(rows *sql.Rows) (uint, interface{}, error) {
			var (
				id                 int64
				photo              sql.NullString
				name, email, phone string
				created, updated   sql.NullString
			)
			if err := rows.Scan(&id, &photo, &name, &email, &phone, &created, &updated); err != nil {
				return 0, nil, err
			}
			c := &domain.Candidate{ID: uint(id), Photo: nullString(photo), Name: name, Email: email, PhoneNumber: phone}
			var err error
			if c.CreatedAt, err = legacyTimeOrZero(created); err != nil {
				return 0, nil, err
			}
			if c.UpdatedAt, err = legacyTimeOrZero(updated); err != nil {
				return 0, nil, err
			}
			return c.ID, c, nil
		},
	},
	{
		name: "applications",
		query: `SELECT application_id, candidate_id, opening_id, role_id, current_stage, status, rating, attachments,
			application_date FROM applications`,
		model: &domain.Application{},
		scan: func(rows *sql.Rows) (uint, interface{}, error) {
			var (
				id, candidateID, openingID, roleID, stageID int64
				status                                      string
				rating                                      sql.NullInt64
				attachments, appliedAt                      sql.NullString
			)
			if err := rows.Scan(&id, &candidateID, &openingID, &roleID, &stageID, &status, &rating, &attachments, &appliedAt); err != nil {
				return 0, nil, err
			}
			st, err := domain.ParseStatus(status)
			if err != nil {
				return 0, nil, err
			}
			a := &domain.Application{
				ID:             uint(id),
				CandidateID:    uint(candidateID),
				OpeningID:      uint(openingID),
				RoleID:         uint(roleID),
				CurrentStageID: uint(stageID),
				Status:         st,
				Attachments:    nullString(attachments),
			}
			if rating.Valid {
				v := int(rating.Int64)
				a.Rating = &v
			}
			if a.ApplicationDate, err = legacyTimeOrZero(appliedAt); err != nil {
				return 0, nil, err
			}
			return a.ID, a, nil
		},
	},
	{
		name: "experiences",
		query: `SELECT experience_id, application_id, company_name, position, description, start_date, end_date
			FROM experiences`,
		model: &domain.Experience{},
		scan: func(rows *sql.Rows) (uint, interface{}, error) {
			var (
				id, applicationID int64
				company, position string
				desc, start, end  sql.NullString
			)
			if err := rows.Scan(&id, &applicationID, &company, &position, &desc, &start, &end); err != nil {
				return 0, nil, err
			}
			e := &domain.Experience{
				ID:            uint(id),
				ApplicationID: uint(applicationID),
				CompanyName:   company,
				Position:      position,
				Description:   nullString(desc),
			}
			var err error
			if e.StartDate, err = legacyTimeOrZero(start); err != nil {
				return 0, nil, err
			}
			if e.EndDate, err = legacyTime(end); err != nil {
				return 0, nil, err
			}
			return e.ID, e, nil
		},
	},
}

// OpenLegacy opens a legacy SQLite database read-only.
func OpenLegacy(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to legacy database: %w", err)
	}
	return db, nil
}

// ImportLegacy copies every legacy table into dst, keeping primary keys.
// Rows whose id already exists in dst are skipped. A table that cannot be
// read is reported and the import moves on to the next one.
func ImportLegacy(ctx context.Context, src *sql.DB, dst *gorm.DB, log *logrus.Logger) []TableReport {
	reports := make([]TableReport, 0, len(legacyTables))
	for _, table := range legacyTables {
		report := importTable(ctx, src, dst.WithContext(ctx), table, log)
		fields := logrus.Fields{"table": report.Table, "copied": report.Copied, "skipped": report.Skipped, "failed": report.Failed}
		if report.Err != nil {
			log.WithFields(fields).WithError(report.Err).Error("legacy table import failed")
		} else {
			log.WithFields(fields).Info("legacy table imported")
		}
		reports = append(reports, report)
	}
	return reports
}

func importTable(ctx context.Context, src *sql.DB, dst *gorm.DB, table legacyTable, log *logrus.Logger) TableReport {
	report := TableReport{Table: table.name}

	rows, err := src.QueryContext(ctx, table.query)
	if err != nil {
		report.Err = fmt.Errorf("failed to read %s: %w", table.name, err)
		return report
	}
	defer rows.Close()

	for rows.Next() {
		id, record, err := table.scan(rows)
		if err != nil {
			report.Failed++
			log.WithError(err).WithField("table", table.name).Warn("failed to convert legacy row")
			continue
		}

		var count int64
		if err := dst.Model(table.model).Where("id = ?", id).Count(&count).Error; err != nil {
			report.Err = err
			return report
		}
		if count > 0 {
			report.Skipped++
			continue
		}

		if err := dst.Create(record).Error; err != nil {
			report.Failed++
			log.WithError(err).WithFields(logrus.Fields{"table": table.name, "id": id}).Warn("failed to insert legacy row")
			continue
		}
		report.Copied++
	}
	if err := rows.Err(); err != nil {
		report.Err = err
		return report
	}

	if stmt := sequenceResetSQL(dst.Dialector.Name(), table.name); stmt != "" && report.Copied > 0 {
		if err := dst.Exec(stmt).Error; err != nil {
			report.Err = fmt.Errorf("failed to reset %s id sequence: %w", table.name, err)
		}
	}
	return report
}

// sequenceResetSQL moves a postgres identity sequence past the highest
// imported id. Other dialects derive the next id from the table itself.
func sequenceResetSQL(dialect, table string) string {
	if dialect != "postgres" {
		return ""
	}
	return fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 1)) FROM %[1]s`, table)
}

var legacyLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339Nano,
}

func legacyTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	for _, layout := range legacyLayouts {
		if t, err := time.Parse(layout, v.String); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("could not parse date " + v.String)
}

func legacyTimeOrZero(v sql.NullString) (time.Time, error) {
	t, err := legacyTime(v)
	if err != nil || t == nil {
		return time.Time{}, err
	}
	return *t, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
