package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"elena/residency_alerts/model"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DefaultSchema holds the history tables
const DefaultSchema = "residency_alerts"

var schemaName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store keeps one row per pipeline run and one per reported employee
type Store struct {
	db     *sql.DB
	schema string
	tag    string
}

// Open connects to Postgres and creates the history tables when missing
func Open(ctx context.Context, url, schema, tag string) (*Store, error) {
	schema, err := sanitizeSchema(schema)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db, schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, schema: schema, tag: tag}, nil
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores the run and returns its id
func (s *Store) Record(ctx context.Context, run model.Run) (string, error) {
	runID := uuid.New()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}

	deliveryErr := ""
	if run.DeliveryErr != nil {
		deliveryErr = run.DeliveryErr.Error()
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s.alert_runs (
			id, as_of, report_kind, outcome, total_employees,
			expired_count, expiring_count, urgent_count, warning_count,
			subject, delivery_error, run_tag
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8,$9,
			$10,$11,$12
		)`, s.schema),
		runID,
		civilDate(run.AsOf),
		string(run.Kind),
		string(run.Outcome),
		run.Summary.Total,
		run.Summary.Expired,
		run.Summary.Expiring,
		run.Summary.ByTier[model.TierUrgent],
		run.Summary.ByTier[model.TierWarning],
		nullString(run.Report.Subject),
		nullString(deliveryErr),
		nullString(s.tag),
	)
	if err != nil {
		_ = tx.Rollback()
		return "", err
	}

	insertEmployeeSQL := fmt.Sprintf(`
		INSERT INTO %s.alert_run_employees (
			id, run_id, staff_no, name, card_number,
			card_expiry, days_until_expiry, tier
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8
		)`, s.schema)

	for _, e := range run.Reported {
		_, err = tx.ExecContext(ctx, insertEmployeeSQL,
			uuid.New(),
			runID,
			e.StaffNo,
			nullString(e.Name),
			nullString(e.CardNumber),
			nullDate(e.CardExpiry),
			e.DaysUntilExpiry,
			string(model.TierOf(e.DaysUntilExpiry)),
		)
		if err != nil {
			_ = tx.Rollback()
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID.String(), nil
}

// LastRun returns the outcome and as-of day of the most recent run of kind
func (s *Store) LastRun(ctx context.Context, kind model.ReportKind) (model.RunOutcome, time.Time, error) {
	var outcome string
	var asOf time.Time
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT outcome, as_of FROM %s.alert_runs
		WHERE report_kind = $1
		ORDER BY created_at DESC
		LIMIT 1`, s.schema), string(kind)).Scan(&outcome, &asOf)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, err
	}
	return model.RunOutcome(outcome), asOf, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, schema string) error {
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, schema)); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.alert_runs (
			id uuid PRIMARY KEY,
			as_of date NOT NULL,
			report_kind text NOT NULL,
			outcome text NOT NULL,
			total_employees integer NOT NULL,
			expired_count integer NOT NULL,
			expiring_count integer NOT NULL,
			urgent_count integer NOT NULL,
			warning_count integer NOT NULL,
			subject text,
			delivery_error text,
			run_tag text,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.alert_run_employees (
			id uuid PRIMARY KEY,
			run_id uuid NOT NULL REFERENCES %s.alert_runs(id) ON DELETE CASCADE,
			staff_no text NOT NULL,
			name text,
			card_number text,
			card_expiry date,
			days_until_expiry integer NOT NULL,
			tier text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema, schema))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_alert_run_employees_run_idx ON %s.alert_run_employees (run_id)`, schema, schema))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_alert_runs_kind_idx ON %s.alert_runs (report_kind, created_at)`, schema, schema))
	return err
}

func sanitizeSchema(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("db schema is required")
	}
	if !schemaName.MatchString(value) {
		return "", fmt.Errorf("invalid schema name: %s", value)
	}
	return value, nil
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullDate(value time.Time) sql.NullTime {
	if value.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: civilDate(value), Valid: true}
}

// civilDate keeps the calendar day of value regardless of its location
func civilDate(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}
