package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"godescribe/domain/core"
	"godescribe/domain/stats/describe"
	"godescribe/internal/errors"
	"godescribe/ports"

	"github.com/jmoiron/sqlx"
)

// reportRow mirrors a describe_reports row
type reportRow struct {
	ID          string    `db:"id"`
	Fingerprint string    `db:"fingerprint"`
	LabelColumn string    `db:"label_column"`
	ColumnCount int       `db:"column_count"`
	Payload     string    `db:"payload"`
	CreatedAt   time.Time `db:"created_at"`
}

// reportRepository implements the ReportRepository interface
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &reportRepository{db: db}
}

// Save inserts a report; saving the same id twice keeps the first row
func (r *reportRepository) Save(ctx context.Context, report *ports.StoredReport) error {
	row, err := toRow(report)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO describe_reports (id, fingerprint, label_column, column_count, payload, created_at)
		VALUES (:id, :fingerprint, :label_column, :column_count, CAST(:payload AS JSONB), :created_at)
		ON CONFLICT (id) DO NOTHING
	`, row)
	if err != nil {
		return errors.DatabaseError("failed to save report", err)
	}
	return nil
}

// GetByID retrieves a report by its ID
func (r *reportRepository) GetByID(ctx context.Context, id core.ReportID) (*ports.StoredReport, error) {
	var row reportRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, fingerprint, label_column, column_count, payload, created_at
		FROM describe_reports WHERE id = $1
	`, id.String())
	if err != nil {
		return nil, lookupError(err, id.String(), "failed to get report")
	}
	return fromRow(row)
}

// GetByFingerprint retrieves the newest report for a table fingerprint
func (r *reportRepository) GetByFingerprint(ctx context.Context, fp core.Fingerprint, labelColumn string) (*ports.StoredReport, error) {
	var row reportRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, fingerprint, label_column, column_count, payload, created_at
		FROM describe_reports
		WHERE fingerprint = $1 AND label_column = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, fp.String(), labelColumn)
	if err != nil {
		return nil, lookupError(err, "fingerprint "+fp.Short(), "failed to get report by fingerprint")
	}
	return fromRow(row)
}

// lookupError maps a missing row to NOT_FOUND and anything else to
// DATABASE_ERROR
func lookupError(err error, what, message string) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w: %s", core.ErrReportNotFound, what))
	}
	return errors.DatabaseError(message, err)
}

func toRow(report *ports.StoredReport) (reportRow, error) {
	if report == nil || report.Report == nil {
		return reportRow{}, errors.InvalidInput("report is required")
	}
	payload, err := json.Marshal(report.Report)
	if err != nil {
		return reportRow{}, fmt.Errorf("failed to marshal report: %w", err)
	}
	createdAt := report.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return reportRow{
		ID:          report.ID.String(),
		Fingerprint: report.Fingerprint.String(),
		LabelColumn: report.LabelColumn,
		ColumnCount: report.Report.Len(),
		Payload:     string(payload),
		CreatedAt:   createdAt,
	}, nil
}

func fromRow(row reportRow) (*ports.StoredReport, error) {
	var report describe.Report
	if err := json.Unmarshal([]byte(row.Payload), &report); err != nil {
		return nil, errors.Wrapf(err, "failed to decode report %s", row.ID)
	}
	return &ports.StoredReport{
		ID:          core.ReportID(row.ID),
		Fingerprint: core.Fingerprint(row.Fingerprint),
		LabelColumn: row.LabelColumn,
		Report:      &report,
		CreatedAt:   row.CreatedAt,
	}, nil
}
