package ports

import (
	"context"
	"time"

	"godescribe/domain/core"
	"godescribe/domain/stats/describe"
)

// StoredReport is a statistics report together with its storage metadata
type StoredReport struct {
	ID          core.ReportID
	Fingerprint core.Fingerprint
	LabelColumn string
	Report      *describe.Report
	CreatedAt   time.Time
}

// ReportRepository persists computed reports
type ReportRepository interface {
	Save(ctx context.Context, report *StoredReport) error
	// GetByID returns core.ErrReportNotFound when no report has the id
	GetByID(ctx context.Context, id core.ReportID) (*StoredReport, error)
	// GetByFingerprint returns the newest report computed for a table with
	// the given fingerprint and label column
	GetByFingerprint(ctx context.Context, fp core.Fingerprint, labelColumn string) (*StoredReport, error)
}
