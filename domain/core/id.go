package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// ReportID identifies a stored statistics report.
type ReportID ID

func NewReportID() ReportID { return ReportID(NewID()) }

func (id ReportID) String() string { return ID(id).String() }

// ParseReportID accepts only well-formed UUIDs so that lookups never reach the
// database with garbage.
func ParseReportID(s string) (ReportID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", NewInvalidArgumentError("report id", "cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: report id %q: %v", ErrInvalidArgument, s, err)
	}
	return ReportID(parsed.String()), nil
}
