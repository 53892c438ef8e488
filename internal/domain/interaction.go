package domain

import (
	"context"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityMajor    Severity = "major"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// Rank orders severities; higher is worse. Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityMajor:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 1
	}
	return 0
}

// Interaction is a known interaction between two subjects. Subjects are remedy
// IDs or normalized medication names and classes.
type Interaction struct {
	ID             uuid.UUID `json:"id"`
	SubjectA       string    `json:"subjectA"`
	SubjectB       string    `json:"subjectB"`
	Severity       Severity  `json:"severity"`
	Description    string    `json:"description"`
	Recommendation string    `json:"recommendation"`
}

type InteractionRepository interface {
	All(ctx context.Context) ([]Interaction, error)
	Upsert(ctx context.Context, interaction *Interaction) error
}
