package stepper

import (
	"fmt"

	"employee-onboarding/internal/common/errors"
	"employee-onboarding/internal/onboarding/section"
	"employee-onboarding/internal/onboarding/submitter"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusInvalid   Status = "invalid"
	StatusFailed    Status = "failed"
)

// Outcome describes one Advance call for display.
type Outcome struct {
	Section     section.ID
	Status      Status
	Message     string
	Description string
	Fields      map[string]string
	Notice      *errors.Notice
	Completed   bool
}

func savedOutcome(id section.ID, action submitter.Action) Outcome {
	title := id.Title()
	switch action {
	case submitter.ActionCreated:
		return Outcome{
			Section:     id,
			Status:      StatusSubmitted,
			Message:     "Section Submitted Successfully!",
			Description: fmt.Sprintf("%s has been submitted successfully.", title),
		}
	case submitter.ActionUpdated:
		return Outcome{
			Section:     id,
			Status:      StatusUpdated,
			Message:     "Section Updated Successfully!",
			Description: fmt.Sprintf("%s has been updated successfully.", title),
		}
	}
	return Outcome{
		Section:     id,
		Status:      StatusUnchanged,
		Message:     "No Changes Detected",
		Description: fmt.Sprintf("%s data is already up to date.", title),
	}
}
