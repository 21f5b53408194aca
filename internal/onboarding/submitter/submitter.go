// Package submitter sends one section to the backend, choosing create or
// update and skipping unchanged data.
package submitter

import (
	"context"

	"employee-onboarding/internal/common/errors"
	"employee-onboarding/internal/common/logger"
	"employee-onboarding/internal/common/metrics"
	"employee-onboarding/internal/onboarding/backend"
	"employee-onboarding/internal/onboarding/changedetect"
	"employee-onboarding/internal/onboarding/section"
	"employee-onboarding/internal/onboarding/session"
	"employee-onboarding/internal/onboarding/tracker"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionSkipped Action = "skipped"
)

// Request is one submission attempt. State is the tracker entry at the
// time of the call; submitters never mutate the tracker themselves.
type Request struct {
	Subject string
	Record  section.Record
	State   tracker.State
}

// Result is applied to the tracker by the caller. SubjectID is only set
// by the lead section.
type Result struct {
	RemoteID  string
	SubjectID string
	Action    Action
	Snapshot  section.Record
}

type Submitter interface {
	Section() section.ID
	Submit(ctx context.Context, req Request) (Result, error)
}

type Dependencies struct {
	API     backend.API
	Store   session.Store
	Catalog *section.Catalog
	Logger  logger.Logger
}

// New returns one submitter per section.
func New(deps Dependencies) map[section.ID]Submitter {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	if deps.Catalog == nil {
		deps.Catalog = section.DefaultCatalog()
	}
	return map[section.ID]Submitter{
		section.Personal:   &personalSubmitter{base: newBase(section.Personal, deps), store: deps.Store},
		section.Address:    &ownIDSubmitter{base: newBase(section.Address, deps)},
		section.OfficialID: &officialIDSubmitter{base: newBase(section.OfficialID, deps)},
		section.Education:  &ownIDSubmitter{base: newBase(section.Education, deps)},
		section.Documents:  &documentsSubmitter{base: newBase(section.Documents, deps), catalog: deps.Catalog},
	}
}

type base struct {
	id     section.ID
	api    backend.API
	logger logger.Logger
}

func newBase(id section.ID, deps Dependencies) base {
	return base{
		id:     id,
		api:    deps.API,
		logger: deps.Logger.With(map[string]interface{}{"section": string(id)}),
	}
}

func (b base) Section() section.ID { return b.id }

// unchanged short-circuits a submitted section whose data matches its
// baseline.
func (b base) unchanged(req Request) (Result, bool) {
	if !req.State.Submitted || !changedetect.IsUnchanged(req.Record, req.State.Snapshot) {
		return Result{}, false
	}
	b.logger.Debug("Section unchanged, skipping backend call", map[string]interface{}{
		"remoteId": req.State.RemoteID,
	})
	metrics.SectionSubmissions.WithLabelValues(string(b.id), string(ActionSkipped)).Inc()
	return Result{
		RemoteID: req.State.RemoteID,
		Action:   ActionSkipped,
		Snapshot: req.State.Snapshot,
	}, true
}

func (b base) requireSubject(req Request) error {
	if req.Subject == "" {
		return errors.NewSubjectRequiredError(string(b.id))
	}
	return nil
}

func (b base) checkRecord(req Request) error {
	if req.Record == nil || req.Record.Section() != b.id {
		return errors.NewInvalidStepError("record does not belong to section " + string(b.id))
	}
	return nil
}

func (b base) succeeded(action Action, remoteID string, req Request) Result {
	metrics.SectionSubmissions.WithLabelValues(string(b.id), string(action)).Inc()
	b.logger.Info("Section saved", map[string]interface{}{
		"action":   string(action),
		"remoteId": remoteID,
	})
	return Result{RemoteID: remoteID, Action: action, Snapshot: req.Record.Clone()}
}

func (b base) failed(op string, err error) error {
	stdErr := errors.Normalize(err)
	metrics.SectionFailures.WithLabelValues(string(b.id), string(stdErr.Code)).Inc()
	b.logger.Warn("Section submission failed", map[string]interface{}{
		"operation": op,
		"errorCode": string(stdErr.Code),
		"status":    stdErr.Status,
		"details":   stdErr.Details,
	})
	return stdErr
}
