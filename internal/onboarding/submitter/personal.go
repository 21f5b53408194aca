package submitter

import (
	"context"

	"employee-onboarding/internal/common/errors"
	"employee-onboarding/internal/onboarding/session"
)

// personalSubmitter handles the lead section. Its first create yields
// the subject id, which is persisted for resume. Updates are addressed by
// the subject id.
type personalSubmitter struct {
	base
	store session.Store
}

func (s *personalSubmitter) Submit(ctx context.Context, req Request) (Result, error) {
	if err := s.checkRecord(req); err != nil {
		return Result{}, err
	}
	if res, ok := s.unchanged(req); ok {
		res.SubjectID = req.Subject
		return res, nil
	}

	if !req.State.Submitted {
		id, err := s.api.Create(ctx, req.Record, "")
		if err != nil {
			return Result{}, s.failed("create", err)
		}
		if id == "" {
			return Result{}, s.failed("create", errors.NewMissingIDError(string(s.id)))
		}
		if s.store != nil {
			if err := s.store.Save(ctx, id); err != nil {
				// the in-memory subject still lets the form continue
				s.logger.Warn("Failed to persist subject id", map[string]interface{}{"error": err.Error()})
			}
		}
		res := s.succeeded(ActionCreated, id, req)
		res.SubjectID = id
		return res, nil
	}

	key := req.State.RemoteID
	if key == "" {
		key = req.Subject
	}
	id, err := s.api.Update(ctx, req.Record, "", key)
	if err != nil {
		return Result{}, s.failed("update", err)
	}
	res := s.succeeded(ActionUpdated, id, req)
	res.SubjectID = req.Subject
	return res, nil
}
