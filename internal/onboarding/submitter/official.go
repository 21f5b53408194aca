package submitter

import (
	"context"
)

// officialIDSubmitter creates the id card once, then always edits it by
// subject id.
type officialIDSubmitter struct {
	base
}

func (s *officialIDSubmitter) Submit(ctx context.Context, req Request) (Result, error) {
	if err := s.checkRecord(req); err != nil {
		return Result{}, err
	}
	if err := s.requireSubject(req); err != nil {
		return Result{}, err
	}
	if res, ok := s.unchanged(req); ok {
		return res, nil
	}

	if !req.State.Submitted {
		if _, err := s.api.Create(ctx, req.Record, req.Subject); err != nil {
			return Result{}, s.failed("create", err)
		}
		return s.succeeded(ActionCreated, req.Subject, req), nil
	}

	if _, err := s.api.Update(ctx, req.Record, req.Subject, req.Subject); err != nil {
		return Result{}, s.failed("update", err)
	}
	return s.succeeded(ActionUpdated, req.Subject, req), nil
}
