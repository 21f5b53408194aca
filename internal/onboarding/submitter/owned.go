package submitter

import (
	"context"
)

// ownIDSubmitter handles sections that carry their own backend id
// (address, education). Updates are addressed by that id, falling back to
// the subject id when the backend never issued one.
type ownIDSubmitter struct {
	base
}

func (s *ownIDSubmitter) Submit(ctx context.Context, req Request) (Result, error) {
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
		id, err := s.api.Create(ctx, req.Record, req.Subject)
		if err != nil {
			return Result{}, s.failed("create", err)
		}
		if id == "" {
			id = req.Subject
		}
		return s.succeeded(ActionCreated, id, req), nil
	}

	key := req.State.RemoteID
	if key == "" {
		key = req.Subject
	}
	id, err := s.api.Update(ctx, req.Record, req.Subject, key)
	if err != nil {
		return Result{}, s.failed("update", err)
	}
	return s.succeeded(ActionUpdated, id, req), nil
}
