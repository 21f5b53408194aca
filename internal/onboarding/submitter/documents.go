package submitter

import (
	"context"

	"employee-onboarding/internal/onboarding/section"
)

// documentsSubmitter uploads every file-bearing leaf slot as its own
// multipart request, in catalog order. The first failure aborts the
// batch; uploads already accepted stay on the server and are simply
// re-sent next time.
type documentsSubmitter struct {
	base
	catalog *section.Catalog
}

func (s *documentsSubmitter) Submit(ctx context.Context, req Request) (Result, error) {
	if err := s.checkRecord(req); err != nil {
		return Result{}, err
	}
	if err := s.requireSubject(req); err != nil {
		return Result{}, err
	}
	if res, ok := s.unchanged(withoutAcknowledgement(req)); ok {
		return res, nil
	}

	docs := req.Record.(*section.DocumentUploads)
	var firstID string
	uploaded := 0
	for _, slot := range s.catalog.Leaves() {
		file := docs.Files[slot.ID]
		if file == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Result{}, s.failed("upload", err)
		}
		id, err := s.api.Upload(ctx, req.Subject, slot, file)
		if err != nil {
			s.logger.Warn("Document batch aborted", map[string]interface{}{
				"slot":     slot.ID,
				"uploaded": uploaded,
			})
			return Result{}, s.failed("upload", err)
		}
		if firstID == "" {
			firstID = id
		}
		uploaded++
	}

	remoteID := firstID
	if remoteID == "" {
		remoteID = req.State.RemoteID
	}
	if remoteID == "" {
		remoteID = req.Subject
	}

	action := ActionCreated
	if req.State.Submitted {
		action = ActionUpdated
	}
	return s.succeeded(action, remoteID, req), nil
}

// withoutAcknowledgement aligns the declaration flag with the snapshot so
// that only the files decide whether anything is uploaded.
func withoutAcknowledgement(req Request) Request {
	snap, ok := req.State.Snapshot.(*section.DocumentUploads)
	if !ok || snap == nil {
		return req
	}
	docs := req.Record.(*section.DocumentUploads).Clone().(*section.DocumentUploads)
	docs.Acknowledged = snap.Acknowledged
	req.Record = docs
	return req
}
