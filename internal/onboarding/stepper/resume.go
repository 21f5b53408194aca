package stepper

import (
	"context"
	stderrors "errors"

	"employee-onboarding/internal/common/errors"
	"employee-onboarding/internal/common/metrics"
	"employee-onboarding/internal/onboarding/backend"
	"employee-onboarding/internal/onboarding/section"

	"golang.org/x/sync/errgroup"
)

type resumed struct {
	fetched *backend.Fetched
	err     error
}

// fetchAll reads every section for subject in parallel. Each goroutine
// owns one slot of the result slice. Only a lead-section failure is
// returned; it cancels the remaining reads.
func (c *Controller) fetchAll(ctx context.Context, subject string) ([]resumed, error) {
	results := make([]resumed, len(section.Order))
	g, gctx := errgroup.WithContext(ctx)

	for i, id := range section.Order {
		i, id := i, id
		g.Go(func() error {
			fetched, err := c.api.Fetch(gctx, id, subject)
			results[i] = resumed{fetched: fetched, err: err}
			if err != nil && id.IsLead() {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// isTransient reports failures worth retrying later instead of discarding
// the stored session.
func isTransient(err error) bool {
	if stderrors.Is(err, backend.ErrNotFound) {
		return false
	}
	stdErr := errors.Normalize(err)
	return stdErr.Retryable || stdErr.Code == errors.ErrCodeCancelled
}

// merge applies fetched sections to the controller. Callers hold c.mu.
func (c *Controller) merge(subject string, results []resumed) {
	c.subject = subject
	for i, id := range section.Order {
		r := results[i]
		switch {
		case r.err == nil && r.fetched != nil:
			if r.fetched.Record != nil {
				c.records[id] = r.fetched.Record.Clone()
			}
			c.tracker.MarkSubmitted(id, r.fetched.RemoteID, r.fetched.Record)
			if id == section.Documents {
				c.uploaded = r.fetched.Uploaded
			}
			metrics.ResumeSections.WithLabelValues(string(id), "restored").Inc()
		case r.err == nil || stderrors.Is(r.err, backend.ErrNotFound):
			metrics.ResumeSections.WithLabelValues(string(id), "missing").Inc()
		default:
			stdErr := errors.Normalize(r.err)
			c.logger.Warn("Section could not be restored", map[string]interface{}{
				"section":   string(id),
				"errorCode": string(stdErr.Code),
				"details":   stdErr.Details,
			})
			metrics.ResumeSections.WithLabelValues(string(id), "failed").Inc()
		}
	}

	c.current = c.firstOpen()
	metrics.ActiveStep.Set(float64(c.current))
}
