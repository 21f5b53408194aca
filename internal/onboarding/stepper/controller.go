// Package stepper drives the onboarding form one section at a time.
package stepper

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"employee-onboarding/internal/common/errors"
	"employee-onboarding/internal/common/logger"
	"employee-onboarding/internal/common/metrics"
	"employee-onboarding/internal/common/observability"
	"employee-onboarding/internal/onboarding/backend"
	"employee-onboarding/internal/onboarding/section"
	"employee-onboarding/internal/onboarding/session"
	"employee-onboarding/internal/onboarding/submitter"
	"employee-onboarding/internal/onboarding/tracker"
	"employee-onboarding/internal/onboarding/validate"
)

type Dependencies struct {
	API        backend.API
	Store      session.Store
	Submitters map[section.ID]submitter.Submitter
	Validator  *validate.Validator
	Logger     logger.Logger
	// Observability is optional.
	Observability *observability.Observability
}

// Controller owns all form state. Every method is serialized; Start holds
// the lock for the whole resume so Advance cannot run ahead of it.
type Controller struct {
	mu sync.Mutex

	api        backend.API
	store      session.Store
	submitters map[section.ID]submitter.Submitter
	validator  *validate.Validator
	logger     logger.Logger
	handler    *errors.Handler
	obs        *observability.Observability

	tracker   *tracker.Tracker
	records   map[section.ID]section.Record
	current   int
	completed bool
	errs      map[string]string
	notice    *errors.Notice
	subject   string
	uploaded  []string
}

func New(deps Dependencies) *Controller {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	v := deps.Validator
	if v == nil {
		v = validate.New(nil, nil)
	}
	c := &Controller{
		api:        deps.API,
		store:      deps.Store,
		submitters: deps.Submitters,
		validator:  v,
		logger:     log,
		handler:    errors.NewHandler(log),
		obs:        deps.Observability,
		tracker:    tracker.New(),
	}
	c.clearState()
	return c
}

// clearState empties records, tracker and navigation. Callers hold c.mu
// or own c exclusively.
func (c *Controller) clearState() {
	c.tracker.Reset()
	c.records = make(map[section.ID]section.Record, len(section.Order))
	for _, id := range section.Order {
		c.records[id] = section.New(id)
	}
	c.current = 0
	c.completed = false
	c.errs = map[string]string{}
	c.notice = nil
	c.subject = ""
	c.uploaded = nil
	metrics.ActiveStep.Set(0)
}

// Start resumes a stored session. A lead section that cannot be read for
// a non-transient reason discards the stored id and starts fresh with a
// notice. Transient failures keep the stored id and are returned.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	subject, err := c.store.Load(ctx)
	if stderrors.Is(err, session.ErrNoSession) {
		return nil
	}
	if err != nil {
		c.logger.Warn("Stored session unreadable, starting fresh", map[string]interface{}{"error": err.Error()})
		return nil
	}

	c.logger.Info("Resuming onboarding session", map[string]interface{}{"subject": subject})
	results, err := c.fetchAll(ctx, subject)
	if err != nil {
		if isTransient(err) {
			notice := c.handler.Handle("resume", err)
			c.notice = &notice
			return errors.Normalize(err)
		}

		resumeErr := errors.NewSessionResumeError(err)
		notice := c.handler.Handle("resume", resumeErr)
		c.clearState()
		c.notice = &notice
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			c.logger.Warn("Failed to discard stored session", map[string]interface{}{"error": clearErr.Error()})
		}
		return nil
	}

	c.merge(subject, results)
	return nil
}

// Update replaces the record of a section.
func (c *Controller) Update(id section.ID, rec section.Record) error {
	if rec == nil || rec.Section() != id {
		return errors.NewInvalidStepError("record does not belong to section " + string(id))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[id] = rec.Clone()
	return nil
}

func (c *Controller) Record(id section.ID) section.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rec, ok := c.records[id]; ok {
		return rec.Clone()
	}
	return nil
}

func (c *Controller) Current() section.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return section.Order[c.current]
}

func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) Errors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.errs))
	for k, v := range c.errs {
		out[k] = v
	}
	return out
}

func (c *Controller) Notice() *errors.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notice == nil {
		return nil
	}
	n := *c.notice
	return &n
}

func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil
}

func (c *Controller) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

func (c *Controller) Subject() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subject
}

// States returns the tracker state of every section.
func (c *Controller) States() map[section.ID]tracker.State {
	return c.tracker.All()
}

// UploadedDocuments lists document types the backend reported on resume.
func (c *Controller) UploadedDocuments() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.uploaded...)
}

// ValidateCurrentSection stores and reports the field errors of the
// current section. The final section also needs the acknowledgement.
func (c *Controller) ValidateCurrentSection() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

func (c *Controller) validateLocked() bool {
	id := section.Order[c.current]
	errs := c.validator.Validate(c.records[id])
	if c.current == len(section.Order)-1 {
		docs, _ := c.records[id].(*section.DocumentUploads)
		for k, v := range validate.Acknowledgement(docs) {
			errs[k] = v
		}
	}
	c.errs = errs
	return len(errs) == 0
}

// Advance validates and submits the current section, then moves on. On
// the final section it completes the form and forgets the stored session.
func (c *Controller) Advance(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return Outcome{Status: StatusFailed}, errors.NewInvalidStepError("onboarding already completed")
	}

	id := section.Order[c.current]
	if c.obs == nil {
		return c.advanceLocked(ctx, id)
	}

	started := time.Now()
	ctx, span := c.obs.StartStep(ctx, string(id))
	outcome, err := c.advanceLocked(ctx, id)
	c.obs.EndStep(ctx, span, string(id), string(outcome.Status), started, err)
	return outcome, err
}

func (c *Controller) advanceLocked(ctx context.Context, id section.ID) (Outcome, error) {
	if !c.validateLocked() {
		return Outcome{Section: id, Status: StatusInvalid, Fields: c.copyErrs()}, nil
	}

	if !id.IsLead() && c.subject == "" {
		return c.fail(id, errors.NewSubjectRequiredError(string(id)))
	}

	sub, ok := c.submitters[id]
	if !ok {
		return c.fail(id, errors.NewInvalidStepError("no submitter for section "+string(id)))
	}

	c.notice = nil
	res, err := sub.Submit(ctx, submitter.Request{
		Subject: c.subject,
		Record:  c.records[id],
		State:   c.tracker.Get(id),
	})
	if err != nil {
		return c.fail(id, err)
	}

	if res.Action != submitter.ActionSkipped {
		c.tracker.MarkSubmitted(id, res.RemoteID, res.Snapshot)
	}
	if res.SubjectID != "" {
		c.subject = res.SubjectID
	}

	outcome := savedOutcome(id, res.Action)
	c.errs = map[string]string{}

	if c.current == len(section.Order)-1 {
		c.completed = true
		outcome.Completed = true
		if c.store != nil {
			if err := c.store.Clear(ctx); err != nil {
				c.logger.Warn("Failed to clear stored session", map[string]interface{}{"error": err.Error()})
			}
		}
		c.logger.Info("Onboarding completed", map[string]interface{}{"subject": c.subject})
		return outcome, nil
	}

	c.current++
	metrics.ActiveStep.Set(float64(c.current))
	return outcome, nil
}

func (c *Controller) fail(id section.ID, err error) (Outcome, error) {
	notice := c.handler.Handle("advance "+string(id), err)
	c.notice = &notice
	n := notice
	return Outcome{Section: id, Status: StatusFailed, Message: notice.Title, Description: notice.Message, Notice: &n}, errors.Normalize(err)
}

func (c *Controller) copyErrs() map[string]string {
	out := make(map[string]string, len(c.errs))
	for k, v := range c.errs {
		out[k] = v
	}
	return out
}

// Retreat moves back one section without submitting anything.
func (c *Controller) Retreat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.completed || c.current == 0 {
		return false
	}
	c.current--
	c.errs = map[string]string{}
	c.notice = nil
	metrics.ActiveStep.Set(float64(c.current))
	return true
}

// GoTo jumps to an already-submitted section or to the first open one.
func (c *Controller) GoTo(step int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return errors.NewInvalidStepError("onboarding already completed")
	}
	if step < 0 || step >= len(section.Order) {
		return errors.NewInvalidStepError("step out of range")
	}
	if !c.tracker.Submitted(section.Order[step]) && step != c.firstOpen() {
		return errors.NewInvalidStepError("section " + string(section.Order[step]) + " is not reachable yet")
	}
	c.current = step
	c.errs = map[string]string{}
	c.notice = nil
	metrics.ActiveStep.Set(float64(c.current))
	return nil
}

// Reset forgets everything, including the stored session.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearState()
	if c.store == nil {
		return nil
	}
	return c.store.Clear(ctx)
}

// firstOpen is the first section not yet submitted, or the last section.
// Callers hold c.mu.
func (c *Controller) firstOpen() int {
	for i, id := range section.Order {
		if !c.tracker.Submitted(id) {
			return i
		}
	}
	return len(section.Order) - 1
}
