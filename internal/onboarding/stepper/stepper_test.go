package stepper

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"employee-onboarding/internal/common/errors"
	"employee-onboarding/internal/common/logger"
	"employee-onboarding/internal/onboarding/backend"
	"employee-onboarding/internal/onboarding/section"
	"employee-onboarding/internal/onboarding/session"
	"employee-onboarding/internal/onboarding/submitter"
	"employee-onboarding/internal/onboarding/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

// fakeAPI is an in-memory backend that records every call.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []string
	fetched   map[section.ID]*backend.Fetched
	fetchErr  map[section.ID]error
	createErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{fetched: map[section.ID]*backend.Fetched{}, fetchErr: map[section.ID]error{}}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) Create(_ context.Context, rec section.Record, subject string) (string, error) {
	f.record("create " + string(rec.Section()))
	if f.createErr != nil {
		return "", f.createErr
	}
	if rec.Section() == section.Personal {
		return "subject-1", nil
	}
	if rec.Section() == section.OfficialID {
		return subject, nil
	}
	return string(rec.Section()) + "-1", nil
}

func (f *fakeAPI) Update(_ context.Context, rec section.Record, _, key string) (string, error) {
	f.record(fmt.Sprintf("update %s %s", rec.Section(), key))
	return "", nil
}

func (f *fakeAPI) Fetch(_ context.Context, id section.ID, _ string) (*backend.Fetched, error) {
	f.record("fetch " + string(id))
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fetchErr[id]; err != nil {
		return nil, err
	}
	if got, ok := f.fetched[id]; ok {
		return got, nil
	}
	return nil, backend.ErrNotFound
}

func (f *fakeAPI) Upload(_ context.Context, _ string, slot section.Slot, _ *section.Attachment) (string, error) {
	f.record("upload " + slot.WireType)
	return "doc-1", nil
}

func newController(t *testing.T, api *fakeAPI, store session.Store) *Controller {
	t.Helper()
	log := logger.NewTestLogger(t)
	return New(Dependencies{
		API:        api,
		Store:      store,
		Submitters: submitter.New(submitter.Dependencies{API: api, Store: store, Logger: log}),
		Validator:  validate.New(nil, func() time.Time { return now }),
		Logger:     log,
	})
}

func validRecords() []section.Record {
	dob := time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)
	docs := &section.DocumentUploads{Acknowledged: true}
	for _, slot := range section.DefaultCatalog().Leaves() {
		if slot.Required {
			docs.Attach(slot.ID, &section.Attachment{Name: slot.ID + ".pdf", Size: 10, ModTime: now})
		}
	}
	return []section.Record{
		&section.PersonalDetails{
			FullName: "Asha Menon", FatherName: "Ravi Menon", DOB: dob, Gender: "female",
			MaritalStatus: "single", BloodGroup: "O+", MobileNumber: "9876543210",
			Email: "asha@example.com", EmergencyContact: "9123456780",
		},
		&section.ResidentialAddress{
			AddressLine: "House 4", Village: "Kumily", PostOffice: "Kumily", Panchayat: "Kumily",
			Municipality: "Kattappana", Taluk: "Peermade", District: "Idukki", State: "Kerala",
			PinCode: "685509", Place: "Kumily",
		},
		&section.OfficialIDInfo{
			NameForID: "ASHA MENON", MobileForID: "9876543210", EmergencyContactForID: "9123456780",
			AddressForID: "House 4, Kumily", DOBForID: dob, BloodGroupForID: "O+",
		},
		&section.EducationEmployment{
			Qualification: "B.Com", AadhaarNumber: "123412341234", PANNumber: "ABCDE1234F",
			Experience: "3", JoiningDate: now, Branch: "Kottayam", Designation: "Field Officer",
		},
		docs,
	}
}

func TestAdvance_FullFlow(t *testing.T) {
	api := newFakeAPI()
	store := session.NewMemoryStore()
	c := newController(t, api, store)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	for i, rec := range validRecords() {
		require.Equal(t, section.Order[i], c.Current())
		require.NoError(t, c.Update(rec.Section(), rec))

		out, err := c.Advance(ctx)
		require.NoError(t, err, rec.Section())
		assert.Equal(t, StatusSubmitted, out.Status)
		assert.Equal(t, "Section Submitted Successfully!", out.Message)
		assert.Equal(t, rec.Section().Title()+" has been submitted successfully.", out.Description)

		if i == 0 {
			stored, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "subject-1", stored)
			assert.Equal(t, "subject-1", c.Subject())
		}
	}

	assert.True(t, c.Completed())
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession, "completion forgets the stored session")

	states := c.States()
	for _, id := range section.Order {
		assert.True(t, states[id].Submitted, id)
	}
	assert.Equal(t, "address-1", states[section.Address].RemoteID)
	assert.Equal(t, "subject-1", states[section.OfficialID].RemoteID)

	_, err = c.Advance(ctx)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStep))
}

func TestAdvance_UnchangedAfterRetreat(t *testing.T) {
	api := newFakeAPI()
	c := newController(t, api, session.NewMemoryStore())
	ctx := context.Background()
	recs := validRecords()

	require.NoError(t, c.Update(section.Personal, recs[0]))
	_, err := c.Advance(ctx)
	require.NoError(t, err)
	require.True(t, c.Retreat())
	calls := api.count()

	out, err := c.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, out.Status)
	assert.Equal(t, "No Changes Detected", out.Message)
	assert.Equal(t, "Personal Details data is already up to date.", out.Description)
	assert.Equal(t, calls, api.count(), "no backend call for unchanged data")

	// an edit turns the next advance into an update by subject id
	require.True(t, c.Retreat())
	edited := recs[0].Clone().(*section.PersonalDetails)
	edited.Email = "asha.menon@example.com"
	require.NoError(t, c.Update(section.Personal, edited))

	out, err = c.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, out.Status)
	assert.Equal(t, "Section Updated Successfully!", out.Message)
	assert.Contains(t, api.calls, "update personal-details subject-1")
}

func TestAdvance_InvalidKeepsStep(t *testing.T) {
	api := newFakeAPI()
	c := newController(t, api, session.NewMemoryStore())

	out, err := c.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, out.Status)
	assert.Equal(t, "Full name is required.", out.Fields["fullName"])
	assert.Equal(t, 0, c.Step())
	assert.Len(t, c.Errors(), 9)
	assert.Zero(t, api.count())

	// retreat at step zero is a no-op but still fine
	assert.False(t, c.Retreat())
}

func TestAdvance_FinalSectionNeedsAcknowledgement(t *testing.T) {
	api := newFakeAPI()
	c := newController(t, api, session.NewMemoryStore())
	ctx := context.Background()
	recs := validRecords()

	for _, rec := range recs[:4] {
		require.NoError(t, c.Update(rec.Section(), rec))
		_, err := c.Advance(ctx)
		require.NoError(t, err)
	}

	docs := recs[4].Clone().(*section.DocumentUploads)
	docs.Acknowledged = false
	require.NoError(t, c.Update(section.Documents, docs))

	out, err := c.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, out.Status)
	assert.Equal(t, map[string]string{
		validate.AcknowledgementField: "Please acknowledge that all the information provided is true and correct.",
	}, out.Fields)
	assert.False(t, c.Completed())
}

func TestAdvance_RequiresSubject(t *testing.T) {
	api := newFakeAPI()
	c := newController(t, api, session.NewMemoryStore())
	require.NoError(t, c.Update(section.Address, validRecords()[1]))

	c.current = 1
	out, err := c.Advance(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, errors.ErrCodeSubjectRequired, c.Notice().Code)
	assert.Zero(t, api.count())
	assert.Equal(t, 1, c.Step())
}

func TestAdvance_RemoteFailureLeavesTracker(t *testing.T) {
	api := newFakeAPI()
	api.createErr = errors.FromHTTPStatus(503, nil)
	c := newController(t, api, session.NewMemoryStore())
	require.NoError(t, c.Update(section.Personal, validRecords()[0]))

	out, err := c.Advance(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, out.Status)
	require.NotNil(t, out.Notice)
	assert.True(t, out.Notice.Retryable)
	assert.Equal(t, "Server Error", out.Notice.Title)
	assert.False(t, c.States()[section.Personal].Submitted)
	assert.Equal(t, 0, c.Step())

	c.DismissNotice()
	assert.Nil(t, c.Notice())
}

func TestStart_ResumesAvailableSections(t *testing.T) {
	api := newFakeAPI()
	recs := validRecords()
	api.fetched[section.Personal] = &backend.Fetched{Record: recs[0], RemoteID: "subject-1"}
	api.fetched[section.OfficialID] = &backend.Fetched{Record: recs[2], RemoteID: "subject-1"}
	api.fetchErr[section.Education] = errors.FromHTTPStatus(500, nil)

	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "subject-1"))

	c := newController(t, api, store)
	require.NoError(t, c.Start(context.Background()))

	states := c.States()
	assert.True(t, states[section.Personal].Submitted)
	assert.NotNil(t, states[section.Personal].Snapshot)
	assert.True(t, states[section.OfficialID].Submitted)
	assert.NotNil(t, states[section.OfficialID].Snapshot)
	assert.False(t, states[section.Address].Submitted)
	assert.False(t, states[section.Education].Submitted)
	assert.False(t, states[section.Documents].Submitted)

	assert.Equal(t, "subject-1", c.Subject())
	assert.Equal(t, section.Address, c.Current())
	assert.Nil(t, c.Notice())
	assert.Equal(t, "ASHA MENON", c.Record(section.OfficialID).(*section.OfficialIDInfo).NameForID)

	// restored baseline short-circuits an unchanged resubmission
	require.NoError(t, c.GoTo(0))
	calls := api.count()
	out, err := c.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, out.Status)
	assert.Equal(t, calls, api.count())
}

func TestStart_UnknownSubjectStartsFresh(t *testing.T) {
	api := newFakeAPI()
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "stale"))

	c := newController(t, api, store)
	require.NoError(t, c.Start(context.Background()))

	require.NotNil(t, c.Notice())
	assert.Equal(t, errors.ErrCodeSessionResumeFailed, c.Notice().Code)
	assert.Empty(t, c.Subject())
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestStart_TransientLeadFailureKeepsSession(t *testing.T) {
	api := newFakeAPI()
	api.fetchErr[section.Personal] = errors.NewNetworkError(fmt.Errorf("dial tcp: connection refused"))
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "subject-1"))

	c := newController(t, api, store)
	err := c.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNetwork))

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "subject-1", stored)
}

func TestGoTo(t *testing.T) {
	api := newFakeAPI()
	c := newController(t, api, session.NewMemoryStore())
	ctx := context.Background()
	recs := validRecords()

	assert.Error(t, c.GoTo(1), "nothing submitted yet")
	assert.NoError(t, c.GoTo(0))

	for _, rec := range recs[:2] {
		require.NoError(t, c.Update(rec.Section(), rec))
		_, err := c.Advance(ctx)
		require.NoError(t, err)
	}

	assert.NoError(t, c.GoTo(0))
	assert.NoError(t, c.GoTo(2), "first open section")
	assert.Error(t, c.GoTo(3))
	assert.Error(t, c.GoTo(7))
	assert.Equal(t, 2, c.Step())
}

func TestReset(t *testing.T) {
	api := newFakeAPI()
	store := session.NewMemoryStore()
	c := newController(t, api, store)
	ctx := context.Background()

	require.NoError(t, c.Update(section.Personal, validRecords()[0]))
	_, err := c.Advance(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Reset(ctx))
	assert.Empty(t, c.Subject())
	assert.Equal(t, 0, c.Step())
	assert.False(t, c.States()[section.Personal].Submitted)
	assert.Equal(t, section.New(section.Personal), c.Record(section.Personal))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestUpdate_WrongSection(t *testing.T) {
	c := newController(t, newFakeAPI(), nil)
	err := c.Update(section.Address, validRecords()[0])
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStep))
}
