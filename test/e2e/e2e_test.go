// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "employee-onboarding/internal/common/http"
	"employee-onboarding/internal/common/errors"
	"employee-onboarding/internal/common/logger"
	"employee-onboarding/internal/onboarding/backend"
	"employee-onboarding/internal/onboarding/section"
	"employee-onboarding/internal/onboarding/session"
	"employee-onboarding/internal/onboarding/stepper"
	"employee-onboarding/internal/onboarding/submitter"
	"employee-onboarding/internal/onboarding/validate"
)

type row = map[string]interface{}

// hrBackend is an in-memory onboarding backend that issues uuid ids.
type hrBackend struct {
	mu        sync.Mutex
	requests  []string
	personal  map[string]row
	addresses map[string]row // by subject
	idcards   map[string]row
	education map[string]row
	documents map[string][]string
	override  http.HandlerFunc
}

func newHRBackend() *hrBackend {
	return &hrBackend{
		personal:  map[string]row{},
		addresses: map[string]row{},
		idcards:   map[string]row{},
		education: map[string]row{},
		documents: map[string][]string{},
	}
}

func (b *hrBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			b.requests = append(b.requests, req.Method+" "+req.URL.Path)
			override := b.override
			b.mu.Unlock()
			if override != nil {
				override(w, req)
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Post("/api/personal-details/create/", func(w http.ResponseWriter, req *http.Request) {
		body := decode(req)
		id := uuid.NewString()
		b.put(b.personal, id, body)
		reply(w, http.StatusCreated, row{"uuid": id})
	})
	r.Get("/api/personal-details/{id}/", b.get(b.personal, func(r row) interface{} { return r }))
	r.Patch("/api/personal-details/{id}/", b.patch(b.personal))

	r.Post("/api/addresses/create/", func(w http.ResponseWriter, req *http.Request) {
		body := decode(req)
		body["id"] = uuid.NewString()
		b.put(b.addresses, body["user"].(string), body)
		reply(w, http.StatusCreated, row{"id": body["id"]})
	})
	r.Patch("/api/addresses/{id}/", b.patchWhere(b.addresses, "id"))
	r.Get("/api/address/list/{id}/", b.get(b.addresses, func(r row) interface{} { return row{"data": []interface{}{r}} }))

	r.Post("/api/official-id/create/", func(w http.ResponseWriter, req *http.Request) {
		body := decode(req)
		b.put(b.idcards, body["user"].(string), body)
		reply(w, http.StatusCreated, row{"message": "created"})
	})
	r.Patch("/api/idcards/edit/{id}/", b.patch(b.idcards))
	r.Get("/api/idcards/{id}/", b.get(b.idcards, func(r row) interface{} { return r }))

	r.Post("/api/education-employment/create/", func(w http.ResponseWriter, req *http.Request) {
		body := decode(req)
		body["uuid"] = uuid.NewString()
		b.put(b.education, body["user"].(string), body)
		reply(w, http.StatusCreated, row{"uuid": body["uuid"]})
	})
	r.Patch("/api/education-employment/{id}/", b.patchWhere(b.education, "uuid"))
	r.Get("/api/education-employment/list/{id}/", b.get(b.education, func(r row) interface{} { return row{"data": []interface{}{r}} }))

	r.Post("/api/documents/", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			reply(w, http.StatusBadRequest, row{"detail": err.Error()})
			return
		}
		if len(req.MultipartForm.File["uploaded_files"]) != 1 {
			reply(w, http.StatusBadRequest, row{"uploaded_files": []string{"This field is required."}})
			return
		}
		subject := req.FormValue("user_uuid")
		b.mu.Lock()
		b.documents[subject] = append(b.documents[subject], req.FormValue("document_types"))
		b.mu.Unlock()
		reply(w, http.StatusCreated, row{"uuid": uuid.NewString()})
	})
	r.Get("/api/documents/{id}/", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		var docs []row
		for _, t := range b.documents[chi.URLParam(req, "id")] {
			docs = append(docs, row{"document_type": t})
		}
		reply(w, http.StatusOK, row{"documents": docs})
	})
	return r
}

func (b *hrBackend) put(m map[string]row, key string, r row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m[key] = r
}

func (b *hrBackend) get(m map[string]row, shape func(row) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		r, ok := m[chi.URLParam(req, "id")]
		b.mu.Unlock()
		if !ok {
			reply(w, http.StatusNotFound, row{"detail": "Not found."})
			return
		}
		reply(w, http.StatusOK, shape(r))
	}
}

func (b *hrBackend) patch(m map[string]row) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body := decode(req)
		b.mu.Lock()
		defer b.mu.Unlock()
		r, ok := m[chi.URLParam(req, "id")]
		if !ok {
			reply(w, http.StatusNotFound, row{"detail": "Not found."})
			return
		}
		for k, v := range body {
			r[k] = v
		}
		reply(w, http.StatusOK, r)
	}
}

// patchWhere addresses rows by their own id field rather than the subject.
func (b *hrBackend) patchWhere(m map[string]row, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body := decode(req)
		id := chi.URLParam(req, "id")
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, r := range m {
			if r[field] == id {
				for k, v := range body {
					r[k] = v
				}
				reply(w, http.StatusOK, r)
				return
			}
		}
		reply(w, http.StatusNotFound, row{"detail": "Not found."})
	}
}

func (b *hrBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func decode(req *http.Request) row {
	body := row{}
	_ = json.NewDecoder(req.Body).Decode(&body)
	return body
}

func reply(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type harness struct {
	backend *hrBackend
	server  *httptest.Server
	api     backend.API
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	hb := newHRBackend()
	srv := httptest.NewServer(hb.routes())
	t.Cleanup(srv.Close)

	transport := httpclient.NewClient(httpclient.Options{
		BaseURL:    srv.URL + "/",
		Timeout:    5 * time.Second,
		RetryCount: 0,
		Logger:     logger.NewTestLogger(t),
	})
	return &harness{backend: hb, server: srv, api: backend.NewClient(transport, logger.NewTestLogger(t))}
}

func (h *harness) controller(t *testing.T, store session.Store) *stepper.Controller {
	t.Helper()
	log := logger.NewTestLogger(t)
	catalog := section.DefaultCatalog()
	return stepper.New(stepper.Dependencies{
		API:   h.api,
		Store: store,
		Submitters: submitter.New(submitter.Dependencies{
			API: h.api, Store: store, Catalog: catalog, Logger: log,
		}),
		Validator: validate.New(catalog, time.Now),
		Logger:    log,
	})
}

func answers(t *testing.T) []section.Record {
	t.Helper()
	dob := time.Date(1994, 8, 21, 0, 0, 0, 0, time.UTC)
	joining := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	dir := t.TempDir()
	rules := section.FileRules{MaxSize: 1 << 20, AllowedExtensions: []string{".pdf", ".png", ".jpg", ".jpeg"}}
	docs := &section.DocumentUploads{Acknowledged: true}
	for _, slot := range section.DefaultCatalog().Leaves() {
		if !slot.Required {
			continue
		}
		path := filepath.Join(dir, slot.ID+".pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n"), 0o600))
		att, err := section.NewAttachment(slot.ID, path, rules)
		require.NoError(t, err, slot.ID)
		docs.Attach(slot.ID, att)
	}

	return []section.Record{
		&section.PersonalDetails{
			FullName: "Nikhil Varghese", FatherName: "Thomas Varghese", DOB: dob, Gender: "male",
			MaritalStatus: "married", BloodGroup: "B+", MobileNumber: "9447012345",
			Email: "nikhil@example.com", EmergencyContact: "9447098765",
		},
		&section.ResidentialAddress{
			AddressLine: "Kollamparambil House", Village: "Pala", PostOffice: "Pala", Panchayat: "Meenachil",
			Municipality: "Pala", Taluk: "Meenachil", District: "Kottayam", State: "Kerala",
			PinCode: "686575", Place: "Pala",
		},
		&section.OfficialIDInfo{
			NameForID: "NIKHIL VARGHESE", MobileForID: "9447012345", EmergencyContactForID: "9447098765",
			AddressForID: "Kollamparambil House, Pala", DOBForID: dob, BloodGroupForID: "B+",
		},
		&section.EducationEmployment{
			Qualification: "MBA", AadhaarNumber: "567856785678", PANNumber: "pqrst6789k",
			Experience: "5", JoiningDate: joining, Branch: "Pala", Designation: "Branch Manager",
		},
		docs,
	}
}

func advance(t *testing.T, ctx context.Context, c *stepper.Controller, rec section.Record) stepper.Outcome {
	t.Helper()
	require.NoError(t, c.Update(rec.Section(), rec))
	out, err := c.Advance(ctx)
	require.NoError(t, err, "%s: %+v", rec.Section(), out)
	return out
}

func TestOnboarding_EndToEnd(t *testing.T) {
	h := newHarness(t)
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.yaml"), "onboarding_user_uuid")
	c := h.controller(t, store)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	recs := answers(t)
	for _, rec := range recs {
		out := advance(t, ctx, c, rec)
		assert.Equal(t, stepper.StatusSubmitted, out.Status, rec.Section())
	}
	require.True(t, c.Completed())

	subject := c.Subject()
	_, err := uuid.Parse(subject)
	require.NoError(t, err, "subject id comes from the personal create")

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	hb := h.backend
	hb.mu.Lock()
	defer hb.mu.Unlock()
	assert.Equal(t, "Nikhil Varghese", hb.personal[subject]["full_name"])
	assert.Equal(t, "1994-08-21", hb.personal[subject]["date_of_birth"])
	assert.Equal(t, subject, hb.addresses[subject]["user"])
	assert.Equal(t, subject, hb.idcards[subject]["user"])
	assert.Equal(t, "PQRST6789K", hb.education[subject]["pan_number"])

	var wantTypes []string
	for _, slot := range section.DefaultCatalog().Leaves() {
		if slot.Required {
			wantTypes = append(wantTypes, slot.WireType)
		}
	}
	assert.Equal(t, wantTypes, hb.documents[subject], "one upload per slot in catalog order")
}

func TestOnboarding_ResumeAndEdit(t *testing.T) {
	h := newHarness(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := session.NewRedisStore(rdb, "onboarding_user_uuid", time.Hour)
	ctx := context.Background()
	recs := answers(t)

	first := h.controller(t, store)
	require.NoError(t, first.Start(ctx))
	advance(t, ctx, first, recs[0])
	advance(t, ctx, first, recs[1])
	subject := first.Subject()

	// a new process picks up where the first left off
	second := h.controller(t, store)
	require.NoError(t, second.Start(ctx))
	assert.Nil(t, second.Notice())
	assert.Equal(t, subject, second.Subject())
	assert.Equal(t, section.OfficialID, second.Current())

	states := second.States()
	assert.True(t, states[section.Personal].Submitted)
	assert.True(t, states[section.Address].Submitted)
	assert.False(t, states[section.OfficialID].Submitted)
	resumed := second.Record(section.Personal).(*section.PersonalDetails)
	want := recs[0].(*section.PersonalDetails)
	assert.Equal(t, want.FullName, resumed.FullName)
	assert.Equal(t, want.MobileNumber, resumed.MobileNumber)
	assert.True(t, want.DOB.Equal(resumed.DOB), "dob %s", resumed.DOB)

	// resubmitting resumed data reaches no endpoint
	require.NoError(t, second.GoTo(1))
	before := h.backend.requestCount()
	out, err := second.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, stepper.StatusUnchanged, out.Status)
	assert.Equal(t, before, h.backend.requestCount())

	// an edit patches the address row by its own id
	require.NoError(t, second.GoTo(1))
	edited := recs[1].Clone().(*section.ResidentialAddress)
	edited.PinCode = "686576"
	out = advance(t, ctx, second, edited)
	assert.Equal(t, stepper.StatusUpdated, out.Status)

	h.backend.mu.Lock()
	addr := h.backend.addresses[subject]
	h.backend.mu.Unlock()
	assert.Equal(t, "686576", addr["pin_code"])
	assert.Contains(t, h.backend.requests, "PATCH /api/addresses/"+addr["id"].(string)+"/")

	for _, rec := range recs[2:] {
		advance(t, ctx, second, rec)
	}
	assert.True(t, second.Completed())
	assert.False(t, mr.Exists("onboarding_user_uuid"))
}

func TestOnboarding_StaleSessionStartsFresh(t *testing.T) {
	h := newHarness(t)
	store := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, uuid.NewString()))

	c := h.controller(t, store)
	require.NoError(t, c.Start(ctx))

	notice := c.Notice()
	require.NotNil(t, notice)
	assert.Equal(t, errors.ErrCodeSessionResumeFailed, notice.Code)
	assert.Empty(t, c.Subject())
	assert.Equal(t, section.Personal, c.Current())

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestOnboarding_LaterSectionsUnreachableBeforeLead(t *testing.T) {
	h := newHarness(t)
	c := h.controller(t, session.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	err := c.GoTo(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStep))
	assert.Equal(t, section.Personal, c.Current())
	assert.Zero(t, h.backend.requestCount())
}

func TestOnboarding_BackendFieldErrorsSurface(t *testing.T) {
	h := newHarness(t)
	c := h.controller(t, session.NewMemoryStore())
	ctx := context.Background()
	recs := answers(t)
	advance(t, ctx, c, recs[0])

	h.backend.mu.Lock()
	h.backend.override = func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusBadRequest, row{"pin_code": []string{"Enter a valid pin code."}})
	}
	h.backend.mu.Unlock()

	require.NoError(t, c.Update(section.Address, recs[1]))
	out, err := c.Advance(ctx)
	require.Error(t, err)
	assert.Equal(t, stepper.StatusFailed, out.Status)
	require.NotNil(t, out.Notice)
	assert.Equal(t, errors.ErrCodeBadInput, out.Notice.Code)
	assert.Contains(t, out.Notice.Message, "Enter a valid pin code.")
	assert.False(t, c.States()[section.Address].Submitted)
	assert.Equal(t, section.Address, c.Current())
}
