// Package backend speaks the onboarding REST contract.
package backend

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"employee-onboarding/internal/common/errors"
	httpclient "employee-onboarding/internal/common/http"
	"employee-onboarding/internal/common/logger"
	"employee-onboarding/internal/common/metrics"
	"employee-onboarding/internal/onboarding/section"
)

// ErrNotFound means the backend holds nothing for the section yet.
var ErrNotFound = stderrors.New("section not submitted")

// Fetched is a section as read back from the backend.
type Fetched struct {
	Record   section.Record
	RemoteID string
	// Uploaded lists wire document types already stored (documents only).
	Uploaded []string
}

// API is the contract the submitters and resume depend on.
type API interface {
	// Create posts a new record and returns the id the backend issued.
	Create(ctx context.Context, rec section.Record, subject string) (string, error)
	// Update patches the record addressed by key and returns any new id.
	Update(ctx context.Context, rec section.Record, subject, key string) (string, error)
	// Fetch reads a section by subject; ErrNotFound when absent.
	Fetch(ctx context.Context, id section.ID, subject string) (*Fetched, error)
	// Upload sends one document slot and returns the upload uuid if any.
	Upload(ctx context.Context, subject string, slot section.Slot, file *section.Attachment) (string, error)
}

// Transport is the subset of the HTTP client the backend needs.
type Transport interface {
	Get(ctx context.Context, path string) (*httpclient.Response, error)
	PostJSON(ctx context.Context, path string, payload interface{}) (*httpclient.Response, error)
	PatchJSON(ctx context.Context, path string, payload interface{}) (*httpclient.Response, error)
	PostMultipart(ctx context.Context, path string, fields map[string]string, files []httpclient.FilePart) (*httpclient.Response, error)
}

type Client struct {
	http   Transport
	logger logger.Logger
}

func NewClient(transport Transport, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{http: transport, logger: log}
}

func (c *Client) Create(ctx context.Context, rec section.Record, subject string) (string, error) {
	id := rec.Section()
	path := createPath(id)
	if path == "" {
		return "", fmt.Errorf("section %s has no create endpoint", id)
	}

	payload := toWire(rec, subject)
	if err := checkContract(id, payload); err != nil {
		return "", err
	}

	resp, err := c.timed(id, http.MethodPost, func() (*httpclient.Response, error) {
		return c.http.PostJSON(ctx, path, payload)
	})
	if err != nil {
		return "", err
	}

	obj := decodeObject(resp.Body)
	switch id {
	case section.Personal:
		return extractID(obj, personalIDKeys), nil
	case section.Address:
		return extractID(obj, addressIDKeys), nil
	case section.Education:
		return extractID(obj, educationIDKeys), nil
	}
	// id cards are keyed by the subject
	return subject, nil
}

func (c *Client) Update(ctx context.Context, rec section.Record, subject, key string) (string, error) {
	id := rec.Section()
	path := updatePath(id, key)
	if path == "" {
		return "", fmt.Errorf("section %s has no update endpoint", id)
	}

	payload := toWire(rec, subject)
	if err := checkContract(id, payload); err != nil {
		return "", err
	}

	resp, err := c.timed(id, http.MethodPatch, func() (*httpclient.Response, error) {
		return c.http.PatchJSON(ctx, path, payload)
	})
	if err != nil {
		return "", err
	}

	obj := decodeObject(resp.Body)
	switch id {
	case section.Address:
		return extractID(obj, addressIDKeys), nil
	case section.Education:
		return extractID(obj, educationIDKeys), nil
	}
	return extractID(obj, []string{"uuid"}), nil
}

func (c *Client) Fetch(ctx context.Context, id section.ID, subject string) (*Fetched, error) {
	path := readPath(id, subject)
	if path == "" {
		return nil, fmt.Errorf("section %s has no read endpoint", id)
	}

	resp, err := c.timed(id, http.MethodGet, func() (*httpclient.Response, error) {
		return c.http.Get(ctx, path)
	})
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch id {
	case section.Address:
		row := firstRow(decodeObject(resp.Body))
		if row == nil {
			return nil, ErrNotFound
		}
		return &Fetched{
			Record:   fromWire(id, row),
			RemoteID: firstNonEmpty(extractID(row, addressReadKeys), subject),
		}, nil

	case section.Education:
		row := educationRow(decodeObject(resp.Body))
		if row == nil {
			return nil, ErrNotFound
		}
		return &Fetched{
			Record:   fromWire(id, row),
			RemoteID: firstNonEmpty(extractID(row, educationIDKeys), subject),
		}, nil

	case section.Documents:
		docs := fetchedDocuments(resp.Body, subject)
		if len(docs.Uploaded) == 0 {
			return nil, ErrNotFound
		}
		return docs, nil
	}

	obj := decodeObject(resp.Body)
	if obj == nil {
		return nil, ErrNotFound
	}
	return &Fetched{Record: fromWire(id, obj), RemoteID: subject}, nil
}

func (c *Client) Upload(ctx context.Context, subject string, slot section.Slot, file *section.Attachment) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", errors.NewDocumentRejectedError(slot.ID, fmt.Sprintf("Could not read %s.", file.Name))
	}
	defer rc.Close()

	fields := map[string]string{
		"user_uuid":      subject,
		"document_types": slot.WireType,
	}
	files := []httpclient.FilePart{{Field: "uploaded_files", FileName: file.Name, Reader: rc}}

	resp, err := c.timed(section.Documents, http.MethodPost, func() (*httpclient.Response, error) {
		return c.http.PostMultipart(ctx, documentsUploadPath, fields, files)
	})
	if err != nil {
		return "", err
	}

	c.logger.Debug("Document uploaded", map[string]interface{}{
		"slot":     slot.ID,
		"type":     slot.WireType,
		"fileName": file.Name,
		"size":     file.Size,
	})
	return extractID(decodeObject(resp.Body), documentIDKeys), nil
}

func (c *Client) timed(id section.ID, method string, call func() (*httpclient.Response, error)) (*httpclient.Response, error) {
	start := time.Now()
	resp, err := call()
	metrics.BackendRequestDuration.WithLabelValues(string(id), method).Observe(time.Since(start).Seconds())
	return resp, err
}

// firstRow returns data[0] of a list response.
func firstRow(obj map[string]interface{}) map[string]interface{} {
	rows, _ := obj["data"].([]interface{})
	if len(rows) == 0 {
		return nil
	}
	row, _ := rows[0].(map[string]interface{})
	return row
}

// educationRow accepts the record directly, as data[0], or as data{}.
// Anything without a highest qualification counts as absent.
func educationRow(obj map[string]interface{}) map[string]interface{} {
	if obj == nil {
		return nil
	}
	candidates := []map[string]interface{}{obj, firstRow(obj)}
	if nested, ok := obj["data"].(map[string]interface{}); ok {
		candidates = append(candidates, nested)
	}
	for _, c := range candidates {
		if c != nil && stringValue(c["highest_qualification"]) != "" {
			return c
		}
	}
	return nil
}

func fetchedDocuments(body []byte, subject string) *Fetched {
	obj := decodeObject(body)
	out := &Fetched{RemoteID: firstNonEmpty(extractID(obj, documentIDKeys), subject)}

	var rows []interface{}
	for _, key := range []string{"documents", "data"} {
		if list, ok := obj[key].([]interface{}); ok {
			rows = append(rows, list...)
		}
	}
	for _, r := range rows {
		row, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		if t := firstNonEmpty(stringValue(row["document_type"]), stringValue(row["document_types"])); t != "" {
			out.Uploaded = append(out.Uploaded, t)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
