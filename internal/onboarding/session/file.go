package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "employee-onboarding/internal/common/errors"

	"gopkg.in/yaml.v3"
)

// fileDocument is the on-disk layout. Several keys may share one file.
type fileDocument struct {
	Sessions map[string]fileEntry `yaml:"sessions"`
}

type fileEntry struct {
	SubjectID string    `yaml:"subject_id"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// FileStore keeps the id in a YAML document readable only by the owner.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  string
}

func NewFileStore(path, key string) *FileStore {
	return &FileStore{path: path, key: key}
}

func (s *FileStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", apperrors.NewSessionStoreError("load", err)
	}
	entry, ok := doc.Sessions[s.key]
	if !ok || entry.SubjectID == "" {
		return "", ErrNoSession
	}
	return entry.SubjectID, nil
}

func (s *FileStore) Save(_ context.Context, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return apperrors.NewSessionStoreError("save", err)
	}
	doc.Sessions[s.key] = fileEntry{SubjectID: subjectID, UpdatedAt: time.Now().UTC()}
	if err := s.write(doc); err != nil {
		return apperrors.NewSessionStoreError("save", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return apperrors.NewSessionStoreError("clear", err)
	}
	if _, ok := doc.Sessions[s.key]; !ok {
		return nil
	}
	delete(doc.Sessions, s.key)
	if err := s.write(doc); err != nil {
		return apperrors.NewSessionStoreError("clear", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() (*fileDocument, error) {
	doc := &fileDocument{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		doc.Sessions = map[string]fileEntry{}
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	if doc.Sessions == nil {
		doc.Sessions = map[string]fileEntry{}
	}
	return doc, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *FileStore) write(doc *fileDocument) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*.yaml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
