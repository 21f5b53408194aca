package section

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"employee-onboarding/internal/common/errors"

	"github.com/gabriel-vasile/mimetype"
)

// Attachment is a local file chosen for a document slot. Two attachments
// are the same file when name, size and modification time agree.
type Attachment struct {
	Name    string
	Size    int64
	ModTime time.Time
	Path    string
	MIME    string
}

func (a *Attachment) Open() (io.ReadCloser, error) {
	return os.Open(a.Path)
}

// FileRules bounds what may be attached.
type FileRules struct {
	MaxSize           int64
	AllowedExtensions []string
}

var allowedMIME = []string{"application/pdf", "image/png", "image/jpeg"}

// NewAttachment stats path and checks extension, size and sniffed MIME
// type. Failures are DOCUMENT_REJECTED errors naming the slot.
func NewAttachment(slot, path string, rules FileRules) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewDocumentRejectedError(slot, fmt.Sprintf("Could not read %s.", filepath.Base(path)))
	}
	if info.IsDir() {
		return nil, errors.NewDocumentRejectedError(slot, fmt.Sprintf("%s is a directory.", info.Name()))
	}

	name := info.Name()
	ext := strings.ToLower(filepath.Ext(name))
	if !containsFold(rules.AllowedExtensions, ext) {
		return nil, errors.NewDocumentRejectedError(slot, fmt.Sprintf("%s: only PDF, PNG and JPG files are accepted.", name))
	}
	if rules.MaxSize > 0 && info.Size() > rules.MaxSize {
		return nil, errors.NewDocumentRejectedError(slot, fmt.Sprintf("%s exceeds the %s limit.", name, formatSize(rules.MaxSize)))
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errors.NewDocumentRejectedError(slot, fmt.Sprintf("Could not read %s.", name))
	}
	if !mimetype.EqualsAny(mt.String(), allowedMIME...) {
		return nil, errors.NewDocumentRejectedError(slot, fmt.Sprintf("%s does not look like a PDF, PNG or JPG file (%s).", name, mt.String()))
	}

	return &Attachment{
		Name:    name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Path:    path,
		MIME:    mt.String(),
	}, nil
}

func containsFold(list []string, ext string) bool {
	for _, e := range list {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if e == ext {
			return true
		}
	}
	return false
}

func formatSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%d byte", n)
}
