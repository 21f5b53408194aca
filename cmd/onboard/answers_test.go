package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"employee-onboarding/internal/common/logger"
	"employee-onboarding/internal/onboarding/section"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadAnswers(t *testing.T) {
	path := writeFile(t, t.TempDir(), "answers.yaml", []byte(`
personal-details:
  fullName: Asha Menon
  dob: 1995-04-12
  mobileNumber: "9876543210"
education-employment:
  panNumber: abcde1234f
`))
	a, err := loadAnswers(path)
	require.NoError(t, err)

	rec, err := a.Record(section.Personal, nil)
	require.NoError(t, err)
	p := rec.(*section.PersonalDetails)
	assert.Equal(t, "Asha Menon", p.FullName)
	assert.Equal(t, "9876543210", p.MobileNumber)
	assert.True(t, p.DOB.Equal(time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)))

	// answers overlay what the stepper already holds
	current := &section.EducationEmployment{Branch: "Kottayam", PANNumber: "OLD"}
	rec, err = a.Record(section.Education, current)
	require.NoError(t, err)
	e := rec.(*section.EducationEmployment)
	assert.Equal(t, "Kottayam", e.Branch)
	assert.Equal(t, "abcde1234f", e.PANNumber)
	assert.Equal(t, "OLD", current.PANNumber, "current record is not modified")

	rec, err = a.Record(section.Address, nil)
	require.NoError(t, err)
	assert.Equal(t, &section.ResidentialAddress{}, rec)
}

func TestLoadAnswers_UnknownSection(t *testing.T) {
	path := writeFile(t, t.TempDir(), "answers.yaml", []byte("bank-details:\n  ifsc: X\n"))
	_, err := loadAnswers(path)
	assert.ErrorContains(t, err, "unknown section")
}

func TestAttachDirectory(t *testing.T) {
	dir := t.TempDir()
	pdf := []byte("%PDF-1.4\n%%EOF\n")
	writeFile(t, dir, "passport-photo.pdf", pdf)
	writeFile(t, dir, "aadhaar-front.pdf", pdf)
	writeFile(t, dir, "notes.pdf", pdf)

	rules := section.FileRules{MaxSize: 1 << 20, AllowedExtensions: []string{".pdf"}}
	docs := &section.DocumentUploads{}
	err := attachDirectory(docs, dir, section.DefaultCatalog(), rules, logger.NewNoOpLogger())
	require.NoError(t, err)

	assert.Len(t, docs.Files, 2)
	assert.Equal(t, "passport-photo.pdf", docs.Files["passport-photo"].Name)
	assert.Contains(t, docs.Files, "aadhaar-front")
}

func TestAttachDirectory_RejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "passport-photo.txt", []byte("not a document"))

	rules := section.FileRules{MaxSize: 1 << 20, AllowedExtensions: []string{".pdf"}}
	err := attachDirectory(&section.DocumentUploads{}, dir, section.DefaultCatalog(), rules, logger.NewNoOpLogger())
	assert.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"--answers", "a.yaml", "--from-step", "3", "--acknowledge"})
	require.NoError(t, err)
	assert.Equal(t, "a.yaml", opts.answersPath)
	assert.Equal(t, 3, opts.fromStep)
	assert.True(t, opts.acknowledge)
	assert.False(t, opts.reset)
}
