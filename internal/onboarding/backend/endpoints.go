package backend

import (
	"net/url"

	"employee-onboarding/internal/onboarding/section"
)

const (
	personalCreatePath  = "api/personal-details/create/"
	addressCreatePath   = "api/addresses/create/"
	officialCreatePath  = "api/official-id/create/"
	educationCreatePath = "api/education-employment/create/"
	documentsUploadPath = "api/documents/"
)

func createPath(id section.ID) string {
	switch id {
	case section.Personal:
		return personalCreatePath
	case section.Address:
		return addressCreatePath
	case section.OfficialID:
		return officialCreatePath
	case section.Education:
		return educationCreatePath
	}
	return ""
}

// updatePath is addressed by key: the subject id for personal and
// official-id, the section's own id for address and education.
func updatePath(id section.ID, key string) string {
	key = url.PathEscape(key)
	switch id {
	case section.Personal:
		return "api/personal-details/" + key + "/"
	case section.Address:
		return "api/addresses/" + key + "/"
	case section.OfficialID:
		return "api/idcards/edit/" + key + "/"
	case section.Education:
		return "api/education-employment/" + key + "/"
	}
	return ""
}

func readPath(id section.ID, subject string) string {
	subject = url.PathEscape(subject)
	switch id {
	case section.Personal:
		return "api/personal-details/" + subject + "/"
	case section.Address:
		return "api/address/list/" + subject + "/"
	case section.OfficialID:
		return "api/idcards/" + subject + "/"
	case section.Education:
		return "api/education-employment/list/" + subject + "/"
	case section.Documents:
		return "api/documents/" + subject + "/"
	}
	return ""
}
