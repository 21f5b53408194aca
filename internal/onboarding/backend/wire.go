package backend

import (
	"strings"
	"time"

	"employee-onboarding/internal/common/validation"
	"employee-onboarding/internal/onboarding/section"
)

const dateLayout = "2006-01-02"

type personalPayload struct {
	FullName               string `json:"full_name"`
	FatherName             string `json:"father_name"`
	DateOfBirth            string `json:"date_of_birth"`
	Gender                 string `json:"gender"`
	MaritalStatus          string `json:"marital_status"`
	BloodGroup             string `json:"blood_group"`
	MobileNumber           string `json:"mobile_number"`
	Email                  string `json:"email"`
	EmergencyContactNumber string `json:"emergency_contact_number"`
}

type addressPayload struct {
	User         string `json:"user"`
	AddressLine  string `json:"address_line"`
	Village      string `json:"village"`
	PostOffice   string `json:"post_office"`
	Panchayat    string `json:"panchayat"`
	Municipality string `json:"municipality"`
	Taluk        string `json:"taluk"`
	District     string `json:"district"`
	State        string `json:"state"`
	PinCode      string `json:"pin_code"`
	Place        string `json:"place"`
}

type officialIDPayload struct {
	User                   string `json:"user"`
	FullName               string `json:"full_name"`
	MobileNumber           string `json:"mobile_number"`
	EmergencyContactNumber string `json:"emergency_contact_number"`
	Address                string `json:"address"`
	DateOfBirth            string `json:"date_of_birth"`
	BloodGroup             string `json:"blood_group"`
}

type educationPayload struct {
	User                 string `json:"user"`
	HighestQualification string `json:"highest_qualification"`
	AadhaarNumber        string `json:"aadhaar_number"`
	PANNumber            string `json:"pan_number"`
	ExperienceYears      string `json:"experience_years"`
	JoiningDate          string `json:"joining_date"`
	Branch               string `json:"branch"`
	Designation          string `json:"designation"`
	PreviousEmployer     string `json:"previous_employer"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// parseDate accepts a plain date or a full timestamp. Unparseable input
// yields the zero time, which validation then reports as missing.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

// toWire maps a record to its JSON payload. subject fills the user field
// of every section except personal.
func toWire(rec section.Record, subject string) interface{} {
	switch r := rec.(type) {
	case *section.PersonalDetails:
		return personalPayload{
			FullName:               r.FullName,
			FatherName:             r.FatherName,
			DateOfBirth:            formatDate(r.DOB),
			Gender:                 r.Gender,
			MaritalStatus:          r.MaritalStatus,
			BloodGroup:             r.BloodGroup,
			MobileNumber:           r.MobileNumber,
			Email:                  r.Email,
			EmergencyContactNumber: r.EmergencyContact,
		}
	case *section.ResidentialAddress:
		return addressPayload{
			User:         subject,
			AddressLine:  r.AddressLine,
			Village:      r.Village,
			PostOffice:   r.PostOffice,
			Panchayat:    r.Panchayat,
			Municipality: r.Municipality,
			Taluk:        r.Taluk,
			District:     r.District,
			State:        r.State,
			PinCode:      r.PinCode,
			Place:        r.Place,
		}
	case *section.OfficialIDInfo:
		return officialIDPayload{
			User:                   subject,
			FullName:               r.NameForID,
			MobileNumber:           r.MobileForID,
			EmergencyContactNumber: r.EmergencyContactForID,
			Address:                r.AddressForID,
			DateOfBirth:            formatDate(r.DOBForID),
			BloodGroup:             r.BloodGroupForID,
		}
	case *section.EducationEmployment:
		return educationPayload{
			User:                 subject,
			HighestQualification: r.Qualification,
			AadhaarNumber:        r.AadhaarNumber,
			PANNumber:            validation.NormalizePAN(r.PANNumber),
			ExperienceYears:      r.Experience,
			JoiningDate:          formatDate(r.JoiningDate),
			Branch:               r.Branch,
			Designation:          r.Designation,
			PreviousEmployer:     r.PreviousEmployer,
		}
	}
	return nil
}

// fromWire maps a read response object back to a record. Values are
// looked up loosely since list endpoints sometimes return numbers.
func fromWire(id section.ID, obj map[string]interface{}) section.Record {
	s := func(key string) string { return stringValue(obj[key]) }

	switch id {
	case section.Personal:
		return &section.PersonalDetails{
			FullName:         s("full_name"),
			FatherName:       s("father_name"),
			DOB:              parseDate(s("date_of_birth")),
			Gender:           s("gender"),
			MaritalStatus:    s("marital_status"),
			BloodGroup:       s("blood_group"),
			MobileNumber:     s("mobile_number"),
			Email:            s("email"),
			EmergencyContact: s("emergency_contact_number"),
		}
	case section.Address:
		return &section.ResidentialAddress{
			AddressLine:  s("address_line"),
			Village:      s("village"),
			PostOffice:   s("post_office"),
			Panchayat:    s("panchayat"),
			Municipality: s("municipality"),
			Taluk:        s("taluk"),
			District:     s("district"),
			State:        s("state"),
			PinCode:      s("pin_code"),
			Place:        s("place"),
		}
	case section.OfficialID:
		return &section.OfficialIDInfo{
			NameForID:             s("full_name"),
			MobileForID:           s("mobile_number"),
			EmergencyContactForID: s("emergency_contact_number"),
			AddressForID:          s("address"),
			DOBForID:              parseDate(s("date_of_birth")),
			BloodGroupForID:       s("blood_group"),
		}
	case section.Education:
		return &section.EducationEmployment{
			Qualification:    s("highest_qualification"),
			AadhaarNumber:    s("aadhaar_number"),
			PANNumber:        s("pan_number"),
			Experience:       s("experience_years"),
			JoiningDate:      parseDate(s("joining_date")),
			Branch:           s("branch"),
			Designation:      s("designation"),
			PreviousEmployer: s("previous_employer"),
		}
	}
	return nil
}
