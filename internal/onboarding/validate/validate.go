// Package validate holds the client-side field rules of every section.
package validate

import (
	"fmt"
	"strings"
	"time"

	"employee-onboarding/internal/common/validation"
	"employee-onboarding/internal/onboarding/section"
)

const (
	MinimumAge = 18

	AcknowledgementField   = "acknowledgement"
	acknowledgementMessage = "Please acknowledge that all the information provided is true and correct."
)

// Validator returns field id -> message; an empty map means valid.
type Validator struct {
	rules   *validation.Rules
	catalog *section.Catalog
}

func New(catalog *section.Catalog, now func() time.Time) *Validator {
	if catalog == nil {
		catalog = section.DefaultCatalog()
	}
	return &Validator{rules: validation.NewRules(now), catalog: catalog}
}

func required(msg string) validation.Check {
	return validation.Check{Tag: "required", Message: msg}
}

// oneOf accepts exactly one of values, case included.
func oneOf(values []string, msg string) validation.Check {
	return validation.Check{Tag: "oneof=" + strings.Join(values, " "), Message: msg}
}

func (v *Validator) Validate(rec section.Record) map[string]string {
	switch r := rec.(type) {
	case *section.PersonalDetails:
		return v.personal(r)
	case *section.ResidentialAddress:
		return v.address(r)
	case *section.OfficialIDInfo:
		return v.officialID(r)
	case *section.EducationEmployment:
		return v.education(r)
	case *section.DocumentUploads:
		return v.documents(r)
	}
	return map[string]string{}
}

func (v *Validator) personal(r *section.PersonalDetails) map[string]string {
	return v.rules.Evaluate([]validation.FieldRule{
		{Field: "fullName", Value: r.FullName, Checks: []validation.Check{required("Full name is required.")}},
		{Field: "fatherName", Value: r.FatherName, Checks: []validation.Check{required("Father's name is required.")}},
		{Field: "dob", Value: r.DOB, Checks: []validation.Check{
			required("Date of birth is required."),
			{Tag: fmt.Sprintf("min_age=%d", MinimumAge), Message: "You must be at least 18 years old."},
		}},
		{Field: "gender", Value: r.Gender, Checks: []validation.Check{
			required("Gender is required."),
			oneOf(section.Genders, "Please select a valid gender."),
		}},
		{Field: "maritalStatus", Value: r.MaritalStatus, Checks: []validation.Check{
			required("Marital status is required."),
			oneOf(section.MaritalStatuses, "Please select a valid marital status."),
		}},
		{Field: "bloodGroup", Value: r.BloodGroup, Checks: []validation.Check{
			required("Blood group is required."),
			oneOf(section.BloodGroups, "Please select a valid blood group."),
		}},
		{Field: "mobileNumber", Value: r.MobileNumber, Checks: []validation.Check{
			required("Mobile number is required."),
			{Tag: "phone10", Message: "Mobile number must be exactly 10 digits."},
		}},
		{Field: "email", Value: r.Email, Checks: []validation.Check{
			required("Email is required."),
			{Tag: "simple_email", Message: "Please enter a valid email address."},
		}},
		{Field: "emergencyContact", Value: r.EmergencyContact, Checks: []validation.Check{
			required("Emergency contact number is required."),
			{Tag: "phone10", Message: "Emergency contact must be exactly 10 digits."},
		}},
	})
}

func (v *Validator) address(r *section.ResidentialAddress) map[string]string {
	field := func(id, value, label string) validation.FieldRule {
		return validation.FieldRule{Field: id, Value: value, Checks: []validation.Check{required(label + " is required.")}}
	}
	return v.rules.Evaluate([]validation.FieldRule{
		field("addressLine", r.AddressLine, "Address line"),
		field("village", r.Village, "Village"),
		field("postOffice", r.PostOffice, "Post office"),
		field("panchayat", r.Panchayat, "Panchayat"),
		field("municipality", r.Municipality, "Municipality"),
		field("taluk", r.Taluk, "Taluk"),
		field("district", r.District, "District"),
		field("state", r.State, "State"),
		field("pinCode", r.PinCode, "Pin code"),
		field("place", r.Place, "Place"),
	})
}

func (v *Validator) officialID(r *section.OfficialIDInfo) map[string]string {
	return v.rules.Evaluate([]validation.FieldRule{
		{Field: "nameForId", Value: r.NameForID, Checks: []validation.Check{required("Name for ID card is required.")}},
		{Field: "mobileForId", Value: r.MobileForID, Checks: []validation.Check{required("Mobile number for ID card is required.")}},
		{Field: "emergencyContactForId", Value: r.EmergencyContactForID, Checks: []validation.Check{required("Emergency contact for ID card is required.")}},
		{Field: "addressForId", Value: r.AddressForID, Checks: []validation.Check{required("Address for ID card is required.")}},
		{Field: "dobForId", Value: r.DOBForID, Checks: []validation.Check{required("Date of birth for ID card is required.")}},
		{Field: "bloodGroupForId", Value: r.BloodGroupForID, Checks: []validation.Check{
			required("Blood group for ID card is required."),
			oneOf(section.BloodGroups, "Please select a valid blood group."),
		}},
	})
}

func (v *Validator) education(r *section.EducationEmployment) map[string]string {
	return v.rules.Evaluate([]validation.FieldRule{
		{Field: "qualification", Value: r.Qualification, Checks: []validation.Check{required("Highest qualification is required.")}},
		{Field: "aadhaarNumber", Value: r.AadhaarNumber, Checks: []validation.Check{required("Aadhaar number is required.")}},
		{Field: "panNumber", Value: validation.NormalizePAN(r.PANNumber), Checks: []validation.Check{
			required("PAN number is required."),
			{Tag: "pan", Message: "PAN number must be in format: ABCDE1234F (5 letters + 4 numbers + 1 letter)."},
		}},
		{Field: "experience", Value: r.Experience, Checks: []validation.Check{required("Experience is required.")}},
		{Field: "joiningDate", Value: r.JoiningDate, Checks: []validation.Check{required("Joining date is required.")}},
		{Field: "branch", Value: r.Branch, Checks: []validation.Check{required("Branch is required.")}},
		{Field: "designation", Value: r.Designation, Checks: []validation.Check{required("Designation is required.")}},
	})
}

// documents reports every missing required leaf slot.
func (v *Validator) documents(r *section.DocumentUploads) map[string]string {
	errs := map[string]string{}
	for _, slot := range v.catalog.Leaves() {
		if slot.Required && r.Files[slot.ID] == nil {
			errs[slot.ID] = fmt.Sprintf("Please upload %s.", slot.Title)
		}
	}
	return errs
}

// Acknowledgement checks the declaration that closes the form. It only
// applies to the final section.
func Acknowledgement(r *section.DocumentUploads) map[string]string {
	if r != nil && r.Acknowledged {
		return map[string]string{}
	}
	return map[string]string{AcknowledgementField: acknowledgementMessage}
}
