package backend

import (
	"strings"

	"employee-onboarding/internal/common/errors"
	"employee-onboarding/internal/common/validation"
	"employee-onboarding/internal/onboarding/section"
)

const datePattern = `^\d{4}-\d{2}-\d{2}$`

var (
	requiredString = validation.Property{Type: "string", MinLength: validation.IntPtr(1)}
)

func str(desc string) validation.Property {
	p := requiredString
	p.Description = desc
	return p
}

func pattern(desc, re string) validation.Property {
	return validation.Property{Type: "string", Description: desc, Pattern: re}
}

func enum(desc string, values []string) validation.Property {
	return validation.Property{Type: "string", Description: desc, Enum: values}
}

var contracts = map[section.ID]validation.JSONSchema{
	section.Personal: {
		Type: "object",
		Properties: map[string]validation.Property{
			"full_name":                str("Full legal name"),
			"father_name":              str("Father's name"),
			"date_of_birth":            pattern("Date of birth", datePattern),
			"gender":                   enum("Gender", section.Genders),
			"marital_status":           enum("Marital status", section.MaritalStatuses),
			"blood_group":              enum("Blood group", section.BloodGroups),
			"mobile_number":            pattern("10 digit mobile number", `^\d{10}$`),
			"email":                    str("Email address"),
			"emergency_contact_number": pattern("10 digit emergency contact", `^\d{10}$`),
		},
		Required: []string{
			"full_name", "father_name", "date_of_birth", "gender", "marital_status",
			"blood_group", "mobile_number", "email", "emergency_contact_number",
		},
		AdditionalProperties: validation.BoolPtr(false),
	},
	section.Address: {
		Type: "object",
		Properties: map[string]validation.Property{
			"user":         str("Subject id"),
			"address_line": str("Address line"),
			"village":      str("Village"),
			"post_office":  str("Post office"),
			"panchayat":    str("Panchayat"),
			"municipality": str("Municipality"),
			"taluk":        str("Taluk"),
			"district":     str("District"),
			"state":        str("State"),
			"pin_code":     str("Pin code"),
			"place":        str("Place"),
		},
		Required: []string{
			"user", "address_line", "village", "post_office", "panchayat",
			"municipality", "taluk", "district", "state", "pin_code", "place",
		},
		AdditionalProperties: validation.BoolPtr(false),
	},
	section.OfficialID: {
		Type: "object",
		Properties: map[string]validation.Property{
			"user":                     str("Subject id"),
			"full_name":                str("Name printed on the card"),
			"mobile_number":            str("Mobile number"),
			"emergency_contact_number": str("Emergency contact"),
			"address":                  str("Address printed on the card"),
			"date_of_birth":            pattern("Date of birth", datePattern),
			"blood_group":              enum("Blood group", section.BloodGroups),
		},
		Required: []string{
			"user", "full_name", "mobile_number", "emergency_contact_number",
			"address", "date_of_birth", "blood_group",
		},
		AdditionalProperties: validation.BoolPtr(false),
	},
	section.Education: {
		Type: "object",
		Properties: map[string]validation.Property{
			"user":                  str("Subject id"),
			"highest_qualification": str("Highest qualification"),
			"aadhaar_number":        str("Aadhaar number"),
			"pan_number":            pattern("PAN", `^[A-Z]{5}[0-9]{4}[A-Z]$`),
			"experience_years":      str("Years of experience"),
			"joining_date":          pattern("Joining date", datePattern),
			"branch":                str("Branch"),
			"designation":           str("Designation"),
			"previous_employer":     {Type: "string", Description: "Previous employer"},
		},
		Required: []string{
			"user", "highest_qualification", "aadhaar_number", "pan_number",
			"experience_years", "joining_date", "branch", "designation",
		},
		AdditionalProperties: validation.BoolPtr(false),
	},
}

// checkContract validates a payload before it is sent.
func checkContract(id section.ID, payload interface{}) error {
	schema, ok := contracts[id]
	if !ok {
		return nil
	}
	result, err := validation.ValidatePayload(payload, schema)
	if err != nil {
		return errors.NewPayloadContractError(string(id), err.Error())
	}
	if !result.Valid {
		return errors.NewPayloadContractError(string(id), strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}
