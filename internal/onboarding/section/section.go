// Package section defines the five onboarding sections and their records.
package section

import (
	"fmt"
	"time"
)

type ID string

const (
	Personal   ID = "personal-details"
	Address    ID = "address"
	OfficialID ID = "official-id"
	Education  ID = "education-employment"
	Documents  ID = "documents"
)

// Order is the fixed stepper order. Personal is the lead section: its
// first create yields the subject id.
var Order = []ID{Personal, Address, OfficialID, Education, Documents}

var titles = map[ID]string{
	Personal:   "Personal Details",
	Address:    "Residential Address",
	OfficialID: "Official ID Information",
	Education:  "Education & Employment",
	Documents:  "Document Upload",
}

func (id ID) Title() string {
	if t, ok := titles[id]; ok {
		return t
	}
	return string(id)
}

// Index returns the position of id in Order, or -1.
func (id ID) Index() int {
	for i, s := range Order {
		if s == id {
			return i
		}
	}
	return -1
}

func (id ID) IsLead() bool {
	return id == Personal
}

func Parse(s string) (ID, error) {
	id := ID(s)
	if id.Index() < 0 {
		return "", fmt.Errorf("unknown section %q", s)
	}
	return id, nil
}

// Accepted choice values, shared by local validation and the wire contracts.
var (
	Genders         = []string{"male", "female", "other"}
	MaritalStatuses = []string{"single", "married", "divorced", "widowed"}
	BloodGroups     = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
)

// Record is the user-entered data of one section.
type Record interface {
	Section() ID
	Clone() Record
}

// New returns the empty record for id.
func New(id ID) Record {
	switch id {
	case Personal:
		return &PersonalDetails{}
	case Address:
		return &ResidentialAddress{}
	case OfficialID:
		return &OfficialIDInfo{}
	case Education:
		return &EducationEmployment{}
	case Documents:
		return &DocumentUploads{Files: map[string]*Attachment{}}
	}
	return nil
}

type PersonalDetails struct {
	FullName         string    `yaml:"fullName"`
	FatherName       string    `yaml:"fatherName"`
	DOB              time.Time `yaml:"dob"`
	Gender           string    `yaml:"gender"`
	MaritalStatus    string    `yaml:"maritalStatus"`
	BloodGroup       string    `yaml:"bloodGroup"`
	MobileNumber     string    `yaml:"mobileNumber"`
	Email            string    `yaml:"email"`
	EmergencyContact string    `yaml:"emergencyContact"`
}

func (r *PersonalDetails) Section() ID { return Personal }

func (r *PersonalDetails) Clone() Record {
	c := *r
	return &c
}

type ResidentialAddress struct {
	AddressLine  string `yaml:"addressLine"`
	Village      string `yaml:"village"`
	PostOffice   string `yaml:"postOffice"`
	Panchayat    string `yaml:"panchayat"`
	Municipality string `yaml:"municipality"`
	Taluk        string `yaml:"taluk"`
	District     string `yaml:"district"`
	State        string `yaml:"state"`
	PinCode      string `yaml:"pinCode"`
	Place        string `yaml:"place"`
}

func (r *ResidentialAddress) Section() ID { return Address }

func (r *ResidentialAddress) Clone() Record {
	c := *r
	return &c
}

type OfficialIDInfo struct {
	NameForID             string    `yaml:"nameForId"`
	MobileForID           string    `yaml:"mobileForId"`
	EmergencyContactForID string    `yaml:"emergencyContactForId"`
	AddressForID          string    `yaml:"addressForId"`
	DOBForID              time.Time `yaml:"dobForId"`
	BloodGroupForID       string    `yaml:"bloodGroupForId"`
}

func (r *OfficialIDInfo) Section() ID { return OfficialID }

func (r *OfficialIDInfo) Clone() Record {
	c := *r
	return &c
}

type EducationEmployment struct {
	Qualification    string    `yaml:"qualification"`
	AadhaarNumber    string    `yaml:"aadhaarNumber"`
	PANNumber        string    `yaml:"panNumber"`
	Experience       string    `yaml:"experience"`
	JoiningDate      time.Time `yaml:"joiningDate"`
	Branch           string    `yaml:"branch"`
	Designation      string    `yaml:"designation"`
	PreviousEmployer string    `yaml:"previousEmployer,omitempty"`
}

func (r *EducationEmployment) Section() ID { return Education }

func (r *EducationEmployment) Clone() Record {
	c := *r
	return &c
}

// DocumentUploads maps leaf slot ids to attached files.
type DocumentUploads struct {
	Files        map[string]*Attachment `yaml:"-"`
	Acknowledged bool                   `yaml:"acknowledged"`
}

func (r *DocumentUploads) Section() ID { return Documents }

// Clone copies the slot map. Attachments are immutable once built and
// are shared.
func (r *DocumentUploads) Clone() Record {
	c := &DocumentUploads{Acknowledged: r.Acknowledged, Files: make(map[string]*Attachment, len(r.Files))}
	for k, v := range r.Files {
		c.Files[k] = v
	}
	return c
}

// Attach sets or clears (a == nil) the file of a slot.
func (r *DocumentUploads) Attach(slot string, a *Attachment) {
	if r.Files == nil {
		r.Files = map[string]*Attachment{}
	}
	if a == nil {
		delete(r.Files, slot)
		return
	}
	r.Files[slot] = a
}
