package section

import (
	"employee-onboarding/pkg/catalog"
)

// Slot is a document upload slot. Composite slots group leaves and are
// never uploaded themselves.
type Slot struct {
	ID       string
	WireType string
	Title    string
	Required bool
	Children []Slot
}

func (s Slot) IsComposite() bool {
	return len(s.Children) > 0
}

type Catalog struct {
	Slots []Slot
}

// Leaves flattens composites in declaration order.
func (c *Catalog) Leaves() []Slot {
	var out []Slot
	for _, s := range c.Slots {
		if s.IsComposite() {
			out = append(out, s.Children...)
			continue
		}
		out = append(out, s)
	}
	return out
}

// Leaf finds a leaf slot by id.
func (c *Catalog) Leaf(id string) (Slot, bool) {
	for _, s := range c.Leaves() {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}

func leaf(id, wire, title string, required bool) Slot {
	return Slot{ID: id, WireType: wire, Title: title, Required: required}
}

func DefaultCatalog() *Catalog {
	return &Catalog{Slots: []Slot{
		leaf("passport-photo", "passport", "Passport Size Photo", true),
		{ID: "aadhaar-card", Title: "Aadhaar Card", Required: true, Children: []Slot{
			leaf("aadhaar-front", "aadhaar_front", "Aadhaar Card Front", true),
			leaf("aadhaar-back", "aadhaar_back", "Aadhaar Card Back", true),
		}},
		leaf("pan-card", "pan", "PAN Card", true),
		leaf("voter-id", "voter_id", "Voter ID Card", true),
		{ID: "education-certificates", Title: "Education Certificates", Required: true, Children: []Slot{
			leaf("sslc-certificate", "sslc", "SSLC Certificate", true),
			leaf("plustwo-certificate", "plustwo", "Plus Two Certificate", true),
			leaf("ug-certificate", "ug", "Undergraduate Certificate", false),
			leaf("pg-certificate", "pg", "Postgraduate Certificate", false),
		}},
		leaf("experience-letter", "experience", "Experience Letter", false),
		leaf("police-clearance", "police_clearance", "Police Clearance Certificate", true),
		leaf("cibil-report", "cibil_report", "CIBIL Report", true),
	}}
}

// LoadCatalog reads a JSON catalog, or returns the default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	f, err := catalog.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return FromFile(f), nil
}

func FromFile(f *catalog.File) *Catalog {
	c := &Catalog{}
	for _, s := range f.Slots {
		c.Slots = append(c.Slots, fromSpec(s))
	}
	return c
}

func fromSpec(s catalog.Slot) Slot {
	out := Slot{ID: s.ID, WireType: s.Type, Title: s.Title, Required: s.Required}
	for _, child := range s.Children {
		out.Children = append(out.Children, fromSpec(child))
	}
	return out
}

// ToFile converts the catalog to its on-disk form.
func (c *Catalog) ToFile() *catalog.File {
	f := &catalog.File{Version: "1"}
	for _, s := range c.Slots {
		f.Slots = append(f.Slots, toSpec(s))
	}
	return f
}

func toSpec(s Slot) catalog.Slot {
	out := catalog.Slot{ID: s.ID, Type: s.WireType, Title: s.Title, Required: s.Required}
	for _, child := range s.Children {
		out.Children = append(out.Children, toSpec(child))
	}
	return out
}
