// pkg/catalog/schema.go
package catalog

// File is the on-disk document catalog.
type File struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Slots       []Slot `json:"slots"`
}

// Slot is one upload slot. A slot with Children is a composite and carries
// no Type of its own.
type Slot struct {
	ID          string `json:"id"`
	Type        string `json:"type,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Children    []Slot `json:"children,omitempty"`
}

func (s Slot) IsComposite() bool {
	return len(s.Children) > 0
}
