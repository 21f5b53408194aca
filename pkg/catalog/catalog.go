// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadCatalog(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks id uniqueness and that every leaf names a wire type.
func (f *File) Validate() error {
	if len(f.Slots) == 0 {
		return fmt.Errorf("catalog has no slots")
	}
	seen := map[string]bool{}
	var walk func(slots []Slot, depth int) error
	walk = func(slots []Slot, depth int) error {
		for _, s := range slots {
			if s.ID == "" {
				return fmt.Errorf("slot %q: id is required", s.Title)
			}
			if seen[s.ID] {
				return fmt.Errorf("slot %s: duplicate id", s.ID)
			}
			seen[s.ID] = true
			if s.Title == "" {
				return fmt.Errorf("slot %s: title is required", s.ID)
			}
			if s.IsComposite() {
				if depth > 0 {
					return fmt.Errorf("slot %s: composites cannot be nested", s.ID)
				}
				if err := walk(s.Children, depth+1); err != nil {
					return err
				}
				continue
			}
			if s.Type == "" {
				return fmt.Errorf("slot %s: type is required", s.ID)
			}
		}
		return nil
	}
	return walk(f.Slots, 0)
}
