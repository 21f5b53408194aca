// cmd/tools/catalog-tool/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"employee-onboarding/internal/onboarding/section"
	"employee-onboarding/pkg/catalog"
)

var catalogPath string

func main() {
	exportCmd := pflag.NewFlagSet("export", pflag.ExitOnError)
	addCmd := pflag.NewFlagSet("add", pflag.ExitOnError)
	updateCmd := pflag.NewFlagSet("update", pflag.ExitOnError)
	validateCmd := pflag.NewFlagSet("validate", pflag.ExitOnError)

	for _, fs := range []*pflag.FlagSet{exportCmd, addCmd, updateCmd, validateCmd} {
		fs.StringVar(&catalogPath, "path", "configs/document-catalog.json", "Path to catalog file")
	}

	// Export command flags
	force := exportCmd.Bool("force", false, "Overwrite an existing catalog file")

	// Add command flags
	idAdd := addCmd.String("id", "", "Slot ID (e.g., diploma-certificate)")
	wireType := addCmd.String("type", "", "Backend document type (e.g., diploma)")
	title := addCmd.String("title", "", "Title shown to the user")
	description := addCmd.String("description", "", "Description")
	parent := addCmd.String("parent", "", "Composite slot to add the slot under")
	required := addCmd.Bool("required", false, "Whether the slot must be filled before completing")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Slot ID to update")
	field := updateCmd.String("field", "", "Field to update (title, type, description, required)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := exportDefault(*force); err != nil {
			fmt.Printf("Error exporting catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default catalog to %s\n", catalogPath)

	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *title == "" || *wireType == "" {
			fmt.Println("Error: id, title, and type are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		slot := catalog.Slot{
			ID:          *idAdd,
			Type:        *wireType,
			Title:       *title,
			Description: *description,
			Required:    *required,
		}
		if err := addSlot(slot, *parent); err != nil {
			fmt.Printf("Error adding slot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added slot: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" {
			fmt.Println("Error: id and field are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateSlot(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating slot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated slot %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateCatalog(); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func exportDefault(force bool) error {
	if _, err := os.Stat(catalogPath); err == nil && !force {
		return fmt.Errorf("%s already exists, pass --force to overwrite", catalogPath)
	}
	return saveCatalog(section.DefaultCatalog().ToFile(), catalogPath)
}

func loadOrDefault() (*catalog.File, error) {
	f, err := catalog.LoadCatalog(catalogPath)
	if err == nil {
		return f, nil
	}
	if os.IsNotExist(err) {
		return section.DefaultCatalog().ToFile(), nil
	}
	return nil, fmt.Errorf("failed to load catalog: %w", err)
}

func addSlot(slot catalog.Slot, parent string) error {
	f, err := loadOrDefault()
	if err != nil {
		return err
	}

	if parent == "" {
		f.Slots = append(f.Slots, slot)
	} else {
		found := false
		for i := range f.Slots {
			if f.Slots[i].ID == parent {
				if !f.Slots[i].IsComposite() {
					return fmt.Errorf("slot %s is not a composite", parent)
				}
				f.Slots[i].Children = append(f.Slots[i].Children, slot)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("composite slot %s not found", parent)
		}
	}

	if err := f.Validate(); err != nil {
		return err
	}
	f.LastUpdated = time.Now().Format(time.RFC3339)
	return saveCatalog(f, catalogPath)
}

func findSlot(slots []catalog.Slot, id string) *catalog.Slot {
	for i := range slots {
		if slots[i].ID == id {
			return &slots[i]
		}
		if s := findSlot(slots[i].Children, id); s != nil {
			return s
		}
	}
	return nil
}

func updateSlot(id, field, value string) error {
	f, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	s := findSlot(f.Slots, id)
	if s == nil {
		return fmt.Errorf("slot with ID %s not found", id)
	}
	switch field {
	case "title":
		s.Title = value
	case "type":
		if s.IsComposite() {
			return fmt.Errorf("slot %s is a composite and has no type", id)
		}
		s.Type = value
	case "description":
		s.Description = value
	case "required":
		req, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid required value: %w", err)
		}
		s.Required = req
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	if err := f.Validate(); err != nil {
		return err
	}
	f.LastUpdated = time.Now().Format(time.RFC3339)
	return saveCatalog(f, catalogPath)
}

func validateCatalog() error {
	f, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}
	cat := section.FromFile(f)
	fmt.Printf("Catalog validation passed. Found %d slots, %d uploadable.\n", len(f.Slots), len(cat.Leaves()))
	return nil
}

// saveCatalog handles saving the catalog to file
func saveCatalog(f *catalog.File, path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: catalog-tool <command> [flags]

Commands:
  export    Write the built-in document catalog to a file
  add       Add an upload slot to the catalog
  update    Update an existing slot's field
  validate  Validate the catalog file
  help      Show this help message

Examples:
  catalog-tool export --path configs/document-catalog.json
  catalog-tool add --id diploma-certificate --type diploma --title "Diploma Certificate" --parent education-certificates
  catalog-tool update --id passport-photo --field required --value false
  catalog-tool validate --path configs/document-catalog.json

Use 'catalog-tool <command> -h' for more information about a command.
`)
}
