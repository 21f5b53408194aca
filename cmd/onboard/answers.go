package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"employee-onboarding/internal/common/logger"
	"employee-onboarding/internal/onboarding/section"
)

// Answers holds one YAML block per section id. Sections without a block
// keep whatever the stepper already has.
type Answers struct {
	blocks map[section.ID]yaml.Node
}

func loadAnswers(path string) (*Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw := map[string]yaml.Node{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	a := &Answers{blocks: make(map[section.ID]yaml.Node, len(raw))}
	for key, node := range raw {
		id, err := section.Parse(key)
		if err != nil {
			return nil, err
		}
		a.blocks[id] = node
	}
	return a, nil
}

// Record overlays the answers block for id onto a copy of current.
func (a *Answers) Record(id section.ID, current section.Record) (section.Record, error) {
	var rec section.Record
	if current != nil {
		rec = current.Clone()
	} else {
		rec = section.New(id)
	}
	node, ok := a.blocks[id]
	if !ok {
		return rec, nil
	}
	if err := node.Decode(rec); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return rec, nil
}

// attachDirectory attaches every file in dir whose name without extension
// is a leaf slot id. Unknown files are ignored.
func attachDirectory(docs *section.DocumentUploads, dir string, catalog *section.Catalog, rules section.FileRules, log logger.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		slot := strings.TrimSuffix(name, filepath.Ext(name))
		if _, ok := catalog.Leaf(slot); !ok {
			log.Debug("Skipping file with no matching slot", map[string]interface{}{"file": name})
			continue
		}
		att, err := section.NewAttachment(slot, filepath.Join(dir, name), rules)
		if err != nil {
			return err
		}
		docs.Attach(slot, att)
	}
	return nil
}
