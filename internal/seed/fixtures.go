// Package seed loads the YAML fixture set used to populate a fresh portal
// database with departments, folders and frames.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the full seed data set for one environment.
type Fixtures struct {
	Departments     []DepartmentFixture `yaml:"departments"`
	Folders         []FolderFixture     `yaml:"folders"`
	Frames          []FrameFixture      `yaml:"frames"`
	DepartmentOrder []string            `yaml:"department_order"`
}

// DepartmentFixture mirrors a row the HR sync would normally own.
type DepartmentFixture struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// FolderFixture describes a folder and its subtree. Department is only set on
// top-level folders; children inherit it.
type FolderFixture struct {
	Department string          `yaml:"department,omitempty"`
	Name       string          `yaml:"name"`
	Slug       string          `yaml:"slug,omitempty"`
	Emoji      string          `yaml:"emoji,omitempty"`
	Children   []FolderFixture `yaml:"children,omitempty"`
}

// FrameFixture describes a frame and where it is placed. Placements are
// slug paths of folders inside the home department ("tools/ci"); an empty
// string places the frame at the department's top level.
type FrameFixture struct {
	Name        string   `yaml:"name"`
	URL         string   `yaml:"url"`
	Description string   `yaml:"description,omitempty"`
	Emoji       string   `yaml:"emoji,omitempty"`
	Department  string   `yaml:"department"`
	VisibleTo   []string `yaml:"visible_to,omitempty"`
	Placements  []string `yaml:"placements"`
}

// Load reads fixtures from the given file, or the embedded default set when
// path is empty.
func Load(path string) (*Fixtures, error) {
	data := defaultFixtures
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixtures: %w", err)
		}
	}

	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	return &f, nil
}

// Validate checks cross-references before anything touches the database.
func (f *Fixtures) Validate() error {
	if len(f.Departments) == 0 {
		return fmt.Errorf("at least one department is required")
	}
	depts := make(map[string]bool, len(f.Departments))
	for _, d := range f.Departments {
		if d.ID == "" || d.Name == "" {
			return fmt.Errorf("department needs both id and name (got id=%q name=%q)", d.ID, d.Name)
		}
		if depts[d.ID] {
			return fmt.Errorf("duplicate department id %q", d.ID)
		}
		depts[d.ID] = true
	}

	for _, folder := range f.Folders {
		if !depts[folder.Department] {
			return fmt.Errorf("folder %q references unknown department %q", folder.Name, folder.Department)
		}
		if err := validateFolder(&folder); err != nil {
			return err
		}
	}

	for _, frame := range f.Frames {
		if frame.Name == "" || frame.URL == "" {
			return fmt.Errorf("frame needs both name and url (got name=%q)", frame.Name)
		}
		if !depts[frame.Department] {
			return fmt.Errorf("frame %q references unknown department %q", frame.Name, frame.Department)
		}
		if len(frame.Placements) == 0 {
			return fmt.Errorf("frame %q has no placements", frame.Name)
		}
		for _, v := range frame.VisibleTo {
			if !depts[v] {
				return fmt.Errorf("frame %q visible_to unknown department %q", frame.Name, v)
			}
		}
	}

	for _, id := range f.DepartmentOrder {
		if !depts[id] {
			return fmt.Errorf("department_order references unknown department %q", id)
		}
	}
	return nil
}

func validateFolder(folder *FolderFixture) error {
	if folder.Name == "" {
		return fmt.Errorf("folder without a name under department %q", folder.Department)
	}
	for i := range folder.Children {
		if folder.Children[i].Department != "" {
			return fmt.Errorf("nested folder %q must not set a department", folder.Children[i].Name)
		}
		if err := validateFolder(&folder.Children[i]); err != nil {
			return err
		}
	}
	return nil
}
