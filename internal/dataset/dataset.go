// Package dataset loads emission-factor datasets from YAML files into the
// in-memory indexed table the engine resolves against.
//
// Loading is a collaborator concern: the calculation core never reads files.
// Each dataset file declares a schema version that is gated against the
// supported constraint before any rows are parsed, so a future format bump
// fails loudly instead of miscalculating.
package dataset

import (
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/emfactor/emfactor/internal/factors"
	"github.com/emfactor/emfactor/internal/units"
)

// SupportedSchema is the semver constraint dataset files must satisfy.
const SupportedSchema = "^1"

// Loader errors.
var (
	ErrUnsupportedSchema = errors.New("unsupported dataset schema version")
	ErrNoFactors         = errors.New("dataset contains no factors")
)

// Metadata describes one dataset file.
type Metadata struct {
	// SchemaVersion is the file format version, gated by SupportedSchema.
	SchemaVersion string `yaml:"schema_version"`

	// Name is the dataset identifier rows inherit when they declare none
	// (e.g. "DEFRA", "EPA_eGRID").
	Name string `yaml:"name"`

	// Publisher is the issuing organisation, informational only.
	Publisher string `yaml:"publisher"`
}

// Set is one parsed dataset file.
type Set struct {
	Metadata Metadata
	Factors  []factors.Factor
}

// file is the on-disk YAML shape.
type file struct {
	Metadata `yaml:",inline"`
	Factors  []factors.Factor `yaml:"factors"`
}

// Load parses and validates a single dataset file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates dataset file contents.
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing dataset file: %w", err)
	}

	if err := checkSchema(f.SchemaVersion); err != nil {
		return nil, err
	}
	if f.Name == "" {
		return nil, fmt.Errorf("%w: name", factors.ErrMissingField)
	}
	if len(f.Factors) == 0 {
		return nil, ErrNoFactors
	}

	for i := range f.Factors {
		if f.Factors[i].Dataset == "" {
			f.Factors[i].Dataset = f.Name
		}
		if err := f.Factors[i].Validate(); err != nil {
			return nil, fmt.Errorf("factor %d: %w", i, err)
		}
		if !units.IsRecognized(f.Factors[i].Unit) {
			return nil, fmt.Errorf("factor %d: %w", i, &units.UnknownUnitError{Unit: f.Factors[i].Unit})
		}
	}

	return &Set{Metadata: f.Metadata, Factors: f.Factors}, nil
}

// LoadTable loads one or more dataset files and builds the merged indexed
// table the resolver queries.
func LoadTable(paths ...string) (*factors.IndexedTable, error) {
	var records []factors.Factor
	for _, path := range paths {
		set, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, set.Factors...)
	}

	table, err := factors.NewIndexedTable(records)
	if err != nil {
		return nil, fmt.Errorf("indexing factors: %w", err)
	}
	return table, nil
}

// checkSchema gates the declared schema version against SupportedSchema.
func checkSchema(version string) error {
	if version == "" {
		return fmt.Errorf("%w: schema_version is required", ErrUnsupportedSchema)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %s", ErrUnsupportedSchema, version, err)
	}

	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("%w: %q does not satisfy %q", ErrUnsupportedSchema, version, SupportedSchema)
	}
	return nil
}
