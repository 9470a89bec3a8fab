// Package runcontrol loads named region mappings and validation criteria
// from YAML documents into a registry, so callers can refer to external
// lookup tables by name instead of carrying them around.
package runcontrol

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/models"
)

// Document is the YAML shape accepted by Parse:
//
//	region_mappings:
//	  iso_to_r5:
//	    columns: [iso, r5_region]
//	    rows:
//	      - [SSD, R5MAF]
//	      - [SDN, R5MAF]
//	validation:
//	  sanity:
//	    Primary Energy: {up: 10.0, lo: 0.0}
//	fills:
//	  harmonization:
//	    Emissions|CCl4:
//	      unit: kt CCl4 / yr
//	      lead variable: Emissions|CH4
//	      scale year: 2015
//	      scale value: 11.2
type Document struct {
	RegionMappings map[string]models.RegionMapping           `yaml:"region_mappings"`
	Validation     map[string]map[string]models.Bounds       `yaml:"validation"`
	Fills          map[string]map[string]models.VariableFill `yaml:"fills"`
}

// Parse decodes a YAML run-control document. Mapping names are filled in
// from their document keys.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: cannot parse run-control document: %v", apperrors.ErrSchema, err)
	}
	for name, m := range doc.RegionMappings {
		m.Name = name
		doc.RegionMappings[name] = m
	}
	return doc, nil
}

// Registry indexes named region mappings and criteria bundles.
type Registry struct {
	mappings   map[string]models.RegionMapping
	validation map[string]map[string]models.Bounds
	fills      map[string]map[string]models.VariableFill
	logger     *zap.Logger
}

// Option configures a registry.
type Option func(*Registry)

// WithLogger attaches a zap logger; nil keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry builds an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		mappings:   make(map[string]models.RegionMapping),
		validation: make(map[string]map[string]models.Bounds),
		fills:      make(map[string]map[string]models.VariableFill),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load parses a YAML document and registers everything it declares. Names
// colliding with already-registered entries fail with a conflict error
// before anything is registered.
func (r *Registry) Load(data []byte) error {
	doc, err := Parse(data)
	if err != nil {
		return err
	}
	for name := range doc.RegionMappings {
		if _, ok := r.mappings[name]; ok {
			return fmt.Errorf("%w: region mapping %q is already registered", apperrors.ErrConflict, name)
		}
	}
	for name := range doc.Validation {
		if _, ok := r.validation[name]; ok {
			return fmt.Errorf("%w: criteria bundle %q is already registered", apperrors.ErrConflict, name)
		}
	}
	for name := range doc.Fills {
		if _, ok := r.fills[name]; ok {
			return fmt.Errorf("%w: fill bundle %q is already registered", apperrors.ErrConflict, name)
		}
	}

	for name, m := range doc.RegionMappings {
		r.mappings[name] = m
	}
	for name, c := range doc.Validation {
		r.validation[name] = c
	}
	for name, f := range doc.Fills {
		r.fills[name] = f
	}
	r.logger.Debug("run-control document loaded",
		zap.Int("region_mappings", len(doc.RegionMappings)),
		zap.Int("validation_bundles", len(doc.Validation)),
		zap.Int("fill_bundles", len(doc.Fills)))
	return nil
}

// Register adds one region mapping under its own name.
func (r *Registry) Register(m models.RegionMapping) error {
	if m.Name == "" {
		return fmt.Errorf("%w: region mapping has no name", apperrors.ErrInvalidArgument)
	}
	if _, ok := r.mappings[m.Name]; ok {
		return fmt.Errorf("%w: region mapping %q is already registered", apperrors.ErrConflict, m.Name)
	}
	r.mappings[m.Name] = m
	return nil
}

// RegionMap resolves a mapping by name.
func (r *Registry) RegionMap(name string) (models.RegionMapping, error) {
	m, ok := r.mappings[name]
	if !ok {
		return models.RegionMapping{}, fmt.Errorf("%w: unknown region mapping %q", apperrors.ErrInvalidArgument, name)
	}
	return m, nil
}

// Links resolves a mapping by name and projects it onto a (from, to) column
// pair.
func (r *Registry) Links(name, fromCol, toCol string) ([]models.RegionLink, error) {
	m, err := r.RegionMap(name)
	if err != nil {
		return nil, err
	}
	return m.Links(fromCol, toCol)
}

// Criteria resolves a validation-criteria bundle by name.
func (r *Registry) Criteria(name string) (map[string]models.Bounds, error) {
	c, ok := r.validation[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown criteria bundle %q", apperrors.ErrInvalidArgument, name)
	}
	return c, nil
}

// FillConfig resolves a gap-filling bundle by name.
func (r *Registry) FillConfig(name string) (map[string]models.VariableFill, error) {
	f, ok := r.fills[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown fill bundle %q", apperrors.ErrInvalidArgument, name)
	}
	return f, nil
}
