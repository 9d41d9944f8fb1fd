// Package loader populates allocation states from external sources: the
// plain-text state format and YAML state documents, resolved through any
// afs-supported URL scheme.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/allocsafe/banker/model"
)

// Service loads states from URLs relative to an optional base location.
type Service struct {
	fs       afs.Service
	baseURL  string
	capacity model.Capacity
	options  []storage.Option
}

// New creates a loader service.  A zero capacity falls back to the model
// package defaults.
func New(fs afs.Service, baseURL string, capacity model.Capacity, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{
		fs:       fs,
		baseURL:  baseURL,
		capacity: capacity,
		options:  options,
	}
}

// Capacity returns the capacity bound applied to loaded states.
func (s *Service) Capacity() model.Capacity {
	return s.capacity
}

// Load reads and decodes the state at the given URL.  Files with a .yaml or
// .yml extension are decoded as YAML documents, everything else as the
// plain-text format.
func (s *Service) Load(ctx context.Context, URL string) (*model.State, error) {
	resolved := s.normalizeURL(URL)
	data, err := s.fs.DownloadWithURL(ctx, resolved, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load state from %s: %w", resolved, err)
	}
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		return DecodeYAML(data, s.capacity)
	default:
		return Parse(data, s.capacity)
	}
}

// Download fetches raw bytes from a URL resolved against the base location.
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	return s.fs.DownloadWithURL(ctx, s.normalizeURL(URL), s.options...)
}

func (s *Service) normalizeURL(URL string) string {
	if s.baseURL == "" || strings.Contains(URL, "://") {
		return URL
	}
	return url.Join(s.baseURL, URL)
}

// Document is the YAML representation of a system state.  Processes and
// Resources are optional; when zero they default to the claims row count and
// the totals length respectively.
type Document struct {
	Processes   int     `yaml:"processes,omitempty" json:"processes,omitempty"`
	Resources   int     `yaml:"resources,omitempty" json:"resources,omitempty"`
	Totals      []int   `yaml:"totals" json:"totals"`
	Claims      [][]int `yaml:"claims" json:"claims"`
	Allocations [][]int `yaml:"allocations" json:"allocations"`
}

// DecodeYAML decodes a YAML state document into a derived, validated state.
func DecodeYAML(data []byte, capacity model.Capacity) (*model.State, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Processes == 0 {
		doc.Processes = len(doc.Claims)
	}
	if doc.Resources == 0 {
		doc.Resources = len(doc.Totals)
	}
	if len(doc.Totals) != doc.Resources {
		return nil, fmt.Errorf("%w: %d totals for %d resource types", ErrMalformed, len(doc.Totals), doc.Resources)
	}
	if len(doc.Claims) != doc.Processes || len(doc.Allocations) != doc.Processes {
		return nil, fmt.Errorf("%w: %d claim and %d allocation rows for %d processes",
			ErrMalformed, len(doc.Claims), len(doc.Allocations), doc.Processes)
	}

	state := model.NewState(capacity)
	if err := state.SetDimensions(doc.Processes, doc.Resources); err != nil {
		return nil, err
	}
	claims, err := toMatrix(doc.Claims, doc.Resources, "claims")
	if err != nil {
		return nil, err
	}
	allocations, err := toMatrix(doc.Allocations, doc.Resources, "allocations")
	if err != nil {
		return nil, err
	}
	state.SetTotals(doc.Totals)
	state.SetClaims(claims)
	state.SetAllocations(allocations)
	state.Derive()

	if err = state.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}

func toMatrix(rows [][]int, resources int, name string) (model.Matrix, error) {
	matrix := make(model.Matrix, len(rows))
	for p, row := range rows {
		if len(row) != resources {
			return nil, fmt.Errorf("%w: %s row %d has %d values, expected %d",
				ErrMalformed, name, p, len(row), resources)
		}
		matrix[p] = model.Vector(row).Clone()
	}
	return matrix, nil
}
