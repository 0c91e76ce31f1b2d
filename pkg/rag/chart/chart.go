// Package chart handles the visualization side-path of the answer pipeline.
//
// The source system asked the model for plotting code and executed it in a
// restricted namespace. Executing model-authored code is not a real security
// boundary, so this implementation replaces it with a declarative chart spec:
// the model is prompted for a JSON description of the chart, which is decoded
// and validated here, never executed. The externally observable behavior is
// unchanged: a successful chart run replaces the query result with the fixed
// graph sentinel before answer composition.
package chart

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Spec is the declarative chart description produced by the generation step.
type Spec struct {
	Type   string   `json:"type"` // "bar" | "line" | "pie" | "scatter"
	Title  string   `json:"title"`
	XLabel string   `json:"x_label,omitempty"`
	YLabel string   `json:"y_label,omitempty"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Series is one named sequence of values aligned with Spec.Labels.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

var validTypes = map[string]bool{
	"bar":     true,
	"line":    true,
	"pie":     true,
	"scatter": true,
}

// ParseSpec decodes and validates a chart spec from extracted model output.
func ParseSpec(content string) (*Spec, error) {
	var spec Spec
	if err := json.Unmarshal([]byte(content), &spec); err != nil {
		return nil, fmt.Errorf("decode chart spec: %w", err)
	}
	if !validTypes[spec.Type] {
		return nil, fmt.Errorf("unsupported chart type: %q", spec.Type)
	}
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("chart spec has no series")
	}
	for _, s := range spec.Series {
		if len(spec.Labels) > 0 && len(s.Values) != len(spec.Labels) {
			return nil, fmt.Errorf("series %q has %d values for %d labels", s.Name, len(s.Values), len(spec.Labels))
		}
	}
	return &spec, nil
}

// Figure is a stored, validated chart together with the question that
// produced it.
type Figure struct {
	Question  string
	Spec      *Spec
	CreatedAt time.Time
}

// Store keeps generated figures in process memory, mirroring the source
// system's in-memory figures list. No persistence across restarts.
type Store struct {
	mu      sync.RWMutex
	figures []Figure
}

func NewStore() *Store {
	return &Store{}
}

// Add appends a figure to the store.
func (s *Store) Add(question string, spec *Spec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.figures = append(s.figures, Figure{
		Question:  question,
		Spec:      spec,
		CreatedAt: time.Now(),
	})
}

// All returns a copy of the stored figures in insertion order.
func (s *Store) All() []Figure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Figure, len(s.figures))
	copy(out, s.figures)
	return out
}

// Len reports how many figures are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.figures)
}

// Latest returns the most recently stored figure, if any.
func (s *Store) Latest() (Figure, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.figures) == 0 {
		return Figure{}, false
	}
	return s.figures[len(s.figures)-1], true
}
