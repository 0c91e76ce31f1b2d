package chart

import (
	"testing"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name:    "valid bar chart",
			content: `{"type":"bar","title":"Average Salary by Department","x_label":"Department","y_label":"Salary","labels":["Sales","Engineering"],"series":[{"name":"Average Salary","values":[48000,61000]}]}`,
			wantErr: false,
		},
		{
			name:    "valid pie chart without axis labels",
			content: `{"type":"pie","title":"Headcount","labels":["Sales","HR"],"series":[{"name":"Employees","values":[12,3]}]}`,
			wantErr: false,
		},
		{
			name:    "unsupported type",
			content: `{"type":"heatmap","labels":["a"],"series":[{"name":"s","values":[1]}]}`,
			wantErr: true,
		},
		{
			name:    "no series",
			content: `{"type":"bar","labels":["a"],"series":[]}`,
			wantErr: true,
		},
		{
			name:    "series length mismatch",
			content: `{"type":"bar","labels":["a","b"],"series":[{"name":"s","values":[1]}]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			content: "import matplotlib.pyplot as plt",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseSpec(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if spec == nil || spec.Type == "" {
				t.Fatal("expected populated spec")
			}
		})
	}
}

func TestStoreOrderAndLatest(t *testing.T) {
	store := NewStore()

	if _, ok := store.Latest(); ok {
		t.Fatal("empty store should have no latest figure")
	}

	first := &Spec{Type: "bar", Series: []Series{{Name: "a", Values: []float64{1}}}}
	second := &Spec{Type: "line", Series: []Series{{Name: "b", Values: []float64{2}}}}

	store.Add("plot a", first)
	store.Add("plot b", second)

	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}

	figures := store.All()
	if len(figures) != 2 {
		t.Fatalf("len(figures) = %d, want 2", len(figures))
	}
	if figures[0].Question != "plot a" || figures[1].Question != "plot b" {
		t.Error("figures out of insertion order")
	}

	latest, ok := store.Latest()
	if !ok || latest.Spec.Type != "line" {
		t.Errorf("Latest() = %+v, want the second figure", latest)
	}
}
