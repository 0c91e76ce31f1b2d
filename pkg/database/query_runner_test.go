package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderRows(t *testing.T) {
	tests := []struct {
		name     string
		rows     []map[string]any
		expected string
	}{
		{
			name:     "no rows",
			rows:     nil,
			expected: "(no rows)",
		},
		{
			name: "single row with stable column order",
			rows: []map[string]any{
				{"Salary": 52000, "FirstName": "Ana"},
			},
			expected: "FirstName: Ana, Salary: 52000",
		},
		{
			name: "multiple rows on separate lines",
			rows: []map[string]any{
				{"DepartmentName": "Sales"},
				{"DepartmentName": "Engineering"},
			},
			expected: "DepartmentName: Sales\nDepartmentName: Engineering",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RenderRows(tt.rows))
		})
	}
}
