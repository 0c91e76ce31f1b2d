package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// QueryRunner executes already-validated read queries and renders the rows as
// text for prompt injection. Validation (the select-only gate) happens before
// queries reach this type.
type QueryRunner struct {
	db *gorm.DB
}

func NewQueryRunner(db *gorm.DB) *QueryRunner {
	return &QueryRunner{db: db}
}

// Execute runs the query and returns the rendered rows.
func (r *QueryRunner) Execute(ctx context.Context, query string) (string, error) {
	var rows []map[string]any
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return "", err
	}
	return RenderRows(rows), nil
}

// RenderRows flattens result rows into "column: value" pairs, one row per
// line, columns in stable order.
func RenderRows(rows []map[string]any) string {
	if len(rows) == 0 {
		return "(no rows)"
	}

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}

		columns := make([]string, 0, len(row))
		for column := range row {
			columns = append(columns, column)
		}
		sort.Strings(columns)

		for j, column := range columns {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s: %v", column, row[column]))
		}
	}
	return sb.String()
}
