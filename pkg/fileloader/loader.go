// Package fileloader turns uploaded files into plain text ready for chunking.
package fileloader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	TypeCSV  = "csv"
	TypePDF  = "pdf"
	TypeText = "txt"
)

// Detect maps a filename extension to a supported file type.
func Detect(filename string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "csv":
		return TypeCSV, nil
	case "pdf":
		return TypePDF, nil
	case "txt", "text", "md":
		return TypeText, nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", filename)
	}
}

// Load reads the file and extracts its text using the loader for fileType.
func Load(path, fileType string) (string, error) {
	switch fileType {
	case TypeCSV:
		return loadCSV(path)
	case TypePDF:
		return loadPDF(path)
	case TypeText:
		return loadText(path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", fileType)
	}
}

// loadCSV flattens each row into "header: value" lines so column names stay
// attached to their values after chunking.
func loadCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) < 2 {
		return "", fmt.Errorf("csv has no data rows")
	}

	headers := records[0]
	var sb strings.Builder
	for i, row := range records[1:] {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, value := range row {
			if j < len(headers) {
				sb.WriteString(fmt.Sprintf("%s: %s\n", headers[j], value))
			}
		}
	}
	return sb.String(), nil
}

func loadPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}

func loadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}
