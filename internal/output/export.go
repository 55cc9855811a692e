package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/specforge/oas2raw/internal/models"
)

// Format represents the output format type
type Format string

const (
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ExportRequests exports generated raw requests to the specified format
func ExportRequests(requests []models.GeneratedRequest, format Format, filePath string) error {
	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	switch format {
	case FormatRaw:
		return exportRequestsRaw(w, requests)
	case FormatJSON:
		return exportRequestsJSON(w, requests)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// ExportOperations exports a walked operation listing to the specified format
func ExportOperations(descriptors []models.OperationDescriptor, format Format, filePath string) error {
	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	switch format {
	case FormatJSON:
		return exportOperationsJSON(w, descriptors)
	case FormatCSV:
		return exportOperationsCSV(w, descriptors)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// ExportDispatchSummary exports dispatch results to the specified format
func ExportDispatchSummary(summary models.DispatchSummary, format Format, filePath string) error {
	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	switch format {
	case FormatJSON:
		return exportDispatchJSON(w, summary)
	case FormatCSV:
		return exportDispatchCSV(w, summary)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// getWriter returns an io.Writer for output (stdout or file)
func getWriter(filePath string) (io.Writer, io.Closer, error) {
	if filePath == "" {
		return os.Stdout, nil, nil
	}

	f, err := os.Create(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f, nil
}

// exportRequestsRaw writes the raw request texts back to back, each already
// CRLF-terminated, separated by one extra blank line.
func exportRequestsRaw(w io.Writer, requests []models.GeneratedRequest) error {
	for i, gen := range requests {
		if gen.Request == nil {
			continue
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\r\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, gen.Request.Raw()); err != nil {
			return err
		}
	}
	return nil
}

type requestRecord struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	OperationID string `json:"operation_id,omitempty"`
	Request     string `json:"request"`
}

// exportRequestsJSON exports generated requests as JSON
func exportRequestsJSON(w io.Writer, requests []models.GeneratedRequest) error {
	records := make([]requestRecord, 0, len(requests))
	for _, gen := range requests {
		if gen.Request == nil {
			continue
		}
		records = append(records, requestRecord{
			Method:      gen.Descriptor.Method,
			Path:        gen.Descriptor.Path,
			OperationID: gen.Descriptor.OperationID,
			Request:     gen.Request.Raw(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

type operationRecord struct {
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	OperationID string   `json:"operation_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ContentType string   `json:"content_type,omitempty"`
	Security    []string `json:"security,omitempty"`
}

// exportOperationsJSON exports the operation listing as JSON
func exportOperationsJSON(w io.Writer, descriptors []models.OperationDescriptor) error {
	records := make([]operationRecord, 0, len(descriptors))
	for _, d := range descriptors {
		records = append(records, operationRecord{
			Method:      d.Method,
			Path:        d.Path,
			OperationID: d.OperationID,
			Tags:        d.Tags,
			ContentType: d.ContentType,
			Security:    d.Security,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// exportOperationsCSV exports the operation listing as CSV
func exportOperationsCSV(w io.Writer, descriptors []models.OperationDescriptor) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"method", "path", "operation_id", "tags", "content_type", "security"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, d := range descriptors {
		row := []string{
			d.Method,
			d.Path,
			d.OperationID,
			strings.Join(d.Tags, ";"),
			d.ContentType,
			strings.Join(d.Security, ";"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}

// exportDispatchJSON exports dispatch results as JSON
func exportDispatchJSON(w io.Writer, summary models.DispatchSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// exportDispatchCSV exports dispatch results as CSV
func exportDispatchCSV(w io.Writer, summary models.DispatchSummary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"method", "path", "operation_id", "sent", "status_code",
		"response_time_ms", "error",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range summary.Results {
		row := []string{
			r.Method,
			r.Path,
			r.OperationID,
			strconv.FormatBool(r.Sent),
			strconv.Itoa(r.StatusCode),
			fmt.Sprintf("%.2f", float64(r.ResponseTime.Microseconds())/1000),
			r.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}

// ParseFormat parses a string into a Format, returning error if invalid
func ParseFormat(s string) (Format, error) {
	switch s {
	case "raw":
		return FormatRaw, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("invalid format '%s': must be 'raw', 'json' or 'csv'", s)
	}
}
