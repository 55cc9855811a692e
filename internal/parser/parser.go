package parser

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pb33f/libopenapi"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/index"

	"github.com/specforge/oas2raw/internal/models"
)

// Parser owns a parsed OpenAPI v3 document for the duration of a walk.
type Parser struct {
	document libopenapi.Document
}

// ParseFile parses an OpenAPI specification file and returns a Parser instance.
func ParseFile(filePath string) (*Parser, error) {
	specBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI file: %w", err)
	}
	return ParseBytes(specBytes)
}

// ParseBytes parses an in-memory OpenAPI specification. The bytes are expected
// to be JSON; YAML conversion is the caller's problem.
func ParseBytes(specBytes []byte) (*Parser, error) {
	document, err := libopenapi.NewDocument(specBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return &Parser{document: document}, nil
}

// V3 builds and returns the high-level v3 model together with non-fatal
// build warnings. libopenapi still returns a model when a lazily built
// schema reference cannot be resolved; those failures come back here as
// SchemaResolutionError values so the host can report them without the
// document being rejected. Only a document that cannot be modeled at all is
// an error.
func (p *Parser) V3() (*v3.Document, []error, error) {
	model, buildErr := p.document.BuildV3Model()
	if model == nil {
		return nil, nil, fmt.Errorf("failed to build v3 model: %w", buildErr)
	}
	return &model.Model, buildWarnings(buildErr), nil
}

var refPattern = regexp.MustCompile(`'([^']+)'`)

// buildWarnings maps the joined model-build error into per-problem warnings.
// Circular references are skipped: value synthesis breaks those cycles
// itself. Reference failures carry the reference string, pulled out of the
// quoted part of libopenapi's message.
func buildWarnings(err error) []error {
	var warnings []error
	for _, e := range flattenErrors(err) {
		var resolvingErr *index.ResolvingError
		if errors.As(e, &resolvingErr) && resolvingErr.CircularReference != nil {
			continue
		}
		msg := e.Error()
		if strings.Contains(msg, "circular") {
			continue
		}
		if !strings.Contains(msg, "reference") {
			warnings = append(warnings, e)
			continue
		}
		ref := msg
		if m := refPattern.FindStringSubmatch(msg); m != nil {
			ref = m[1]
		}
		warnings = append(warnings, &models.SchemaResolutionError{Ref: ref})
	}
	return warnings
}

// flattenErrors expands nested errors.Join trees into their leaves.
func flattenErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var flat []error
		for _, e := range joined.Unwrap() {
			flat = append(flat, flattenErrors(e)...)
		}
		return flat
	}
	return []error{err}
}

// GetServerURLs returns the server URLs declared in the document, falling back
// to localhost when the spec declares none.
func (p *Parser) GetServerURLs() ([]string, error) {
	model, _, err := p.V3()
	if err != nil {
		return nil, err
	}

	servers := model.Servers
	if len(servers) == 0 {
		return []string{"http://localhost"}, nil
	}

	urls := make([]string, 0, len(servers))
	for _, server := range servers {
		if server != nil && server.URL != "" {
			urls = append(urls, server.URL)
		}
	}

	return urls, nil
}
