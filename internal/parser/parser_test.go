package parser

import (
	"errors"
	"testing"

	"github.com/specforge/oas2raw/internal/models"
)

func TestParseFile(t *testing.T) {
	p, err := ParseFile("../../testdata/petstore.json")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	if p == nil {
		t.Fatal("Parser is nil")
	}
}

func TestParseFileNotFound(t *testing.T) {
	_, err := ParseFile("nonexistent.json")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestParseBytesInvalid(t *testing.T) {
	_, err := ParseBytes([]byte("not a spec"))
	if err == nil {
		t.Error("Expected error for malformed document")
	}
}

func TestV3(t *testing.T) {
	p, err := ParseFile("../../testdata/petstore.json")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	doc, warnings, err := p.V3()
	if err != nil {
		t.Fatalf("Failed to build v3 model: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("Unexpected build warnings: %v", warnings)
	}

	if doc.Paths == nil || doc.Paths.PathItems == nil {
		t.Fatal("Expected paths in the model")
	}
	if doc.Paths.PathItems.Len() != 2 {
		t.Errorf("Expected 2 paths, got %d", doc.Paths.PathItems.Len())
	}
}

func TestV3UnresolvableReferenceWarns(t *testing.T) {
	p, err := ParseFile("../../testdata/badref.json")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	doc, warnings, err := p.V3()
	if err != nil {
		t.Fatalf("Unresolvable reference must not be fatal: %v", err)
	}
	if doc == nil {
		t.Fatal("Expected a model despite the broken reference")
	}

	if len(warnings) == 0 {
		t.Fatal("Expected a resolution warning")
	}
	var resErr *models.SchemaResolutionError
	if !errors.As(warnings[0], &resErr) {
		t.Fatalf("Expected SchemaResolutionError, got %T: %v", warnings[0], warnings[0])
	}
	if resErr.Ref != "#/components/schemas/Missing" {
		t.Errorf("Expected the reference string, got %q", resErr.Ref)
	}
}

func TestV3CircularReferenceNotWarned(t *testing.T) {
	p, err := ParseFile("../../testdata/circular.json")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	doc, warnings, err := p.V3()
	if err != nil {
		t.Fatalf("Circular reference must not be fatal: %v", err)
	}
	if doc == nil {
		t.Fatal("Expected a model")
	}
	// Cycles are broken during value synthesis, not reported as failures.
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings for a circular document, got %v", warnings)
	}
}

func TestGetServerURLs(t *testing.T) {
	p, err := ParseFile("../../testdata/petstore.json")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	urls, err := p.GetServerURLs()
	if err != nil {
		t.Fatalf("Failed to get server URLs: %v", err)
	}

	if len(urls) == 0 {
		t.Fatal("Expected at least one server URL")
	}

	expectedURL := "http://petstore.swagger.io/v1"
	found := false
	for _, url := range urls {
		if url == expectedURL {
			found = true
			break
		}
	}

	if !found {
		t.Errorf("Expected server URL %s not found. Got: %v", expectedURL, urls)
	}
}

func TestGetServerURLsFallback(t *testing.T) {
	p, err := ParseFile("../../testdata/circular.json")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	urls, err := p.GetServerURLs()
	if err != nil {
		t.Fatalf("Failed to get server URLs: %v", err)
	}

	if len(urls) != 1 || urls[0] != "http://localhost" {
		t.Errorf("Expected localhost fallback, got %v", urls)
	}
}
