package walker

import (
	"errors"
	"reflect"
	"testing"

	"github.com/specforge/oas2raw/internal/models"
	"github.com/specforge/oas2raw/internal/parser"
)

func walkFile(t *testing.T, path string) ([]models.OperationDescriptor, []error) {
	t.Helper()

	p, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}
	doc, docWarnings, err := p.V3()
	if err != nil {
		t.Fatalf("Failed to build v3 model: %v", err)
	}
	descriptors, walkWarnings := New(doc).Walk()
	return descriptors, append(docWarnings, walkWarnings...)
}

func TestWalkOrder(t *testing.T) {
	descriptors, warnings := walkFile(t, "../../testdata/petstore.json")
	if len(warnings) != 0 {
		t.Fatalf("Unexpected warnings: %v", warnings)
	}

	var got []string
	for _, d := range descriptors {
		got = append(got, d.Label())
	}

	want := []string{
		"GET /pets",
		"POST /pets",
		"GET /pets/{petId}",
		"DELETE /pets/{petId}",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected order %v, got %v", want, got)
	}
}

func TestWalkDeterministic(t *testing.T) {
	p, err := parser.ParseFile("../../testdata/petstore.json")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}
	doc, _, err := p.V3()
	if err != nil {
		t.Fatalf("Failed to build v3 model: %v", err)
	}

	first, _ := New(doc).Walk()
	second, _ := New(doc).Walk()

	if len(first) != len(second) {
		t.Fatalf("Walks disagree on length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Label() != second[i].Label() {
			t.Errorf("Walks disagree at %d: %s vs %s", i, first[i].Label(), second[i].Label())
		}
	}
}

func TestWalkMergesPathLevelParameters(t *testing.T) {
	descriptors, _ := walkFile(t, "../../testdata/petstore.json")

	var getPet *models.OperationDescriptor
	for i := range descriptors {
		if descriptors[i].OperationID == "getPet" {
			getPet = &descriptors[i]
		}
	}
	if getPet == nil {
		t.Fatal("getPet operation not found")
	}

	if len(getPet.Parameters) != 1 {
		t.Fatalf("Expected 1 merged parameter, got %d", len(getPet.Parameters))
	}
	param := getPet.Parameters[0]
	if param.Name != "petId" || param.In != models.InPath {
		t.Errorf("Unexpected parameter %+v", param)
	}
	if !param.Required {
		t.Error("Path parameters must be required")
	}
}

func TestWalkOperationParameterOverridesPathLevel(t *testing.T) {
	descriptors, _ := walkFile(t, "../../testdata/petstore.json")

	var deletePet *models.OperationDescriptor
	for i := range descriptors {
		if descriptors[i].OperationID == "deletePet" {
			deletePet = &descriptors[i]
		}
	}
	if deletePet == nil {
		t.Fatal("deletePet operation not found")
	}

	if len(deletePet.Parameters) != 1 {
		t.Fatalf("Expected override to keep 1 parameter, got %d", len(deletePet.Parameters))
	}
	schema := deletePet.Parameters[0].Schema.Schema()
	if schema == nil || schema.Format != "uuid" {
		t.Error("Expected the operation-level uuid parameter to win")
	}
}

func TestWalkSelectsJSONBody(t *testing.T) {
	descriptors, _ := walkFile(t, "../../testdata/petstore.json")

	var createPet *models.OperationDescriptor
	for i := range descriptors {
		if descriptors[i].OperationID == "createPet" {
			createPet = &descriptors[i]
		}
	}
	if createPet == nil {
		t.Fatal("createPet operation not found")
	}

	if createPet.ContentType != "application/json" {
		t.Errorf("Expected application/json, got %s", createPet.ContentType)
	}
	if createPet.RequestBodySchema == nil {
		t.Error("Expected a request body schema")
	}
}

func TestWalkSelectsFirstDeclaredBodyWithoutJSON(t *testing.T) {
	descriptors, _ := walkFile(t, "../../testdata/auth-api.json")

	for _, d := range descriptors {
		if d.OperationID == "login" {
			if d.ContentType != "application/x-www-form-urlencoded" {
				t.Errorf("Expected form content type, got %s", d.ContentType)
			}
			return
		}
	}
	t.Fatal("login operation not found")
}

func TestWalkSecurityNames(t *testing.T) {
	descriptors, _ := walkFile(t, "../../testdata/auth-api.json")

	for _, d := range descriptors {
		switch d.OperationID {
		case "ping":
			// Inherited from the document default.
			if len(d.Security) != 1 || d.Security[0] != "bearerAuth" {
				t.Errorf("Expected inherited bearerAuth, got %v", d.Security)
			}
		case "login":
			// Operation-level empty requirement disables auth.
			if len(d.Security) != 0 {
				t.Errorf("Expected no security for login, got %v", d.Security)
			}
		}
	}
}

func TestWalkNilDocument(t *testing.T) {
	descriptors, warnings := New(nil).Walk()
	if len(descriptors) != 0 || len(warnings) != 0 {
		t.Error("Expected empty walk for nil document")
	}
}

func TestWalkUnresolvableReferenceDoesNotAbort(t *testing.T) {
	descriptors, warnings := walkFile(t, "../../testdata/badref.json")

	// Both operations survive the walk; the broken one loses its body.
	if len(descriptors) != 2 {
		t.Fatalf("Expected 2 descriptors, got %d", len(descriptors))
	}
	for _, d := range descriptors {
		if d.OperationID == "createBroken" && d.RequestBodySchema != nil {
			t.Error("Expected no body schema for the unresolvable reference")
		}
	}

	if len(warnings) == 0 {
		t.Fatal("Expected a resolution warning")
	}
	var resErr *models.SchemaResolutionError
	if !errors.As(warnings[0], &resErr) {
		t.Fatalf("Expected SchemaResolutionError, got %T", warnings[0])
	}
	if resErr.Ref == "" {
		t.Error("Expected the error to carry the reference")
	}
}
