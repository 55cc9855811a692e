package walker

import (
	"strings"

	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	yaml "go.yaml.in/yaml/v4"

	"github.com/specforge/oas2raw/internal/models"
)

// methodOrder is the canonical method order descriptors are emitted in for a
// given path. Walks must be reproducible, so iteration follows this fixed
// slice rather than a map.
var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS", "TRACE"}

// Walker flattens a parsed OpenAPI v3 document into operation descriptors.
// It never mutates the document and is safe to use from multiple goroutines.
type Walker struct {
	doc *v3.Document
}

// New creates a Walker over a built v3 document model.
func New(doc *v3.Document) *Walker {
	return &Walker{doc: doc}
}

// Walk enumerates every (path, method) operation in document order, paths as
// declared and methods in canonical order. Structural problems (missing
// paths, unresolvable schema references) are collected as warnings and never
// abort the walk; affected operations are emitted without the failing schema.
func (w *Walker) Walk() ([]models.OperationDescriptor, []error) {
	var descriptors []models.OperationDescriptor
	var warnings []error

	if w.doc == nil || w.doc.Paths == nil || w.doc.Paths.PathItems == nil {
		return descriptors, warnings
	}

	for pair := w.doc.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
		path := pair.Key()
		pathItem := pair.Value()
		if pathItem == nil {
			continue
		}

		ops := map[string]*v3.Operation{
			"GET":     pathItem.Get,
			"POST":    pathItem.Post,
			"PUT":     pathItem.Put,
			"PATCH":   pathItem.Patch,
			"DELETE":  pathItem.Delete,
			"HEAD":    pathItem.Head,
			"OPTIONS": pathItem.Options,
			"TRACE":   pathItem.Trace,
		}

		for _, method := range methodOrder {
			op := ops[method]
			if op == nil {
				continue
			}

			desc := models.OperationDescriptor{
				Method:      method,
				Path:        path,
				OperationID: op.OperationId,
				Tags:        append([]string{}, op.Tags...),
				Security:    w.securityNames(op),
			}

			params, paramWarnings := mergeParameters(pathItem.Parameters, op.Parameters)
			desc.Parameters = params
			warnings = append(warnings, paramWarnings...)

			if op.RequestBody != nil {
				schema, contentType, example, bodyWarnings := selectRequestBody(op.RequestBody)
				desc.RequestBodySchema = schema
				desc.ContentType = contentType
				desc.BodyExample = example
				warnings = append(warnings, bodyWarnings...)
			}

			descriptors = append(descriptors, desc)
		}
	}

	return descriptors, warnings
}

// mergeParameters combines path-level and operation-level parameters,
// preserving declaration order. An operation-level parameter replaces a
// path-level one with the same (name, location) pair in place.
func mergeParameters(pathLevel, opLevel []*v3.Parameter) ([]models.ParameterSpec, []error) {
	var specs []models.ParameterSpec
	var warnings []error

	index := map[string]int{}
	add := func(param *v3.Parameter) {
		if param == nil || param.Name == "" {
			return
		}
		spec, warning := toParameterSpec(param)
		if warning != nil {
			warnings = append(warnings, warning)
		}
		key := strings.ToLower(param.Name) + "\x00" + strings.ToLower(param.In)
		if i, ok := index[key]; ok {
			specs[i] = spec
			return
		}
		index[key] = len(specs)
		specs = append(specs, spec)
	}

	for _, param := range pathLevel {
		add(param)
	}
	for _, param := range opLevel {
		add(param)
	}

	return specs, warnings
}

// toParameterSpec converts a resolved libopenapi parameter. A schema whose
// reference cannot be resolved yields a spec without a schema plus a
// SchemaResolutionError warning.
func toParameterSpec(param *v3.Parameter) (models.ParameterSpec, error) {
	spec := models.ParameterSpec{
		Name:    param.Name,
		In:      models.ParameterLocation(strings.ToLower(param.In)),
		Example: param.Example,
	}

	// Path parameters are always required per the OpenAPI spec, whatever the
	// document claims.
	if spec.In == models.InPath {
		spec.Required = true
	} else if param.Required != nil {
		spec.Required = *param.Required
	}

	schema, err := resolveSchema(param.Schema)
	if err != nil {
		return spec, err
	}
	spec.Schema = schema
	return spec, nil
}

// selectRequestBody picks the request body schema, content type and
// media-type example. application/json is preferred (exact match first, then
// any JSON media type); otherwise the first declared content type wins.
func selectRequestBody(body *v3.RequestBody) (*base.SchemaProxy, string, *yaml.Node, []error) {
	if body.Content == nil || body.Content.Len() == 0 {
		return nil, "", nil, nil
	}

	var picked *v3.MediaType
	var contentType string

	for pair := body.Content.First(); pair != nil; pair = pair.Next() {
		if pair.Key() == "application/json" {
			picked = pair.Value()
			contentType = pair.Key()
			break
		}
	}
	if picked == nil {
		for pair := body.Content.First(); pair != nil; pair = pair.Next() {
			if strings.Contains(pair.Key(), "json") {
				picked = pair.Value()
				contentType = pair.Key()
				break
			}
		}
	}
	if picked == nil {
		first := body.Content.First()
		picked = first.Value()
		contentType = first.Key()
	}

	if picked == nil {
		return nil, contentType, nil, nil
	}

	schema, err := resolveSchema(picked.Schema)
	if err != nil {
		return nil, contentType, picked.Example, []error{err}
	}
	return schema, contentType, picked.Example, nil
}

// resolveSchema verifies a schema proxy is buildable, mapping a failed build
// to a SchemaResolutionError carrying the reference string.
func resolveSchema(proxy *base.SchemaProxy) (*base.SchemaProxy, error) {
	if proxy == nil {
		return nil, nil
	}
	schema, err := proxy.BuildSchema()
	if err != nil || schema == nil {
		ref := proxy.GetReference()
		if ref == "" && err != nil {
			ref = err.Error()
		}
		return nil, &models.SchemaResolutionError{Ref: ref}
	}
	return proxy, nil
}

// securityNames collects the security scheme names applying to an operation,
// operation-level requirements overriding the document-level default.
func (w *Walker) securityNames(op *v3.Operation) []string {
	requirements := op.Security
	if requirements == nil {
		requirements = w.doc.Security
	}

	var names []string
	for _, req := range requirements {
		if req == nil || req.Requirements == nil {
			continue
		}
		for pair := req.Requirements.First(); pair != nil; pair = pair.Next() {
			names = append(names, pair.Key())
		}
	}
	return names
}
