package models

import (
	"github.com/pb33f/libopenapi/datamodel/high/base"
	yaml "go.yaml.in/yaml/v4"
)

// ParameterLocation is the "in" field of an OpenAPI parameter.
type ParameterLocation string

const (
	InPath   ParameterLocation = "path"
	InQuery  ParameterLocation = "query"
	InHeader ParameterLocation = "header"
	InCookie ParameterLocation = "cookie"
)

// ParameterSpec describes a single resolved operation parameter.
type ParameterSpec struct {
	Name     string
	In       ParameterLocation
	Required bool
	Schema   *base.SchemaProxy
	// Example is the parameter-level example, which takes precedence over
	// anything declared on the schema itself.
	Example *yaml.Node
}

// OperationDescriptor is a flat record of one testable endpoint: one HTTP
// method bound to one path template, with its merged parameter set and the
// selected request body content type.
type OperationDescriptor struct {
	Method      string
	Path        string
	OperationID string
	Tags        []string

	// Parameters holds path-level and operation-level parameters merged,
	// operation-level winning on a (name, location) collision.
	Parameters []ParameterSpec

	// RequestBodySchema is nil when the operation declares no body.
	RequestBodySchema *base.SchemaProxy
	ContentType       string

	// BodyExample is the media-type-level example, which takes precedence
	// over anything synthesized from the schema.
	BodyExample *yaml.Node

	// Security lists the names of the security schemes required by the
	// operation (or inherited from the document).
	Security []string
}

// Label renders the descriptor the way operations are shown to the user.
func (d OperationDescriptor) Label() string {
	return d.Method + " " + d.Path
}
