package synth

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pb33f/libopenapi/datamodel/high/base"
	yaml "go.yaml.in/yaml/v4"

	"github.com/specforge/oas2raw/internal/models"
)

// maxDepth bounds value synthesis on pathological self-referential schemas.
// At the bound a null is substituted.
const maxDepth = 10

// SchemaValue synthesizes an example value for a schema. Precedence:
// explicit example, then default, then enum[0], then a canonical value per
// type. Objects contain required properties only; arrays contain a single
// synthesized item. The result is deterministic for a given schema.
func SchemaValue(proxy *base.SchemaProxy) any {
	return schemaValue(proxy, map[string]struct{}{}, 0)
}

func schemaValue(proxy *base.SchemaProxy, activeRefs map[string]struct{}, depth int) any {
	if proxy == nil || depth >= maxDepth {
		return nil
	}

	// Break reference cycles: a reference already on the active resolution
	// path terminates with null instead of recursing forever.
	if ref := proxy.GetReference(); ref != "" {
		if _, active := activeRefs[ref]; active {
			return nil
		}
		activeRefs[ref] = struct{}{}
		defer delete(activeRefs, ref)
	}

	schema := proxy.Schema()
	if schema == nil {
		return nil
	}
	return valueFromSchema(schema, activeRefs, depth)
}

func valueFromSchema(schema *base.Schema, activeRefs map[string]struct{}, depth int) any {
	if v, ok := decodeNode(schema.Example); ok {
		return v
	}
	if v, ok := decodeNode(schema.Default); ok {
		return v
	}
	if len(schema.Enum) > 0 {
		if v, ok := decodeNode(schema.Enum[0]); ok {
			return v
		}
	}

	switch schemaType(schema) {
	case "string":
		return stringValue(schema.Format)
	case "integer":
		return 0
	case "number":
		return 0.0
	case "boolean":
		return true
	case "array":
		return arrayValue(schema, activeRefs, depth)
	case "object":
		return objectValue(schema, activeRefs, depth)
	default:
		return stringValue(schema.Format)
	}
}

// schemaType returns the declared type, inferring object for untyped schemas
// that declare properties.
func schemaType(schema *base.Schema) string {
	if len(schema.Type) > 0 && schema.Type[0] != "" {
		return schema.Type[0]
	}
	if schema.Properties != nil && schema.Properties.Len() > 0 {
		return "object"
	}
	return "string"
}

// stringValue maps well-known formats to fixed constants so generated
// requests stay stable across runs.
func stringValue(format string) string {
	switch format {
	case "date":
		return "2025-10-02"
	case "date-time":
		return "2025-10-02T12:00:00Z"
	case "email":
		return "user@example.com"
	case "uri", "url":
		return "https://example.com"
	case "uuid":
		return "00000000-0000-0000-0000-000000000000"
	default:
		return "string"
	}
}

func arrayValue(schema *base.Schema, activeRefs map[string]struct{}, depth int) []any {
	if schema.Items != nil && schema.Items.IsA() {
		return []any{schemaValue(schema.Items.A, activeRefs, depth+1)}
	}
	return []any{"string"}
}

func objectValue(schema *base.Schema, activeRefs map[string]struct{}, depth int) orderedObject {
	required := map[string]struct{}{}
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	obj := orderedObject{}
	if schema.Properties == nil {
		return obj
	}
	for pair := schema.Properties.First(); pair != nil; pair = pair.Next() {
		if _, ok := required[pair.Key()]; !ok {
			continue
		}
		obj = append(obj, member{
			name:  pair.Key(),
			value: schemaValue(pair.Value(), activeRefs, depth+1),
		})
	}
	return obj
}

// decodeNode converts a yaml node from the document (example, default, enum
// entry) into a plain Go value. The second return reports whether a node was
// present at all, so an explicit null stays distinguishable from absence.
func decodeNode(node *yaml.Node) (any, bool) {
	if node == nil {
		return nil, false
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// member is one object property; orderedObject preserves the schema's
// declared property order through JSON marshaling, which encoding/json maps
// cannot do.
type member struct {
	name  string
	value any
}

type orderedObject []member

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(m.name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// parameterValue synthesizes a value for a parameter, the parameter-level
// example taking precedence over the schema.
func parameterValue(spec models.ParameterSpec) any {
	if v, ok := decodeNode(spec.Example); ok {
		return v
	}
	return SchemaValue(spec.Schema)
}

// hasExplicitValue reports whether the parameter carries an author-supplied
// example or default. Optional parameters without one are left out of
// generated requests rather than fabricated.
func hasExplicitValue(spec models.ParameterSpec) bool {
	if spec.Example != nil {
		return true
	}
	if spec.Schema == nil {
		return false
	}
	schema := spec.Schema.Schema()
	if schema == nil {
		return false
	}
	return schema.Example != nil || schema.Default != nil
}

// formatScalar renders a synthesized value for use in a path segment, query
// string, or header. Composite values fall back to compact JSON.
func formatScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case orderedObject:
		if b, err := json.Marshal(val); err == nil {
			return string(b)
		}
	case []any:
		if b, err := json.Marshal(val); err == nil {
			return string(b)
		}
	case map[string]any:
		if b, err := json.Marshal(val); err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("%v", v)
}
