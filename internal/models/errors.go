package models

import "fmt"

// SchemaResolutionError reports a schema reference that could not be resolved
// against the document's component registry. The surrounding walk or
// synthesis continues; the host decides how loudly to complain.
type SchemaResolutionError struct {
	Ref string
}

func (e *SchemaResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve schema reference %q", e.Ref)
}

// MissingParameterError reports a path template placeholder with no matching
// path parameter, leaving the request line unresolvable.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("no path parameter declared for placeholder {%s}", e.Name)
}

// UnsupportedContentTypeError reports a request body content type outside the
// serializable allow-list. Hosts are expected to fall back to an empty body.
type UnsupportedContentTypeError struct {
	ContentType string
}

func (e *UnsupportedContentTypeError) Error() string {
	return fmt.Sprintf("unsupported request body content type %q", e.ContentType)
}
