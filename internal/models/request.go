package models

import "strings"

// Header is a single name/value pair. Order matters in a raw request, so
// headers travel as a slice, never a map.
type Header struct {
	Name  string
	Value string
}

// RuntimeOptions are the host-supplied knobs for one synthesis call. They are
// read, never stored.
type RuntimeOptions struct {
	// Host is the target host, optionally with a :port suffix.
	Host   string
	Scheme string // "http" or "https"

	// BearerToken, when non-empty, produces an Authorization header.
	BearerToken string

	// ExtraHeaders are appended after the generated headers, in order. An
	// entry whose name matches a generated header overrides it instead of
	// duplicating it.
	ExtraHeaders []Header
}

// SynthesizedRequest is one generated raw HTTP request. Instances are built
// fresh per synthesis call and never mutated afterwards.
type SynthesizedRequest struct {
	RequestLine string
	Headers     []Header
	Body        []byte
}

// Raw serializes the request to HTTP/1.1 wire text. The request line and
// headers are normalized to CRLF and separated from the body by exactly one
// blank line. The body is appended byte for byte — Content-Length counts
// those exact bytes, so the synthesizer emits it CRLF-normalized already —
// and the text ends with a final CRLF.
func (r *SynthesizedRequest) Raw() string {
	var b strings.Builder
	b.WriteString(r.RequestLine)
	b.WriteString("\n")
	for _, h := range r.Headers {
		b.WriteString(h.Name)
		b.WriteString(": ")
		b.WriteString(h.Value)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	raw := NormalizeCRLF(b.String())
	if len(r.Body) == 0 {
		return raw
	}
	raw += string(r.Body)
	if !strings.HasSuffix(raw, "\r\n") {
		raw += "\r\n"
	}
	return raw
}

// GeneratedRequest pairs a descriptor with the request synthesized from it,
// the unit hosts export or dispatch.
type GeneratedRequest struct {
	Descriptor OperationDescriptor
	Request    *SynthesizedRequest
}

// NormalizeCRLF converts all line breaks to CRLF and guarantees the text ends
// with one. Breaks are first collapsed to LF so pre-existing CRLF pairs are
// not doubled.
func NormalizeCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\n", "\r\n")
	if !strings.HasSuffix(s, "\r\n") {
		s += "\r\n"
	}
	return s
}
