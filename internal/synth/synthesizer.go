package synth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/specforge/oas2raw/internal/models"
)

const userAgent = "oas2raw/1.0"

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Synthesize builds a raw HTTP request from an operation descriptor and
// host-supplied runtime options. It is a pure function of its inputs: no
// state is kept between calls and neither argument is mutated, so it is safe
// to call concurrently.
func Synthesize(desc models.OperationDescriptor, opts models.RuntimeOptions) (*models.SynthesizedRequest, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("target host is required")
	}

	target, err := requestTarget(desc)
	if err != nil {
		return nil, err
	}

	body, contentType, err := synthesizeBody(desc)
	if err != nil {
		return nil, err
	}

	headers := []models.Header{{Name: "Host", Value: opts.Host}}
	if len(body) > 0 {
		headers = append(headers,
			models.Header{Name: "Content-Type", Value: contentType},
			models.Header{Name: "Content-Length", Value: strconv.Itoa(len(body))},
		)
	}
	if opts.BearerToken != "" {
		headers = append(headers, models.Header{Name: "Authorization", Value: "Bearer " + opts.BearerToken})
	}
	headers = append(headers,
		models.Header{Name: "Accept", Value: "application/json"},
		models.Header{Name: "User-Agent", Value: userAgent},
	)
	headers = append(headers, parameterHeaders(desc)...)

	headers = mergeExtraHeaders(headers, opts.ExtraHeaders)

	return &models.SynthesizedRequest{
		RequestLine: desc.Method + " " + target + " HTTP/1.1",
		Headers:     headers,
		Body:        body,
	}, nil
}

// requestTarget substitutes path parameters and appends the query string.
// Required query parameters are always present; optional ones only when the
// document supplies an explicit example or default.
func requestTarget(desc models.OperationDescriptor) (string, error) {
	path := desc.Path
	for _, param := range desc.Parameters {
		if param.In != models.InPath {
			continue
		}
		value := formatScalar(parameterValue(param))
		path = strings.ReplaceAll(path, "{"+param.Name+"}", value)
	}

	if m := placeholderPattern.FindStringSubmatch(path); m != nil {
		return "", &models.MissingParameterError{Name: m[1]}
	}

	var pairs []string
	for _, param := range desc.Parameters {
		if param.In != models.InQuery {
			continue
		}
		if !param.Required && !hasExplicitValue(param) {
			continue
		}
		value := formatScalar(parameterValue(param))
		pairs = append(pairs, url.QueryEscape(param.Name)+"="+url.QueryEscape(value))
	}
	if len(pairs) > 0 {
		path += "?" + strings.Join(pairs, "&")
	}

	return path, nil
}

// synthesizeBody serializes the request body for the descriptor's content
// type. Content types outside the allow-list (JSON, form-urlencoded, plain
// text) fail with UnsupportedContentTypeError; the host may retry with the
// body stripped.
func synthesizeBody(desc models.OperationDescriptor) ([]byte, string, error) {
	if desc.RequestBodySchema == nil && desc.BodyExample == nil {
		return nil, "", nil
	}

	contentType := desc.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))

	// A media-type level example beats anything synthesized from the schema.
	value, ok := decodeNode(desc.BodyExample)
	if !ok {
		value = SchemaValue(desc.RequestBodySchema)
	}

	var body []byte
	switch {
	case strings.Contains(mediaType, "json"):
		b, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to serialize request body: %w", err)
		}
		body = b
	case mediaType == "application/x-www-form-urlencoded":
		body = []byte(formEncode(value))
	case mediaType == "text/plain":
		body = []byte(formatScalar(value))
	default:
		return nil, "", &models.UnsupportedContentTypeError{ContentType: contentType}
	}

	// Content-Length is measured from these bytes and Raw appends them
	// verbatim, so line breaks must be CRLF before either happens.
	return normalizeBodyBreaks(body), contentType, nil
}

// normalizeBodyBreaks converts the body's line breaks to CRLF without adding
// a trailing one. Breaks are first collapsed to LF so pre-existing CRLF
// pairs are not doubled.
func normalizeBodyBreaks(body []byte) []byte {
	body = bytes.ReplaceAll(body, []byte("\r\n"), []byte("\n"))
	body = bytes.ReplaceAll(body, []byte("\r"), []byte("\n"))
	return bytes.ReplaceAll(body, []byte("\n"), []byte("\r\n"))
}

// formEncode renders a synthesized value as form pairs in declared property
// order. Author-supplied example objects decode to plain maps and are
// encoded in sorted key order; non-object values collapse to a single
// "value" field.
func formEncode(value any) string {
	switch obj := value.(type) {
	case orderedObject:
		pairs := make([]string, 0, len(obj))
		for _, m := range obj {
			pairs = append(pairs, url.QueryEscape(m.name)+"="+url.QueryEscape(formatScalar(m.value)))
		}
		return strings.Join(pairs, "&")
	case map[string]any:
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(formatScalar(obj[k])))
		}
		return strings.Join(pairs, "&")
	default:
		return "value=" + url.QueryEscape(formatScalar(value))
	}
}

// parameterHeaders renders header-location parameters as headers and folds
// cookie-location parameters into a single Cookie header. The same
// required-or-explicit rule as query parameters applies.
func parameterHeaders(desc models.OperationDescriptor) []models.Header {
	var headers []models.Header
	var cookies []string

	for _, param := range desc.Parameters {
		if param.In != models.InHeader && param.In != models.InCookie {
			continue
		}
		if !param.Required && !hasExplicitValue(param) {
			continue
		}
		value := formatScalar(parameterValue(param))
		if param.In == models.InCookie {
			cookies = append(cookies, param.Name+"="+value)
			continue
		}
		headers = append(headers, models.Header{Name: param.Name, Value: value})
	}

	if len(cookies) > 0 {
		headers = append(headers, models.Header{Name: "Cookie", Value: strings.Join(cookies, "; ")})
	}
	return headers
}

// mergeExtraHeaders appends user headers, overriding a generated header with
// the same name (case-insensitive) in place instead of duplicating it.
// Repeats within the extra headers themselves are preserved.
func mergeExtraHeaders(generated []models.Header, extras []models.Header) []models.Header {
	merged := make([]models.Header, len(generated))
	copy(merged, generated)
	generatedCount := len(merged)

	for _, extra := range extras {
		if extra.Name == "" {
			continue
		}
		overridden := false
		for i := 0; i < generatedCount; i++ {
			if strings.EqualFold(merged[i].Name, extra.Name) {
				merged[i].Value = extra.Value
				overridden = true
				break
			}
		}
		if !overridden {
			merged = append(merged, extra)
		}
	}
	return merged
}
