package models

import (
	"strings"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare LF", "a\nb", "a\r\nb\r\n"},
		{"bare CR", "a\rb", "a\r\nb\r\n"},
		{"already CRLF", "a\r\nb\r\n", "a\r\nb\r\n"},
		{"mixed", "a\r\nb\nc\r", "a\r\nb\r\nc\r\n"},
		{"missing trailing", "a", "a\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCRLF(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRawBodyless(t *testing.T) {
	req := &SynthesizedRequest{
		RequestLine: "GET /pets HTTP/1.1",
		Headers: []Header{
			{Name: "Host", Value: "example.com"},
		},
	}

	want := "GET /pets HTTP/1.1\r\nHost: example.com\r\n\r\n"
	if got := req.Raw(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRawMultilineBodyAppendedVerbatim(t *testing.T) {
	body := []byte("line1\r\nline2")
	req := &SynthesizedRequest{
		RequestLine: "POST /notes HTTP/1.1",
		Headers: []Header{
			{Name: "Host", Value: "example.com"},
			{Name: "Content-Length", Value: "12"},
		},
		Body: body,
	}

	want := "POST /notes HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Content-Length: 12\r\n" +
		"\r\n" +
		"line1\r\nline2\r\n"
	if got := req.Raw(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRawWithBody(t *testing.T) {
	body := []byte(`{"id": 0}`)
	req := &SynthesizedRequest{
		RequestLine: "POST /pets HTTP/1.1",
		Headers: []Header{
			{Name: "Host", Value: "example.com"},
			{Name: "Content-Length", Value: "9"},
		},
		Body: body,
	}

	raw := req.Raw()
	if !strings.HasSuffix(raw, "\r\n\r\n"+string(body)+"\r\n") {
		t.Errorf("Body not separated by a single blank line: %q", raw)
	}
}
