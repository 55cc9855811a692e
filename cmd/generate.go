/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/specforge/oas2raw/internal/models"
	"github.com/specforge/oas2raw/internal/output"
	"github.com/specforge/oas2raw/internal/parser"
	"github.com/specforge/oas2raw/internal/synth"
	"github.com/specforge/oas2raw/internal/walker"
)

var (
	targetHost   string
	useHTTPS     bool
	bearerToken  string
	extraHeaders []string
	filter       string
	tags         []string
	verbose      bool
	outputFormat string
	outputFile   string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [openapi-spec-file]",
	Short: "Generate raw HTTP requests for every operation",
	Long: `Generate a raw HTTP/1.1 request for every operation in the OpenAPI
specification, with example values synthesized from the declared schemas.

Examples:
  # Print raw requests for every endpoint
  oas2raw generate api-spec.json --host api.example.com

  # Bearer token and extra headers
  oas2raw generate api-spec.json --host api.example.com \
    --token abc123 --header "X-Debug: 1"

  # Export as JSON for tooling
  oas2raw generate api-spec.json --host api.example.com -o json --output-file reqs.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		requests, _ := loadAndSynthesize(args[0])

		format := output.FormatRaw
		if outputFormat != "" {
			var err error
			format, err = output.ParseFormat(outputFormat)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		if err := output.ExportRequests(requests, format, outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting requests: %v\n", err)
			os.Exit(1)
		}
		if outputFile != "" {
			fmt.Printf("Generated %d requests to %s\n", len(requests), outputFile)
		}
	},
}

// loadAndSynthesize runs the full pipeline: parse, walk, filter, synthesize.
// Per-operation failures are warnings; only document-level failures exit.
func loadAndSynthesize(specFile string) ([]models.GeneratedRequest, models.RuntimeOptions) {
	p, err := parser.ParseFile(specFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing OpenAPI file: %v\n", err)
		os.Exit(1)
	}

	doc, docWarnings, err := p.V3()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building OpenAPI model: %v\n", err)
		os.Exit(1)
	}

	descriptors, walkWarnings := walker.New(doc).Walk()
	for _, w := range append(docWarnings, walkWarnings...) {
		fmt.Fprintf(os.Stderr, "%s %v\n", yellow("warning:"), w)
	}

	filtered := filterOperations(descriptors, filter, tags)
	if len(filtered) == 0 {
		fmt.Println("No operations found matching the criteria")
		os.Exit(0)
	}

	opts, err := resolveOptions(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	requests, synthWarnings := synthesizeAll(filtered, opts)
	for _, w := range synthWarnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", yellow("warning:"), w)
	}

	return requests, opts
}

// resolveOptions builds the runtime options from flags, the optional config
// file, and finally the document's servers list.
func resolveOptions(p *parser.Parser) (models.RuntimeOptions, error) {
	host := targetHost
	if host == "" {
		host = viper.GetString("host")
	}

	scheme := "http"
	if useHTTPS {
		scheme = "https"
	}

	if host == "" && p != nil {
		if urls, err := p.GetServerURLs(); err == nil && len(urls) > 0 {
			if u, err := url.Parse(urls[0]); err == nil && u.Host != "" {
				host = u.Host
				if u.Scheme != "" {
					scheme = u.Scheme
				}
			}
		}
	}
	if host == "" {
		return models.RuntimeOptions{}, fmt.Errorf("target host is required (use --host or set it in config.toml)")
	}

	token := bearerToken
	if token == "" {
		token = viper.GetString("token")
	}

	var headerLines []string
	headerLines = append(headerLines, viper.GetStringSlice("headers")...)
	headerLines = append(headerLines, extraHeaders...)

	return models.RuntimeOptions{
		Host:         synth.ParseHost(host),
		Scheme:       scheme,
		BearerToken:  token,
		ExtraHeaders: synth.ParseExtraHeaders(strings.Join(headerLines, "\n")),
	}, nil
}

// synthesizeAll synthesizes a request per descriptor. An unsupported body
// content type degrades to an empty body; anything else skips the operation.
func synthesizeAll(descriptors []models.OperationDescriptor, opts models.RuntimeOptions) ([]models.GeneratedRequest, []string) {
	var requests []models.GeneratedRequest
	var warnings []string

	for _, desc := range descriptors {
		req, err := synth.Synthesize(desc, opts)
		if err != nil {
			var unsupported *models.UnsupportedContentTypeError
			if errors.As(err, &unsupported) {
				warnings = append(warnings, fmt.Sprintf("%s: %v, sending empty body", desc.Label(), err))
				stripped := desc
				stripped.RequestBodySchema = nil
				stripped.BodyExample = nil
				stripped.ContentType = ""
				req, err = synth.Synthesize(stripped, opts)
			}
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v, skipped", desc.Label(), err))
			continue
		}
		requests = append(requests, models.GeneratedRequest{Descriptor: desc, Request: req})
	}

	return requests, warnings
}

func filterOperations(descriptors []models.OperationDescriptor, filterStr string, tagFilters []string) []models.OperationDescriptor {
	var filtered []models.OperationDescriptor

	for _, desc := range descriptors {
		// Filter by path pattern or operation ID
		if filterStr != "" {
			if !strings.Contains(desc.Path, filterStr) && !strings.Contains(desc.OperationID, filterStr) {
				continue
			}
		}

		// Filter by tags
		if len(tagFilters) > 0 {
			found := false
			for _, filterTag := range tagFilters {
				for _, opTag := range desc.Tags {
					if opTag == filterTag {
						found = true
						break
					}
				}
				if found {
					break
				}
			}
			if !found {
				continue
			}
		}

		filtered = append(filtered, desc)
	}

	return filtered
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&targetHost, "host", "", "Target host[:port] (defaults to the spec's first server)")
	generateCmd.Flags().BoolVar(&useHTTPS, "https", true, "Use HTTPS as the target scheme")
	generateCmd.Flags().StringVar(&bearerToken, "token", "", "Bearer token for the Authorization header")
	generateCmd.Flags().StringArrayVar(&extraHeaders, "header", nil, "Extra header as 'Name: Value' (can be specified multiple times)")
	generateCmd.Flags().StringVar(&filter, "filter", "", "Filter endpoints by path pattern or operation ID")
	generateCmd.Flags().StringSliceVar(&tags, "tags", []string{}, "Filter by OpenAPI tags (can be specified multiple times)")
	generateCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: raw or json (default raw)")
	generateCmd.Flags().StringVar(&outputFile, "output-file", "", "Write output to file instead of stdout")
}
