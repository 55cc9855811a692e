/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/specforge/oas2raw/internal/dispatch"
	"github.com/specforge/oas2raw/internal/models"
	"github.com/specforge/oas2raw/internal/output"
)

var (
	sendTimeout  int
	sendInsecure bool

	// Color helpers
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	white  = color.New(color.FgWhite, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [openapi-spec-file]",
	Short: "Generate and replay raw requests against the target",
	Long: `Generate a raw HTTP request per operation and send each one to the
target over a plain socket, reporting the response status line.

Examples:
  # Replay every endpoint against a staging host
  oas2raw send api-spec.json --host staging.example.com

  # Self-signed target, short timeout
  oas2raw send api-spec.json --host 10.0.0.5:8443 --insecure --timeout 5

  # Export the outcome
  oas2raw send api-spec.json --host api.example.com -o csv --output-file run.csv`,
	Args: cobra.ExactArgs(1),
	Run:  runSend,
}

func runSend(cmd *cobra.Command, args []string) {
	requests, opts := loadAndSynthesize(args[0])

	isTTY := isatty.IsTerminal(os.Stdout.Fd())

	fmt.Printf("%s\n", white("=== Dispatch ==="))
	fmt.Printf("Target:    %s (%s)\n", opts.Host, opts.Scheme)
	fmt.Printf("Requests:  %d\n", len(requests))
	fmt.Println()

	var s *spinner.Spinner

	onEvent := func(event dispatch.Event) {
		switch event.Type {
		case dispatch.EventStarting:
			if isTTY {
				s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				s.Suffix = fmt.Sprintf(" [%d/%d] %s %s",
					event.Index+1, event.Total, event.Descriptor.Method, event.Descriptor.Path)
				s.Start()
			}

		case dispatch.EventCompleted:
			if isTTY && s != nil {
				s.Stop()
			}

			result := event.Result
			prefix := fmt.Sprintf("[%d/%d]", event.Index+1, event.Total)

			if !result.Sent {
				fmt.Printf("%s %s %s %s - %s\n",
					prefix, red("✗"), result.Method, result.Path, result.Error)
				return
			}

			status := green("✓")
			if result.StatusCode >= 500 {
				status = red("✗")
			} else if result.StatusCode >= 400 {
				status = yellow("●")
			}

			fmt.Printf("%s %s %s %s %s %s\n",
				prefix, status, result.Method, result.Path,
				cyan(fmt.Sprintf("%d", result.StatusCode)),
				result.ResponseTime.Round(time.Millisecond))
			if verbose {
				fmt.Printf("    %s\n", result.StatusLine)
			}
		}
	}

	dispatcher := dispatch.NewDispatcher(time.Duration(sendTimeout)*time.Second, sendInsecure)
	summary := dispatcher.DispatchAll(requests, opts, onEvent)

	if outputFormat != "" {
		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := output.ExportDispatchSummary(summary, format, outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting results: %v\n", err)
			os.Exit(1)
		}
		if outputFile != "" {
			fmt.Printf("\nResults exported to: %s\n", outputFile)
			displayDispatchSummary(summary)
		}
	} else {
		displayDispatchSummary(summary)
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func displayDispatchSummary(summary models.DispatchSummary) {
	fmt.Println()
	fmt.Printf("%s\n", white("=== Dispatch Summary ==="))
	fmt.Printf("Total Requests: %d\n", summary.Total)
	fmt.Printf("Sent:           %d\n", summary.Sent)
	if summary.Failed > 0 {
		fmt.Printf("Failed:         %s\n", red(fmt.Sprintf("%d", summary.Failed)))
	} else {
		fmt.Printf("Failed:         %s\n", green("0"))
	}
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&targetHost, "host", "", "Target host[:port] (defaults to the spec's first server)")
	sendCmd.Flags().BoolVar(&useHTTPS, "https", true, "Use HTTPS as the target scheme")
	sendCmd.Flags().StringVar(&bearerToken, "token", "", "Bearer token for the Authorization header")
	sendCmd.Flags().StringArrayVar(&extraHeaders, "header", nil, "Extra header as 'Name: Value' (can be specified multiple times)")
	sendCmd.Flags().StringVar(&filter, "filter", "", "Filter endpoints by path pattern or operation ID")
	sendCmd.Flags().StringSliceVar(&tags, "tags", []string{}, "Filter by OpenAPI tags (can be specified multiple times)")
	sendCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")
	sendCmd.Flags().IntVar(&sendTimeout, "timeout", 30, "Per-request timeout in seconds")
	sendCmd.Flags().BoolVar(&sendInsecure, "insecure", false, "Skip TLS certificate verification")
	sendCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: json or csv")
	sendCmd.Flags().StringVar(&outputFile, "output-file", "", "Write results to file instead of stdout")
}
