/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specforge/oas2raw/internal/output"
	"github.com/specforge/oas2raw/internal/parser"
	"github.com/specforge/oas2raw/internal/walker"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [openapi-spec-file]",
	Short: "List the operations declared in a specification",
	Long: `List every (method, path) operation the specification declares, in
document order, together with operation IDs, tags and security schemes.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := parser.ParseFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing OpenAPI file: %v\n", err)
			os.Exit(1)
		}

		doc, docWarnings, err := p.V3()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building OpenAPI model: %v\n", err)
			os.Exit(1)
		}

		descriptors, warnings := walker.New(doc).Walk()
		for _, w := range append(docWarnings, warnings...) {
			fmt.Fprintf(os.Stderr, "%s %v\n", yellow("warning:"), w)
		}

		filtered := filterOperations(descriptors, filter, tags)
		if len(filtered) == 0 {
			fmt.Println("No operations found matching the criteria")
			os.Exit(0)
		}

		if outputFormat != "" {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if err := output.ExportOperations(filtered, format, outputFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting operations: %v\n", err)
				os.Exit(1)
			}
			return
		}

		for _, desc := range filtered {
			line := fmt.Sprintf("%-7s %s", desc.Method, desc.Path)
			var notes []string
			if desc.OperationID != "" {
				notes = append(notes, desc.OperationID)
			}
			if len(desc.Tags) > 0 {
				notes = append(notes, "tags: "+strings.Join(desc.Tags, ","))
			}
			if len(desc.Security) > 0 {
				notes = append(notes, "auth: "+strings.Join(desc.Security, ","))
			}
			if len(notes) > 0 {
				line += "  " + cyan("["+strings.Join(notes, " | ")+"]")
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&filter, "filter", "", "Filter endpoints by path pattern or operation ID")
	listCmd.Flags().StringSliceVar(&tags, "tags", []string{}, "Filter by OpenAPI tags (can be specified multiple times)")
	listCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: json or csv")
	listCmd.Flags().StringVar(&outputFile, "output-file", "", "Write output to file instead of stdout")
}
