/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oas2raw",
	Short: "Generate raw HTTP requests from OpenAPI v3 specifications",
	Long: `oas2raw turns an OpenAPI v3 document into syntactically valid raw HTTP/1.1
requests for manual security testing.

It walks the specification's paths, synthesizes example parameter values and
request bodies from the declared schemas, and emits CRLF-terminated raw
request text ready to paste into a proxy or replay tool. Requests can also be
dispatched directly against a target.

Defaults for host, scheme, token and extra headers can be placed in a
config.toml in the working directory; flags always win.`,
}

func Execute() {
	cobra.OnInitialize(func() {
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		if err := viper.ReadInConfig(); err != nil {
			// The config file is optional; only a malformed one is fatal.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				log.Fatalf("Error reading config file: %v", err)
			}
		}
	})
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
