/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/specforge/oas2raw/cmd"

func main() {
	cmd.Execute()
}
