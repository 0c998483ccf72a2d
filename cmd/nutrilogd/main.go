package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nutrilog/nutrilog/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nutrilogd",
		Short: "Nutrilog daemon and CLI",
		Long:  "Nutrilog daemon for running the nutrition log API server and export tooling",
	}

	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.ExportCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
