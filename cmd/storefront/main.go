package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Sleep Outside storefront",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (STOREFRONT_* env vars override it)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogStubCmd)
	rootCmd.AddCommand(productsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
