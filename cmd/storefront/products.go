package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Storefront/internal/catalog"
	"Storefront/internal/config"
	"Storefront/internal/render"
)

var productsSearch bool

var productsCmd = &cobra.Command{
	Use:   "products <category>",
	Short: "List a category from the configured catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runProducts,
}

func init() {
	productsCmd.Flags().BoolVar(&productsSearch, "search", false, "use the catalog search endpoint instead of the category listing")
}

func runProducts(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	return printProducts(ctx, cmd.OutOrStdout(), client, args[0], productsSearch)
}

type productSource interface {
	ListByCategory(ctx context.Context, category string) ([]catalog.Product, error)
	Search(ctx context.Context, category string) ([]catalog.Product, error)
}

func printProducts(ctx context.Context, w io.Writer, src productSource, category string, search bool) error {
	list := src.ListByCategory
	if search {
		list = src.Search
	}

	products, err := list(ctx, category)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, render.Currency(p.Price))
	}
	return tw.Flush()
}
