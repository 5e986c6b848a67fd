package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/catalog"
	"github.com/example/shopfront/internal/view"
)

var (
	listSearch   string
	listCategory string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the catalog, optionally filtered",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSearch, "search", "", "case-insensitive substring match on the name")
	listCmd.Flags().StringVar(&listCategory, "category", "", "exact category match (empty = any)")
}

func runList(cmd *cobra.Command, args []string) error {
	store := catalog.NewStore(apiclient.New(apiURL))
	store.Refresh(cmd.Context())

	criteria := view.Criteria{SearchText: listSearch, Category: listCategory}
	for _, item := range view.Filter(store.Get(), criteria) {
		fmt.Printf("%4d  %s - $%s (%s)\n", item.ID, item.Name, item.Price.StringFixed(2), item.Category)
	}
	return nil
}
