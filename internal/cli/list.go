package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(withBackend func(func(*cobra.Command, Backend) error) func(*cobra.Command, []string) error) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Long:  "List every product in ascending ID order, or only those whose name contains --query (case-insensitive).",
		Args:  cobra.NoArgs,
		RunE: withBackend(func(cmd *cobra.Command, b Backend) error {
			catalog, err := b.Service().List(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("listing products: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderCatalog(catalog))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only show products whose name contains this text")

	return cmd
}
