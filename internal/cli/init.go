package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teiprometal/inventory/internal/service"
)

// defaultProducts is the starter catalog written by "init --seed".
var defaultProducts = []service.ProductCreateDto{
	{ID: 1, Name: "Clavo 2\"", Quantity: 500, Price: 0.03},
	{ID: 2, Name: "Tornillo 1/4\"", Quantity: 120, Price: 0.08},
	{ID: 3, Name: "Plancha acero 1m²", Quantity: 5, Price: 25.00},
}

func newInitCmd(withBackend func(func(*cobra.Command, Backend) error) func(*cobra.Command, []string) error) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the products table",
		Long:  "Create the products table and its indexes if missing. With --seed an empty table receives a starter catalog.",
		Args:  cobra.NoArgs,
		RunE: withBackend(func(cmd *cobra.Command, b Backend) error {
			ctx := cmd.Context()
			if err := b.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("creating schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Products table ready")
			if !seed {
				return nil
			}

			svc := b.Service()
			valuation, err := svc.Valuation(ctx)
			if err != nil {
				return fmt.Errorf("counting products: %w", err)
			}
			if valuation.Count > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Table already holds %d products, skipping seed\n", valuation.Count)
				return nil
			}
			for _, p := range defaultProducts {
				if _, err := svc.Create(ctx, p); err != nil {
					return fmt.Errorf("seeding product %d: %w", p.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products\n", len(defaultProducts))
			return nil
		}),
	}

	cmd.Flags().BoolVar(&seed, "seed", true, "Insert the starter catalog when the table is empty")

	return cmd
}
