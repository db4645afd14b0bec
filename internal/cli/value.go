package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValueCmd(withBackend func(func(*cobra.Command, Backend) error) func(*cobra.Command, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "value",
		Short: "Print the total inventory value",
		Args:  cobra.NoArgs,
		RunE: withBackend(func(cmd *cobra.Command, b Backend) error {
			valuation, err := b.Service().Valuation(cmd.Context())
			if err != nil {
				return fmt.Errorf("computing value: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderValuation(valuation))
			return nil
		}),
	}
}
