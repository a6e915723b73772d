package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitrone/nntags/internal/config"
)

// ResolveCmd returns the `nntags resolve` command.
func ResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <logical-name>",
		Short: "Print the entity set name of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("not logged in: %w", err)
			}
			set, err := NewClient(cfg).EntitySetName(ctx, args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}
			fmt.Fprintln(c.OutOrStdout(), set)
			return nil
		},
	}
}
