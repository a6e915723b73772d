package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// LinksCmd returns the `nntags links` command.
func LinksCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "links",
		Short: "List records linked to the host record",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := openSession(ctx, c.ErrOrStderr())
			if err != nil {
				return err
			}
			out := c.OutOrStdout()

			if !all {
				ids, err := s.client.ListLinkedIDs(ctx, s.ctrl.Context())
				if err != nil {
					return fmt.Errorf("list links: %w", err)
				}
				if len(ids) == 0 {
					fmt.Fprintln(out, "no links found")
					return nil
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			if err := s.load(ctx); err != nil {
				return err
			}
			for _, t := range s.ctrl.Board().Tags() {
				mark := " "
				if t.Associated {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %s  %s\n", mark, t.ID, t.Label())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "show every candidate record with its link state")
	return cmd
}
