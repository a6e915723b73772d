package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitrone/nntags/internal/tags"
)

// ToggleCmd returns the `nntags toggle` command.
func ToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>...",
		Short: "Link or unlink records from the host record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := openSession(ctx, c.ErrOrStderr())
			if err != nil {
				return err
			}
			if !s.ctrl.Interactive() {
				return errors.New("control is disabled")
			}
			if err := s.load(ctx); err != nil {
				return err
			}

			out := c.OutOrStdout()
			failed := 0
			for _, id := range args {
				o, ok := s.ctrl.Toggle(ctx, id)
				switch {
				case !ok:
					failed++
					fmt.Fprintf(out, "skipped %s: not a candidate record\n", tags.NormalizeID(id))
				case !o.OK():
					failed++
				case o.Associated():
					fmt.Fprintf(out, "linked %s\n", o.TagID)
				default:
					fmt.Fprintf(out, "unlinked %s\n", o.TagID)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d toggles failed", failed, len(args))
			}
			return nil
		},
	}
}
