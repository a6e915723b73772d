package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gravitrone/nntags/internal/api"
	"github.com/gravitrone/nntags/internal/config"
)

const loginTimeout = 30 * time.Second

// RunInteractiveLogin prompts for the connection and host record, checks them
// against the web API, and persists config.
func RunInteractiveLogin(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	ask := func(prompt string) string {
		fmt.Fprint(out, prompt)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	cfg := &config.Config{
		BaseURL:          ask("base url: "),
		AccessToken:      ask("access token: "),
		HostEntity:       ask("host entity: "),
		HostID:           ask("host id: "),
		RelationshipName: ask("relationship: "),
		RelatedEntity:    ask("related entity: "),
	}
	if cols := ask("columns (comma separated): "); cols != "" {
		for _, c := range strings.Split(cols, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cfg.Columns = append(cfg.Columns, c)
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if api.TokenExpired(cfg.AccessToken, time.Now()) {
		fmt.Fprintln(out, "warning: access token has expired")
	}

	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()
	who, err := NewClient(cfg).WhoAmI(ctx)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "connected as user %s\n", who.UserID)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `nntags login` command.
func LoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Connect to an organization and pick the host record",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return RunInteractiveLogin(ctx, os.Stdin, c.OutOrStdout())
		},
	}
}
