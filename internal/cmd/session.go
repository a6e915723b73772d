package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/gravitrone/nntags/internal/api"
	"github.com/gravitrone/nntags/internal/config"
	"github.com/gravitrone/nntags/internal/tags"
)

// NewClient builds an API client from the config.
func NewClient(cfg *config.Config) *api.Client {
	timeout, _ := cfg.Timeout()
	client := api.NewClient(cfg.BaseURL, cfg.AccessToken, timeout)
	client.SetAPIVersion(cfg.APIVersion)
	return client
}

// session is a resolved controller for one-shot commands.
type session struct {
	cfg    *config.Config
	client *api.Client
	ctrl   *tags.Controller
}

func openSession(ctx context.Context, stderr io.Writer) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("not logged in: %w", err)
	}
	client := NewClient(cfg)

	rc, err := tags.ResolveContext(ctx, client, cfg.ContextParams())
	if err != nil {
		return nil, err
	}
	notifier := tags.NotifyFunc(func(message string) {
		fmt.Fprintf(stderr, "error: %s\n", message)
	})
	return &session{
		cfg:    cfg,
		client: client,
		ctrl:   tags.NewController(rc, client, notifier, cfg.Options()),
	}, nil
}

// load reads the candidate tags and reconciles them with the host record.
func (s *session) load(ctx context.Context) error {
	rc := s.ctrl.Context()
	rows, err := s.client.ListRecords(ctx, api.RecordQuery{
		EntitySet: rc.RelatedSet,
		IDField:   rc.RelatedEntity + "id",
		Columns:   s.cfg.ViewColumns(),
		Top:       s.cfg.PageSize,
	})
	if err != nil {
		return fmt.Errorf("list %s: %w", rc.RelatedSet, err)
	}
	s.ctrl.Refresh(rows)
	return s.ctrl.Reconcile(ctx)
}
