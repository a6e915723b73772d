package tags

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// RelationshipContext identifies the host record and the many-to-many
// relationship its tags are linked through. Built once per view load.
type RelationshipContext struct {
	HostEntity    string
	HostSet       string
	HostID        string
	Relationship  string
	RelatedEntity string
	RelatedSet    string
}

// Validate reports the first missing field.
func (rc RelationshipContext) Validate() error {
	fields := []struct{ name, value string }{
		{"host entity", rc.HostEntity},
		{"host entity set", rc.HostSet},
		{"host id", rc.HostID},
		{"relationship", rc.Relationship},
		{"related entity", rc.RelatedEntity},
		{"related entity set", rc.RelatedSet},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("relationship context: missing %s", f.name)
		}
	}
	return nil
}

// ContextParams are the unresolved inputs of a RelationshipContext.
type ContextParams struct {
	HostEntity    string
	HostID        string
	Relationship  string
	RelatedEntity string
}

// SetNameResolver maps an entity logical name to its collection name.
type SetNameResolver interface {
	EntitySetName(ctx context.Context, logicalName string) (string, error)
}

// ResolveContext looks up both collection names concurrently and returns a
// complete context. An empty collection name is an error.
func ResolveContext(ctx context.Context, resolver SetNameResolver, p ContextParams) (RelationshipContext, error) {
	rc := RelationshipContext{
		HostEntity:    strings.TrimSpace(p.HostEntity),
		HostID:        NormalizeID(p.HostID),
		Relationship:  strings.TrimSpace(p.Relationship),
		RelatedEntity: strings.TrimSpace(p.RelatedEntity),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set, err := resolver.EntitySetName(gctx, rc.HostEntity)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", rc.HostEntity, err)
		}
		rc.HostSet = set
		return nil
	})
	g.Go(func() error {
		set, err := resolver.EntitySetName(gctx, rc.RelatedEntity)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", rc.RelatedEntity, err)
		}
		rc.RelatedSet = set
		return nil
	})
	if err := g.Wait(); err != nil {
		return RelationshipContext{}, err
	}
	if err := rc.Validate(); err != nil {
		return RelationshipContext{}, err
	}
	return rc, nil
}
