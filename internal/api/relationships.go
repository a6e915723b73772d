package api

import (
	"context"
	"fmt"

	"github.com/gravitrone/nntags/internal/tags"
)

// --- Relationship Methods ---

// CreateLink associates relatedID with the host record through rc.Relationship.
func (c *Client) CreateLink(ctx context.Context, rc tags.RelationshipContext, relatedID string) error {
	path := fmt.Sprintf("%s(%s)/%s/$ref", rc.HostSet, rc.HostID, rc.Relationship)
	body := refBody{ID: c.DataURL(fmt.Sprintf("%s(%s)", rc.RelatedSet, tags.NormalizeID(relatedID)))}
	return c.post(ctx, path, body)
}

// RemoveLink disassociates relatedID from the host record.
func (c *Client) RemoveLink(ctx context.Context, rc tags.RelationshipContext, relatedID string) error {
	path := fmt.Sprintf("%s(%s)/%s(%s)/$ref", rc.HostSet, rc.HostID, rc.Relationship, tags.NormalizeID(relatedID))
	return c.del(ctx, path)
}

// ListLinkedIDs returns the ids of every record linked to the host record,
// read from the relationship's intersect entity. All pages are followed.
func (c *Client) ListLinkedIDs(ctx context.Context, rc tags.RelationshipContext) ([]string, error) {
	relatedKey := rc.RelatedEntity + "id"
	target := buildQuery(rc.Relationship, QueryParams{
		"$select": relatedKey,
		"$filter": fmt.Sprintf("%sid eq %s", rc.HostEntity, rc.HostID),
	})

	var ids []string
	for target != "" {
		data, err := c.get(ctx, target, nil)
		if err != nil {
			return nil, err
		}
		page, err := decodeCollection[map[string]any](data)
		if err != nil {
			return nil, err
		}
		for _, row := range page.Value {
			if id, ok := row[relatedKey].(string); ok && id != "" {
				ids = append(ids, tags.NormalizeID(id))
			}
		}
		target = page.NextLink
	}
	return ids, nil
}

var _ tags.Linker = (*Client)(nil)

