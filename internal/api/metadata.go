package api

import (
	"context"
	"fmt"
	"strings"
)

// EntitySetName resolves an entity logical name to its collection name.
// On any failure it returns "" along with the error.
func (c *Client) EntitySetName(ctx context.Context, logicalName string) (string, error) {
	logicalName = strings.TrimSpace(logicalName)
	if logicalName == "" {
		return "", fmt.Errorf("entity logical name is required")
	}
	path := buildQuery(
		fmt.Sprintf("EntityDefinitions(LogicalName='%s')", strings.ReplaceAll(logicalName, "'", "''")),
		QueryParams{"$select": "EntitySetName"},
	)
	data, err := c.get(ctx, path, nil)
	if err != nil {
		return "", err
	}
	def, err := decodeOne[entityDefinition](data)
	if err != nil {
		return "", err
	}
	return def.EntitySetName, nil
}
