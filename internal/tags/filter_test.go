package tags

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatchesAnyColumnCaseInsensitive(t *testing.T) {
	all := []Tag{
		{ID: "1", Columns: []string{"Urgent", "red"}},
		{ID: "2", Columns: []string{"Later", "blue"}},
		{ID: "3", Columns: []string{"Review", "RED"}},
	}

	got := Filter(all, "Red")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Len(t, Filter(all, "  "), 3)
	assert.Empty(t, Filter(all, "green"))
}

func TestOrderColumns(t *testing.T) {
	cols := []Column{
		{Name: "c", Order: 2},
		{Name: "hidden", Order: -1},
		{Name: "a", Order: 0},
		{Name: "b", Order: 1},
	}
	got := OrderColumns(cols)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
	assert.Equal(t, "c", got[2].Name)
}

type mapResolver map[string]string

func (m mapResolver) EntitySetName(_ context.Context, logical string) (string, error) {
	if set, ok := m[logical]; ok {
		return set, nil
	}
	return "", errors.New("entity not found")
}

func TestResolveContext(t *testing.T) {
	rc, err := ResolveContext(context.Background(), mapResolver{"account": "accounts", "nn_tag": "nn_tags"}, ContextParams{
		HostEntity:    "account",
		HostID:        "{6F9619FF-8B86-D011-B42D-00C04FC964FF}",
		Relationship:  "nn_account_tag",
		RelatedEntity: "nn_tag",
	})
	require.NoError(t, err)
	assert.Equal(t, "accounts", rc.HostSet)
	assert.Equal(t, "nn_tags", rc.RelatedSet)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", rc.HostID)
}

func TestResolveContextFailsOnLookupError(t *testing.T) {
	_, err := ResolveContext(context.Background(), mapResolver{"account": "accounts"}, ContextParams{
		HostEntity:    "account",
		HostID:        "h",
		Relationship:  "rel",
		RelatedEntity: "nn_tag",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve nn_tag")
}

func TestResolveContextRejectsEmptySetName(t *testing.T) {
	_, err := ResolveContext(context.Background(), mapResolver{"account": "accounts", "nn_tag": ""}, ContextParams{
		HostEntity:    "account",
		HostID:        "h",
		Relationship:  "rel",
		RelatedEntity: "nn_tag",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing related entity set")
}
