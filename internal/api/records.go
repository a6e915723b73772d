package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gravitrone/nntags/internal/tags"
)

// RecordQuery selects the row feed of candidate tags.
type RecordQuery struct {
	EntitySet string
	IDField   string
	Columns   []tags.Column
	Top       int
}

// ListRecords reads candidate records and returns them as rows with one cell
// per ordered column. Formatted values are preferred over raw values.
func (c *Client) ListRecords(ctx context.Context, q RecordQuery) ([]tags.Row, error) {
	if q.EntitySet == "" || q.IDField == "" {
		return nil, fmt.Errorf("entity set and id field are required")
	}
	cols := tags.OrderColumns(q.Columns)
	selectFields := []string{q.IDField}
	for _, col := range cols {
		if col.Name != q.IDField {
			selectFields = append(selectFields, col.Name)
		}
	}
	params := QueryParams{"$select": strings.Join(selectFields, ",")}
	if q.Top > 0 {
		params["$top"] = strconv.Itoa(q.Top)
	}
	header := http.Header{}
	header.Set("Prefer", includeFormattedValues)

	var rows []tags.Row
	target := buildQuery(q.EntitySet, params)
	for target != "" {
		data, err := c.get(ctx, target, header)
		if err != nil {
			return nil, err
		}
		page, err := decodeCollection[map[string]any](data)
		if err != nil {
			return nil, err
		}
		for _, rec := range page.Value {
			id, _ := rec[q.IDField].(string)
			if id == "" {
				continue
			}
			row := tags.Row{ID: tags.NormalizeID(id), Cells: make([]tags.Cell, 0, len(cols))}
			for _, col := range cols {
				row.Cells = append(row.Cells, tags.Cell{Column: col.Name, Value: formattedValue(rec, col.Name)})
			}
			rows = append(rows, row)
			if q.Top > 0 && len(rows) >= q.Top {
				return rows, nil
			}
		}
		target = page.NextLink
	}
	return rows, nil
}

func formattedValue(rec map[string]any, field string) string {
	if s, ok := rec[field+formattedValueSuffix].(string); ok {
		return s
	}
	switch v := rec[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
