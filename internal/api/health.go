package api

import "context"

// WhoAmI calls the WhoAmI function; a cheap check that the URL and token work.
func (c *Client) WhoAmI(ctx context.Context) (*WhoAmI, error) {
	data, err := c.get(ctx, "WhoAmI", nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[WhoAmI](data)
}
