package api

import "github.com/google/uuid"

// QueryParams are OData system query options keyed by name, e.g. "$select".
type QueryParams map[string]string

// collection is one page of an OData collection response.
type collection[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink,omitempty"`
}

// refBody is the payload of an associate request.
type refBody struct {
	ID string `json:"@odata.id"`
}

// entityDefinition is the projection of EntityDefinitions used for lookups.
type entityDefinition struct {
	EntitySetName string `json:"EntitySetName"`
}

// WhoAmI identifies the caller of the web API.
type WhoAmI struct {
	UserID         uuid.UUID `json:"UserId"`
	BusinessUnitID uuid.UUID `json:"BusinessUnitId"`
	OrganizationID uuid.UUID `json:"OrganizationId"`
}
