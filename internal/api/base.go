package api

// DefaultAPIVersion is the web API version segment used unless configured.
const DefaultAPIVersion = "v9.1"

// formattedValueSuffix is the annotation carrying a display-formatted value.
const formattedValueSuffix = "@OData.Community.Display.V1.FormattedValue"

// includeFormattedValues asks the server to annotate formatted values.
const includeFormattedValues = `odata.include-annotations="OData.Community.Display.V1.FormattedValue"`
