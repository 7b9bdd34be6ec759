// Package schemas embeds the JSON Schemas used to validate input documents.
package schemas

import _ "embed"

// ParamsSchemaJSON is the schema for the model parameters document
// (modelop_parameters.json).
//
//go:embed params.schema.json
var ParamsSchemaJSON string
