// Package jsonschema generates JSON Schema definitions from Go types via
// reflection and validates decoded JSON values against them.
//
// Schemas drive two things in deskgraph: prompt construction for structured
// completion calls, and post-parse validation of the completion service's
// JSON output (required fields, numeric bounds).
//
// Field names come from `json` struct tags. Additional constraints come from
// the `jsonschema` tag, e.g.:
//
//	type IntentClassification struct {
//	    Intent     string  `json:"intent" jsonschema:"required"`
//	    Confidence float64 `json:"confidence" jsonschema:"required,minimum=0,maximum=1"`
//	}
package jsonschema
