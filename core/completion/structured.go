package completion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deskgraph/deskgraph/core/parse"
	"github.com/deskgraph/deskgraph/internal/jsonschema"
)

const structuredPromptSuffix = `

Respond with a single JSON object matching this JSON Schema, and nothing else:

%s`

// CallStructured asks the service for a JSON object matching the schema
// derived from T, then strips code fences, repairs and decodes the output,
// validates it against the schema, and returns the typed value.
//
// Transport and service failures keep the Kind assigned by the underlying
// Call; malformed or schema-violating output is reported as
// [KindResponseParse].
func CallStructured[T any](ctx context.Context, caller Caller, prompt string) (T, error) {
	var zero T

	schema := jsonschema.Generate[T]()
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return zero, newError(KindGeneric, err, "failed to marshal output schema")
	}

	content, err := caller.Call(ctx, prompt+fmt.Sprintf(structuredPromptSuffix, schemaJSON))
	if err != nil {
		return zero, err
	}

	cleaned := parse.StripCodeFence(content)

	// Decode to a generic value first so the schema can check required
	// fields and bounds before the typed unmarshal silently zero-fills them.
	decoded, err := parse.ParseStringAs[map[string]any](cleaned)
	if err != nil {
		return zero, newError(KindResponseParse, err, "output is not valid JSON")
	}
	if err := schema.Validate(decoded); err != nil {
		return zero, newError(KindResponseParse, err, "output does not match schema")
	}

	result, err := parse.ParseStringAs[T](cleaned)
	if err != nil {
		return zero, newError(KindResponseParse, err, "output does not decode as %T", zero)
	}
	return result, nil
}
