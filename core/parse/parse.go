package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// StripCodeFence removes a wrapping Markdown code fence from content.
// A leading ```json or bare ``` fence and a trailing ``` fence are stripped,
// along with surrounding whitespace. Content without a fence is returned
// trimmed but otherwise untouched.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = content[len("```json"):]
	} else if strings.HasPrefix(content, "```") {
		content = content[len("```"):]
	}

	if strings.HasSuffix(content, "```") {
		content = content[:len(content)-len("```")]
	}

	return strings.TrimSpace(content)
}

// ParseStringAs decodes a JSON string into the specified type T. If plain
// unmarshaling fails, it repairs the string using jsonrepair and retries
// once, which recovers the single-quoted, trailing-comma style of almost-JSON
// completion services tend to emit.
func ParseStringAs[T any](content string) (T, error) {
	var result T

	err := json.Unmarshal([]byte(content), &result)
	if err == nil {
		return result, nil
	}

	repairedJSON, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, err, repairErr)
	}

	if err = json.Unmarshal([]byte(repairedJSON), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (original content: %s, repaired: %s)", result, err, content, repairedJSON)
	}
	return result, nil
}
