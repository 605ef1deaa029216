package completion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/deskgraph/deskgraph/internal/utils"
)

// ChunkSink receives text deltas as they arrive from a streaming call.
// Push blocks until the chunk is accepted; returning an error aborts the
// stream.
type ChunkSink interface {
	Push(ctx context.Context, chunk string) error
}

// CallStreaming sends prompt with stream mode enabled, pushes every non-empty
// content delta to sink in arrival order, and returns the accumulated text.
//
// Streaming is a single attempt: chunks already pushed cannot be retracted,
// so a retry would replay partial output. Any failure is reported with
// [KindStreaming]; the accumulated text up to the failure is returned
// alongside the error so callers can decide what to salvage.
func (c *Client) CallStreaming(ctx context.Context, prompt string, sink ChunkSink) (string, error) {
	request := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		Stream:      true,
	}

	res, err := utils.DoPostStream(ctx, c.httpClient, c.baseURL+"/chat/completions", c.apiKey, request)
	if err != nil {
		return "", newError(KindStreaming, err, "stream request failed")
	}
	defer utils.CloseWithLog(res.Body)

	var accumulated strings.Builder
	scanner := utils.NewSSEScanner(res.Body)

	for {
		payload, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return accumulated.String(), newError(KindStreaming, err, "stream read failed")
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return accumulated.String(), newError(KindStreaming, err, "stream chunk is not valid JSON")
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		accumulated.WriteString(delta)
		if err := sink.Push(ctx, delta); err != nil {
			return accumulated.String(), newError(KindStreaming, err, "chunk sink rejected delta")
		}
	}

	return accumulated.String(), nil
}
