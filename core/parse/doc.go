// Package parse converts raw completion-service text into typed Go values.
//
// Completion services routinely wrap JSON answers in Markdown code fences or
// emit slightly malformed JSON (single quotes, trailing commas, unquoted
// keys). [StripCodeFence] removes fence wrapping and [ParseStringAs] repairs
// and unmarshals the remainder via jsonrepair before giving up.
package parse
