// Package utils provides shared low-level helpers used throughout the
// deskgraph internals. It covers HTTP request helpers for both synchronous
// and streaming (SSE) communication with completion-service APIs, plus small
// string utilities.
//
// Key entry points: [DoPostSync] for synchronous JSON round-trips, and
// [DoPostStream] together with [SSEScanner] for Server-Sent Events streaming.
package utils
