// Package httputil provides the HTTP plumbing shared by cardpath's
// outbound clients, most notably the AnkiConnect client in pkg/anki.
//
//   - [Retry]: automatic retry with exponential backoff for transient
//     failures
//   - [PostJSON]: one-shot JSON request/response round trip with
//     status-aware error classification
//
// Transient failures (network errors, 5xx responses, 429 rate limits)
// are wrapped in [RetryableError] so that [Retry] attempts them again;
// everything else fails fast.
package httputil
