// Package relay is the HTTP client for accordd.
//
// HTTP implements domain.KeyDirectory and domain.MessageStore against the
// server's /v1 routes, so the CLI can run the same key and message services
// against a remote directory as against a local store. Payload strings are
// sent exactly as the message service produced them.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses are returned as *StatusError values carrying
// the method, path and status; 404 also matches domain.ErrNotFound.
package relay
