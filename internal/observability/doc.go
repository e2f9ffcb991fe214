// Package observability provides structured logging and Prometheus metrics
// for the Accord client tools and directory server.
//
// Log lines never carry private keys, shared secrets or plaintext. Public
// keys are logged as short fingerprints.
package observability
