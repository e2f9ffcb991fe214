// Package app wires application dependencies for the CLI and the server.
//
// It loads Config from YAML, opens the configured profile and message store
// (JSON files, SQLite, or a remote accordd), the notification queue, and
// builds the key, message and migration services, exposing them via the
// Wire struct.
package app
