// Package commands defines the accord CLI and wires dependencies for subcommands.
//
// Commands
//
//   - keys           Print a user's public key and fingerprint
//   - publish        Store the correct public key on a user's profile
//   - send           Encrypt and send a message
//   - read           Decrypt and print a conversation
//   - safety-number  Print the safety number two users compare
//   - migrate-keys   Repair drifted public keys (admin only)
//   - profile        Add or list profiles
//   - notifications  Drain queued user notifications
//
// # Implementation
//
// The root command loads the YAML config, applies flag overrides and builds
// the dependency graph (store, queue, services, relay client) before any
// subcommand runs. The store is local JSON files, SQLite, or a remote accordd
// selected with --store.
package commands
