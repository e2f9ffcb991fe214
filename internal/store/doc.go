// Package store provides persistence for profiles, message payloads and the
// notification queue.
//
// It contains concrete implementations of the domain storage interfaces:
//   - FileStore serialises profiles and messages as JSON under a directory,
//     with atomic temp-file writes and internal locking.
//   - SQLStore keeps the same records in SQLite (modernc.org/sqlite).
//   - BoltQueue is a FIFO notification queue in a bolt database.
//
// Payload strings are stored verbatim; nothing here encrypts or decrypts.
// Private keys are never written by any store.
package store
