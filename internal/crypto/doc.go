// Package crypto implements Accord's message encryption primitives.
//
// Contents
//
//   - SHA-256 digests rendered as lowercase hex (Digest)
//   - Deterministic key pairs derived from a user identifier and the
//     protocol salt (DeriveKeyPair)
//   - Shared-secret agreement between two matched users (Agree)
//   - AES-256-GCM message encryption to the "iv:ciphertext:tag" payload
//     format, with pass-through of legacy plaintext (Encrypt, Decrypt)
//   - Short fingerprints and safety numbers for display (Fingerprint,
//     SafetyNumber)
//
// # Notes
//
// Every function here is pure and safe for concurrent use. Private keys are
// recomputed from the identifier on each call and are never stored.
// AppSalt pins the protocol version: changing it invalidates every derived
// key and every stored public key.
package crypto
