// Package message encrypts outgoing messages and decrypts conversations.
//
// Each operation derives the shared secret for the pair from the key
// service, seals or opens payload strings with internal/crypto, and hands
// the strings to a MessageStore untouched. A payload that fails to decrypt
// is replaced by a placeholder for that one message only.
package message
