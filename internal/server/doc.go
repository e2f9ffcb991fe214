// Package server is the HTTP directory behind accordd.
//
// It stores profiles with their encryption public keys and relays message
// payloads between clients. Payloads arrive already encrypted and are kept
// verbatim; the server never sees private keys or plaintext.
//
// The admin route that triggers a key consistency migration needs both the
// configured bearer token and an X-Accord-User header naming an admin
// profile.
package server
