// Package main runs accordd, the HTTP directory for accord clients.
//
// It stores profiles with their encryption public keys and message payloads
// exactly as clients send them. It never sees plaintext or private keys.
//
// HTTP API
//
//	GET  /healthz
//	PUT  /v1/profiles/{user}              display name and public key
//	GET  /v1/profiles/{user}/public-key   {"userId", "publicKey"}, 404 if none
//	POST /v1/messages                     store one encrypted message
//	GET  /v1/messages?user=&peer=         messages between two users
//	POST /v1/admin/migrate-keys?dryRun=   key consistency run (admin only)
//	GET  /metrics                         Prometheus metrics
//
// The admin route needs "Authorization: Bearer <adminToken>" and an
// X-Accord-User header naming a profile with admin rights.
//
// Flags
//
//	-config  YAML config file
//	-addr    listen address, overrides serverAddr
package main
