// Package identity derives the local user's encryption keys and resolves
// counterpart public keys.
//
// Nothing secret is stored: the private key is recomputed from the user
// identifier on every call, and only the public key is published to the
// key directory.
package identity
