// Package memzero clears key material held in byte slices.
package memzero

// Zero overwrites every buffer with zeros.
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
	}
}
