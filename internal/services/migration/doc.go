// Package migration repairs stored encryption public keys that drifted from
// the value every client derives.
//
// A run lists every profile, recomputes the expected key from the user ID
// and rewrites the stored key where the two differ. Each profile is handled
// on its own: one failure is recorded in the summary and the batch carries
// on. Running twice is safe; the second run finds nothing to fix.
//
// Admin gating is not done here. Callers check Authorize before Run.
package migration
