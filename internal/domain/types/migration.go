package types

// MigrationStatus classifies one profile in a key consistency run.
type MigrationStatus string

const (
	MigrationAlreadyCorrect MigrationStatus = "already_correct"
	MigrationFixed          MigrationStatus = "fixed"
	MigrationWouldFix       MigrationStatus = "would_fix"
	MigrationError          MigrationStatus = "error"
)

// MigrationRecord is the outcome for a single profile.
type MigrationRecord struct {
	ProfileID   ProfileID       `json:"profileId"`
	UserID      UserID          `json:"userId"`
	Status      MigrationStatus `json:"status"`
	StoredKey   PublicKey       `json:"storedKey,omitempty"`
	ExpectedKey PublicKey       `json:"expectedKey,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// MigrationSummary is the result of a whole run. In a dry run, Fixed counts
// the profiles that would have been repaired.
type MigrationSummary struct {
	Total          int               `json:"total"`
	Fixed          int               `json:"fixed"`
	AlreadyCorrect int               `json:"alreadyCorrect"`
	Errors         int               `json:"errors"`
	DryRun         bool              `json:"dryRun"`
	Details        []MigrationRecord `json:"details"`
}

// MigrationOptions controls a key consistency run.
type MigrationOptions struct {
	// DryRun recomputes and compares only; nothing is written or queued.
	DryRun bool
	// Concurrency bounds how many profiles are processed at once. Values
	// below 1 select the service default.
	Concurrency int
}
