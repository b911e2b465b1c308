package models

// User represents a person tracked by the ledger.
//
// Users are immutable once created. Exactly one user per ledger is the
// distinguished "current user", the viewpoint from which all balances are
// computed.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// DisplayName is the name shown for this user.
	DisplayName string

	// AvatarURL is an optional profile picture URL. The core never
	// interprets it; it is carried for the presentation layer.
	AvatarURL string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}
