package identity

import "time"

// Identity is the authentication record behind a profile. It only knows
// about credentials; roles and contact data live on the profile.
type Identity struct {
	UID          string    `json:"uid" db:"uid"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// EventKind describes why the current identity changed.
type EventKind string

const (
	EventSignedUp  EventKind = "signed_up"
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Event is published to OnIdentityChanged subscribers. Identity is nil
// for sign-out events.
type Event struct {
	Kind     EventKind
	UID      string
	Identity *Identity
}
