package users

import "time"

// User is the stored identity record. PasswordHash is the argon2id digest
// of the password under the per-user Salt; the plaintext is never stored.
type User struct {
	ID           int64
	Username     string
	Salt         []byte
	PasswordHash []byte
	CreatedAt    time.Time
}
