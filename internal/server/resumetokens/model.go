package resumetokens

import "time"

// ResumeToken is the server-side record of a remembered login. The token
// string itself is the key; it is revocable and rotated on every use.
type ResumeToken struct {
	Username string
	Expires  time.Time
}
