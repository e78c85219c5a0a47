// Package models defines the documents persisted by the server.
package models

// User is keyed by phone. HashedPassword never leaves the server: it is
// stored but stripped by the transport layer before responding.
type User struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Phone          string   `json:"phone"`
	HashedPassword string   `json:"hashedPassword"`
	TOSAgreement   bool     `json:"tosAgreement"`
	Checks         []string `json:"checks"`
}

// HasCheck reports whether the user owns the check with the given id.
func (u *User) HasCheck(id string) bool {
	for _, c := range u.Checks {
		if c == id {
			return true
		}
	}
	return false
}

// RemoveCheck drops id from the user's check list, keeping order.
func (u *User) RemoveCheck(id string) {
	out := u.Checks[:0]
	for _, c := range u.Checks {
		if c != id {
			out = append(out, c)
		}
	}
	u.Checks = out
}
