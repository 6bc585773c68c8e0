package model

// Claims holds the caller-asserted attributes decoded from the stored token.
// They are unverified and only fit for display.
type Claims struct {
	UserType string
	Subject  string
}

// Role returns the display role label
func (c Claims) Role() string {
	return c.UserType
}
