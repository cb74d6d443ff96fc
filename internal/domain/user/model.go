package user

import "time"

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID   string
	Username string
}

type User struct {
	ID        string
	Username  string
	Email     string
	Avatar    string
	CreatedAt time.Time
}
