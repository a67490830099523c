package domain

import "time"

// User is the minimal owner record. Authentication lives in the fronting
// proxy; the server only needs a stable owner identity to scope data.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
