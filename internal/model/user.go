package model

// User is the authenticated account as known to the backend.
type User struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Balance Number `json:"balance"`
}

// Credentials is the login and registration payload.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by the login and registration endpoints.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// TopUpRequest is the payload for adding funds to the balance.
type TopUpRequest struct {
	Amount float64 `json:"amount"`
}
