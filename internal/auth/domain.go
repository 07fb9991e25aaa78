package auth

// Account is a stored credential record.
type Account struct {
	ID           int64
	Username     string
	FullName     string
	PasswordHash string
}

// Profile is what a successful login reveals about the account.
type Profile struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// InitialAccount describes the administrator provisioned at start-up.
type InitialAccount struct {
	Username string
	Password string
	FullName string
}

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the success body of the login endpoint.
type LoginResponse struct {
	Status string  `json:"status"`
	User   Profile `json:"user"`
}
