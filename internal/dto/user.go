package dto

// UserSummary is the shape returned by register and login: just enough for
// the client to render the account, never the password digest.
type UserSummary struct {
	ID                  string `json:"id"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	ParentalEmail       string `json:"parentalEmail"`
	PhoneNumber         string `json:"phoneNumber"`
	ParentalPhoneNumber string `json:"parentalPhoneNumber"`
	EmployeeID          string `json:"employeeId"`
}

type AuthResponse struct {
	User  UserSummary `json:"user"`
	Token string      `json:"token"`
}

// UserView is the full profile shape (/me, /users/{id}, update-profile).
type UserView struct {
	ID                  string `json:"id"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	ParentalEmail       string `json:"parentalEmail"`
	PhoneNumber         string `json:"phoneNumber"`
	ParentalPhoneNumber string `json:"parentalPhoneNumber"`
	EmployeeID          string `json:"employeeId"`
	Department          string `json:"department"`
	Position            string `json:"position"`
	ProfileImage        string `json:"profileImage,omitempty"`
	CreatedAt           string `json:"createdAt"`
	UpdatedAt           string `json:"updatedAt"`
	LastLoginAt         string `json:"lastLoginAt,omitempty"`
}
