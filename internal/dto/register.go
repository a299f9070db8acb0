package dto

type RegisterRequest struct {
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	ParentalEmail       string `json:"parentalEmail"`
	PhoneNumber         string `json:"phoneNumber"`
	ParentalPhoneNumber string `json:"parentalPhoneNumber"`
	Password            string `json:"password"`
	ConfirmPassword     string `json:"confirmPassword"`
}
