package dto

type UpdateProfileRequest struct {
	FirstName           string  `json:"firstName"`
	LastName            string  `json:"lastName"`
	Email               string  `json:"email"`
	PhoneNumber         string  `json:"phoneNumber"`
	ParentalEmail       *string `json:"parentalEmail,omitempty"`
	ParentalPhoneNumber *string `json:"parentalPhoneNumber,omitempty"`
	Department          *string `json:"department,omitempty"`
	Position            *string `json:"position,omitempty"`
}

type UploadPictureRequest struct {
	ImageData string `json:"imageData"`
}
