package domain

import "time"

const DefaultAssignment = "unspecified"

type User struct {
	ID                  UserID     `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName           string     `gorm:"type:text;not null" json:"firstName"`
	LastName            string     `gorm:"type:text;not null" json:"lastName"`
	Email               string     `gorm:"type:citext;uniqueIndex:ux_users_email" json:"email"`
	ParentalEmail       string     `gorm:"type:citext;uniqueIndex:ux_users_parental_email" json:"parentalEmail"`
	PhoneNumber         string     `gorm:"type:text;not null" json:"phoneNumber"`
	ParentalPhoneNumber string     `gorm:"type:text;not null" json:"parentalPhoneNumber"`
	PasswordDigest      string     `gorm:"type:text;not null" json:"-"`
	EmployeeID          string     `gorm:"type:text;uniqueIndex:ux_users_employee_id" json:"employeeId"`
	Department          string     `gorm:"type:text;not null;default:'unspecified'" json:"department"`
	Position            string     `gorm:"type:text;not null;default:'unspecified'" json:"position"`
	ProfileImage        []byte     `gorm:"type:bytea" json:"-"`
	ProfileImageMIME    string     `gorm:"type:text" json:"profileImageMime,omitempty"`
	CreatedAt           time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt           time.Time  `gorm:"not null" json:"updatedAt"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
}

func (User) TableName() string { return "users" }
