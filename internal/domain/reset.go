package domain

import "time"

const ResetTokenTTL = time.Hour

// PasswordResetToken authorizes exactly one password change. At most one
// live token exists per email: issuing a new one retires the rest.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Email     string    `gorm:"type:citext;index:ix_reset_email" json:"email"`
	Token     string    `gorm:"type:text;uniqueIndex:ux_reset_token" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
