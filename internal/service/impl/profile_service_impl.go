package impl

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"leoniportal/internal/domain"
	"leoniportal/internal/dto"
	"leoniportal/internal/store"
)

type ProfileServiceImpl struct {
	Store store.Store

	now func() time.Time
}

func NewProfileServiceImpl(st store.Store) *ProfileServiceImpl {
	return &ProfileServiceImpl{Store: st, now: time.Now}
}

func (p *ProfileServiceImpl) Me(ctx context.Context, userID domain.UserID) (*dto.UserView, error) {
	return p.GetUser(ctx, userID)
}

func (p *ProfileServiceImpl) GetUser(ctx context.Context, userID domain.UserID) (*dto.UserView, error) {
	user, err := p.Store.Users().GetByID(ctx, userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	view := viewUser(user)
	return &view, nil
}

func (p *ProfileServiceImpl) ListUsers(ctx context.Context) ([]dto.UserView, error) {
	users, err := p.Store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	views := make([]dto.UserView, len(users))
	for i := range users {
		views[i] = viewUser(&users[i])
	}
	return views, nil
}

func (p *ProfileServiceImpl) UpdateProfile(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*dto.UserView, error) {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = normalizeEmail(r.Email)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	if r.FirstName == "" || r.LastName == "" || r.Email == "" || r.PhoneNumber == "" {
		return nil, ErrMissingFields
	}
	if !emailRe.MatchString(r.Email) {
		return nil, ErrInvalidEmail
	}
	if !phoneRe.MatchString(r.PhoneNumber) {
		return nil, ErrInvalidPhone
	}

	users := p.Store.Users()
	user, err := users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	// The new email may belong to anyone but the caller.
	if other, err := users.GetByEmail(ctx, r.Email); err == nil && other.ID != userID {
		return nil, domain.ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	user.FirstName = r.FirstName
	user.LastName = r.LastName
	user.Email = r.Email
	user.PhoneNumber = r.PhoneNumber

	if r.ParentalEmail != nil {
		email := normalizeEmail(*r.ParentalEmail)
		if email != "" && !emailRe.MatchString(email) {
			return nil, ErrInvalidEmail
		}
		if email == user.Email {
			return nil, ErrEmailsMustDiffer
		}
		if other, err := users.GetByParentalEmail(ctx, email); err == nil && other.ID != userID {
			return nil, domain.ErrDuplicateParentEmail
		} else if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup parental email: %w", err)
		}
		user.ParentalEmail = email
	}
	if r.ParentalPhoneNumber != nil && *r.ParentalPhoneNumber != "" {
		phone := strings.TrimSpace(*r.ParentalPhoneNumber)
		if !phoneRe.MatchString(phone) {
			return nil, ErrInvalidPhone
		}
		user.ParentalPhoneNumber = phone
	}
	if r.Department != nil && strings.TrimSpace(*r.Department) != "" {
		user.Department = strings.TrimSpace(*r.Department)
	}
	if r.Position != nil && strings.TrimSpace(*r.Position) != "" {
		user.Position = strings.TrimSpace(*r.Position)
	}

	user.UpdatedAt = p.now().UTC()
	if err := users.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("store user: %w", err)
	}

	view := viewUser(user)
	return &view, nil
}

// UploadProfilePicture accepts a data-URI payload like
// "data:image/png;base64,...". Only the MIME prefix is sniffed; the decoded
// bytes are stored as-is.
func (p *ProfileServiceImpl) UploadProfilePicture(ctx context.Context, userID domain.UserID, imageData string) error {
	mime, payload, ok := strings.Cut(imageData, ";base64,")
	if !ok || !strings.HasPrefix(mime, "data:") {
		return ErrBadImagePayload
	}
	mime = strings.TrimPrefix(mime, "data:")
	if !strings.HasPrefix(mime, "image/") {
		return ErrUnsupportedImage
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return ErrBadImagePayload
	}

	users := p.Store.Users()
	user, err := users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	user.ProfileImage = raw
	user.ProfileImageMIME = mime
	user.UpdatedAt = p.now().UTC()
	if err := users.Update(ctx, user); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

func viewUser(u *domain.User) dto.UserView {
	view := dto.UserView{
		ID:                  u.ID.String(),
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Email:               u.Email,
		ParentalEmail:       u.ParentalEmail,
		PhoneNumber:         u.PhoneNumber,
		ParentalPhoneNumber: u.ParentalPhoneNumber,
		EmployeeID:          u.EmployeeID,
		Department:          u.Department,
		Position:            u.Position,
		CreatedAt:           u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           u.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		view.LastLoginAt = u.LastLoginAt.UTC().Format(time.RFC3339)
	}
	if len(u.ProfileImage) > 0 {
		view.ProfileImage = fmt.Sprintf("data:%s;base64,%s", u.ProfileImageMIME,
			base64.StdEncoding.EncodeToString(u.ProfileImage))
	}
	return view
}
