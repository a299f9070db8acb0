package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"leoniportal/internal/domain"
	"leoniportal/internal/dto"
	"leoniportal/internal/observability/metrics"
	"leoniportal/internal/service"
	"leoniportal/internal/store"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[\d\s\-\(\)]{8,15}$`)
)

const (
	minPasswordLength  = 6
	employeeIDAttempts = 1000
)

type AuthServiceImpl struct {
	Store           store.Store
	PasswordService service.PasswordService
	TokenService    service.TokenService

	now func() time.Time
}

func NewAuthServiceImpl(st store.Store, ps service.PasswordService, ts service.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{Store: st, PasswordService: ps, TokenService: ts, now: time.Now}
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.AuthResponse, error) {
	result := "failure"
	defer func() { metrics.RegistrationsTotal.WithLabelValues(result).Inc() }()

	if err := validateRegistration(&r); err != nil {
		return nil, err
	}

	users := a.Store.Users()

	// Pre-check both unique emails so the caller gets a specific message;
	// the store's unique indexes still back this up under concurrency.
	if _, err := users.GetByEmail(ctx, r.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if _, err := users.GetByParentalEmail(ctx, r.ParentalEmail); err == nil {
		return nil, domain.ErrDuplicateParentEmail
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup parental email: %w", err)
	}

	digest, err := a.PasswordService.Hash(r.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := a.now().UTC()
	user := &domain.User{
		FirstName:           r.FirstName,
		LastName:            r.LastName,
		Email:               r.Email,
		ParentalEmail:       r.ParentalEmail,
		PhoneNumber:         r.PhoneNumber,
		ParentalPhoneNumber: r.ParentalPhoneNumber,
		PasswordDigest:      digest,
		EmployeeID:          a.allocateEmployeeID(ctx),
		Department:          domain.DefaultAssignment,
		Position:            domain.DefaultAssignment,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := a.TokenService.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "employee_id", user.EmployeeID)
	result = "success"
	return &dto.AuthResponse{User: summarize(user), Token: token}, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.AuthResponse, error) {
	result := "failure"
	defer func() { metrics.LoginsTotal.WithLabelValues(result).Inc() }()

	email := normalizeEmail(r.Email)
	if email == "" || r.Password == "" {
		return nil, ErrMissingFields
	}

	users := a.Store.Users()
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// Same error as a wrong password: no account enumeration.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !a.PasswordService.Verify(r.Password, user.PasswordDigest) {
		return nil, domain.ErrInvalidCredentials
	}

	now := a.now().UTC()
	user.LastLoginAt = &now
	if err := users.Update(ctx, user); err != nil {
		slog.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	token, err := a.TokenService.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	slog.Info("login succeeded", "user_id", user.ID, "ip", ip, "user_agent", ua)
	result = "success"
	return &dto.AuthResponse{User: summarize(user), Token: token}, nil
}

// allocateEmployeeID numbers users sequentially as EMP001, EMP002, ...
// probing past collisions. If the store cannot answer at all it falls back
// to a timestamp-derived id: liveness is preferred over a pretty sequence.
func (a *AuthServiceImpl) allocateEmployeeID(ctx context.Context) string {
	users := a.Store.Users()
	count, err := users.Count(ctx)
	if err != nil {
		return a.fallbackEmployeeID()
	}
	for i := 0; i < employeeIDAttempts; i++ {
		candidate := fmt.Sprintf("EMP%03d", count+1)
		_, err := users.GetByEmployeeID(ctx, candidate)
		if errors.Is(err, store.ErrRecordNotFound) {
			return candidate
		}
		if err != nil {
			return a.fallbackEmployeeID()
		}
		count++
	}
	return a.fallbackEmployeeID()
}

func (a *AuthServiceImpl) fallbackEmployeeID() string {
	id := fmt.Sprintf("EMP%06d", a.now().UnixNano()%1_000_000)
	slog.Warn("employee id allocation fell back to timestamp", "employee_id", id)
	return id
}

func validateRegistration(r *dto.RegisterRequest) error {
	fields := []string{
		r.FirstName, r.LastName, r.Email, r.ParentalEmail,
		r.PhoneNumber, r.ParentalPhoneNumber, r.Password, r.ConfirmPassword,
	}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return ErrMissingFields
		}
	}

	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = normalizeEmail(r.Email)
	r.ParentalEmail = normalizeEmail(r.ParentalEmail)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.ParentalPhoneNumber = strings.TrimSpace(r.ParentalPhoneNumber)

	if !emailRe.MatchString(r.Email) || !emailRe.MatchString(r.ParentalEmail) {
		return ErrInvalidEmail
	}
	if r.Email == r.ParentalEmail {
		return ErrEmailsMustDiffer
	}
	if !phoneRe.MatchString(r.PhoneNumber) || !phoneRe.MatchString(r.ParentalPhoneNumber) {
		return ErrInvalidPhone
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(r.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func summarize(u *domain.User) dto.UserSummary {
	return dto.UserSummary{
		ID:                  u.ID.String(),
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Email:               u.Email,
		ParentalEmail:       u.ParentalEmail,
		PhoneNumber:         u.PhoneNumber,
		ParentalPhoneNumber: u.ParentalPhoneNumber,
		EmployeeID:          u.EmployeeID,
	}
}
