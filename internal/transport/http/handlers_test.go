package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leoniportal/internal/domain"
	"leoniportal/internal/dto"
	"leoniportal/internal/service"
	impl "leoniportal/internal/service/impl"
	"leoniportal/internal/store"

	"github.com/google/uuid"
)

type stubAuthService struct {
	registerResp *dto.AuthResponse
	registerErr  error
	loginResp    *dto.AuthResponse
	loginErr     error

	loginIPs []string
}

func (s *stubAuthService) Register(ctx context.Context, r dto.RegisterRequest) (*dto.AuthResponse, error) {
	return s.registerResp, s.registerErr
}

func (s *stubAuthService) Login(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.AuthResponse, error) {
	s.loginIPs = append(s.loginIPs, ip)
	return s.loginResp, s.loginErr
}

// stubTokenService accepts exactly one bearer token and maps it to a fixed
// identity, which is all the router needs.
type stubTokenService struct {
	accept string
	claims service.Claims
}

func (s *stubTokenService) Issue(user *domain.User) (string, error) { return s.accept, nil }

func (s *stubTokenService) Verify(token string) (*service.Claims, error) {
	if token != s.accept {
		return nil, domain.ErrInvalidCredentials
	}
	c := s.claims
	return &c, nil
}

type stubResetService struct {
	requestErr error
	consumeErr error
}

func (s *stubResetService) RequestReset(ctx context.Context, email string) error { return s.requestErr }
func (s *stubResetService) ConsumeReset(ctx context.Context, token, newPassword string) error {
	return s.consumeErr
}

type stubDocumentService struct {
	submitResp     *dto.DocumentRequestView
	submitErr      error
	transitionResp *dto.DocumentRequestView
	transitionErr  error
	listResp       []dto.DocumentRequestView

	submitOwners []domain.UserID
}

func (s *stubDocumentService) Submit(ctx context.Context, ownerID domain.UserID, r dto.DocumentCreateRequest) (*dto.DocumentRequestView, error) {
	s.submitOwners = append(s.submitOwners, ownerID)
	return s.submitResp, s.submitErr
}

func (s *stubDocumentService) Transition(ctx context.Context, callerID domain.UserID, r dto.DocumentStatusUpdateRequest) (*dto.DocumentRequestView, error) {
	return s.transitionResp, s.transitionErr
}

func (s *stubDocumentService) ListForOwner(ctx context.Context, ownerID domain.UserID) ([]dto.DocumentRequestView, error) {
	return s.listResp, nil
}

type stubProfileService struct {
	meResp  *dto.UserView
	meErr   error
	listErr error
}

func (s *stubProfileService) Me(ctx context.Context, userID domain.UserID) (*dto.UserView, error) {
	return s.meResp, s.meErr
}

func (s *stubProfileService) GetUser(ctx context.Context, userID domain.UserID) (*dto.UserView, error) {
	return s.meResp, s.meErr
}

func (s *stubProfileService) ListUsers(ctx context.Context) ([]dto.UserView, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.meResp == nil {
		return nil, nil
	}
	return []dto.UserView{*s.meResp}, nil
}

func (s *stubProfileService) UpdateProfile(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*dto.UserView, error) {
	return s.meResp, s.meErr
}

func (s *stubProfileService) UploadProfilePicture(ctx context.Context, userID domain.UserID, imageData string) error {
	return s.meErr
}

type routerFixture struct {
	auth     *stubAuthService
	tokens   *stubTokenService
	reset    *stubResetService
	docs     *stubDocumentService
	profiles *stubProfileService
	handler  http.Handler
	userID   domain.UserID
}

func newRouterFixture() *routerFixture {
	userID := uuid.New()
	f := &routerFixture{
		auth:     &stubAuthService{},
		tokens:   &stubTokenService{accept: "good-token", claims: service.Claims{UserID: userID, Email: "amira@example.com"}},
		reset:    &stubResetService{},
		docs:     &stubDocumentService{},
		profiles: &stubProfileService{},
		userID:   userID,
	}
	f.handler = NewRouter(RouterConfig{}, f.auth, f.tokens, f.reset, f.docs, f.profiles, store.NewMemory())
	return f
}

func (f *routerFixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v (%q)", err, rec.Body.String())
	}
	return out
}

func TestHealthReportsStoreKind(t *testing.T) {
	f := newRouterFixture()
	rec := f.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["store"] != "memory" {
		t.Fatalf("expected memory store in health body, got %v", body["store"])
	}
}

func TestRegisterReturns201(t *testing.T) {
	f := newRouterFixture()
	f.auth.registerResp = &dto.AuthResponse{
		User:  dto.UserSummary{ID: f.userID.String(), EmployeeID: "EMP001"},
		Token: "good-token",
	}
	rec := f.do(t, http.MethodPost, "/register", `{"firstName":"Amira"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["token"] != "good-token" {
		t.Fatalf("token missing from response: %v", body)
	}
}

func TestRegisterErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusBadRequest},
		{"validation", impl.ErrMissingFields, http.StatusBadRequest},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRouterFixture()
			f.auth.registerErr = tc.err
			rec := f.do(t, http.MethodPost, "/register", `{}`, "")
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if tc.code == http.StatusInternalServerError {
				if strings.Contains(rec.Body.String(), "disk on fire") {
					t.Fatalf("internal error detail leaked to the client: %s", rec.Body.String())
				}
			}
		})
	}
}

func TestLoginRejectsBadCredentialsWith401(t *testing.T) {
	f := newRouterFixture()
	f.auth.loginErr = domain.ErrInvalidCredentials
	rec := f.do(t, http.MethodPost, "/login", `{"email":"a@b.c","password":"nope"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginPassesClientIP(t *testing.T) {
	f := newRouterFixture()
	f.auth.loginResp = &dto.AuthResponse{Token: "good-token"}

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.c","password":"pw"}`))
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(f.auth.loginIPs) != 1 || f.auth.loginIPs[0] != "203.0.113.7" {
		t.Fatalf("client ip not extracted from forwarding headers: %v", f.auth.loginIPs)
	}
}

func TestDocumentEndpointsRequireAuth(t *testing.T) {
	f := newRouterFixture()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/document-request"},
		{http.MethodGet, "/document-requests"},
		{http.MethodPut, "/update-document-status"},
		{http.MethodGet, "/me"},
		{http.MethodPut, "/update-profile"},
		{http.MethodPost, "/upload-profile-picture"},
	} {
		if rec := f.do(t, tc.method, tc.path, `{}`, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
		if rec := f.do(t, tc.method, tc.path, `{}`, "forged"); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s with bad token: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestSubmitDocumentUsesTokenIdentity(t *testing.T) {
	f := newRouterFixture()
	f.docs.submitResp = &dto.DocumentRequestView{ID: uuid.NewString(), UserID: f.userID.String()}

	rec := f.do(t, http.MethodPost, "/document-request", `{"documentType":"payslip"}`, "good-token")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.docs.submitOwners) != 1 || f.docs.submitOwners[0] != f.userID {
		t.Fatalf("owner not taken from verified claims: %v", f.docs.submitOwners)
	}
}

func TestUpdateDocumentStatusErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unknown document", domain.ErrDocumentNotFound, http.StatusNotFound},
		{"foreign document", domain.ErrNotOwner, http.StatusNotFound},
		{"bad status", domain.ErrInvalidStatus, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRouterFixture()
			f.docs.transitionErr = tc.err
			rec := f.do(t, http.MethodPut, "/update-document-status", `{"documentId":"x","newStatus":"approved"}`, "good-token")
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}

func TestOwnershipFailureLooksLikeMissingDocument(t *testing.T) {
	f := newRouterFixture()

	f.docs.transitionErr = domain.ErrNotOwner
	notOwner := f.do(t, http.MethodPut, "/update-document-status", `{}`, "good-token")

	f.docs.transitionErr = domain.ErrDocumentNotFound
	missing := f.do(t, http.MethodPut, "/update-document-status", `{}`, "good-token")

	if notOwner.Code != missing.Code || notOwner.Body.String() != missing.Body.String() {
		t.Fatalf("ownership failures must be indistinguishable from missing documents:\n%s\nvs\n%s",
			notOwner.Body.String(), missing.Body.String())
	}
}

func TestForgotPasswordBodyNeverVariesByAccount(t *testing.T) {
	f := newRouterFixture()

	known := f.do(t, http.MethodPost, "/forgot-password", `{"email":"known@example.com"}`, "")
	unknown := f.do(t, http.MethodPost, "/forgot-password", `{"email":"unknown@example.com"}`, "")

	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("expected 200/200, got %d/%d", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Fatalf("responses differ:\n%s\nvs\n%s", known.Body.String(), unknown.Body.String())
	}
}

func TestResetPasswordMapsExpiredToken(t *testing.T) {
	f := newRouterFixture()
	f.reset.consumeErr = domain.ErrTokenInvalidOrExpired
	rec := f.do(t, http.MethodPost, "/reset-password", `{"token":"stale","newPassword":"longenough"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMeReturnsProfile(t *testing.T) {
	f := newRouterFixture()
	f.profiles.meResp = &dto.UserView{ID: f.userID.String(), Email: "amira@example.com"}

	for _, path := range []string{"/me", "/api/me"} {
		rec := f.do(t, http.MethodGet, path, "", "good-token")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		body := decodeBody(t, rec)
		user, ok := body["user"].(map[string]any)
		if !ok || user["email"] != "amira@example.com" {
			t.Fatalf("%s: unexpected body %v", path, body)
		}
	}
}

func TestListUsersIsPublic(t *testing.T) {
	f := newRouterFixture()
	f.profiles.meResp = &dto.UserView{ID: f.userID.String(), Email: "amira@example.com"}

	rec := f.do(t, http.MethodGet, "/users", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(1) {
		t.Fatalf("expected count 1, got %v", body["count"])
	}
}

func TestMalformedJSONIs400(t *testing.T) {
	f := newRouterFixture()
	rec := f.do(t, http.MethodPost, "/register", `{"firstName":`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
