package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"leoniportal/internal/dto"
	"leoniportal/internal/netutil"
	"leoniportal/internal/service"
	"leoniportal/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	Auth     service.AuthService
	Reset    service.ResetService
	Docs     service.DocumentService
	Profiles service.ProfileService
	Store    store.Store
}

func decode(r *http.Request, dst any) bool {
	return json.NewDecoder(r.Body).Decode(dst) == nil
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "store unreachable",
			"store":   h.Store.Kind(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "server online",
		"store":     h.Store.Kind(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decode(r, &req) {
		writeFailure(w, http.StatusBadRequest, "malformed request body")
		return
	}
	res, err := h.Auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "registration successful",
		"user":    res.User,
		"token":   res.Token,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(r, &req) {
		writeFailure(w, http.StatusBadRequest, "malformed request body")
		return
	}
	ip := netutil.ClientIP(r.RemoteAddr, r.Header.Get("X-Forwarded-For"), r.Header.Get("X-Real-IP"))
	ua := netutil.TruncateUserAgent(r.UserAgent())
	res, err := h.Auth.Login(r.Context(), req, ip, ua)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "login successful",
		"user":    res.User,
		"token":   res.Token,
	})
}

func (h *Handler) submitDocument(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "missing or malformed token")
		return
	}
	var req dto.DocumentCreateRequest
	if !decode(r, &req) {
		writeFailure(w, http.StatusBadRequest, "malformed request body")
		return
	}
	view, err := h.Docs.Submit(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "request recorded",
		"request": view,
	})
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "missing or malformed token")
		return
	}
	views, err := h.Docs.ListForOwner(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"requests": views,
	})
}

func (h *Handler) updateDocumentStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "missing or malformed token")
		return
	}
	var req dto.DocumentStatusUpdateRequest
	if !decode(r, &req) {
		writeFailure(w, http.StatusBadRequest, "malformed request body")
		return
	}
	view, err := h.Docs.Transition(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "status updated",
		"request": view,
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	views, err := h.Profiles.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   views,
		"count":   len(views),
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "malformed user id")
		return
	}
	view, err := h.Profiles.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": view})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "missing or malformed token")
		return
	}
	view, err := h.Profiles.Me(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": view})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "missing or malformed token")
		return
	}
	var req dto.UpdateProfileRequest
	if !decode(r, &req) {
		writeFailure(w, http.StatusBadRequest, "malformed request body")
		return
	}
	view, err := h.Profiles.UpdateProfile(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "profile updated",
		"user":    view,
	})
}

func (h *Handler) uploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "missing or malformed token")
		return
	}
	var req dto.UploadPictureRequest
	if !decode(r, &req) {
		writeFailure(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.Profiles.UploadProfilePicture(r.Context(), claims.UserID, req.ImageData); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "profile picture updated",
	})
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if !decode(r, &req) {
		writeFailure(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.Reset.RequestReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	// Identical body whether or not the email is registered.
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "if the email is registered, a reset link has been sent",
	})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !decode(r, &req) {
		writeFailure(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.Reset.ConsumeReset(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "password updated",
	})
}
