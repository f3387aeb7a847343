package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hirevox/hirevox/pkg/models"
	"github.com/hirevox/hirevox/pkg/repository"
)

// Mailer delivers password-reset tokens. The default implementation only
// logs; wiring a real provider is a deployment concern.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes the reset token to the log instead of sending mail.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	logger.Info("password reset requested", "email", email, "token", token)
	return nil
}

type resetToken struct {
	profileID string
	expires   time.Time
}

type AuthHandler struct {
	profileRepo   repository.ProfileRepo
	companyRepo   repository.CompanyRepo
	mailer        Mailer
	jwtSecret     string
	tokenDuration time.Duration

	mu          sync.Mutex
	resetTokens map[string]resetToken
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(pr repository.ProfileRepo, cr repository.CompanyRepo, mailer Mailer, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &AuthHandler{
		profileRepo:   pr,
		companyRepo:   cr,
		mailer:        mailer,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
		resetTokens:   make(map[string]resetToken),
	}
}

type signupRequest struct {
	CompanyName string `json:"company_name"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string `json:"token"`
	ProfileID string `json:"profile_id"`
	CompanyID string `json:"company_id"`
}

func (h *AuthHandler) issueToken(profileID, companyID, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"profile_id": profileID,
		"company_id": companyID,
		"email":      email,
		"exp":        time.Now().Add(h.tokenDuration).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}

// Signup creates the recruiter profile, then the company, then back-fills
// profile.company_id, and answers with a JWT carrying both ids.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.CompanyName == "" || req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, "Missing fields", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()

	first, last := splitName(req.Name)
	profile := models.Profile{
		FirstName:    first,
		LastName:     last,
		Email:        req.Email,
		Role:         "recruiter",
		PasswordHash: string(hash),
	}
	profileID, err := h.profileRepo.CreateProfile(ctx, &profile)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeError(w, "Email already registered", http.StatusConflict)
			return
		}
		writeError(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	company := models.Company{Name: req.CompanyName}
	companyID, err := h.companyRepo.CreateCompany(ctx, &company)
	if err != nil {
		writeError(w, "Error creating company", http.StatusInternalServerError)
		return
	}

	if err := h.profileRepo.SetProfileCompany(ctx, profileID, companyID); err != nil {
		writeError(w, "Error linking company", http.StatusInternalServerError)
		return
	}

	tokenStr, err := h.issueToken(profileID, companyID, req.Email)
	if err != nil {
		writeError(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr, ProfileID: profileID, CompanyID: companyID}, http.StatusCreated)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, "Missing fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	profile, err := h.profileRepo.GetProfileByEmail(ctx, req.Email)
	if err != nil || profile == nil {
		writeError(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	tokenStr, err := h.issueToken(profile.ID, profile.CompanyID, req.Email)
	if err != nil {
		writeError(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr, ProfileID: profile.ID, CompanyID: profile.CompanyID}, http.StatusOK)
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	// For stateless JWT, signout is client-side (just delete token)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"message":"signed out"}`)
}

type resetRequest struct {
	Email string `json:"email"`
}

// ResetPassword issues a reset token through the mailer. The response never
// reveals whether the address exists.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	profile, err := h.profileRepo.GetProfileByEmail(ctx, req.Email)
	if err == nil && profile != nil {
		token := uuid.NewString()
		h.mu.Lock()
		h.resetTokens[token] = resetToken{profileID: profile.ID, expires: time.Now().Add(time.Hour)}
		h.mu.Unlock()
		if err := h.mailer.SendPasswordReset(ctx, req.Email, token); err != nil {
			logger.Error("failed to deliver reset token", "err", err)
		}
	}

	writeJSON(w, map[string]string{"message": "reset requested"}, http.StatusOK)
}

type resetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPasswordConfirm exchanges a valid reset token for a new password hash.
func (h *AuthHandler) ResetPasswordConfirm(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.Password == "" {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	rt, ok := h.resetTokens[req.Token]
	if ok {
		delete(h.resetTokens, req.Token)
	}
	h.mu.Unlock()
	if !ok || time.Now().After(rt.expires) {
		writeError(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	if err := h.profileRepo.UpdateProfilePassword(r.Context(), rt.profileID, string(hash)); err != nil {
		writeError(w, "Error updating password", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"message": "password updated"}, http.StatusOK)
}

func splitName(name string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	first = parts[0]
	if len(parts) == 2 {
		last = parts[1]
	}
	return first, last
}
