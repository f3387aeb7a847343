package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hirevox/hirevox/api"
	"github.com/hirevox/hirevox/pkg/models"
	"github.com/hirevox/hirevox/pkg/repository/mock"
)

func seedProfile(t *testing.T, m *mock.Mocks, email, password, companyID string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	id, err := m.Profiles.CreateProfile(context.Background(), &models.Profile{
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return id
}

func TestAuthHandlers(t *testing.T) {
	secret := "testsecret"
	tokenDur := 1 * time.Hour

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		prepare    func(t *testing.T, m *mock.Mocks)
		wantStatus int
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "Signup_InvalidRequest",
			method:     http.MethodPost,
			path:       "/signup",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_MissingFields_Company",
			method:     http.MethodPost,
			path:       "/signup",
			body:       map[string]string{"name": "Alice", "email": "alice@example.com", "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_MissingFields_Email",
			method:     http.MethodPost,
			path:       "/signup",
			body:       map[string]string{"company_name": "Acme", "name": "Alice", "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_Success",
			method:     http.MethodPost,
			path:       "/signup",
			body:       map[string]string{"company_name": "Acme", "name": "Alice Doe", "email": "alice@example.com", "password": "s3cret"},
			wantStatus: http.StatusCreated,
			checkBody: func(t *testing.T, b []byte) {
				var ar struct {
					Token     string `json:"token"`
					ProfileID string `json:"profile_id"`
					CompanyID string `json:"company_id"`
				}
				if err := json.Unmarshal(b, &ar); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}
				if ar.Token == "" || ar.ProfileID == "" || ar.CompanyID == "" {
					t.Fatalf("incomplete response: %s", string(b))
				}
				tok, err := jwt.Parse(ar.Token, func(token *jwt.Token) (any, error) { return []byte(secret), nil })
				if err != nil {
					t.Fatalf("invalid token: %v", err)
				}
				claims := tok.Claims.(jwt.MapClaims)
				if claims["profile_id"] != ar.ProfileID || claims["company_id"] != ar.CompanyID {
					t.Fatalf("claims do not match response ids: %v", claims)
				}
				if expF, ok := claims["exp"].(float64); !ok || int64(expF) < time.Now().Unix() {
					t.Fatalf("invalid exp claim")
				}
			},
		},
		{
			name:   "Signup_DuplicateEmail",
			method: http.MethodPost,
			path:   "/signup",
			body:   map[string]string{"company_name": "Acme", "name": "Dup", "email": "dup@example.com", "password": "pw"},
			prepare: func(t *testing.T, m *mock.Mocks) {
				seedProfile(t, m, "dup@example.com", "pw", "")
			},
			wantStatus: http.StatusConflict,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("Email already registered")) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
		{
			name:   "Signup_StoreFailure",
			method: http.MethodPost,
			path:   "/signup",
			body:   map[string]string{"company_name": "Acme", "name": "Dup", "email": "dup2@example.com", "password": "pw"},
			prepare: func(t *testing.T, m *mock.Mocks) {
				m.Profiles.CreateErr = fmt.Errorf("disk full")
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:   "Signup_CompanyBackfillFails",
			method: http.MethodPost,
			path:   "/signup",
			body:   map[string]string{"company_name": "Acme", "name": "Eve", "email": "eve@example.com", "password": "pw"},
			prepare: func(t *testing.T, m *mock.Mocks) {
				m.Profiles.BackfillErr = fmt.Errorf("disk full")
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "Signin_InvalidRequest",
			method:     http.MethodPost,
			path:       "/signin",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signin_MissingUser",
			method:     http.MethodPost,
			path:       "/signin",
			body:       map[string]string{"email": "missing@example.com", "password": "nop"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "Signin_Success",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]string{"email": "bob@example.com", "password": "hunter2"},
			prepare: func(t *testing.T, m *mock.Mocks) {
				seedProfile(t, m, "bob@example.com", "hunter2", "co-9")
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var ar struct {
					Token     string `json:"token"`
					CompanyID string `json:"company_id"`
				}
				if err := json.Unmarshal(b, &ar); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}
				if ar.Token == "" {
					t.Fatalf("empty token")
				}
				if ar.CompanyID != "co-9" {
					t.Fatalf("company_id = %q, want co-9", ar.CompanyID)
				}
			},
		},
		{
			name:   "Signin_WrongPassword",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]string{"email": "c@example.com", "password": "wrongpw"},
			prepare: func(t *testing.T, m *mock.Mocks) {
				seedProfile(t, m, "c@example.com", "rightpw", "")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Signout_OK",
			method:     http.MethodPost,
			path:       "/signout",
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("signed out")) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(t, mocks)
			}
			handler := api.NewAuthHandler(mocks.Profiles, mocks.Companies, nil, secret, tokenDur)

			var bodyReader io.Reader
			if tt.body != nil {
				b, _ := json.Marshal(tt.body)
				bodyReader = bytes.NewReader(b)
			}
			req := httptest.NewRequest(tt.method, tt.path, bodyReader)
			w := httptest.NewRecorder()

			switch tt.path {
			case "/signup":
				handler.Signup(w, req)
			case "/signin":
				handler.Signin(w, req)
			case "/signout":
				handler.Signout(w, req)
			default:
				t.Fatalf("unknown path %s", tt.path)
			}

			res := w.Result()
			defer res.Body.Close()
			data, _ := io.ReadAll(res.Body)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("%s: expected status %d got %d body=%s", tt.name, tt.wantStatus, res.StatusCode, string(data))
			}
			if tt.checkBody != nil {
				tt.checkBody(t, data)
			}
		})
	}
}

func TestPasswordResetFlow(t *testing.T) {
	mocks := mock.NewMocks()
	profileID := seedProfile(t, mocks, "reset@example.com", "oldpw", "")

	var sentToken string
	mailer := mailerFunc(func(ctx context.Context, email, token string) error {
		sentToken = token
		return nil
	})
	handler := api.NewAuthHandler(mocks.Profiles, mocks.Companies, mailer, "testsecret", time.Hour)

	// request a reset
	body, _ := json.Marshal(map[string]string{"email": "reset@example.com"})
	w := httptest.NewRecorder()
	handler.ResetPassword(w, httptest.NewRequest(http.MethodPost, "/reset-password", bytes.NewReader(body)))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("reset request status = %d", w.Result().StatusCode)
	}
	if sentToken == "" {
		t.Fatal("no reset token delivered")
	}

	// unknown address answers 200 but delivers nothing
	sentToken2 := ""
	mailer2 := mailerFunc(func(ctx context.Context, email, token string) error {
		sentToken2 = token
		return nil
	})
	handler2 := api.NewAuthHandler(mocks.Profiles, mocks.Companies, mailer2, "testsecret", time.Hour)
	body, _ = json.Marshal(map[string]string{"email": "nobody@example.com"})
	w = httptest.NewRecorder()
	handler2.ResetPassword(w, httptest.NewRequest(http.MethodPost, "/reset-password", bytes.NewReader(body)))
	if w.Result().StatusCode != http.StatusOK || sentToken2 != "" {
		t.Fatalf("unknown address: status = %d, token = %q", w.Result().StatusCode, sentToken2)
	}

	// confirm with the delivered token
	body, _ = json.Marshal(map[string]string{"token": sentToken, "password": "newpw"})
	w = httptest.NewRecorder()
	handler.ResetPasswordConfirm(w, httptest.NewRequest(http.MethodPost, "/reset-password/confirm", bytes.NewReader(body)))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("confirm status = %d", w.Result().StatusCode)
	}

	p, _ := mocks.Profiles.GetProfileByID(context.Background(), profileID)
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("newpw")) != nil {
		t.Fatal("password hash was not updated")
	}

	// the token is single-use
	body, _ = json.Marshal(map[string]string{"token": sentToken, "password": "again"})
	w = httptest.NewRecorder()
	handler.ResetPasswordConfirm(w, httptest.NewRequest(http.MethodPost, "/reset-password/confirm", bytes.NewReader(body)))
	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("reused token status = %d, want 401", w.Result().StatusCode)
	}
}

type mailerFunc func(ctx context.Context, email, token string) error

func (f mailerFunc) SendPasswordReset(ctx context.Context, email, token string) error {
	return f(ctx, email, token)
}
