// AngelaMos | 2026
// handler_test.go

package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/orballo/words-backend/internal/config"
	"github.com/orballo/words-backend/internal/middleware"
	"github.com/orballo/words-backend/internal/user"
)

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type handlerFixture struct {
	*serviceFixture
	router chi.Router
	tokens *TokenManager
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	svcFixture := newServiceFixture(t)

	cookies := config.CookieConfig{
		Name:     "words_auth",
		Domain:   "",
		Secure:   false,
		SameSite: "lax",
	}

	handler := NewHandler(svcFixture.svc, cookies)

	router := chi.NewRouter()
	authenticator := middleware.Authenticator(
		cookies.Name,
		svcFixture.svc.tokens,
	)
	handler.RegisterRoutes(router, authenticator)

	return &handlerFixture{
		serviceFixture: svcFixture,
		router:         router,
		tokens:         svcFixture.svc.tokens,
	}
}

func (f *handlerFixture) postJSON(
	t *testing.T,
	path string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(
		http.MethodPost,
		path,
		bytes.NewReader(payload),
	)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()

	var envelope errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (body %q)", err, rec.Body)
	}
	return envelope
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "words_auth" {
			return cookie
		}
	}
	return nil
}

func TestSignupEndpointFlow(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.postJSON(t, "/auth/signup", map[string]string{
		"email":    "ana@example.com",
		"username": "ana",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("code phase: status = %d, body %q", rec.Code, rec.Body)
	}

	var issued LoginCode
	if err := json.Unmarshal(rec.Body.Bytes(), &issued); err != nil {
		t.Fatalf("decode issued code: %v", err)
	}
	if len(issued.Code) != codeLength {
		t.Fatalf("issued code %q has wrong length", issued.Code)
	}

	rec = f.postJSON(t, "/auth/signup", map[string]string{
		"email":    "ana@example.com",
		"username": "ana",
		"code":     issued.Code,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("redeem phase: status = %d, body %q", rec.Code, rec.Body)
	}

	var session SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.ID == 0 {
		t.Error("session id is zero")
	}
	if session.Email != "ana@example.com" || session.Username != "ana" {
		t.Errorf("session = %+v", session)
	}
	if session.Role != user.RoleStudent {
		t.Errorf("role = %q, want student", session.Role)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("no session cookie was set")
	}
	if cookie.Value == "" {
		t.Error("session cookie is empty")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be http-only")
	}
}

func TestSignupEndpointValidation(t *testing.T) {
	f := newHandlerFixture(t)

	tests := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{
			"missing email",
			map[string]string{"username": "ana"},
			"Email not provided.",
		},
		{
			"missing username",
			map[string]string{"email": "ana@example.com"},
			"Username not provided.",
		},
		{
			"malformed email",
			map[string]string{"email": "not-an-email", "username": "ana"},
			"The email provided is not valid.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.postJSON(t, "/auth/signup", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %q", rec.Code, rec.Body)
			}

			envelope := decodeError(t, rec)
			if envelope.Error.Message != tt.message {
				t.Errorf("message = %q, want %q",
					envelope.Error.Message, tt.message)
			}
			if envelope.Error.Code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400", envelope.Error.Code)
			}
		})
	}
}

func TestSignupEndpointEmailConflict(t *testing.T) {
	f := newHandlerFixture(t)

	ctx := t.Context()
	if _, err := f.users.Create(ctx, "ana@example.com", "ana"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	rec := f.postJSON(t, "/auth/signup", map[string]string{
		"email":    "ana@example.com",
		"username": "other",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body)
	}

	envelope := decodeError(t, rec)
	if envelope.Error.Message != "The email provided is already in use." {
		t.Errorf("message = %q", envelope.Error.Message)
	}
}

func TestSigninEndpointUnknownEmail(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.postJSON(t, "/auth/signin", map[string]string{
		"email": "nobody@example.com",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body)
	}

	envelope := decodeError(t, rec)
	if envelope.Error.Message != "The email provided does not exist." {
		t.Errorf("message = %q", envelope.Error.Message)
	}
}

func TestSigninEndpointSetsCookie(t *testing.T) {
	f := newHandlerFixture(t)

	ctx := t.Context()
	if _, err := f.users.Create(ctx, "ana@example.com", "ana"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	rec := f.postJSON(t, "/auth/signin", map[string]string{
		"email": "ana@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("code phase: status = %d, body %q", rec.Code, rec.Body)
	}

	stored := f.repo.codes["ana@example.com"]
	if stored == nil {
		t.Fatal("no code stored")
	}

	rec = f.postJSON(t, "/auth/signin", map[string]string{
		"email": "ana@example.com",
		"code":  stored.Code,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("redeem phase: status = %d, body %q", rec.Code, rec.Body)
	}

	var session SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Email != "ana@example.com" {
		t.Errorf("session email = %q", session.Email)
	}

	if cookie := sessionCookie(rec); cookie == nil || cookie.Value == "" {
		t.Fatal("no session cookie was set")
	}
}

func TestSignoutEndpointRequiresToken(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/signout", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body)
	}

	envelope := decodeError(t, rec)
	if envelope.Error.Message != "Token not provided." {
		t.Errorf("message = %q", envelope.Error.Message)
	}
}

func TestSignoutEndpointClearsCookie(t *testing.T) {
	f := newHandlerFixture(t)

	token, err := f.tokens.IssueToken(1, "student", "ana@example.com", "ana")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: "words_auth", Value: token})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("no clearing cookie was set")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("cookie not cleared: value %q, max-age %d",
			cookie.Value, cookie.MaxAge)
	}
}

func TestSignoutEndpointRejectsBadToken(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: "words_auth", Value: "garbage"})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body)
	}

	envelope := decodeError(t, rec)
	if envelope.Error.Message != "Invalid token." {
		t.Errorf("message = %q", envelope.Error.Message)
	}
}

func TestDeleteEndpointFlow(t *testing.T) {
	f := newHandlerFixture(t)

	ctx := t.Context()
	account, err := f.users.Create(ctx, "ana@example.com", "ana")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	token, err := f.tokens.IssueToken(
		account.ID,
		account.Role,
		account.Email,
		account.Username,
	)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/auth/delete", nil)
	req.AddCookie(&http.Cookie{Name: "words_auth", Value: token})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code phase: status = %d, body %q", rec.Code, rec.Body)
	}

	stored := f.repo.codes["ana@example.com"]
	if stored == nil {
		t.Fatal("no deletion code stored")
	}

	payload, _ := json.Marshal(map[string]string{"code": stored.Code})
	req = httptest.NewRequest(
		http.MethodDelete,
		"/auth/delete",
		bytes.NewReader(payload),
	)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "words_auth", Value: token})
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("confirm phase: status = %d, body %q", rec.Code, rec.Body)
	}

	if exists, _ := f.users.EmailExists(ctx, "ana@example.com"); exists {
		t.Error("the account should be gone")
	}
}
