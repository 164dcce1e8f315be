// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/orballo/words-backend/internal/core"
	"github.com/orballo/words-backend/internal/user"
)

type stubRepo struct {
	codes map[string]*LoginCode
}

func newStubRepo() *stubRepo {
	return &stubRepo{codes: make(map[string]*LoginCode)}
}

func (r *stubRepo) UpsertCode(
	_ context.Context,
	email, code string,
) (*LoginCode, error) {
	stored := &LoginCode{Email: email, Code: code, IssuedAt: time.Now()}
	r.codes[email] = stored

	copied := *stored
	return &copied, nil
}

func (r *stubRepo) GetCode(
	_ context.Context,
	email string,
) (*LoginCode, error) {
	stored, ok := r.codes[email]
	if !ok {
		return nil, fmt.Errorf("get login code: %w", core.ErrNotFound)
	}

	copied := *stored
	return &copied, nil
}

func (r *stubRepo) DeleteCode(_ context.Context, email string) error {
	delete(r.codes, email)
	return nil
}

type stubUsers struct {
	nextID  int64
	byEmail map[string]*user.User
	byName  map[string]*user.User
}

func newStubUsers() *stubUsers {
	return &stubUsers{
		nextID:  1,
		byEmail: make(map[string]*user.User),
		byName:  make(map[string]*user.User),
	}
}

func (u *stubUsers) Create(
	_ context.Context,
	email, username string,
) (*user.User, error) {
	if _, ok := u.byEmail[email]; ok {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	created := &user.User{
		ID:       u.nextID,
		Email:    email,
		Username: username,
		Role:     user.RoleStudent,
	}
	u.nextID++
	u.byEmail[email] = created
	u.byName[username] = created

	return created, nil
}

func (u *stubUsers) GetByEmail(
	_ context.Context,
	email string,
) (*user.User, error) {
	found, ok := u.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	return found, nil
}

func (u *stubUsers) EmailExists(
	_ context.Context,
	email string,
) (bool, error) {
	_, ok := u.byEmail[email]
	return ok, nil
}

func (u *stubUsers) UsernameExists(
	_ context.Context,
	username string,
) (bool, error) {
	_, ok := u.byName[username]
	return ok, nil
}

func (u *stubUsers) DeleteAccount(_ context.Context, id int64) error {
	for email, account := range u.byEmail {
		if account.ID == id {
			delete(u.byEmail, email)
			delete(u.byName, account.Username)
			return nil
		}
	}
	return fmt.Errorf("delete account: %w", core.ErrNotFound)
}

// stubSender pushes deliveries onto a channel so tests can wait for the
// fire-and-forget send goroutine.
type stubSender struct {
	sent chan string
}

func newStubSender() *stubSender {
	return &stubSender{sent: make(chan string, 8)}
}

func (s *stubSender) SendLoginCode(recipient, code string) error {
	s.sent <- recipient + ":" + code
	return nil
}

func (s *stubSender) waitForSend(t *testing.T) string {
	t.Helper()

	select {
	case delivery := <-s.sent:
		return delivery
	case <-time.After(2 * time.Second):
		t.Fatal("no email was sent")
		return ""
	}
}

type serviceFixture struct {
	svc    *Service
	repo   *stubRepo
	users  *stubUsers
	sender *stubSender
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	repo := newStubRepo()
	users := newStubUsers()
	sender := newStubSender()

	tokens, err := NewTokenManager(
		"test-secret-with-enough-entropy-for-hs256",
		"words-backend-test",
		time.Hour,
	)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &serviceFixture{
		svc:    NewService(repo, users, sender, tokens, 5*time.Minute, logger),
		repo:   repo,
		users:  users,
		sender: sender,
	}
}

func TestSignupIssuesCode(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.svc.Signup(context.Background(), SignupRequest{
		Email:    "ana@example.com",
		Username: "ana",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if result.CodeIssued == nil {
		t.Fatal("expected a code to be issued")
	}
	if result.User != nil || result.Token != "" {
		t.Error("no session should exist before the code is redeemed")
	}
	if len(result.CodeIssued.Code) != codeLength {
		t.Errorf("code length = %d, want %d",
			len(result.CodeIssued.Code), codeLength)
	}

	delivery := f.sender.waitForSend(t)
	want := "ana@example.com:" + result.CodeIssued.Code
	if delivery != want {
		t.Errorf("delivery = %q, want %q", delivery, want)
	}
}

func TestSignupEmailTaken(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	if _, err := f.users.Create(ctx, "ana@example.com", "ana"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, err := f.svc.Signup(ctx, SignupRequest{
		Email:    "ana@example.com",
		Username: "other",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestSignupUsernameTaken(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	if _, err := f.users.Create(ctx, "ana@example.com", "ana"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, err := f.svc.Signup(ctx, SignupRequest{
		Email:    "other@example.com",
		Username: "ana",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestSignupRedeemsCode(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.Signup(ctx, SignupRequest{
		Email:    "ana@example.com",
		Username: "ana",
	})
	if err != nil {
		t.Fatalf("Signup (code phase): %v", err)
	}

	result, err := f.svc.Signup(ctx, SignupRequest{
		Email:    "ana@example.com",
		Username: "ana",
		Code:     first.CodeIssued.Code,
	})
	if err != nil {
		t.Fatalf("Signup (redeem phase): %v", err)
	}

	if result.User == nil || result.Token == "" {
		t.Fatal("expected a user and a session token")
	}
	if result.User.Email != "ana@example.com" {
		t.Errorf("Email = %q", result.User.Email)
	}
	if result.User.Role != user.RoleStudent {
		t.Errorf("Role = %q, want student", result.User.Role)
	}

	if _, ok := f.repo.codes["ana@example.com"]; ok {
		t.Error("the redeemed code should be deleted")
	}
}

func TestSignupWrongCode(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Signup(ctx, SignupRequest{
		Email:    "ana@example.com",
		Username: "ana",
	}); err != nil {
		t.Fatalf("Signup (code phase): %v", err)
	}

	_, err := f.svc.Signup(ctx, SignupRequest{
		Email:    "ana@example.com",
		Username: "ana",
		Code:     "WRONGCODE1",
	})
	if !errors.Is(err, ErrInvalidCode) {
		t.Errorf("err = %v, want ErrInvalidCode", err)
	}
}

func TestExpiredCodeRejectedAndDropped(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	if _, err := f.users.Create(ctx, "ana@example.com", "ana"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	f.repo.codes["ana@example.com"] = &LoginCode{
		Email:    "ana@example.com",
		Code:     "ABCDEFGH12",
		IssuedAt: time.Now().Add(-6 * time.Minute),
	}

	_, err := f.svc.Signin(ctx, SigninRequest{
		Email: "ana@example.com",
		Code:  "ABCDEFGH12",
	})
	if !errors.Is(err, ErrInvalidCode) {
		t.Errorf("err = %v, want ErrInvalidCode", err)
	}

	if _, ok := f.repo.codes["ana@example.com"]; ok {
		t.Error("the expired code should be removed on redemption")
	}
}

func TestSigninUnknownEmail(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Signin(context.Background(), SigninRequest{
		Email: "nobody@example.com",
	})
	if !errors.Is(err, ErrUnknownEmail) {
		t.Errorf("err = %v, want ErrUnknownEmail", err)
	}
}

func TestSigninRoundTrip(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	if _, err := f.users.Create(ctx, "ana@example.com", "ana"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	first, err := f.svc.Signin(ctx, SigninRequest{Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Signin (code phase): %v", err)
	}

	result, err := f.svc.Signin(ctx, SigninRequest{
		Email: "ana@example.com",
		Code:  first.CodeIssued.Code,
	})
	if err != nil {
		t.Fatalf("Signin (redeem phase): %v", err)
	}

	if result.Token == "" {
		t.Error("expected a session token")
	}
	if result.User == nil || result.User.Username != "ana" {
		t.Errorf("User = %+v", result.User)
	}
}

func TestReissueInvalidatesPreviousCode(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	if _, err := f.users.Create(ctx, "ana@example.com", "ana"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	first, err := f.svc.Signin(ctx, SigninRequest{Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Signin (first code): %v", err)
	}

	second, err := f.svc.Signin(ctx, SigninRequest{Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Signin (second code): %v", err)
	}

	if first.CodeIssued.Code == second.CodeIssued.Code {
		t.Fatal("reissue produced the same code")
	}

	_, err = f.svc.Signin(ctx, SigninRequest{
		Email: "ana@example.com",
		Code:  first.CodeIssued.Code,
	})
	if !errors.Is(err, ErrInvalidCode) {
		t.Errorf("stale code: err = %v, want ErrInvalidCode", err)
	}

	if _, err := f.svc.Signin(ctx, SigninRequest{
		Email: "ana@example.com",
		Code:  second.CodeIssued.Code,
	}); err != nil {
		t.Errorf("fresh code rejected: %v", err)
	}
}

func TestDeleteAccountFlow(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	account, err := f.users.Create(ctx, "ana@example.com", "ana")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	issued, err := f.svc.RequestDeletion(ctx, account.Email)
	if err != nil {
		t.Fatalf("RequestDeletion: %v", err)
	}

	err = f.svc.ConfirmDeletion(
		ctx,
		account.ID,
		account.Email,
		issued.CodeIssued.Code,
	)
	if err != nil {
		t.Fatalf("ConfirmDeletion: %v", err)
	}

	if exists, _ := f.users.EmailExists(ctx, account.Email); exists {
		t.Error("the account should be gone")
	}
}
