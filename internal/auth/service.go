// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/orballo/words-backend/internal/core"
	"github.com/orballo/words-backend/internal/user"
)

var (
	ErrEmailTaken    = errors.New("email already in use")
	ErrUsernameTaken = errors.New("username already in use")
	ErrUnknownEmail  = errors.New("email does not exist")
	ErrInvalidCode   = errors.New("invalid code")
)

// UserProvider is the slice of the user service the auth flows need.
type UserProvider interface {
	Create(ctx context.Context, email, username string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// CodeSender delivers a signin code to its recipient.
type CodeSender interface {
	SendLoginCode(recipient, code string) error
}

// Result is the outcome of a signup or signin step. Exactly one branch is
// populated: CodeIssued when a code was generated and mailed, User+Token
// when the code was redeemed and a session established.
type Result struct {
	CodeIssued *LoginCode
	User       *user.User
	Token      string
}

type Service struct {
	repo    Repository
	users   UserProvider
	sender  CodeSender
	tokens  *TokenManager
	codeTTL time.Duration
	logger  *slog.Logger
}

func NewService(
	repo Repository,
	users UserProvider,
	sender CodeSender,
	tokens *TokenManager,
	codeTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		sender:  sender,
		tokens:  tokens,
		codeTTL: codeTTL,
		logger:  logger,
	}
}

func (s *Service) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Signup handles both halves of the two-step signup. Without a code it
// reserves nothing: it only mails a code after confirming the email and
// username are free. With a code it redeems it and creates the account.
func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*Result, error) {
	email := strings.ToLower(req.Email)

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	taken, err = s.users.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	if req.Code == "" {
		return s.issueCode(ctx, email)
	}

	if err := s.redeemCode(ctx, email, req.Code); err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, email, req.Username)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, err := s.tokens.IssueToken(
		created.ID,
		created.Role,
		created.Email,
		created.Username,
	)
	if err != nil {
		return nil, err
	}

	return &Result{User: created, Token: token}, nil
}

// Signin mirrors Signup for existing accounts: first call mails a code,
// second call trades it for a session token.
func (s *Service) Signin(
	ctx context.Context,
	req SigninRequest,
) (*Result, error) {
	email := strings.ToLower(req.Email)

	account, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return nil, ErrUnknownEmail
	}
	if err != nil {
		return nil, err
	}

	if req.Code == "" {
		return s.issueCode(ctx, email)
	}

	if err := s.redeemCode(ctx, email, req.Code); err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueToken(
		account.ID,
		account.Role,
		account.Email,
		account.Username,
	)
	if err != nil {
		return nil, err
	}

	return &Result{User: account, Token: token}, nil
}

// RequestDeletion mails a confirmation code to the signed-in account.
func (s *Service) RequestDeletion(
	ctx context.Context,
	email string,
) (*Result, error) {
	return s.issueCode(ctx, strings.ToLower(email))
}

// ConfirmDeletion redeems the confirmation code and removes the account
// together with everything it owns.
func (s *Service) ConfirmDeletion(
	ctx context.Context,
	userID int64,
	email, code string,
) error {
	if err := s.redeemCode(ctx, strings.ToLower(email), code); err != nil {
		return err
	}

	return s.users.DeleteAccount(ctx, userID)
}

func (s *Service) issueCode(
	ctx context.Context,
	email string,
) (*Result, error) {
	code, err := GenerateCode()
	if err != nil {
		return nil, err
	}

	issued, err := s.repo.UpsertCode(ctx, email, code)
	if err != nil {
		return nil, err
	}

	// Delivery happens off the request path. A lost email is recoverable:
	// the caller just requests another code.
	go func() {
		if sendErr := s.sender.SendLoginCode(email, code); sendErr != nil {
			s.logger.Error("send login code",
				"email", email,
				"error", sendErr,
			)
		}
	}()

	return &Result{CodeIssued: issued}, nil
}

// redeemCode validates a submitted code against the stored one and burns
// it on success. Expiry is decided here, against issued_at, rather than by
// any background cleanup.
func (s *Service) redeemCode(ctx context.Context, email, code string) error {
	stored, err := s.repo.GetCode(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}

	if stored.IsExpired(s.codeTTL) {
		if deleteErr := s.repo.DeleteCode(ctx, email); deleteErr != nil {
			s.logger.Warn("delete expired code", "error", deleteErr)
		}
		return ErrInvalidCode
	}

	if !stored.Matches(code) {
		return ErrInvalidCode
	}

	if err := s.repo.DeleteCode(ctx, email); err != nil {
		return fmt.Errorf("burn login code: %w", err)
	}

	return nil
}
