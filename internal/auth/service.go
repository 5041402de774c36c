package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/EmpoweredVote/candymap/internal/apperr"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 20
	MinPasswordLen = 8
	MaxPasswordLen = 100

	kdfIterations = 1000
	kdfKeyLen     = 64
	saltBytes     = 16
	tokenBytes    = 32

	// A collision at 256 bits means the random source is broken.
	maxTokenAttempts = 5
)

var (
	errMissingData        = apperr.Validation("Missing request data")
	errUsernameLength     = apperr.Validation(fmt.Sprintf("Username must be between %d and %d characters", MinUsernameLen, MaxUsernameLen))
	errPasswordLength     = apperr.Validation(fmt.Sprintf("Password must be between %d and %d characters", MinPasswordLen, MaxPasswordLen))
	errUsernameTaken      = apperr.New(apperr.ErrDuplicateAccount, "Username already taken")
	errInvalidCredentials = apperr.New(apperr.ErrInvalidCredentials, "Invalid username or password")
)

// Service registers accounts, logs users in and resolves tokens to usernames.
type Service struct {
	accounts AccountStore
	tokens   TokenStore
	logger   *zap.Logger

	// dummySalt keeps a login for an unknown user as slow as a real one.
	dummySalt string
}

func NewService(accounts AccountStore, tokens TokenStore, logger *zap.Logger) *Service {
	salt, err := randomHex(saltBytes)
	if err != nil {
		salt = strings.Repeat("0", saltBytes*2)
	}
	return &Service{
		accounts:  accounts,
		tokens:    tokens,
		logger:    logger,
		dummySalt: salt,
	}
}

// NormalizeUsername trims and lower-cases a username.
func NormalizeUsername(username string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(username))
}

// Register creates an account and returns a fresh token for it.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return "", errMissingData
	}
	if n := utf8.RuneCountInString(username); n < MinUsernameLen || n > MaxUsernameLen {
		return "", errUsernameLength
	}
	if n := utf8.RuneCountInString(password); n < MinPasswordLen || n > MaxPasswordLen {
		return "", errPasswordLength
	}

	if _, err := s.accounts.FindAccount(ctx, username); err == nil {
		return "", errUsernameTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return "", err
	}

	salt, err := randomHex(saltBytes)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	account := Account{
		Username: username,
		Salt:     salt,
		Hash:     hashPassword(password, salt),
	}

	// Two concurrent registrations can both pass the lookup above; the store's
	// uniqueness check decides.
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return "", errUsernameTaken
		}
		return "", err
	}

	s.logger.Info("account registered", zap.String("username", username))
	return s.mintToken(ctx, username)
}

// Login checks credentials and returns a new token. Earlier tokens stay valid.
// An unknown user and a wrong password fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return "", errMissingData
	}

	account, err := s.accounts.FindAccount(ctx, username)
	if errors.Is(err, ErrAccountNotFound) {
		hashPassword(password, s.dummySalt)
		return "", errInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !checkPassword(password, account) {
		return "", errInvalidCredentials
	}
	return s.mintToken(ctx, username)
}

// Authenticate resolves a token to a username. Unknown, malformed and empty
// tokens resolve to anonymous; this never fails.
func (s *Service) Authenticate(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	t, err := s.tokens.FindToken(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrTokenNotFound) {
			s.logger.Warn("token lookup failed", zap.Error(err))
		}
		return "", false
	}
	return t.Username, true
}

func (s *Service) mintToken(ctx context.Context, username string) (string, error) {
	for range maxTokenAttempts {
		value, err := randomHex(tokenBytes)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		err = s.tokens.CreateToken(ctx, Token{Token: value, Username: username})
		if errors.Is(err, ErrTokenExists) {
			continue
		}
		if err != nil {
			return "", err
		}
		return value, nil
	}
	return "", fmt.Errorf("generate token: %d collisions in a row", maxTokenAttempts)
}

// hashPassword derives the stored hash. The salt's hex text, not its decoded
// bytes, is the PBKDF2 salt input.
func hashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), kdfIterations, kdfKeyLen, sha512.New)
	return hex.EncodeToString(key)
}

func checkPassword(password string, a Account) bool {
	got := hashPassword(password, a.Salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(a.Hash)) == 1
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
