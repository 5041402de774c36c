package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrTokenExists     = errors.New("token already exists")
	ErrTokenNotFound   = errors.New("token not found")
)

// AccountStore is the durable username → credentials map.
type AccountStore interface {
	CreateAccount(ctx context.Context, a Account) error
	FindAccount(ctx context.Context, username string) (Account, error)
}

// TokenStore is the durable token → username map.
type TokenStore interface {
	CreateToken(ctx context.Context, t Token) error
	FindToken(ctx context.Context, token string) (Token, error)
}

// GormStore keeps accounts and tokens in Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateAccount(ctx context.Context, a Account) error {
	err := s.db.WithContext(ctx).Create(&a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *GormStore) FindAccount(ctx context.Context, username string) (Account, error) {
	var a Account
	err := s.db.WithContext(ctx).First(&a, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("find account: %w", err)
	}
	return a, nil
}

func (s *GormStore) CreateToken(ctx context.Context, t Token) error {
	err := s.db.WithContext(ctx).Create(&t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrTokenExists
	}
	if err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	return nil
}

func (s *GormStore) FindToken(ctx context.Context, token string) (Token, error) {
	var t Token
	err := s.db.WithContext(ctx).First(&t, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Token{}, ErrTokenNotFound
	}
	if err != nil {
		return Token{}, fmt.Errorf("find token: %w", err)
	}
	return t, nil
}
