package auth

import "time"

// Account is a registered user. Accounts are never updated after creation.
type Account struct {
	Username  string    `gorm:"primaryKey;size:20" json:"username"`
	Salt      string    `gorm:"not null" json:"-"`
	Hash      string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"-"`
}

// Token binds an opaque session token to a username. Tokens do not expire.
type Token struct {
	Token     string    `gorm:"primaryKey" json:"-"`
	Username  string    `gorm:"not null;index" json:"-"`
	CreatedAt time.Time `json:"-"`
}

func (Account) TableName() string { return "candy.accounts" }
func (Token) TableName() string   { return "candy.tokens" }

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
