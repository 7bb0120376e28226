// Package models holds the auth service's persistent and wire types.
package models

import "time"

// User is a row of the users table. Email is stored normalized.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     *string
	Role         string
	CreatedAt    time.Time
}

// UserView is the public projection returned by register and login.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) View() UserView {
	return UserView{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role, CreatedAt: u.CreatedAt}
}

// TokenView describes an issued access token.
type TokenView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserView  `json:"user"`
	Token TokenView `json:"token"`
}

// AuthClaims is the verified identity behind a token.
type AuthClaims struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role"`
}

func (u *User) Claims() AuthClaims {
	return AuthClaims{UserID: u.ID, Username: u.Email, Email: u.Email, FullName: u.FullName, Role: u.Role}
}
