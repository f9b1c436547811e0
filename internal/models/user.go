package models

import "time"

// User is an account. Password holds the bcrypt hash and is never serialised.
type User struct {
	ID       string    `json:"_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"-"`
	Avatar   string    `json:"avatar"`
	Date     time.Time `json:"date"`
}

// UserRef is the public slice of a user joined into profile responses.
type UserRef struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Ref returns the public reference for u.
func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// RegisterRequest is the JSON body for POST /api/users/register.
type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// LoginRequest is the JSON body for POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
