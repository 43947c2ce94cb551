package models

import "time"

// User is a site account identified by email. Its role is always "user".
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
}

// UserView is the public projection of a User.
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email}
}
