package models

import "time"

// Admin is a dashboard account identified by username.
type Admin struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string `json:"-"`
	Role         string
	CreatedAt    time.Time
}

// AdminView is the public projection of an Admin.
type AdminView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (a *Admin) View() AdminView {
	return AdminView{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role}
}
