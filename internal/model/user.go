package model

// Role is the access tier stored on a user. New tiers are added as new
// constants; the gate compares values, never raw strings from requests.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a stored role value to a Role, defaulting to patient
// for absent or unknown values so legacy rows keep working.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleDoctor:
		return RoleDoctor
	default:
		return RolePatient
	}
}

// User is keyed by email; the same email appears in credential claims.
type User struct {
	Base
	Email        string `json:"email" db:"email"`
	Name         string `json:"name" db:"name"`
	Role         Role   `json:"role" db:"role"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// IsAdmin reports whether the user holds the admin tier
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpsertUserRequest is the social-login path: profile fields only, no
// password. A credential is issued on success.
type UpsertUserRequest struct {
	Name string `json:"name" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued credential
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
