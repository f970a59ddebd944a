package model

import "time"

// Roles a user may hold.  Staff are admins and operators.
const (
    RoleAdmin    = "admin"
    RoleOperator = "operator"
    RoleUser     = "user"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r string) bool {
    return r == RoleAdmin || r == RoleOperator || r == RoleUser
}

// IsStaff reports whether r may manage other users' bookings.
func IsStaff(r string) bool {
    return r == RoleAdmin || r == RoleOperator
}

// User mirrors a row of the `users` table.  PasswordHash holds a bcrypt
// digest and is never serialized.
type User struct {
    ID           uint64    `json:"id"`         // users.id
    Firstname    string    `json:"firstname"`  // users.firstname
    Lastname     string    `json:"lastname"`   // users.lastname
    Username     string    `json:"username"`   // users.username (unique)
    About        string    `json:"about"`      // users.about
    Email        string    `json:"email"`      // users.email (unique)
    PasswordHash string    `json:"-"`          // users.password
    AvatarURL    string    `json:"avatarurl"`  // users.avatarurl
    Role         string    `json:"role"`       // users.role
    CreatedAt    time.Time `json:"created_at"` // users.created_at
}

// SignupCode is a one-time credential that lets staff self-register.
//
// Fields:
//  Code         – unique code handed out of band.
//  GeneratedFor – role granted to the account created with the code.
//  IsUsed       – flips to true exactly once.
type SignupCode struct {
    ID           uint64
    Code         string
    GeneratedFor string
    IsUsed       bool
}
