package account

import (
	"time"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
)

// User is one account in the flat user store. The password is kept only
// as a bcrypt hash.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the public view of a user returned on login.
type Profile struct {
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}
