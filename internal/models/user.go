package models

// User represents a registered user's profile. Immutable after registration.
type User struct {
	Base
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Credential stores a user's login secret, kept in a separate table from the
// profile. Created together with the User row in one transaction so the two
// can never drift apart.
type Credential struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}
