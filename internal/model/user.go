package model

import (
	"errors"
	"fmt"
	"time"
)

const (
	RoleAdmin     = "admin"
	RoleTeacher   = "teacher"
	RoleStudent   = "student"
	RoleDeveloper = "developer"
)

// Branches a student may belong to.
var ValidBranches = []string{"CS", "ME", "ET", "EE"}

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleDeveloper:
		return true
	}
	return false
}

// TeacherProfile holds the fields required when Role == "teacher".
type TeacherProfile struct {
	Department string   `json:"department"`
	Subjects   []string `json:"subjects,omitempty"`
}

// StudentProfile holds the fields required when Role == "student".
type StudentProfile struct {
	RollNumber string  `json:"roll_number"`
	Class      string  `json:"class"`
	Branch     string  `json:"branch"`
	Attendance float64 `json:"attendance"`
}

// DeveloperProfile holds the fields required when Role == "developer".
type DeveloperProfile struct {
	Title string `json:"title"`
}

// User represents an account in the system. Exactly one of the role profile
// pointers is set, matching Role; admin has none.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // never serialized
	Role         string `json:"role"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Bio          string `json:"bio,omitempty"`

	Teacher   *TeacherProfile   `json:"teacher,omitempty"`
	Student   *StudentProfile   `json:"student,omitempty"`
	Developer *DeveloperProfile `json:"developer,omitempty"`

	// Password reset state; present only during an active reset flow.
	ResetOTPHash     string     `json:"-"`
	ResetOTPExpiry   *time.Time `json:"-"`
	ResetTokenHash   string     `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	// TokenVersion is the token epoch: bumped on every password change so
	// outstanding session tokens stop verifying.
	TokenVersion int `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrValidation is the root of every user-validation failure, so callers
// can map the whole class to a client error.
var ErrValidation = errors.New("invalid user data")

var (
	ErrInvalidRole         = fmt.Errorf("%w: invalid role", ErrValidation)
	ErrProfileRoleMismatch = fmt.Errorf("%w: profile does not match role", ErrValidation)
)

// Validate enforces the per-role variant invariants: the profile matching
// Role must be present and complete, and no other profile may be set.
func (u *User) Validate() error {
	if !ValidRole(u.Role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, u.Role)
	}
	if u.Username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if u.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	switch u.Role {
	case RoleAdmin:
		if u.Teacher != nil || u.Student != nil || u.Developer != nil {
			return ErrProfileRoleMismatch
		}
	case RoleTeacher:
		if u.Teacher == nil || u.Student != nil || u.Developer != nil {
			return ErrProfileRoleMismatch
		}
		if u.Teacher.Department == "" {
			return fmt.Errorf("%w: department is required for teachers", ErrValidation)
		}
	case RoleStudent:
		if u.Student == nil || u.Teacher != nil || u.Developer != nil {
			return ErrProfileRoleMismatch
		}
		if u.Student.RollNumber == "" {
			return fmt.Errorf("%w: roll number is required for students", ErrValidation)
		}
		if u.Student.Class == "" {
			return fmt.Errorf("%w: class is required for students", ErrValidation)
		}
		if !validBranch(u.Student.Branch) {
			return fmt.Errorf("%w: invalid branch %q, must be one of %v", ErrValidation, u.Student.Branch, ValidBranches)
		}
		if u.Student.Attendance < 0 || u.Student.Attendance > 100 {
			return fmt.Errorf("%w: attendance must be between 0 and 100", ErrValidation)
		}
	case RoleDeveloper:
		if u.Developer == nil || u.Teacher != nil || u.Student != nil {
			return ErrProfileRoleMismatch
		}
		if u.Developer.Title == "" {
			return fmt.Errorf("%w: title is required for developers", ErrValidation)
		}
	}
	return nil
}

func validBranch(b string) bool {
	for _, v := range ValidBranches {
		if b == v {
			return true
		}
	}
	return false
}

// Summary is the client-facing view of a user: identity and profile fields
// with the password hash and reset state stripped.
type Summary struct {
	ID        int               `json:"id"`
	Username  string            `json:"username"`
	Name      string            `json:"name"`
	Role      string            `json:"role"`
	Email     string            `json:"email,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Bio       string            `json:"bio,omitempty"`
	Teacher   *TeacherProfile   `json:"teacher,omitempty"`
	Student   *StudentProfile   `json:"student,omitempty"`
	Developer *DeveloperProfile `json:"developer,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Summary returns the client-facing view of the user.
func (u *User) Summary() Summary {
	return Summary{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		Email:     u.Email,
		Phone:     u.Phone,
		Bio:       u.Bio,
		Teacher:   u.Teacher,
		Student:   u.Student,
		Developer: u.Developer,
		CreatedAt: u.CreatedAt,
	}
}
