package model

// LoginRequest is the login payload. RoleHint is optional; a "student" hint
// confirms the roll-number-first lookup order but never widens access.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	RoleHint string `json:"role,omitempty"`
}

// ChangePasswordRequest is the authenticated password-change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// ForgotPasswordRequest starts the OTP reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPRequest exchanges a valid OTP for a reset-proof token.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// ResetPasswordRequest finalizes the reset. The proof token, when the client
// has one, travels in the Authorization header rather than the body.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// CreateUserRequest is the admin account-provisioning payload.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Bio      string `json:"bio,omitempty"`

	Teacher   *TeacherProfile   `json:"teacher,omitempty"`
	Student   *StudentProfile   `json:"student,omitempty"`
	Developer *DeveloperProfile `json:"developer,omitempty"`
}

// UpdateProfileRequest carries the mutable profile fields. Role and password
// are not changeable through this path.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Bio   *string `json:"bio,omitempty"`

	Teacher   *TeacherProfile   `json:"teacher,omitempty"`
	Student   *StudentProfile   `json:"student,omitempty"`
	Developer *DeveloperProfile `json:"developer,omitempty"`
}

// ChangeRoleRequest is the admin-only role mutation payload.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`

	Teacher   *TeacherProfile   `json:"teacher,omitempty"`
	Student   *StudentProfile   `json:"student,omitempty"`
	Developer *DeveloperProfile `json:"developer,omitempty"`
}
