package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when a unique constraint (username, email or
// roll number) is violated.
var ErrDuplicate = errors.New("user with this username, email or roll number already exists")

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByRollNumber(ctx context.Context, rollNumber string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int) error

	// Reset-flow state transitions. Each is a single UPDATE so concurrent
	// requests resolve to last-writer-wins without partial state.
	SetResetOTP(ctx context.Context, userID int, otpHash string, otpExpiry time.Time) error
	SetResetProof(ctx context.Context, userID int, proofHash string, proofExpiry, otpExpiry time.Time) error
	UpdatePassword(ctx context.Context, userID int, passwordHash string) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, name, password_hash, role, email, phone, bio,
	department, subjects, roll_number, class, branch, attendance, title,
	reset_otp_hash, reset_otp_expiry, reset_token_hash, reset_token_expiry,
	token_version, created_at, updated_at`

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (username, name, password_hash, role, email, phone, bio,
	            department, subjects, roll_number, class, branch, attendance, title,
	            created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
            RETURNING id`

	dept, subjects := teacherCols(user.Teacher)
	roll, class, branch, attendance := studentCols(user.Student)
	title := developerCol(user.Developer)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := r.db.QueryRow(ctx, sql,
		strings.ToLower(user.Username), user.Name, user.PasswordHash, user.Role,
		nullStr(user.Email), nullStr(user.Phone), nullStr(user.Bio),
		dept, subjects, roll, class, branch, attendance, title,
		user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, sql, id)
}

// FindByUsername retrieves a user by username, case-insensitively.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`
	return r.findOne(ctx, sql, username)
}

// FindByRollNumber retrieves a student by roll number, case-insensitively.
func (r *userRepository) FindByRollNumber(ctx context.Context, rollNumber string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE LOWER(roll_number) = LOWER($1)`
	return r.findOne(ctx, sql, rollNumber)
}

// FindByEmail retrieves a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.findOne(ctx, sql, email)
}

// List returns all users ordered by creation time.
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return users, nil
}

// Update writes the mutable profile fields and role. Password and reset
// state have dedicated update paths.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET name = $2, role = $3, email = $4, phone = $5, bio = $6,
	            department = $7, subjects = $8, roll_number = $9, class = $10,
	            branch = $11, attendance = $12, title = $13, updated_at = $14
	        WHERE id = $1`

	dept, subjects := teacherCols(user.Teacher)
	roll, class, branch, attendance := studentCols(user.Student)
	title := developerCol(user.Developer)
	user.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, sql,
		user.ID, user.Name, user.Role,
		nullStr(user.Email), nullStr(user.Phone), nullStr(user.Bio),
		dept, subjects, roll, class, branch, attendance, title,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a user by ID.
func (r *userRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetResetOTP stores a freshly issued OTP hash, replacing any earlier OTP
// and invalidating any outstanding reset-proof token.
func (r *userRepository) SetResetOTP(ctx context.Context, userID int, otpHash string, otpExpiry time.Time) error {
	sql := `UPDATE users SET reset_otp_hash = $2, reset_otp_expiry = $3,
	            reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = NOW()
	        WHERE id = $1`
	tag, err := r.db.Exec(ctx, sql, userID, otpHash, otpExpiry)
	if err != nil {
		return fmt.Errorf("failed to set reset OTP: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetResetProof stores the reset-proof token hash issued after a successful
// OTP verification and rewrites the OTP's own expiry (the short dual-path
// window).
func (r *userRepository) SetResetProof(ctx context.Context, userID int, proofHash string, proofExpiry, otpExpiry time.Time) error {
	sql := `UPDATE users SET reset_token_hash = $2, reset_token_expiry = $3,
	            reset_otp_expiry = $4, updated_at = NOW()
	        WHERE id = $1`
	tag, err := r.db.Exec(ctx, sql, userID, proofHash, proofExpiry, otpExpiry)
	if err != nil {
		return fmt.Errorf("failed to set reset proof: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdatePassword replaces the password hash, clears all reset state and
// bumps the token epoch in one statement, so outstanding session tokens and
// reset proofs die together with the old password.
func (r *userRepository) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $2,
	            reset_otp_hash = NULL, reset_otp_expiry = NULL,
	            reset_token_hash = NULL, reset_token_expiry = NULL,
	            token_version = token_version + 1, updated_at = NOW()
	        WHERE id = $1`
	tag, err := r.db.Exec(ctx, sql, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) findOne(ctx context.Context, sql string, arg any) (*model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // not found is not an error; the service layer decides
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	var (
		email, phone, bio                *string
		department                       *string
		subjects                         []string
		rollNumber, class, branch        *string
		attendance                       *float64
		title                            *string
		resetOTPHash, resetTokenHash     *string
		resetOTPExpiry, resetTokenExpiry *time.Time
	)

	err := row.Scan(
		&user.ID, &user.Username, &user.Name, &user.PasswordHash, &user.Role,
		&email, &phone, &bio,
		&department, &subjects, &rollNumber, &class, &branch, &attendance, &title,
		&resetOTPHash, &resetOTPExpiry, &resetTokenHash, &resetTokenExpiry,
		&user.TokenVersion, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Email = deref(email)
	user.Phone = deref(phone)
	user.Bio = deref(bio)
	user.ResetOTPHash = deref(resetOTPHash)
	user.ResetOTPExpiry = resetOTPExpiry
	user.ResetTokenHash = deref(resetTokenHash)
	user.ResetTokenExpiry = resetTokenExpiry

	switch user.Role {
	case model.RoleTeacher:
		user.Teacher = &model.TeacherProfile{Department: deref(department), Subjects: subjects}
	case model.RoleStudent:
		user.Student = &model.StudentProfile{
			RollNumber: deref(rollNumber),
			Class:      deref(class),
			Branch:     deref(branch),
		}
		if attendance != nil {
			user.Student.Attendance = *attendance
		}
	case model.RoleDeveloper:
		user.Developer = &model.DeveloperProfile{Title: deref(title)}
	}
	return user, nil
}

func teacherCols(p *model.TeacherProfile) (department *string, subjects []string) {
	if p == nil {
		return nil, nil
	}
	return &p.Department, p.Subjects
}

func studentCols(p *model.StudentProfile) (rollNumber, class, branch *string, attendance *float64) {
	if p == nil {
		return nil, nil, nil, nil
	}
	return &p.RollNumber, &p.Class, &p.Branch, &p.Attendance
}

func developerCol(p *model.DeveloperProfile) *string {
	if p == nil {
		return nil
	}
	return &p.Title
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
