package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/model"

	"github.com/jackc/pgx/v5"
)

// fakeUserRepo is an in-memory UserRepository for service tests. Reads
// return copies so callers never alias the stored record, mirroring a real
// row fetch.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Username, user.Username) {
			return errors.New("duplicate username")
		}
	}
	user.ID = f.nextID
	f.nextID++
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return f.findWhere(func(u *model.User) bool {
		return strings.EqualFold(u.Username, username)
	})
}

func (f *fakeUserRepo) FindByRollNumber(ctx context.Context, rollNumber string) (*model.User, error) {
	return f.findWhere(func(u *model.User) bool {
		return u.Student != nil && strings.EqualFold(u.Student.RollNumber, rollNumber)
	})
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return f.findWhere(func(u *model.User) bool {
		return u.Email != "" && u.Email == email
	})
}

func (f *fakeUserRepo) List(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *user
	cp.PasswordHash = stored.PasswordHash
	cp.TokenVersion = stored.TokenVersion
	cp.ResetOTPHash = stored.ResetOTPHash
	cp.ResetOTPExpiry = stored.ResetOTPExpiry
	cp.ResetTokenHash = stored.ResetTokenHash
	cp.ResetTokenExpiry = stored.ResetTokenExpiry
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SetResetOTP(ctx context.Context, userID int, otpHash string, otpExpiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.ResetOTPHash = otpHash
	u.ResetOTPExpiry = &otpExpiry
	u.ResetTokenHash = ""
	u.ResetTokenExpiry = nil
	return nil
}

func (f *fakeUserRepo) SetResetProof(ctx context.Context, userID int, proofHash string, proofExpiry, otpExpiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.ResetTokenHash = proofHash
	u.ResetTokenExpiry = &proofExpiry
	u.ResetOTPExpiry = &otpExpiry
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	u.ResetOTPHash = ""
	u.ResetOTPExpiry = nil
	u.ResetTokenHash = ""
	u.ResetTokenExpiry = nil
	u.TokenVersion++
	return nil
}

func (f *fakeUserRepo) findWhere(match func(*model.User) bool) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// expireOTP backdates the stored OTP expiry, simulating the passage of time.
func (f *fakeUserRepo) expireOTP(userID int, age time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok && u.ResetOTPExpiry != nil {
		expired := u.ResetOTPExpiry.Add(-age)
		u.ResetOTPExpiry = &expired
	}
}

// recordingMailer captures outgoing mail instead of sending it.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}
