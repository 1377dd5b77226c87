package utils

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the work factor for password hashing. Set once at startup
// from configuration; read-only afterwards.
var BcryptCost = bcrypt.DefaultCost

// HashPassword hashes a plaintext password with a randomized salt.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPasswordHash reports whether password matches the stored hash.
// Any mismatch, including a malformed stored hash, yields false.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
