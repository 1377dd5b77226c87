package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// OTPLength is the number of digits in a password-reset OTP.
const OTPLength = 6

// resetProofBytes is the entropy of a reset-proof token before hex encoding.
const resetProofBytes = 20

// GenerateOTP returns a cryptographically random numeric code of n digits.
func GenerateOTP(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	otp := make([]byte, n)
	for i := 0; i < n; i++ {
		otp[i] = '0' + (b[i] % 10)
	}
	return string(otp), nil
}

// GenerateResetProof returns an opaque hex token proving a completed OTP
// verification. The caller stores only its hash.
func GenerateResetProof() (string, error) {
	b := make([]byte, resetProofBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashToken is the one-way hash under which OTPs and reset-proof tokens are
// persisted. Plaintext values never touch the store.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
