package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a slow salted one-way hash of the plaintext.
// bcrypt embeds a per-call random salt in its output, so equal inputs
// produce different hashes.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
// The comparison inside bcrypt is constant-time.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
