package security

import "golang.org/x/crypto/bcrypt"

// Fixed cost for all stored credentials. Changing it only affects
// newly hashed passwords; existing hashes keep their embedded cost.
const bcryptCost = 8

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
