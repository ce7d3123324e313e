package security

import "golang.org/x/crypto/bcrypt"

// bcryptCost trades login latency for resistance to offline cracking of
// leaked credential rows.
const bcryptCost = 12

// HashPassword derives the bcrypt hash stored for a family member's
// password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
