package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of a mode password using the given
// cost.  Used by provisioning tooling when seeding the mode_passwords
// table.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
