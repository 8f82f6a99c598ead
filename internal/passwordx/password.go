// Package passwordx wraps one-way password hashing. The rest of the system
// treats hashing as an opaque collaborator: a hash goes into the user
// record, and a candidate password either matches it or does not.
package passwordx

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns a bcrypt hash of password suitable for storage.
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// Compare reports whether candidate matches the stored hash. A nil return
// means the password is correct.
func Compare(hash, candidate string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
}
