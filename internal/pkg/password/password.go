package password

import "golang.org/x/crypto/bcrypt"

// Cost balances brute-force resistance against login latency.
const Cost = 10

// dummyHash is a bcrypt hash of a random throwaway value. Login compares
// against it when the account does not exist or has no local password, so
// both paths cost one bcrypt verification.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMye1VdLSHC0kpsGTcW4PhONrGEkJ3jx1lW"

// Hash re-hashes a plaintext password with the fixed cost factor.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches the stored bcrypt hash.
// Any comparison error counts as a failed verification.
func Verify(storedHash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

// VerifyDummy burns one bcrypt comparison so that lookups missing an account
// or a stored hash take the same time as a real mismatch.
func VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
}
