package utils

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength applies to password changes on the profile endpoint.
const MinPasswordLength = 6

// dummyHash is what an unknown username is checked against, so a login miss
// costs the same bcrypt work as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-user"), bcrypt.DefaultCost)

// HashPassword salts and hashes plain with bcrypt at the given cost.
// bcrypt only looks at the first 72 bytes; longer input is rejected.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches hash.  A stored value that
// is not a bcrypt hash never matches.
func VerifyPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPasswordCheck spends one comparison and discards the result.
func BurnPasswordCheck(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
