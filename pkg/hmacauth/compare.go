package hmacauth

import "crypto/subtle"

// ConstantTimeEquals compares two strings without short-circuiting on the
// first differing byte, defeating timing side channels that could let an
// attacker binary-search a valid signature. Differing lengths return false
// immediately; length is not treated as secret here.
func ConstantTimeEquals(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
