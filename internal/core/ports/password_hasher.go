package ports

// PasswordHasher defines one-way salted password hashing. The service layer
// never sees the algorithm or its cost parameter.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. Malformed digests
	// verify false; they never produce an error or panic.
	Verify(plaintext, digest string) bool
}
