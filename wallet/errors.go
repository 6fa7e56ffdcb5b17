package wallet

import "errors"

var (
	// ErrInvalidSeedSize is returned when a seed is not SeedSize bytes.
	ErrInvalidSeedSize = errors.New("invalid seed size")

	// ErrInvalidSecretKeySize is returned when a secret key is neither
	// SeedSize nor SecretKeySize bytes.
	ErrInvalidSecretKeySize = errors.New("invalid secret key size")

	// ErrInvalidPublicKeySize is returned when a public key is not PublicKeySize bytes.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrKeyMismatch is returned when the public half of a secret key does
	// not match the key derived from its seed.
	ErrKeyMismatch = errors.New("public key does not match secret key")

	// ErrInvalidEncoding is returned for strings that are not base58.
	ErrInvalidEncoding = errors.New("invalid base58 encoding")
)
