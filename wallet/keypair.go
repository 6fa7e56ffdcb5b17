package wallet

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/mr-tron/base58"

	"github.com/peercat/peercat-go"
)

// Key sizes in bytes.
const (
	SeedSize      = ed25519.SeedSize
	PublicKeySize = ed25519.PublicKeySize
	// SecretKeySize is the Solana secret key layout: seed followed by public key.
	SecretKeySize = ed25519.PrivateKeySize
	SignatureSize = ed25519.SignatureSize
)

// randReader is the random source used for key generation.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// Keypair is an ed25519 wallet keypair.
type Keypair struct {
	private ed25519.PrivateKey
	public  ed25519.PublicKey
}

// Generate creates a new random keypair.
func Generate() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(randReader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &Keypair{private: priv, public: pub}, nil
}

// FromSeed derives the keypair for a 32-byte seed.
func FromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSeedSize, len(seed), SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Keypair{private: priv, public: publicOf(priv)}, nil
}

// FromSecretKey accepts a 64-byte Solana secret key or a 32-byte seed.
func FromSecretKey(secret []byte) (*Keypair, error) {
	switch len(secret) {
	case SeedSize:
		return FromSeed(secret)
	case SecretKeySize:
		kp, err := FromSeed(secret[:SeedSize])
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(kp.public, secret[SeedSize:]) {
			return nil, ErrKeyMismatch
		}
		return kp, nil
	default:
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidSecretKeySize, len(secret))
	}
}

// FromBase58 decodes a base58 secret key as exported by Solana wallets.
func FromBase58(secret string) (*Keypair, error) {
	raw, err := decode(secret)
	if err != nil {
		return nil, err
	}
	return FromSecretKey(raw)
}

// PublicKey returns the base58 public key, which is the wallet address.
func (k *Keypair) PublicKey() string {
	return base58.Encode(k.public)
}

// SecretKey returns the base58 64-byte secret key.
func (k *Keypair) SecretKey() string {
	return base58.Encode(k.private)
}

// Sign returns the base58 signature of message.
func (k *Keypair) Sign(message []byte) string {
	return base58.Encode(ed25519.Sign(k.private, message))
}

// NewCreateKeyParams signs message and returns the parameters for
// Client.CreateKey.
func (k *Keypair) NewCreateKeyParams(name, message string) peercat.CreateKeyParams {
	return peercat.CreateKeyParams{
		Name:      name,
		Message:   message,
		Signature: k.Sign([]byte(message)),
		PublicKey: k.PublicKey(),
	}
}

// Verify checks a base58 signature of message against a base58 public key.
func Verify(publicKey string, message []byte, signature string) (bool, error) {
	pub, err := decode(publicKey)
	if err != nil {
		return false, err
	}
	if len(pub) != PublicKeySize {
		return false, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPublicKeySize, len(pub), PublicKeySize)
	}
	sig, err := decode(signature)
	if err != nil {
		return false, err
	}
	if len(sig) != SignatureSize {
		return false, nil
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig), nil
}

// KeyCreationMessage returns the message a wallet signs to authorize key
// creation at t.
func KeyCreationMessage(t time.Time) string {
	return fmt.Sprintf("Create PeerCat API key\nTimestamp: %d", t.UnixMilli())
}

func publicOf(priv ed25519.PrivateKey) ed25519.PublicKey {
	pub := make(ed25519.PublicKey, PublicKeySize)
	copy(pub, priv[SeedSize:])
	return pub
}

func decode(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if len(raw) == 0 {
		return nil, ErrInvalidEncoding
	}
	return raw, nil
}
