package security

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	sealedVersion      = "v1"
	sealedPurposeLabel = "mindharbor.sealed."
	sealerKeyInfo      = "mindharbor.sealer.v1"
)

var ErrInvalidSealedValue = errors.New("invalid sealed value")

// Sealer encrypts small secrets (access tokens) before they are written to the
// device-local store. Values are bound to a purpose string; a value sealed for
// one purpose does not open under another.
type Sealer struct {
	aead cipher.AEAD
}

func NewSealer(secretKey []byte) (*Sealer, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("sealer secret key is required")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secretKey, nil, []byte(sealerKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive sealer key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init sealer aead: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

func (sealer *Sealer) Seal(purpose string, plaintext []byte) (string, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return "", errors.New("seal purpose is required")
	}
	if sealer == nil || sealer.aead == nil {
		return "", errors.New("sealer is not initialized")
	}

	nonce := make([]byte, sealer.aead.NonceSize(), sealer.aead.NonceSize()+len(plaintext)+sealer.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	payload := sealer.aead.Seal(nonce, nonce, plaintext, []byte(sealedPurposeLabel+purpose))
	return sealedVersion + "." + base64.RawURLEncoding.EncodeToString(payload), nil
}

func (sealer *Sealer) Open(purpose string, raw string) ([]byte, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return nil, errors.New("seal purpose is required")
	}
	if sealer == nil || sealer.aead == nil {
		return nil, errors.New("sealer is not initialized")
	}

	version, encoded, found := strings.Cut(strings.TrimSpace(raw), ".")
	if !found || version != sealedVersion || encoded == "" {
		return nil, ErrInvalidSealedValue
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidSealedValue
	}

	nonceSize := sealer.aead.NonceSize()
	if len(payload) <= nonceSize {
		return nil, ErrInvalidSealedValue
	}

	plaintext, err := sealer.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], []byte(sealedPurposeLabel+purpose))
	if err != nil {
		return nil, ErrInvalidSealedValue
	}
	return plaintext, nil
}
