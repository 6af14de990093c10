package dataencoding

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const keyDerivationInfo = "analytics event store v1"

// ErrSecretTooShort is returned by NewAEADEncoder if the secret has fewer than 16 bytes.
var ErrSecretTooShort = errors.New("secret must be at least 16 bytes")

// ErrMalformedData is returned by AEADEncoder.Decode if the data was not produced by Encode with
// the same secret.
var ErrMalformedData = errors.New("encoded data is malformed or was encoded with a different secret")

// AEADEncoder encrypts data with XChaCha20-Poly1305, using a key derived from an application secret
// with HKDF-SHA256. The output is base64 text containing a random nonce followed by the ciphertext.
type AEADEncoder struct {
	aead cipher.AEAD
}

// NewAEADEncoder creates an AEADEncoder.
func NewAEADEncoder(secret []byte) (*AEADEncoder, error) {
	if len(secret) < 16 {
		return nil, ErrSecretTooShort
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyDerivationInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &AEADEncoder{aead: aead}, nil
}

// Encode encrypts data.
func (e *AEADEncoder) Encode(data string) (string, error) {
	nonce := make([]byte, e.aead.NonceSize(), e.aead.NonceSize()+len(data)+e.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := e.aead.Seal(nonce, nonce, []byte(data), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decode decrypts the output of Encode.
func (e *AEADEncoder) Decode(data string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil || len(raw) < e.aead.NonceSize() {
		return "", ErrMalformedData
	}
	nonce, ciphertext := raw[:e.aead.NonceSize()], raw[e.aead.NonceSize():]
	plain, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrMalformedData
	}
	return string(plain), nil
}
