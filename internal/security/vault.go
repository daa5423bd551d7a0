// Package security provides encrypted at-rest storage for session tokens
// and masking of sensitive values in logs and terminal output.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// EncryptionKeySize is the size of the AES-256 key in bytes.
	EncryptionKeySize = 32
	// SaltSize is the size of the salt for key derivation.
	SaltSize = 16
	// NonceSize is the size of the GCM nonce.
	NonceSize = 12
	// PBKDF2Iterations is the number of iterations for key derivation.
	PBKDF2Iterations = 100000
)

// encryptedBlob is the on-disk format of a vault file.
type encryptedBlob struct {
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
	Version    int    `json:"version"`
}

// Vault stores a JSON payload encrypted at rest with a passphrase-derived
// AES-256-GCM key.
type Vault struct {
	path string
}

// NewVault creates a vault backed by the given file path.
func NewVault(path string) *Vault {
	return &Vault{path: path}
}

// Save encrypts payload with the passphrase and writes it to disk with
// restricted permissions.
func (v *Vault) Save(passphrase string, payload interface{}) error {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}

	key := deriveKey(passphrase, salt)
	nonce, ciphertext, err := encrypt(plaintext, key)
	if err != nil {
		return err
	}

	blob := encryptedBlob{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Version:    1,
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("marshaling vault file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(v.path), 0700); err != nil {
		return fmt.Errorf("creating vault directory: %w", err)
	}
	return os.WriteFile(v.path, data, 0600)
}

// Load reads the vault file, decrypts it with the passphrase, and unmarshals
// the payload into out.
func (v *Vault) Load(passphrase string, out interface{}) error {
	data, err := os.ReadFile(v.path)
	if err != nil {
		return err
	}

	var blob encryptedBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("parsing vault file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(blob.Salt)
	if err != nil {
		return fmt.Errorf("decoding salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(blob.Nonce)
	if err != nil {
		return fmt.Errorf("decoding nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(blob.Ciphertext)
	if err != nil {
		return fmt.Errorf("decoding ciphertext: %w", err)
	}

	key := deriveKey(passphrase, salt)
	plaintext, err := decrypt(ciphertext, nonce, key)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, out)
}

// Remove deletes the vault file.
func (v *Vault) Remove() error {
	if err := os.Remove(v.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// deriveKey derives an encryption key from a passphrase using PBKDF2.
func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, PBKDF2Iterations, EncryptionKeySize, sha256.New)
}

// encrypt encrypts plaintext using AES-256-GCM.
func encrypt(plaintext, key []byte) (nonce, ciphertext []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("creating cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("creating GCM: %w", err)
	}

	nonce = make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("generating nonce: %w", err)
	}

	return nonce, gcm.Seal(nil, nonce, plaintext, nil), nil
}

// decrypt decrypts ciphertext using AES-256-GCM.
func decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypting vault: %w", err)
	}
	return plaintext, nil
}
