// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package secrets stores cloud API keys encrypted at rest.
//
// Keys are sealed with AES-256-GCM under a PBKDF2-SHA-256 derived key. A
// TOTP secret can optionally be enrolled; when present, reading a stored
// key requires a valid authenticator code in addition to the passphrase.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/thinkchat-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// EncryptedPrefix marks a sealed value (format: ENC:base64(salt|nonce|ct)).
const EncryptedPrefix = "ENC:"

const (
	keySize   = 32
	saltSize  = 32
	nonceSize = 12

	// OWASP 2023 baseline for PBKDF2-SHA-256.
	pbkdf2Iterations = 600_000
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted vault")
	ErrNotEncrypted    = errors.New("value is not encrypted")
	ErrSecretNotFound  = errors.New("secret not found")
	ErrTOTPRequired    = errors.New("authenticator code required")
	ErrTOTPInvalid     = errors.New("invalid authenticator code")
)

// =============================================================================
// SEALING
// =============================================================================

// ZeroBytes zeros sensitive byte slices after use.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keySize, sha256.New)
}

// Seal encrypts a plaintext value under the passphrase.
func Seal(plaintext, passphrase string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := deriveKey(passphrase, salt)
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	blob := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, sealed...)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(blob), nil
}

// Open decrypts a sealed value with the passphrase.
func Open(sealed, passphrase string) (string, error) {
	if !strings.HasPrefix(sealed, EncryptedPrefix) {
		return "", ErrNotEncrypted
	}

	blob, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, EncryptedPrefix))
	if err != nil {
		return "", ErrWrongPassphrase
	}
	if len(blob) < saltSize+nonceSize+1 {
		return "", ErrWrongPassphrase
	}

	salt := blob[:saltSize]
	nonce := blob[saltSize : saltSize+nonceSize]
	ciphertext := blob[saltSize+nonceSize:]

	key := deriveKey(passphrase, salt)
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrWrongPassphrase
	}
	return string(plaintext), nil
}

// =============================================================================
// VAULT
// =============================================================================

// Vault is a small file of sealed secrets plus the optional TOTP secret.
type Vault struct {
	path string
}

type vaultFile struct {
	Secrets map[string]string `json:"secrets"`

	// TOTPSecret, when set, gates every Read with an authenticator code.
	// Stored sealed like any other value.
	TOTPSecret string `json:"totp_secret,omitempty"`
}

// DefaultVaultPath returns ~/.thinkchat/secrets.json.
func DefaultVaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".thinkchat", "secrets.json"), nil
}

// NewVault opens a vault at path; the file is created on first write.
func NewVault(path string) *Vault {
	return &Vault{path: path}
}

func (v *Vault) load() (*vaultFile, error) {
	data, err := os.ReadFile(v.path)
	if os.IsNotExist(err) {
		return &vaultFile{Secrets: map[string]string{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var vf vaultFile
	if err := json.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("corrupted vault file: %w", err)
	}
	if vf.Secrets == nil {
		vf.Secrets = map[string]string{}
	}
	return &vf, nil
}

func (v *Vault) save(vf *vaultFile) error {
	data, err := json.MarshalIndent(vf, "", "  ")
	if err != nil {
		return err
	}
	// SECURITY: vault file is owner read/write only.
	return util.AtomicWriteFile(v.path, data, 0600)
}

// Store seals and saves a named secret.
func (v *Vault) Store(name, value, passphrase string) error {
	vf, err := v.load()
	if err != nil {
		return err
	}

	sealed, err := Seal(value, passphrase)
	if err != nil {
		return err
	}
	vf.Secrets[name] = sealed
	return v.save(vf)
}

// Read unseals a named secret. When a TOTP secret is enrolled, code must
// be a currently valid authenticator code.
func (v *Vault) Read(name, passphrase, code string) (string, error) {
	vf, err := v.load()
	if err != nil {
		return "", err
	}

	sealed, ok := vf.Secrets[name]
	if !ok {
		return "", ErrSecretNotFound
	}

	if vf.TOTPSecret != "" {
		if code == "" {
			return "", ErrTOTPRequired
		}
		secret, err := Open(vf.TOTPSecret, passphrase)
		if err != nil {
			return "", err
		}
		if !totp.Validate(code, secret) {
			return "", ErrTOTPInvalid
		}
	}

	return Open(sealed, passphrase)
}

// Delete removes a named secret. Removing a missing secret is not an error.
func (v *Vault) Delete(name string) error {
	vf, err := v.load()
	if err != nil {
		return err
	}
	delete(vf.Secrets, name)
	return v.save(vf)
}

// =============================================================================
// TOTP ENROLLMENT
// =============================================================================

// EnrollTOTP generates a TOTP secret, seals it into the vault, and returns
// the otpauth:// URL for the authenticator app.
func (v *Vault) EnrollTOTP(account, passphrase string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "thinkchat",
		AccountName: account,
	})
	if err != nil {
		return "", err
	}

	vf, err := v.load()
	if err != nil {
		return "", err
	}
	sealed, err := Seal(key.Secret(), passphrase)
	if err != nil {
		return "", err
	}
	vf.TOTPSecret = sealed
	if err := v.save(vf); err != nil {
		return "", err
	}
	return key.URL(), nil
}

// TOTPEnrolled reports whether an authenticator is enrolled.
func (v *Vault) TOTPEnrolled() bool {
	vf, err := v.load()
	return err == nil && vf.TOTPSecret != ""
}

// DisableTOTP removes the enrolled authenticator. Requires the passphrase
// to prove the caller can already open the vault.
func (v *Vault) DisableTOTP(passphrase string) error {
	vf, err := v.load()
	if err != nil {
		return err
	}
	if vf.TOTPSecret == "" {
		return nil
	}
	if _, err := Open(vf.TOTPSecret, passphrase); err != nil {
		return err
	}
	vf.TOTPSecret = ""
	return v.save(vf)
}
