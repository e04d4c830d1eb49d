// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package secrets

import (
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	sealed, err := Seal("sk-or-v1-abcdef", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, sealed, EncryptedPrefix)

	plain, err := Open(sealed, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "sk-or-v1-abcdef", plain)
}

func TestOpenWrongPassphrase(t *testing.T) {
	sealed, err := Seal("secret", "right")
	require.NoError(t, err)

	_, err = Open(sealed, "wrong")
	assert.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestOpenRejectsPlaintext(t *testing.T) {
	_, err := Open("not sealed", "pw")
	assert.ErrorIs(t, err, ErrNotEncrypted)
}

func TestSealUsesFreshSalt(t *testing.T) {
	a, err := Seal("same", "pw")
	require.NoError(t, err)
	b, err := Seal("same", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	return NewVault(filepath.Join(t.TempDir(), "secrets.json"))
}

func TestVaultStoreRead(t *testing.T) {
	v := newTestVault(t)

	require.NoError(t, v.Store("openrouter", "sk-key", "pw"))

	got, err := v.Read("openrouter", "pw", "")
	require.NoError(t, err)
	assert.Equal(t, "sk-key", got)
}

func TestVaultReadMissing(t *testing.T) {
	v := newTestVault(t)
	_, err := v.Read("nope", "pw", "")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestVaultDelete(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.Store("k", "v", "pw"))
	require.NoError(t, v.Delete("k"))

	_, err := v.Read("k", "pw", "")
	assert.ErrorIs(t, err, ErrSecretNotFound)
	assert.NoError(t, v.Delete("k"))
}

func TestVaultTOTPGate(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.Store("openrouter", "sk-key", "pw"))

	otpURL, err := v.EnrollTOTP("user@example.com", "pw")
	require.NoError(t, err)
	require.True(t, v.TOTPEnrolled())

	parsed, err := url.Parse(otpURL)
	require.NoError(t, err)
	secret := parsed.Query().Get("secret")
	require.NotEmpty(t, secret)

	// No code: refused.
	_, err = v.Read("openrouter", "pw", "")
	assert.ErrorIs(t, err, ErrTOTPRequired)

	// Bad code: refused.
	_, err = v.Read("openrouter", "pw", "000000")
	assert.ErrorIs(t, err, ErrTOTPInvalid)

	// Valid code: allowed.
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	got, err := v.Read("openrouter", "pw", code)
	require.NoError(t, err)
	assert.Equal(t, "sk-key", got)

	// Disabling restores passphrase-only reads.
	require.NoError(t, v.DisableTOTP("pw"))
	got, err = v.Read("openrouter", "pw", "")
	require.NoError(t, err)
	assert.Equal(t, "sk-key", got)
}
