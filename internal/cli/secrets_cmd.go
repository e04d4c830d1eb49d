// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// secrets_cmd.go - Local encrypted secret vault commands.
//
// Command: secrets
// Subcommands: set, get, delete, totp
//
// Secrets are sealed with AES-256-GCM under a passphrase-derived key
// and never leave the local machine. An optional TOTP enrollment gates
// reads with a second factor.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/thinkchat-tui/internal/secrets"
)

// HandleSecrets dispatches the secret vault subcommands.
func HandleSecrets(args Args) error {
	parser := NewArgParser(args.Raw)

	path, err := secrets.DefaultVaultPath()
	if err != nil {
		return err
	}
	vault := secrets.NewVault(path)

	switch parser.Subcommand() {
	case "set":
		return secretSet(vault, parser.Positional(0))
	case "get":
		return secretGet(vault, parser.Positional(0))
	case "delete":
		name := parser.Positional(0)
		if name == "" {
			return fmt.Errorf("usage: thinkchat secrets delete <name>")
		}
		if err := vault.Delete(name); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("deleted " + name))
		return nil
	case "totp":
		return secretTOTP(vault, parser.Positional(0))
	default:
		return fmt.Errorf("usage: thinkchat secrets set|get|delete <name>, or secrets totp enroll|disable|status")
	}
}

func secretSet(vault *secrets.Vault, name string) error {
	if name == "" {
		return fmt.Errorf("usage: thinkchat secrets set <name>")
	}

	value, err := readPassphrase("value for " + name + ": ")
	if err != nil {
		return err
	}
	defer secrets.ZeroBytes(value)

	pass, err := readPassphrase("vault passphrase: ")
	if err != nil {
		return err
	}
	defer secrets.ZeroBytes(pass)

	if err := vault.Store(name, string(value), string(pass)); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("stored " + name))
	return nil
}

func secretGet(vault *secrets.Vault, name string) error {
	if name == "" {
		return fmt.Errorf("usage: thinkchat secrets get <name>")
	}

	pass, err := readPassphrase("vault passphrase: ")
	if err != nil {
		return err
	}
	defer secrets.ZeroBytes(pass)

	code := ""
	if vault.TOTPEnrolled() {
		raw, err := readPassphrase("TOTP code: ")
		if err != nil {
			return err
		}
		code = strings.TrimSpace(string(raw))
	}

	value, err := vault.Read(name, string(pass), code)
	if err != nil {
		switch {
		case errors.Is(err, secrets.ErrWrongPassphrase):
			return fmt.Errorf("wrong passphrase")
		case errors.Is(err, secrets.ErrTOTPInvalid):
			return fmt.Errorf("TOTP code rejected")
		case errors.Is(err, secrets.ErrSecretNotFound):
			return fmt.Errorf("no secret named %s", name)
		}
		return err
	}
	fmt.Println(value)
	return nil
}

func secretTOTP(vault *secrets.Vault, action string) error {
	switch action {
	case "enroll":
		pass, err := readPassphrase("vault passphrase: ")
		if err != nil {
			return err
		}
		defer secrets.ZeroBytes(pass)
		url, err := vault.EnrollTOTP("thinkchat", string(pass))
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render("TOTP enrolled, add this to your authenticator:"))
		fmt.Println(url)
		return nil
	case "disable":
		pass, err := readPassphrase("vault passphrase: ")
		if err != nil {
			return err
		}
		defer secrets.ZeroBytes(pass)
		if err := vault.DisableTOTP(string(pass)); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("TOTP disabled"))
		return nil
	case "status", "":
		if vault.TOTPEnrolled() {
			fmt.Println(okStyle.Render("TOTP is enrolled, reads require a code"))
		} else {
			fmt.Println(infoStyle.Render("TOTP not enrolled"))
		}
		return nil
	default:
		return fmt.Errorf("usage: thinkchat secrets totp enroll|disable|status")
	}
}
