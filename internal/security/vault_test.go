package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testPayload struct {
	Token string `json:"token"`
	SID   string `json:"sid"`
}

func TestVaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.vault")
	vault := NewVault(path)

	in := testPayload{Token: "edit-token-value", SID: "edit-sid-value"}
	if err := vault.Save("passphrase", in); err != nil {
		t.Fatal(err)
	}

	var out testPayload
	if err := vault.Load("passphrase", &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestVaultCiphertextHidesPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.vault")
	vault := NewVault(path)

	if err := vault.Save("passphrase", testPayload{Token: "super-secret-token"}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "super-secret-token") {
		t.Error("plaintext token visible in vault file")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("vault file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestVaultWrongPassphraseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.vault")
	vault := NewVault(path)

	if err := vault.Save("right", testPayload{Token: "t"}); err != nil {
		t.Fatal(err)
	}

	var out testPayload
	if err := vault.Load("wrong", &out); err == nil {
		t.Error("wrong passphrase decrypted the vault")
	}
}

func TestVaultRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.vault")
	vault := NewVault(path)

	if err := vault.Save("p", testPayload{}); err != nil {
		t.Fatal(err)
	}
	if err := vault.Remove(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("vault file still exists after Remove")
	}
	// Removing a missing vault is not an error
	if err := vault.Remove(); err != nil {
		t.Errorf("second Remove = %v", err)
	}
}

func TestMaskToken(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"abc":            "***",
		"12345678":       "********",
		"abcdefghijklmn": "abcd****klmn",
	}
	for in, want := range cases {
		if got := MaskToken(in); got != want {
			t.Errorf("MaskToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedact(t *testing.T) {
	in := `login with password=hunter2 and token: abc123`
	out := Redact(in)
	if strings.Contains(out, "hunter2") || strings.Contains(out, "abc123") {
		t.Errorf("Redact left secrets in %q", out)
	}
}
