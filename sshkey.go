package panel

import (
	"crypto/sha512"
	"encoding/base64"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/ssh"
)

// CheckPublicKey parses an OpenSSH authorized_keys line and returns the key
// material in canonical form. Checking locally keeps obviously malformed
// input off the wire; the backend remains the authority and revalidates.
func CheckPublicKey(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", goerrors.New("public key is empty", goerrors.CategoryValidation).
			WithTextCode("INVALID_PUBLIC_KEY")
	}

	key, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(raw))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "public key is not a valid OpenSSH key").
			WithTextCode("INVALID_PUBLIC_KEY")
	}

	line := key.Type() + " " + base64.StdEncoding.EncodeToString(key.Marshal())
	if comment != "" {
		line += " " + comment
	}
	return line, nil
}

// Fingerprint computes the SHA-512 fingerprint of an OpenSSH public key,
// formatted the way the backend stores it.
func Fingerprint(raw string) (string, error) {
	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(strings.TrimSpace(raw)))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "public key is not a valid OpenSSH key").
			WithTextCode("INVALID_PUBLIC_KEY")
	}
	sum := sha512.Sum512(key.Marshal())
	return "SHA512:" + strings.TrimRight(base64.StdEncoding.EncodeToString(sum[:]), "="), nil
}
