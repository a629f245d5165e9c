package signer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/sirupsen/logrus"
)

var armorPrefix = []byte("-----BEGIN ")

// GPGVerifier implements Verifier using an OpenPGP keyring
type GPGVerifier struct {
	keyring openpgp.EntityList
}

// NewGPGVerifier creates a verifier from a public keyring file
func NewGPGVerifier(keyPath string) (*GPGVerifier, error) {
	if keyPath == "" {
		return nil, fmt.Errorf("key path is empty")
	}

	// Open keyring file
	keyFile, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	defer keyFile.Close()

	// Try to parse as armored keyring first
	entityList, err := openpgp.ReadArmoredKeyRing(keyFile)
	if err != nil {
		// Try as binary keyring
		if _, err := keyFile.Seek(0, 0); err != nil {
			return nil, err
		}
		entityList, err = openpgp.ReadKeyRing(keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entityList) == 0 {
		return nil, fmt.Errorf("no keys found in key file")
	}

	return &GPGVerifier{keyring: entityList}, nil
}

// VerifyFile checks the detached signature at sigPath over the file at path
func (v *GPGVerifier) VerifyFile(path, sigPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	signature, err := os.ReadFile(sigPath)
	if err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}

	if err := v.VerifyDetached(data, signature); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("Signature %s verified for %s", sigPath, path)
	return nil
}

// VerifyDetached checks an armored or binary detached signature over data
func (v *GPGVerifier) VerifyDetached(data, signature []byte) error {
	var (
		signer *openpgp.Entity
		err    error
	)
	if bytes.HasPrefix(bytes.TrimSpace(signature), armorPrefix) {
		signer, err = openpgp.CheckArmoredDetachedSignature(v.keyring, bytes.NewReader(data), bytes.NewReader(signature), nil)
	} else {
		signer, err = openpgp.CheckDetachedSignature(v.keyring, bytes.NewReader(data), bytes.NewReader(signature), nil)
	}
	if err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}

	for name := range signer.Identities {
		logrus.Debugf("Good signature from %s", name)
	}
	return nil
}
