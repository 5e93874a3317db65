package signer

import (
	"bytes"
	"crypto"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// GPGSigner implements Signer interface using an OpenPGP private key
type GPGSigner struct {
	entity *openpgp.Entity
}

// NewGPGSigner creates a signer from an armored or binary private key file
func NewGPGSigner(keyPath, passphrase string) (*GPGSigner, error) {
	if keyPath == "" {
		return nil, fmt.Errorf("key path is empty")
	}

	keyFile, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	defer keyFile.Close()

	entity, err := readEntity(keyFile)
	if err != nil {
		return nil, err
	}

	if err := unlock(entity, passphrase); err != nil {
		return nil, err
	}

	return &GPGSigner{entity: entity}, nil
}

func readEntity(r io.ReadSeeker) (*openpgp.Entity, error) {
	entityList, err := openpgp.ReadArmoredKeyRing(r)
	if err != nil {
		if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("failed to rewind key file: %w", seekErr)
		}
		entityList, err = openpgp.ReadKeyRing(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entityList) == 0 {
		return nil, fmt.Errorf("no keys found in key file")
	}
	if entityList[0].PrivateKey == nil {
		return nil, fmt.Errorf("key file holds no private key")
	}
	return entityList[0], nil
}

// unlock decrypts the primary key and any encrypted subkeys
func unlock(entity *openpgp.Entity, passphrase string) error {
	keys := []*packet.PrivateKey{entity.PrivateKey}
	for _, subkey := range entity.Subkeys {
		keys = append(keys, subkey.PrivateKey)
	}

	for _, key := range keys {
		if key == nil || !key.Encrypted {
			continue
		}
		if passphrase == "" {
			return fmt.Errorf("private key %X is encrypted and no passphrase was given", key.KeyId)
		}
		if err := key.Decrypt([]byte(passphrase)); err != nil {
			return fmt.Errorf("failed to decrypt key %X: %w", key.KeyId, err)
		}
	}
	return nil
}

// SignDetached creates an armored detached signature over data
func (s *GPGSigner) SignDetached(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	err := openpgp.ArmoredDetachSign(&buf, s.entity, bytes.NewReader(data), &packet.Config{
		DefaultHash: crypto.SHA512,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create detached signature: %w", err)
	}

	return buf.Bytes(), nil
}

// GetPublicKey returns the public key in armored format
func (s *GPGSigner) GetPublicKey() ([]byte, error) {
	var buf bytes.Buffer

	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		return nil, err
	}

	if err := s.entity.Serialize(w); err != nil {
		w.Close()
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// VerifyDetached checks an armored detached signature against an armored public key
func VerifyDetached(publicKey, data, signature []byte) error {
	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(publicKey))
	if err != nil {
		return fmt.Errorf("failed to read public key: %w", err)
	}

	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(data), bytes.NewReader(signature), nil); err != nil {
		return fmt.Errorf("signature does not verify: %w", err)
	}
	return nil
}
