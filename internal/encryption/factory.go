package encryption

import (
	"bytes"
	"fmt"

	"scs-go/internal/config"
	"scs-go/internal/scs"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (scs.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}

// EncryptBytes encrypts plaintext in memory.
func EncryptBytes(e scs.Encryptor, plaintext []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Encrypt(bytes.NewReader(plaintext), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecryptBytes unlocks e with passphrase and decrypts ciphertext in memory.
func DecryptBytes(e scs.Encryptor, ciphertext []byte, passphrase string) ([]byte, error) {
	dc, err := e.Unlock(passphrase)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.Decrypt(bytes.NewReader(ciphertext), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
