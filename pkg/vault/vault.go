// Package vault cifra credenciales de terceros en reposo con AES-256-GCM.
//
// Formato del blob (hex): salt(64) || iv(16) || tag(16) || ciphertext.
// La llave de cada operación se deriva de la llave maestra con PBKDF2-SHA512
// y un salt aleatorio por llamada, así que cifrar dos veces el mismo texto
// produce blobs distintos.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/jhoicas/StockTrack-api/internal/domain"
)

const (
	saltLength = 64
	ivLength   = 16
	tagLength  = 16
	keyLength  = 32
	iterations = 2145
)

// Vault cifra y descifra blobs de credenciales. La llave maestra es estado de
// proceso de solo lectura, inyectada una vez al arranque.
type Vault struct {
	masterKey []byte
}

// New construye el vault. La llave maestra no puede estar vacía.
func New(masterKey string) (*Vault, error) {
	if masterKey == "" {
		return nil, fmt.Errorf("vault: llave maestra vacía")
	}
	return &Vault{masterKey: []byte(masterKey)}, nil
}

// Encrypt cifra el texto plano y devuelve el blob hex salt||iv||tag||ct.
// Salt e IV son aleatorios por llamada: el resultado no es determinista.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("vault: generar salt: %w", err)
	}
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("vault: generar iv: %w", err)
	}

	gcm, err := v.aead(salt)
	if err != nil {
		return "", err
	}

	// Seal devuelve ciphertext||tag; el formato del blob lleva el tag delante
	// del ciphertext, así que se reordena.
	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagLength]
	tag := sealed[len(sealed)-tagLength:]

	blob := make([]byte, 0, saltLength+ivLength+tagLength+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, iv...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)
	return hex.EncodeToString(blob), nil
}

// Decrypt parte el blob en sus segmentos de offset fijo, re-deriva la llave
// desde el salt embebido y descifra. Devuelve ErrAuthenticationFailed si el
// tag no verifica (blob alterado o corrupto); nunca texto parcial.
func (v *Vault) Decrypt(blob string) (string, error) {
	data, err := hex.DecodeString(blob)
	if err != nil {
		return "", domain.ErrAuthenticationFailed
	}
	if len(data) < saltLength+ivLength+tagLength {
		return "", domain.ErrAuthenticationFailed
	}

	salt := data[:saltLength]
	iv := data[saltLength : saltLength+ivLength]
	tag := data[saltLength+ivLength : saltLength+ivLength+tagLength]
	ciphertext := data[saltLength+ivLength+tagLength:]

	gcm, err := v.aead(salt)
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(ciphertext)+tagLength)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", domain.ErrAuthenticationFailed
	}
	return string(plaintext), nil
}

// aead deriva la llave por llamada y construye el AEAD AES-256-GCM con nonce
// de 16 bytes (el formato del blob fija ese tamaño).
func (v *Vault) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(v.masterKey, salt, iterations, keyLength, sha512.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: crear cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return nil, fmt.Errorf("vault: crear gcm: %w", err)
	}
	return gcm, nil
}
