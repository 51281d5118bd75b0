package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"io"
	"runtime"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Password records are self describing strings, `<salt-hex>:<key-hex>`,
// with a fresh random salt per record. The whole record is replaced on
// every password change.
const (
	scryptR       = 8
	scryptP       = 1
	saltLength    = 16 // bytes, hex encoded in the record
	derivedKeyLen = 64 // bytes, hex encoded in the record
)

// hashGate bounds concurrent key derivations. scrypt is deliberately
// memory hard; without the gate a burst of sign-ins can occupy every P
// and starve unrelated requests.
var hashGate = make(chan struct{}, runtime.GOMAXPROCS(0))

// HashPassword will generate a salted scrypt password record
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	saltHex := hex.EncodeToString(salt)
	key, err := deriveKey(password, saltHex)
	if err != nil {
		return "", err
	}

	return saltHex + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword checks a candidate password against a stored record.
// Malformed records yield (false, nil), never an error: a record that
// cannot be parsed can only ever be a non-match. A derivation failure is
// an error, never a silent "wrong password".
func VerifyPassword(password, record string) (bool, error) {
	saltHex, keyHex, found := strings.Cut(record, ":")
	if !found {
		return false, nil
	}

	stored, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, nil
	}

	derived, err := deriveKey(password, saltHex)
	if err != nil {
		return false, err
	}

	if len(derived) != len(stored) {
		return false, nil
	}

	return subtle.ConstantTimeCompare(derived, stored) == 1, nil
}

// ComparePasswordAndHash will validate the given cleartext password
// matches the stored record
func ComparePasswordAndHash(password, record string) error {
	ok, err := VerifyPassword(password, record)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// deriveKey runs scrypt behind the hash gate. The salt is fed to the KDF
// as its hex string so records hashed by earlier deployments keep
// verifying byte for byte.
func deriveKey(password, saltHex string) ([]byte, error) {
	hashGate <- struct{}{}
	defer func() { <-hashGate }()

	return scrypt.Key([]byte(password), []byte(saltHex), scryptCost(), scryptR, scryptP, derivedKeyLen)
}
