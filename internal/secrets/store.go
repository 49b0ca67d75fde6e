// Package secrets keeps provider API keys in a per-user file (mode 0600),
// sealed with AES-GCM under a key derived from the user and platform. It is
// not a keychain; it keeps keys out of the plain-text config.
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
	"runtime"
	"strings"
)

const fileName = "keys.json"

// ErrNotFound is returned when no key is stored for a provider.
var ErrNotFound = errors.New("secrets: key not found")

var errNoProvider = errors.New("secrets: provider required")

type secretFile struct {
	Keys map[string]string `json:"keys"` // provider -> base64(nonce|ciphertext)
}

// Store is a key file inside Dir.
type Store struct {
	Dir string
}

// Default returns the store under the user config directory.
func Default() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &Store{Dir: filepath.Join(dir, "accountdeck")}, nil
}

func (s *Store) Put(provider, key string) error {
	name, path, sf, err := s.open(provider)
	if err != nil {
		return err
	}
	ct, err := encrypt([]byte(strings.TrimSpace(key)))
	if err != nil {
		return err
	}
	sf.Keys[name] = base64.StdEncoding.EncodeToString(ct)
	return save(path, sf)
}

func (s *Store) Get(provider string) (string, error) {
	name, _, sf, err := s.open(provider)
	if err != nil {
		return "", err
	}
	enc, ok := sf.Keys[name]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("secrets: decode %s: %w", name, err)
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", fmt.Errorf("secrets: open %s: %w", name, err)
	}
	return string(pt), nil
}

// Delete removes the provider's key. Deleting a missing key is not an error.
func (s *Store) Delete(provider string) error {
	name, path, sf, err := s.open(provider)
	if err != nil {
		return err
	}
	if _, ok := sf.Keys[name]; !ok {
		return nil
	}
	delete(sf.Keys, name)
	return save(path, sf)
}

// open normalises the provider name and reads the key file.
func (s *Store) open(provider string) (string, string, secretFile, error) {
	name := strings.TrimSpace(strings.ToLower(provider))
	if name == "" {
		return "", "", secretFile{}, errNoProvider
	}
	path, err := s.path()
	if err != nil {
		return "", "", secretFile{}, err
	}
	sf, err := load(path)
	return name, path, sf, err
}

func (s *Store) path() (string, error) {
	if s.Dir == "" {
		return "", errors.New("secrets: directory not set")
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, fileName), nil
}

func load(path string) (secretFile, error) {
	sf := secretFile{Keys: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sf, nil
		}
		return sf, err
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return sf, fmt.Errorf("secrets: parse %s: %w", path, err)
	}
	if sf.Keys == nil {
		sf.Keys = map[string]string{}
	}
	return sf, nil
}

func save(path string, sf secretFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func masterKey() []byte {
	base := fmt.Sprintf("accountdeck-%s-%s", runtime.GOOS, os.Getenv("USER"))
	sum := sha256.Sum256([]byte(base))
	return sum[:]
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(plain []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, body := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
