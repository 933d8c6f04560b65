// Package auth is the credential store: a username -> password hash registry
// persisted as users.json in the data directory, plus the optional
// "remember last user" record. Passwords are hashed with bcrypt; the
// registry never stores plaintext.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"spendlog/internal/core"
)

const registryFile = "users.json"

// Usernames become file names in the data directory, so they are restricted
// to a safe stem.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

type userRecord struct {
	PasswordHash string `json:"password_hash"`
}

// Registry is the on-disk username registry. All methods are safe for use
// from a single process; the file is rewritten wholesale after changes.
type Registry struct {
	mu    sync.Mutex
	dir   string
	users map[string]userRecord
}

// OpenRegistry loads the registry from dir, creating the directory if
// needed. A missing registry file means no users yet.
func OpenRegistry(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	r := &Registry{dir: dir, users: make(map[string]userRecord)}

	data, err := os.ReadFile(filepath.Join(dir, registryFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return r, nil
		}
		return nil, fmt.Errorf("read user registry: %w", err)
	}
	if err := json.Unmarshal(data, &r.users); err != nil {
		return nil, fmt.Errorf("parse user registry: %w", err)
	}
	return r, nil
}

// Register creates a new account. It fails with core.ErrUserExists for a
// duplicate username and core.ErrInvalidUsername for names that cannot
// serve as a ledger file stem.
func (r *Registry) Register(username, password string) error {
	if !usernamePattern.MatchString(username) {
		return core.ErrInvalidUsername
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; ok {
		return core.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	r.users[username] = userRecord{PasswordHash: string(hash)}

	if err := r.persist(); err != nil {
		delete(r.users, username)
		return err
	}
	return nil
}

// Authenticate verifies the username/password pair. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (r *Registry) Authenticate(username, password string) error {
	r.mu.Lock()
	rec, ok := r.users[username]
	r.mu.Unlock()
	if !ok {
		return core.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return core.ErrInvalidCredentials
	}
	return nil
}

// Exists reports whether the username is registered.
func (r *Registry) Exists(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[username]
	return ok
}

func (r *Registry) persist() error {
	data, err := json.MarshalIndent(r.users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user registry: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, registryFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp registry file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write user registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close user registry: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(r.dir, registryFile)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace user registry: %w", err)
	}
	return nil
}
