package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const rememberFile = "remember.json"

type rememberRecord struct {
	Username string `json:"username"`
}

// Remember stores the username so the next login can be pre-filled.
func Remember(dir, username string) error {
	data, err := json.Marshal(rememberRecord{Username: username})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, rememberFile), data, 0644)
}

// Forget removes the remember record. Removing it is the only way to drop a
// remembered session; a missing record is not an error.
func Forget(dir string) error {
	err := os.Remove(filepath.Join(dir, rememberFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RememberedUser returns the remembered username, if any.
func RememberedUser(dir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, rememberFile))
	if err != nil {
		return "", false
	}
	var rec rememberRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.Username == "" {
		return "", false
	}
	return rec.Username, true
}
