// Package auth implements credential registration and login against a
// JSON credentials document. Passwords are stored as bcrypt hashes,
// never in clear.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"
)

const credentialsVersion = 1

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrCorruptCredentials means the credentials document exists but
	// is not valid structured data.
	ErrCorruptCredentials = errors.New("corrupt credentials document")
)

// UserID identifies one registered user; it owns exactly one ledger in
// the record store.
type UserID string

type credentialsDoc struct {
	Version int               `json:"version"`
	Users   map[string]string `json:"users"` // username -> bcrypt hash
}

// Authenticator registers and authenticates users against a
// credentials file, separate from the ledger document.
type Authenticator struct {
	path string
	cost int
}

func NewAuthenticator(path string) (*Authenticator, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create credentials directory: %w", err)
	}
	return &Authenticator{path: path, cost: bcrypt.DefaultCost}, nil
}

// Register stores a new username with a bcrypt hash of the password.
func (a *Authenticator) Register(ctx context.Context, username, password string) (UserID, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	doc, err := a.read()
	if err != nil {
		return "", err
	}
	if _, exists := doc.Users[username]; exists {
		return "", fmt.Errorf("%w: %q", ErrUsernameTaken, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	doc.Users[username] = string(hash)

	if err := a.write(doc); err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "User registered", "user", username)
	return UserID(username), nil
}

// Authenticate checks the password against the stored hash. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (UserID, error) {
	doc, err := a.read()
	if err != nil {
		return "", err
	}
	hash, ok := doc.Users[username]
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	slog.InfoContext(ctx, "User authenticated", "user", username)
	return UserID(username), nil
}

func (a *Authenticator) read() (credentialsDoc, error) {
	doc := credentialsDoc{Version: credentialsVersion, Users: map[string]string{}}

	data, err := os.ReadFile(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read credentials document: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrCorruptCredentials, err)
	}
	if doc.Version != credentialsVersion {
		return doc, fmt.Errorf("%w: unsupported version %d", ErrCorruptCredentials, doc.Version)
	}
	if doc.Users == nil {
		doc.Users = map[string]string{}
	}
	return doc, nil
}

func (a *Authenticator) write(doc credentialsDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode credentials document: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(a.path), ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("write credentials document: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write credentials document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write credentials document: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write credentials document: %w", err)
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write credentials document: %w", err)
	}
	return nil
}
