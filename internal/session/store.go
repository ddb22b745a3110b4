package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/furnishop/storefront-go/internal/api"
)

// PersistedState is the minimum carried across restarts: the bearer token,
// the cart id in string form, and a best-effort (non-authoritative) user
// snapshot.
type PersistedState struct {
	Token  string    `json:"token,omitempty"`
	CartID string    `json:"cartId,omitempty"`
	User   *api.User `json:"user,omitempty"`
}

type Store interface {
	Load() (PersistedState, error)
	Save(PersistedState) error
	Clear() error
}

// FileStore keeps the persisted state in a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() (PersistedState, error) {
	var st PersistedState
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return st, nil
		}
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt state file is the same as no state file.
		return PersistedState{}, nil
	}
	return st, nil
}

func (f *FileStore) Save(st PersistedState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
