package portfolio

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store keeps the ledgers of portfolios by name.
//
// Load returns empty ledgers, and no error, for a name that was never saved.
// Save replaces everything stored under name.
type Store interface {
	Load(name string) (Ledgers, error)
	Save(name string, l Ledgers) error
}

// FileStore saves each portfolio in "<Dir>/<name>.json".
type FileStore struct {
	Dir string
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore { return &FileStore{Dir: dir} }

// Path returns the file of the portfolio called name.
func (s *FileStore) Path(name string) string { return filepath.Join(s.Dir, name+".json") }

// Load decodes the ledgers of the portfolio called name.
func (s *FileStore) Load(name string) (Ledgers, error) {
	if err := ValidateName(name); err != nil {
		return Ledgers{}, err
	}
	path := s.Path(name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Ledgers{}, nil
	}
	if err != nil {
		return Ledgers{}, fmt.Errorf("could not open ledger file %q: %w", path, err)
	}
	defer f.Close()

	l, err := DecodeLedgers(f)
	if err != nil {
		return Ledgers{}, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	return l, nil
}

// Save writes the ledgers to a temporary file next to the target, then renames
// it over the target so that readers never see a partial file.
func (s *FileStore) Save(name string, l Ledgers) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	path := s.Path(name)

	// Ensure the directory for the ledger file exists.
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), name+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary file for %q: %w", path, err)
	}
	// no-op once the rename succeeded.
	defer os.Remove(tmp.Name())

	if err := EncodeLedgers(tmp, l); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write ledger file %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace ledger file %q: %w", path, err)
	}
	return nil
}

// MemoryStore keeps encoded ledgers in memory.
type MemoryStore struct {
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{data: make(map[string][]byte)} }

// Load decodes the ledgers saved under name.
func (s *MemoryStore) Load(name string) (Ledgers, error) {
	data, ok := s.data[name]
	if !ok {
		return Ledgers{}, nil
	}
	return DecodeLedgers(bytes.NewReader(data))
}

// Save encodes the ledgers under name.
func (s *MemoryStore) Save(name string, l Ledgers) error {
	var buf bytes.Buffer
	if err := EncodeLedgers(&buf, l); err != nil {
		return err
	}
	s.data[name] = buf.Bytes()
	return nil
}

// Bytes returns what was last saved under name.
func (s *MemoryStore) Bytes(name string) ([]byte, bool) {
	data, ok := s.data[name]
	return data, ok
}
