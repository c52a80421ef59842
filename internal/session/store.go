package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"repolens/internal/errors"
	"repolens/internal/logging"
)

// Store persists snapshots by session id. The core depends only on this
// shape; a backend-service implementation slots in behind it unchanged.
type Store interface {
	// Save persists a snapshot. An empty sessionID allocates a new one;
	// a non-empty id overwrites that session. Returns the session id.
	Save(snap *Snapshot, sessionID string) (string, error)

	// Open loads the snapshot for sessionID
	Open(sessionID string) (*Snapshot, error)
}

// FileStore keeps sessions as compressed snapshot files in one directory,
// with a sidecar index mapping project signatures to the session last saved
// for them.
type FileStore struct {
	dir    string
	logger *logging.Logger
}

// NewFileStore creates a store rooted at dir, creating it if needed
func NewFileStore(dir string, logger *logging.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.Internal, "creating session directory", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Save writes the snapshot under sessionID
func (s *FileStore) Save(snap *Snapshot, sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	data, err := Encode(snap)
	if err != nil {
		return "", errors.Wrap(errors.Internal, "encoding session", err)
	}

	if err := os.WriteFile(s.path(sessionID), data, 0644); err != nil {
		return "", errors.Wrap(errors.Internal, "writing session file", err)
	}

	return sessionID, nil
}

// Open reads and decodes one session
func (s *FileStore) Open(sessionID string) (*Snapshot, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.SessionNotFound, "no session "+sessionID)
		}
		return nil, errors.Wrap(errors.Internal, "reading session file", err)
	}
	return Decode(data)
}

// List returns all stored session ids
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.Internal, "listing sessions", err)
	}
	var ids []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".snap"); ok {
			ids = append(ids, name)
		}
	}
	return ids, nil
}

// LookupBySignature returns the session id last saved for signature, if any
func (s *FileStore) LookupBySignature(signature string) (string, bool) {
	index := s.readIndex()
	id, ok := index[signature]
	return id, ok
}

func (s *FileStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".snap")
}

func (s *FileStore) indexPath() string {
	return filepath.Join(s.dir, "signatures.json")
}

func (s *FileStore) readIndex() map[string]string {
	index := make(map[string]string)
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		return index
	}
	if err := json.Unmarshal(data, &index); err != nil {
		// A corrupt index only disables auto-restore; start fresh.
		s.logger.Warn("signature index corrupt, resetting", logging.Fields{"error": err.Error()})
		return make(map[string]string)
	}
	return index
}

// RecordSignature associates a project signature with the session last saved
// for it; auto-restore looks the pair up on the next load of that project.
func (s *FileStore) RecordSignature(signature, sessionID string) {
	index := s.readIndex()
	index[signature] = sessionID

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(s.indexPath(), data, 0644); err != nil {
		s.logger.Warn("failed to write signature index", logging.Fields{"error": err.Error()})
	}
}
