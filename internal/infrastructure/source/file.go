package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/yx-aesthete/sejm-info/internal/domain"
	"github.com/yx-aesthete/sejm-info/internal/ports"
)

// Snapshot is the on-disk form of all three collections.
type Snapshot struct {
	Processes []domain.Process `json:"processes"`
	Votings   []domain.Voting  `json:"votings"`
	Prints    []domain.Print   `json:"prints"`
}

// FileSource serves records from a JSON snapshot. The file is read once.
type FileSource struct {
	path string

	once     sync.Once
	snapshot Snapshot
	err      error
}

var _ ports.RecordSource = (*FileSource)(nil)

// NewFileSource points the source at a snapshot file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) load() (Snapshot, error) {
	s.once.Do(func() {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			s.err = fmt.Errorf("read snapshot: %w", err)
			return
		}
		if err := json.Unmarshal(raw, &s.snapshot); err != nil {
			s.err = fmt.Errorf("decode snapshot %s: %w", s.path, err)
		}
	})
	return s.snapshot, s.err
}

// FetchProcesses returns the snapshot processes.
func (s *FileSource) FetchProcesses(context.Context) ([]domain.Process, error) {
	snap, err := s.load()
	return snap.Processes, err
}

// FetchVotings returns the snapshot votings.
func (s *FileSource) FetchVotings(context.Context) ([]domain.Voting, error) {
	snap, err := s.load()
	return snap.Votings, err
}

// FetchPrints returns the snapshot prints.
func (s *FileSource) FetchPrints(context.Context) ([]domain.Print, error) {
	snap, err := s.load()
	return snap.Prints, err
}

// WriteSnapshot stores the records of src at path, so later runs can work offline.
func WriteSnapshot(ctx context.Context, src ports.RecordSource, path string) (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Processes, err = src.FetchProcesses(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Votings, err = src.FetchVotings(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Prints, err = src.FetchPrints(ctx); err != nil {
		return Snapshot{}, err
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return Snapshot{}, fmt.Errorf("write snapshot: %w", err)
	}
	return snap, nil
}
