package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/jules19/canadian-salad/internal/config"
	"github.com/jules19/canadian-salad/internal/game"
)

const filePrefix = "game-state-"

// Store writes periodic JSON snapshots of every live room to a
// directory, keeping only the most recent few. Snapshot failures are
// logged and swallowed; gameplay never waits on them.
type Store struct {
	fs  afero.Fs
	cfg config.SnapshotSettings
	log *zap.Logger
}

type snapshot struct {
	Timestamp int64        `json:"timestamp"`
	Rooms     []*game.Room `json:"rooms"`
}

// New creates a snapshot store on the given filesystem. Production
// passes afero.NewOsFs(); tests use an in-memory one.
func New(fs afero.Fs, cfg config.SnapshotSettings, log *zap.Logger) *Store {
	return &Store{fs: fs, cfg: cfg, log: log}
}

// Save writes one snapshot of the given rooms. Empty registries are
// skipped.
func (s *Store) Save(rooms []*game.Room) error {
	if len(rooms) == 0 {
		return nil
	}

	if err := s.fs.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	now := time.Now().UnixMilli()
	data, err := json.MarshalIndent(snapshot{Timestamp: now, Rooms: rooms}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	name := filepath.Join(s.cfg.Dir, fmt.Sprintf("%s%d.json", filePrefix, now))
	if err := afero.WriteFile(s.fs, name, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	s.prune()
	return nil
}

// LoadLatest returns the rooms from the most recent snapshot, or nil
// when none exists.
func (s *Store) LoadLatest() ([]*game.Room, error) {
	names, err := s.snapshotNames()
	if err != nil || len(names) == 0 {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, filepath.Join(s.cfg.Dir, names[0]))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap.Rooms, nil
}

// Run saves snapshots on an interval until ctx is cancelled, then
// writes one final snapshot on the way out.
func (s *Store) Run(ctx context.Context, rooms func() []*game.Room) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.Save(rooms()); err != nil {
				s.log.Error("final snapshot failed", zap.Error(err))
			}
			return
		case <-ticker.C:
			if err := s.Save(rooms()); err != nil {
				s.log.Error("snapshot failed", zap.Error(err))
			}
		}
	}
}

// prune deletes all but the newest configured number of snapshots.
func (s *Store) prune() {
	names, err := s.snapshotNames()
	if err != nil {
		s.log.Warn("snapshot cleanup failed", zap.Error(err))
		return
	}
	for _, name := range names[min(len(names), s.cfg.Keep):] {
		if err := s.fs.Remove(filepath.Join(s.cfg.Dir, name)); err != nil {
			s.log.Warn("removing old snapshot failed",
				zap.String("file", name),
				zap.Error(err),
			)
		}
	}
}

// snapshotNames lists snapshot files, newest first.
func (s *Store) snapshotNames() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.cfg.Dir)
	if err != nil {
		return nil, nil // directory not created yet
	}

	var names []string
	for _, info := range infos {
		name := info.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}
