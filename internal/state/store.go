package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	planrunnererrors "github.com/loopforge/planrunner/internal/errors"
)

const stateFileExt = ".json"

// Store persists one PlanState record per plan id in a single directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir, creating the directory if it does
// not yet exist. Returns a *errors.StateError wrapping
// errors.ErrStorageUnavailable if dir cannot be created.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, planrunnererrors.NewStateError("state directory unwritable", fmt.Errorf("%w: %w", planrunnererrors.ErrStorageUnavailable, err)).WithPath(dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) planPath(planID string) string {
	return filepath.Join(s.dir, planID+stateFileExt)
}

// Load returns the persisted state for planID, or (nil, nil) if no state
// exists yet.
func (s *Store) Load(planID string) (*PlanState, error) {
	fl := newFileLock(s.dir, planID)
	if err := fl.Lock(); err != nil {
		return nil, planrunnererrors.NewStateError("acquire state lock", err).WithPlanID(planID)
	}
	defer func() { _ = fl.Unlock() }()

	data, err := os.ReadFile(s.planPath(planID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, planrunnererrors.NewStateError("read state file", err).WithPlanID(planID).WithPath(s.planPath(planID))
	}

	var ps PlanState
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, planrunnererrors.NewStateError("state file is corrupted", err).
			WithPlanID(planID).
			WithPath(s.planPath(planID)).
			WithSeverity(planrunnererrors.SeverityCritical)
	}
	return &ps, nil
}

// Save atomically replaces the persisted state for state.PlanID: it writes
// to a temp file in the same directory then renames into place, so a
// concurrent reader observes either the prior state or the new one, never a
// partial write.
func (s *Store) Save(ps *PlanState) error {
	fl := newFileLock(s.dir, ps.PlanID)
	if err := fl.Lock(); err != nil {
		return planrunnererrors.NewStateError("acquire state lock", err).WithPlanID(ps.PlanID)
	}
	defer func() { _ = fl.Unlock() }()

	data, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return planrunnererrors.NewStateError("marshal state", err).WithPlanID(ps.PlanID)
	}

	target := s.planPath(ps.PlanID)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return planrunnererrors.NewStateError("write temp state file", err).WithPlanID(ps.PlanID).WithPath(tmp)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return planrunnererrors.NewStateError("rename temp state file", err).WithPlanID(ps.PlanID).WithPath(target)
	}
	return nil
}

// List enumerates persisted plan ids, for the history/cost CLI commands.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, planrunnererrors.NewStateError("list state directory", err).WithPath(s.dir)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, stateFileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, stateFileExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// LoadAll loads every persisted plan's state, for the cost/history
// commands. It stops at the first record that fails to load and returns
// that error with no partial result; records after it are not read.
func (s *Store) LoadAll() (map[string]*PlanState, error) {
	ids, err := s.List()
	if err != nil {
		return nil, err
	}

	out := make(map[string]*PlanState, len(ids))
	for _, id := range ids {
		ps, err := s.Load(id)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", id, err)
		}
		if ps != nil {
			out[id] = ps
		}
	}
	return out, nil
}
