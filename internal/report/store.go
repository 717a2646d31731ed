package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spigell/hr-interviewer/internal/interview"
	"go.uber.org/zap"
)

// Store persists reports as paired JSON and text files in one directory. The
// JSON file is the source of truth; the text file is a convenience copy for
// humans.
type Store struct {
	dir    string
	logger *zap.Logger

	now func() time.Time
}

func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger, now: time.Now}
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.dir }

// Save writes the report to disk and returns the JSON file path. The
// directory is created on first use.
func (s *Store) Save(r *Report) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	jsonPath := filepath.Join(s.dir, r.ID+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	textPath := filepath.Join(s.dir, r.ID+".txt")
	if err := os.WriteFile(textPath, []byte(Render(r)), 0o644); err != nil {
		return "", fmt.Errorf("write text report: %w", err)
	}

	s.logger.Info("report saved",
		zap.String("report_id", r.ID),
		zap.String("path", jsonPath),
	)
	return jsonPath, nil
}

// Persist builds a report from the snapshot and saves it. It satisfies the
// session's reporter contract.
func (s *Store) Persist(_ context.Context, snap *interview.Snapshot) (string, error) {
	return s.Save(Build(snap, s.now()))
}

// Entry is one row of the report listing.
type Entry struct {
	ID             string
	GeneratedAt    time.Time
	FinalScore     float64
	Recommendation Recommendation
	Phase          interview.Phase
}

// List returns metadata for all stored reports, newest first. Unreadable
// files are skipped with a warning so one corrupt report does not hide the
// rest.
func (s *Store) List() ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reports directory: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(f.Name(), ".json")
		r, err := s.Load(id)
		if err != nil {
			s.logger.Warn("skipping unreadable report",
				zap.String("file", f.Name()),
				zap.Error(err),
			)
			continue
		}
		entries = append(entries, Entry{
			ID:             r.ID,
			GeneratedAt:    r.GeneratedAt,
			FinalScore:     r.FinalScore,
			Recommendation: r.Recommendation,
			Phase:          r.Session.Phase,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].GeneratedAt.After(entries[j].GeneratedAt)
	})
	return entries, nil
}

// Load reads one report by identifier.
func (s *Store) Load(id string) (*Report, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("read report %q: %w", id, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %q: %w", id, err)
	}
	if r.Session == nil {
		return nil, fmt.Errorf("report %q has no session data", id)
	}
	return &r, nil
}
