package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore keeps one JSON file per date under a directory, the
// daily_reports/<date>.json layout. Writes go through a temp file and
// rename so a crashed write never leaves a torn report behind.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "daily_reports"
	}
	return &FileStore{dir: dir}
}

func (s *FileStore) path(date string) string {
	return filepath.Join(s.dir, date+".json")
}

func (s *FileStore) Get(ctx context.Context, date string) ([]byte, error) {
	data, err := os.ReadFile(s.path(date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	return data, nil
}

func (s *FileStore) Put(ctx context.Context, date string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, date+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp report file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing report file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing report file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(date)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing report file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(date)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting report file: %w", err)
	}
	return nil
}

func (s *FileStore) Dates(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing report directory: %w", err)
	}

	var dates []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		date := strings.TrimSuffix(name, ".json")
		if ValidateDate(date) != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *FileStore) Close() error {
	return nil
}
