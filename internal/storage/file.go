package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one JSON watermark file per wiki host in a directory.
type FileStore struct {
	dir string
}

var _ WatermarkStore = (*FileStore)(nil)

// NewFileStore creates the directory if needed and returns the store.
func NewFileStore(cfg FileConfig) (*FileStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating watermark directory: %w", err)
	}
	return &FileStore{dir: cfg.Dir}, nil
}

func (s *FileStore) Load(_ context.Context, wiki string) (Watermark, error) {
	data, err := os.ReadFile(s.path(wiki))
	if err != nil {
		if os.IsNotExist(err) {
			return Watermark{}, ErrNotFound
		}
		return Watermark{}, fmt.Errorf("reading watermark for %s: %w", wiki, err)
	}

	var mark Watermark
	if err := json.Unmarshal(data, &mark); err != nil {
		return Watermark{}, fmt.Errorf("parsing watermark for %s: %w", wiki, err)
	}
	return mark, nil
}

func (s *FileStore) Store(_ context.Context, wiki string, mark Watermark) error {
	data, err := json.Marshal(mark)
	if err != nil {
		return fmt.Errorf("encoding watermark for %s: %w", wiki, err)
	}

	// Write-then-rename so a crash mid-write never clobbers the old mark.
	path := s.path(wiki)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing watermark for %s: %w", wiki, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing watermark for %s: %w", wiki, err)
	}
	return nil
}

func (s *FileStore) Close(_ context.Context) error {
	return nil
}

var fileNameReplacer = strings.NewReplacer("/", "_", ":", "_", "\\", "_")

func (s *FileStore) path(wiki string) string {
	return filepath.Join(s.dir, fileNameReplacer.Replace(wiki)+".json")
}
