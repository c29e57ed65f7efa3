package services

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigStore materializes per-tenant module configuration. The saga's
// config step writes through it and its compensation removes what was
// written.
type ConfigStore interface {
	Write(tenantID uint, moduleName string, data []byte) (path string, err error)
	Remove(tenantID uint, moduleName string) error
}

// FileConfigStore writes one JSON file per (tenant, module) under a base
// directory.
type FileConfigStore struct {
	BaseDir string
}

func NewFileConfigStore(baseDir string) *FileConfigStore {
	return &FileConfigStore{BaseDir: baseDir}
}

func (s *FileConfigStore) path(tenantID uint, moduleName string) string {
	return filepath.Join(s.BaseDir, fmt.Sprintf("tenant_%d", tenantID), moduleName+".json")
}

func (s *FileConfigStore) Write(tenantID uint, moduleName string, data []byte) (string, error) {
	path := s.path(tenantID, moduleName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *FileConfigStore) Remove(tenantID uint, moduleName string) error {
	err := os.Remove(s.path(tenantID, moduleName))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
