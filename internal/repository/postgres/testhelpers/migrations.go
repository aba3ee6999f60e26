package testhelpers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ApplyMigrations применяет *.up.sql из каталога по порядку имён и возвращает список применённых файлов
func ApplyMigrations(db *sql.DB, migrationsPath string) ([]string, error) {
	upFiles, err := filepath.Glob(filepath.Join(migrationsPath, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(upFiles)

	applied := make([]string, 0, len(upFiles))
	for _, path := range upFiles {
		content, err := os.ReadFile(path)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", path, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		if _, err := db.Exec(string(content)); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", filepath.Base(path), err)
		}
		applied = append(applied, filepath.Base(path))
	}

	return applied, nil
}
