package migration

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/mediaassoc/backend/internal/domain/content"
)

const (
	sqlExt = "sql"
	// upSuffix and downSuffix end every migration file name
	upSuffix   = "." + string(source.Up) + "." + sqlExt
	downSuffix = "." + string(source.Down) + "." + sqlExt
	// versionWidth is the zero padding used by the files in migrations/
	versionWidth = 6
)

// MigrationFile is a freshly scaffolded up/down pair
type MigrationFile struct {
	Version  string
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty up/down pair numbered one past the
// highest version found in dir. Existing files are never overwritten.
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	ident := identifier(name)
	if ident == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	found, err := scan(dir)
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if len(found) > 0 {
		next = found[len(found)-1].Version + 1
	}

	version := fmt.Sprintf("%0*d", versionWidth, next)
	base := filepath.Join(dir, version+"_"+ident)
	mf := &MigrationFile{
		Version:  version,
		UpPath:   base + upSuffix,
		DownPath: base + downSuffix,
	}

	created := time.Now().UTC().Format(time.RFC3339)
	header := fmt.Sprintf("-- %s\n-- Created: %s\n", name, created)
	if description != "" {
		header += "-- " + description + "\n"
	}
	if err := writeNew(mf.UpPath, header+"\n"); err != nil {
		return nil, err
	}
	if err := writeNew(mf.DownPath, fmt.Sprintf("-- Rollback of %s\n-- Created: %s\n\n", name, created)); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

// identifier turns a free-form name into the snake_case part of a file name
func identifier(name string) string {
	return strings.ReplaceAll(content.Slugify(name), "-", "_")
}

func writeNew(path, body string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	if _, err := f.WriteString(body); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// ListMigrations returns the base names of the up migrations in dir ordered
// by version. A missing directory has none.
func ListMigrations(dir string) ([]string, error) {
	found, err := scan(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(found))
	for i, m := range found {
		names[i] = strings.TrimSuffix(m.Raw, upSuffix)
	}
	return names, nil
}

// scan parses the up migrations in dir with golang-migrate's file naming
// rules, sorted by version.
func scan(dir string) ([]*source.Migration, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var ups []*source.Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "."+sqlExt) {
			continue
		}
		m, err := source.Parse(entry.Name())
		if err != nil || m.Direction != source.Up {
			continue
		}
		ups = append(ups, m)
	}
	slices.SortFunc(ups, func(a, b *source.Migration) int { return cmp.Compare(a.Version, b.Version) })
	return ups, nil
}
