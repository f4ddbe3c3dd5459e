package ops

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hpungsan/spark/internal/config"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/persist"
	"github.com/hpungsan/spark/internal/store"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: <base>/exports/entries-<timestamp>.json
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string    `json:"path"`
	Count      int       `json:"count"`
	ExportedAt time.Time `json:"exported_at"`
}

// Export writes a snapshot of every entry, in the entries document format,
// to a file that Import can read back.
func Export(st *store.Store, cfg *config.Config, baseDir string, input ExportInput) (*ExportOutput, error) {
	now := timeNow().UTC()

	exportPath := input.Path
	if exportPath == "" {
		exportPath = filepath.Join(config.ExportsDir(baseDir), "entries-"+now.Format("2006-01-02T150405")+".json")
	}

	allowed, err := AllowedDirs(cfg, baseDir)
	if err != nil {
		return nil, err
	}
	if err := ValidatePath(exportPath, PathCheckWrite, allowed); err != nil {
		return nil, err
	}

	entries := st.Snapshot()
	data, err := persist.Encode(entries)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := persist.WriteAtomic(exportPath, data); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to write export: %w", err))
	}

	return &ExportOutput{
		Path:       exportPath,
		Count:      len(entries),
		ExportedAt: now,
	}, nil
}
