package ops

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/hpungsan/spark/internal/config"
	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/persist"
	"github.com/hpungsan/spark/internal/store"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // import nothing if any entry collides or is invalid
	ImportModeReplace ImportMode = "replace" // overwrite on collision, skip invalid entries
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Replaced int           `json:"replaced"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes one entry that was not imported.
type ImportError struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import adds the entries of an exported document.
func Import(st *store.Store, cfg *config.Config, baseDir string, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace")
	}

	allowed, err := AllowedDirs(cfg, baseDir)
	if err != nil {
		return nil, err
	}
	if err := ValidatePath(input.Path, PathCheckRead, allowed); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	records, err := persist.Decode(data)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("import file is not an entries document: %v", err))
	}

	out := &ImportOutput{Errors: []ImportError{}}
	for i, e := range records {
		if err := entry.Validate(e, cfg.EntryMaxChars); err != nil {
			out.Errors = append(out.Errors, importError(i, e.ID, err))
		}
	}

	if input.Mode == ImportModeError {
		for i, e := range records {
			if _, err := st.Get(e.ID); err == nil {
				out.Errors = append(out.Errors, importError(i, e.ID, errors.NewDuplicateID(e.ID)))
			}
		}
		if len(out.Errors) > 0 {
			return out, nil
		}
		for _, e := range records {
			if _, err := st.Add(e); err != nil {
				return nil, err
			}
			out.Imported++
		}
		return out, nil
	}

	skip := make(map[int]bool, len(out.Errors))
	for _, ie := range out.Errors {
		skip[ie.Index] = true
	}
	for i, e := range records {
		if skip[i] {
			continue
		}
		_, created, err := st.Put(e)
		if err != nil {
			return nil, err
		}
		if created {
			out.Imported++
		} else {
			out.Replaced++
		}
	}
	return out, nil
}

func importError(index int, id string, err error) ImportError {
	ie := ImportError{Index: index, ID: id, Code: string(errors.ErrInternal), Message: err.Error()}
	var sErr *errors.SparkError
	if stderrors.As(err, &sErr) {
		ie.Code = string(sErr.Code)
		ie.Message = sErr.Message
	}
	return ie
}
