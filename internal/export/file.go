package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
)

// writeOutput writes name inside opts.OutputDir through a temporary path so a
// failed export leaves no partial file. The output directory is locked for
// the duration.
func writeOutput(opts Options, name string, write func(tmpPath string) error) (string, error) {
	lock := NewOutputLock(opts.OutputDir)
	acquired, err := lock.TryLock()
	if err != nil {
		return "", wnerrors.New(wnerrors.ErrCodeWriteFailed, err.Error(), err)
	}
	if !acquired {
		return "", wnerrors.New(wnerrors.ErrCodeOutputLocked,
			fmt.Sprintf("another export is writing to %s", opts.OutputDir), nil).
			WithDetail("lock", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	final := filepath.Join(opts.OutputDir, name)
	if _, err := os.Stat(final); err == nil {
		if !opts.Force {
			return "", wnerrors.New(wnerrors.ErrCodeOutputExists,
				fmt.Sprintf("%s already exists", final), nil).
				WithSuggestion("Use --force to overwrite it")
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", wnerrors.New(wnerrors.ErrCodeWriteFailed, fmt.Sprintf("cannot stat %s", final), err)
	}

	tmp := final + ".tmp"
	_ = os.Remove(tmp)

	if err := write(tmp); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", wnerrors.New(wnerrors.ErrCodeWriteFailed, fmt.Sprintf("failed to move output into %s", final), err)
	}

	opts.Logger.Debug("output written", slog.String("path", final))
	return final, nil
}
