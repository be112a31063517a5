package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
	"github.com/Aman-CERP/wnexport/internal/wordnet"
)

// Scanner discovers index/data pairs in a WordNet directory.
type Scanner struct {
	logger *slog.Logger
}

// New creates a new Scanner. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// ValidateDir checks that path exists, is a directory and can be listed.
func ValidateDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return wnerrors.New(wnerrors.ErrCodeDirNotFound, fmt.Sprintf("%s does not exist!", path), err).
				WithDetail("path", path)
		}
		return wnerrors.New(wnerrors.ErrCodeInvalidPath, fmt.Sprintf("Unable to check existence of %s", path), err).
			WithDetail("path", path)
	}
	if !info.IsDir() {
		return wnerrors.New(wnerrors.ErrCodeNotADirectory, fmt.Sprintf("%s is not a directory!", path), nil).
			WithDetail("path", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return wnerrors.New(wnerrors.ErrCodeFilePermission, fmt.Sprintf("cannot read directory %s", path), err).
			WithDetail("path", path)
	}
	_ = f.Close()
	return nil
}

// Scan lists opts.RootDir and pairs index.X with data.X by suffix.
// A directory without any pair is an error.
func (s *Scanner) Scan(ctx context.Context, opts *ScanOptions) (*Result, error) {
	if opts == nil {
		opts = &ScanOptions{}
	}
	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = "."
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, wnerrors.New(wnerrors.ErrCodeInvalidPath, "failed to get absolute path", err)
	}
	if err := ValidateDir(absRoot); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, wnerrors.New(wnerrors.ErrCodeReadFailed, fmt.Sprintf("failed to list %s", absRoot), err)
	}

	ignore := opts.Ignore
	if ignore == nil {
		ignore = DefaultIgnore
	}
	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}

	indexes := make(map[string]string)
	datas := make(map[string]string)
	result := &Result{}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ignored[name] {
			result.Skipped = append(result.Skipped, name)
			s.logger.Debug("skipping ignored file", slog.String("file", name))
			continue
		}

		switch {
		case strings.HasPrefix(name, IndexPrefix) && len(name) > len(IndexPrefix):
			indexes[strings.TrimPrefix(name, IndexPrefix)] = filepath.Join(absRoot, name)
			s.logger.Debug("found index file", slog.String("file", name))
		case strings.HasPrefix(name, DataPrefix) && len(name) > len(DataPrefix):
			datas[strings.TrimPrefix(name, DataPrefix)] = filepath.Join(absRoot, name)
			s.logger.Debug("found data file", slog.String("file", name))
		}
	}

	for pos, indexPath := range indexes {
		dataPath, ok := datas[pos]
		if !ok {
			result.Unpaired = append(result.Unpaired, IndexPrefix+pos)
			continue
		}
		result.Pairs = append(result.Pairs, wordnet.Pair{
			IndexPath:    indexPath,
			DataPath:     dataPath,
			PartOfSpeech: pos,
		})
	}
	for pos := range datas {
		if _, ok := indexes[pos]; !ok {
			result.Unpaired = append(result.Unpaired, DataPrefix+pos)
		}
	}

	sort.Slice(result.Pairs, func(i, j int) bool {
		return result.Pairs[i].PartOfSpeech < result.Pairs[j].PartOfSpeech
	})
	sort.Strings(result.Unpaired)

	for _, name := range result.Unpaired {
		s.logger.Warn("file has no partner", slog.String("file", name))
	}

	if len(result.Pairs) == 0 {
		return result, wnerrors.New(wnerrors.ErrCodeNoPairs,
			fmt.Sprintf("no index/data file pairs found in %s", absRoot), nil).
			WithSuggestion("Point --directory at the WordNet dict directory (index.noun, data.noun, ...)")
	}

	s.logger.Info("scan complete",
		slog.String("dir", absRoot),
		slog.Int("pairs", len(result.Pairs)),
		slog.Int("unpaired", len(result.Unpaired)))

	return result, nil
}
