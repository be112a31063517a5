package wordnet

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
)

// ctxCheckInterval is how many index lines are read between context checks.
const ctxCheckInterval = 1024

// Stats holds per-run parsing statistics for logging.
type Stats struct {
	Pairs               int
	Lines               int
	HeaderLines         int
	BlankLines          int
	RejectedDigits      int
	RejectedPunctuation int
	RejectedLength      int
	KeptLines           int
	Resolved            int
	CacheHits           int
	EmptyGlosses        int
}

func (s *Stats) add(o Stats) {
	s.Pairs += o.Pairs
	s.Lines += o.Lines
	s.HeaderLines += o.HeaderLines
	s.BlankLines += o.BlankLines
	s.RejectedDigits += o.RejectedDigits
	s.RejectedPunctuation += o.RejectedPunctuation
	s.RejectedLength += o.RejectedLength
	s.KeptLines += o.KeptLines
	s.Resolved += o.Resolved
	s.CacheHits += o.CacheHits
	s.EmptyGlosses += o.EmptyGlosses
}

func (s *Stats) reject(r Reason) {
	switch r {
	case ReasonDigits:
		s.RejectedDigits++
	case ReasonPunctuation:
		s.RejectedPunctuation++
	case ReasonLength:
		s.RejectedLength++
	}
}

// Options configures an Aggregator.
type Options struct {
	Policy  Policy
	KeyMode KeyMode
	// Workers is the number of pairs parsed concurrently. Values below 2
	// process pairs one at a time.
	Workers int
	Logger  *slog.Logger
}

// Aggregator folds index/data pairs into a LexicalIndex.
// An Aggregator is not safe for concurrent use.
type Aggregator struct {
	policy  Policy
	keyMode KeyMode
	workers int
	parser  *LineParser
	logger  *slog.Logger

	definitions map[DefinitionKey]Definition
	words       map[string]map[DefinitionKey]struct{}
	stats       Stats
}

// NewAggregator validates the options and returns an empty Aggregator.
func NewAggregator(opts Options) (*Aggregator, error) {
	if err := opts.Policy.Validate(); err != nil {
		return nil, wnerrors.New(wnerrors.ErrCodeFilterConflict, err.Error(), err)
	}
	mode, err := ParseKeyMode(string(opts.KeyMode))
	if err != nil {
		return nil, wnerrors.ConfigError(err.Error(), err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		policy:      opts.Policy,
		keyMode:     mode,
		workers:     opts.Workers,
		parser:      NewLineParser(),
		logger:      logger,
		definitions: make(map[DefinitionKey]Definition),
		words:       make(map[string]map[DefinitionKey]struct{}),
	}, nil
}

// shard returns an empty Aggregator sharing a's configuration.
func (a *Aggregator) shard() *Aggregator {
	return &Aggregator{
		policy:      a.policy,
		keyMode:     a.keyMode,
		workers:     1,
		parser:      a.parser,
		logger:      a.logger,
		definitions: make(map[DefinitionKey]Definition),
		words:       make(map[string]map[DefinitionKey]struct{}),
	}
}

// ProcessPairs folds every pair into the aggregator in order. With more than
// one worker, pairs are parsed concurrently into private shards that are then
// merged in pair order, so the result matches a sequential run.
// onDone, if set, is called once per finished pair; calls are serialized.
func (a *Aggregator) ProcessPairs(ctx context.Context, pairs []Pair, onDone func(done int, pair Pair)) error {
	if a.workers < 2 || len(pairs) < 2 {
		for i, pair := range pairs {
			if err := a.ProcessPair(ctx, pair); err != nil {
				return err
			}
			if onDone != nil {
				onDone(i+1, pair)
			}
		}
		return nil
	}

	shards := make([]*Aggregator, len(pairs))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, pair := range pairs {
		g.Go(func() error {
			s := a.shard()
			if err := s.ProcessPair(gctx, pair); err != nil {
				return err
			}
			shards[i] = s
			if onDone != nil {
				mu.Lock()
				done++
				onDone(done, pair)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, s := range shards {
		a.merge(s)
	}
	return nil
}

// merge folds a shard into a. Definitions already present in a win.
func (a *Aggregator) merge(s *Aggregator) {
	for k, d := range s.definitions {
		if _, ok := a.definitions[k]; !ok {
			a.definitions[k] = d
		}
	}
	for w, keys := range s.words {
		set, ok := a.words[w]
		if !ok {
			a.words[w] = keys
			continue
		}
		for k := range keys {
			set[k] = struct{}{}
		}
	}
	a.stats.add(s.stats)
}

// ProcessPair opens a pair's files and folds its index into the aggregator.
// Any failure to open or read either file aborts.
func (a *Aggregator) ProcessPair(ctx context.Context, pair Pair) error {
	indexFile, err := os.Open(pair.IndexPath)
	if err != nil {
		return openError(pair.IndexPath, err)
	}
	defer func() { _ = indexFile.Close() }()

	dataFile, err := os.Open(pair.DataPath)
	if err != nil {
		return openError(pair.DataPath, err)
	}
	defer func() { _ = dataFile.Close() }()

	before := a.stats
	if err := a.ProcessReader(ctx, pair.PartOfSpeech, indexFile, NewResolver(dataFile)); err != nil {
		var we *wnerrors.WNError
		if errors.As(err, &we) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return wnerrors.IOError(fmt.Sprintf("failed to read %s", pair.IndexPath), err).
			WithDetail("index", pair.IndexPath).
			WithDetail("data", pair.DataPath)
	}
	a.stats.Pairs++

	a.logger.Debug("pair parsed",
		slog.String("pos", pair.PartOfSpeech),
		slog.String("index", pair.IndexPath),
		slog.Int("lines", a.stats.Lines-before.Lines),
		slog.Int("kept", a.stats.KeptLines-before.KeptLines),
		slog.Int("resolved", a.stats.Resolved-before.Resolved),
		slog.Int("cache_hits", a.stats.CacheHits-before.CacheHits))

	return nil
}

// ProcessReader folds the lines of an index stream into the aggregator,
// resolving new definition keys through glosses.
func (a *Aggregator) ProcessReader(ctx context.Context, partOfSpeech string, index io.Reader, glosses GlossResolver) error {
	r := bufio.NewReader(index)
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		line, err := r.ReadString('\n')
		if line != "" {
			if perr := a.processLine(partOfSpeech, line, glosses); perr != nil {
				return perr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (a *Aggregator) processLine(partOfSpeech, line string, glosses GlossResolver) error {
	a.stats.Lines++

	if IsHeaderLine(line) {
		a.stats.HeaderLines++
		return nil
	}
	entry, ok := a.parser.Parse(line)
	if !ok {
		a.stats.BlankLines++
		return nil
	}
	if reason := a.policy.Decide(entry.Word); reason != ReasonNone {
		a.stats.reject(reason)
		return nil
	}
	a.stats.KeptLines++

	set, ok := a.words[entry.Word]
	if !ok {
		set = make(map[DefinitionKey]struct{}, len(entry.Offsets))
		a.words[entry.Word] = set
	}

	for _, off := range entry.Offsets {
		key := a.keyMode.Key(partOfSpeech, off)
		set[key] = struct{}{}

		if _, ok := a.definitions[key]; ok {
			a.stats.CacheHits++
			continue
		}
		text, err := glosses.Resolve(off)
		if err != nil {
			return err
		}
		a.definitions[key] = Definition{Text: text, PartOfSpeech: partOfSpeech}
		a.stats.Resolved++
		if text == "" {
			a.stats.EmptyGlosses++
		}
	}
	return nil
}

// Index freezes the current tables into a LexicalIndex.
func (a *Aggregator) Index() *LexicalIndex {
	return newLexicalIndex(a.definitions, a.words)
}

// Stats returns the statistics accumulated so far.
func (a *Aggregator) Stats() Stats {
	return a.stats
}

func openError(path string, err error) error {
	code := wnerrors.ErrCodeReadFailed
	switch {
	case errors.Is(err, os.ErrNotExist):
		code = wnerrors.ErrCodeFileNotFound
	case errors.Is(err, os.ErrPermission):
		code = wnerrors.ErrCodeFilePermission
	}
	return wnerrors.New(code, fmt.Sprintf("failed to open %s", path), err).
		WithDetail("path", path)
}
