// Package cleanup corrects every token of a text and reassembles it.
//
// Separator text (whitespace, punctuation, quotes) is copied through
// untouched, so a text that needs no correction comes back byte for byte.
package cleanup

import (
	"context"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"textcleanup/internal/corrector"
	"textcleanup/internal/logging"
	"textcleanup/internal/tokenizer"
)

// Rejoin undoes line rewrapping that left a space after a hyphen, so
// "mini- mize" becomes "mini-mize" and can be unhyphenated.
func Rejoin(text string) string {
	return strings.ReplaceAll(text, "- ", "-")
}

// Clean returns text with every token replaced by its correction.
func Clean(sc *corrector.SpellCorrector, text string) string {
	return tokenizer.Replace(Rejoin(text), func(t tokenizer.Token) string {
		return sc.Correct(t.Text).Text
	})
}

// Progress counts corrected tokens for an observer. Its methods are safe
// to call while a pipeline is running.
type Progress struct {
	done  atomic.Int64
	total atomic.Int64
}

// Done returns the number of tokens corrected so far.
func (p *Progress) Done() int64 { return p.done.Load() }

// Total returns the number of tokens seen so far.
func (p *Progress) Total() int64 { return p.total.Load() }

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers corrects up to n tokens concurrently. n <= 1 runs serially.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithProgress reports token counts to prog.
func WithProgress(prog *Progress) Option {
	return func(p *Pipeline) { p.progress = prog }
}

// DefaultCacheSize is the number of distinct token corrections a
// Pipeline remembers.
const DefaultCacheSize = 4096

// WithCacheSize bounds the correction cache to n entries, evicting the least
// recently used. n <= 0 disables caching.
func WithCacheSize(n int) Option {
	return func(p *Pipeline) { p.cacheSize = n }
}

// WithMaxTokenLength keeps tokens longer than n runes verbatim instead of
// searching for a correction. n <= 0 means no limit.
func WithMaxTokenLength(n int) Option {
	return func(p *Pipeline) { p.maxTokenLen = n }
}

// WithLogger sets the logger used for per-pass summaries.
func WithLogger(l *logging.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// Pipeline cleans texts with a shared corrector. Corrections of repeated
// tokens are kept in a bounded LRU cache.
type Pipeline struct {
	sc          *corrector.SpellCorrector
	workers     int
	cacheSize   int
	maxTokenLen int
	progress    *Progress
	logger      *logging.Logger
	cache       *lruCache // nil when caching is disabled
}

// New returns a pipeline around sc.
func New(sc *corrector.SpellCorrector, opts ...Option) *Pipeline {
	p := &Pipeline{sc: sc, workers: 1, cacheSize: DefaultCacheSize}
	for _, o := range opts {
		o(p)
	}
	if p.cacheSize > 0 {
		p.cache = newLRUCache(p.cacheSize)
	}
	if p.progress == nil {
		p.progress = &Progress{}
	}
	if p.logger == nil {
		p.logger = logging.NoopLogger()
	}
	return p
}

// Progress returns the pipeline's progress counter.
func (p *Pipeline) Progress() *Progress { return p.progress }

// Clean corrects text. Output token order always matches input order, no
// matter how many workers run. It returns ctx.Err() if ctx is cancelled
// before every token is corrected.
func (p *Pipeline) Clean(ctx context.Context, text string) (string, error) {
	start := time.Now()
	text = Rejoin(text)
	tokens := tokenizer.Tokens(text)
	p.progress.total.Add(int64(len(tokens)))

	repl := make([]string, len(tokens))
	var err error
	if p.workers <= 1 {
		for i, t := range tokens {
			if err = ctx.Err(); err != nil {
				break
			}
			repl[i] = p.correct(t.Text)
		}
	} else {
		err = p.fanOut(ctx, tokens, repl)
	}
	if err != nil {
		p.logger.LogCleanup(ctx, len(tokens), 0, time.Since(start), err)
		return "", err
	}

	changed := 0
	for i, t := range tokens {
		if repl[i] != t.Text {
			changed++
		}
	}
	p.logger.LogCleanup(ctx, len(tokens), changed, time.Since(start), nil)
	return tokenizer.Assemble(text, tokens, repl), nil
}

func (p *Pipeline) fanOut(ctx context.Context, tokens []tokenizer.Token, repl []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, t := range tokens {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			repl[i] = p.correct(t.Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (p *Pipeline) correct(token string) string {
	defer p.progress.done.Add(1)
	if p.maxTokenLen > 0 && utf8.RuneCountInString(token) > p.maxTokenLen {
		return token
	}
	if p.cache == nil {
		return p.sc.Correct(token).Text
	}
	if v, ok := p.cache.Get(token); ok {
		return v
	}
	out := p.sc.Correct(token).Text
	p.cache.Set(token, out)
	return out
}
