package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"textcleanup/internal/cleanup"
	"textcleanup/internal/config"
	sc "textcleanup/internal/corrector"
	"textcleanup/internal/customdict"
	"textcleanup/internal/dictionary"
	"textcleanup/internal/logging"
	"textcleanup/internal/markup"
	"textcleanup/internal/report"
	"textcleanup/internal/wordsource"
)

const (
	exitOK = iota
	exitIO
	exitConfig
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := config.FromEnv()

	var (
		input, output                         string
		noSpace, noSub, noDel, noIns, verbose bool
	)
	fs := flag.NewFlagSet("textcleanup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&input, "i", "-", "input file, - for stdin")
	fs.StringVar(&output, "o", "-", "output file, - for stdout")
	fs.StringVar(&cfg.DictionaryPath, "dict", cfg.DictionaryPath, "word list: path, file:// or s3:// URI")
	fs.IntVar(&cfg.MaxErrors, "errors", cfg.MaxErrors, "maximum compounded edits per token")
	fs.BoolVar(&noSpace, "no-space", false, "do not split tokens into words")
	fs.BoolVar(&noSub, "no-substitution", false, "do not substitute characters")
	fs.BoolVar(&noDel, "no-deletion", false, "do not delete characters")
	fs.BoolVar(&noIns, "no-insertion", false, "do not insert characters")
	fs.BoolVar(&cfg.AvoidCapitalized, "avoid-capitalized", cfg.AvoidCapitalized, "leave capitalized tokens alone")
	fs.BoolVar(&cfg.XML, "xml", false, "treat input as an HTML/XML fragment")
	fs.StringVar(&cfg.Selector, "selector", "", "only clean text under matching elements (implies -xml)")
	fs.BoolVar(&cfg.ReformatOnly, "reformat-only", false, "pretty-print markup without changing its text")
	fs.StringVar(&cfg.Indent, "indent", cfg.Indent, "indentation per level for -reformat-only")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "tokens corrected concurrently")
	fs.BoolVar(&cfg.Diff, "diff", false, "print a colored diff instead of the cleaned text")
	fs.BoolVar(&verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}
	cfg.AllowSpace = !noSpace
	cfg.Substitution = !noSub
	cfg.Deletion = !noDel
	cfg.Insertion = !noIns

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewTextLogger(stderr, level)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration rejected", "error", err)
		return exitConfig
	}

	text, err := readInput(input, stdin)
	if err != nil {
		logger.Error("read input", "error", err)
		return exitIO
	}

	var out string
	if cfg.ReformatOnly {
		out, err = markup.Reformat(text, cfg.Indent)
	} else {
		out, err = clean(ctx, &cfg, logger, text)
	}
	if err != nil {
		logger.Error("cleanup failed", "error", err)
		return exitIO
	}
	if cfg.Diff {
		out = report.Diff(text, out)
	}

	if err := writeOutput(output, stdout, out); err != nil {
		logger.Error("write output", "error", err)
		return exitIO
	}
	return exitOK
}

func clean(ctx context.Context, cfg *config.Config, logger *logging.Logger, text string) (string, error) {
	dict, err := loadDictionary(ctx, cfg, logger)
	if err != nil {
		return "", err
	}
	corrector := sc.NewSpellCorrector(dict, cfg.CorrectorOptions()...)
	pipeline := cleanup.New(corrector,
		cleanup.WithWorkers(cfg.Workers),
		cleanup.WithMaxTokenLength(cfg.MaxTokenLength),
		cleanup.WithLogger(logger),
	)
	defer func() {
		st := corrector.Stats()
		logger.Debug("corrector stats",
			"checked", st.Checked,
			"corrected", st.Corrected,
			"unchanged", st.Unchanged,
			"failed", st.Failed,
			"candidates", st.Candidates,
		)
	}()

	if !cfg.Markup() {
		return pipeline.Clean(ctx, text)
	}
	var cerr error
	out, err := markup.Clean(text, cfg.Selector, func(s string) string {
		if cerr != nil {
			return s
		}
		cleaned, err := pipeline.Clean(ctx, s)
		if err != nil {
			cerr = err
			return s
		}
		return cleaned
	})
	if err != nil {
		return "", err
	}
	return out, cerr
}

func loadDictionary(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*dictionary.Dictionary, error) {
	start := time.Now()
	dict, err := wordsource.LoadDictionary(ctx, cfg.DictionaryPath, cfg.S3)
	if err != nil {
		logger.LogLoad(ctx, cfg.DictionaryPath, 0, time.Since(start), err)
		return nil, err
	}
	logger.LogLoad(ctx, cfg.DictionaryPath, dict.Len(), time.Since(start), nil)

	if cfg.RedisAddr == "" {
		return dict, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer client.Close()

	extended, err := customdict.New(client).Extend(ctx, dict)
	if err != nil {
		logger.Warn("custom words unavailable", "redis", cfg.RedisAddr, "error", err)
		return dict, nil
	}
	return extended, nil
}

func readInput(name string, stdin io.Reader) (string, error) {
	if name == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(b), nil
}

func writeOutput(name string, stdout io.Writer, text string) error {
	if name == "-" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(name, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
