// Package wordsource opens word lists from local files or S3-compatible
// object storage.
//
// Local files are memory-mapped. Lists ending in .zst, .gz or .lz4 are
// decompressed transparently, whatever their origin.
package wordsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pierrec/lz4/v4"

	"textcleanup/internal/dictionary"
)

// ErrUnsupportedScheme is returned for URIs that are neither local paths,
// file:// nor s3:// locations.
var ErrUnsupportedScheme = errors.New("unsupported word source scheme")

// Config holds the object storage settings used for s3:// sources.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

// SourceError reports a word source that could not be opened or read.
//
// The underlying error can be accessed via errors.Unwrap.
type SourceError struct {
	URI   string
	cause error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("word source %s: %v", e.URI, e.cause)
}

func (e *SourceError) Unwrap() error { return e.cause }

// Open returns a reader over the newline-delimited words stored at uri.
func Open(ctx context.Context, uri string, cfg Config) (io.ReadCloser, error) {
	scheme, rest := splitScheme(uri)
	var (
		rc   io.ReadCloser
		name string
		err  error
	)
	switch scheme {
	case "", "file":
		name = rest
		rc, err = openFile(rest)
	case "s3":
		name = rest
		rc, err = openObject(ctx, rest, cfg)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	if err != nil {
		return nil, &SourceError{URI: uri, cause: err}
	}
	out, err := decompress(name, rc)
	if err != nil {
		rc.Close()
		return nil, &SourceError{URI: uri, cause: err}
	}
	return out, nil
}

// LoadDictionary opens uri and builds a dictionary from its words.
func LoadDictionary(ctx context.Context, uri string, cfg Config) (*dictionary.Dictionary, error) {
	rc, err := Open(ctx, uri, cfg)
	if err != nil {
		return nil, dictionary.NewLoadError(uri, err)
	}
	defer rc.Close()
	d, err := dictionary.Load(rc)
	if err != nil {
		return nil, dictionary.NewLoadError(uri, errors.Unwrap(err))
	}
	return d, nil
}

func splitScheme(uri string) (string, string) {
	if i := strings.Index(uri, "://"); i > 0 {
		return strings.ToLower(uri[:i]), uri[i+3:]
	}
	return "", uri
}

// mappedFile serves reads from a read-only memory mapping.
type mappedFile struct {
	*bytes.Reader
	m mmap.MMap
	f *os.File
}

func (m *mappedFile) Close() error {
	err := m.m.Unmap()
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func openFile(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	// Zero-length files cannot be mapped.
	if info.Size() == 0 {
		return f, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return &mappedFile{Reader: bytes.NewReader(m), m: m, f: f}, nil
}

func openObject(ctx context.Context, location string, cfg Config) (io.ReadCloser, error) {
	bucket, key, ok := strings.Cut(location, "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("object location %q must be bucket/key", location)
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("no object storage endpoint configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, err
	}
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces a missing key before the first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// readCloser closes a decompressor together with its source.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c(); err == nil {
			err = cerr
		}
	}
	return err
}

func decompress(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	switch path.Ext(name) {
	case ".zst":
		dec, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &readCloser{Reader: dec, closers: []func() error{
			func() error { dec.Close(); return nil },
			rc.Close,
		}}, nil
	case ".gz":
		zr, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &readCloser{Reader: zr, closers: []func() error{zr.Close, rc.Close}}, nil
	case ".lz4":
		return &readCloser{Reader: lz4.NewReader(rc), closers: []func() error{rc.Close}}, nil
	default:
		return rc, nil
	}
}
