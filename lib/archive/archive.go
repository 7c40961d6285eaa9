// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/singleflight"
)

// Reason classifies a failed read.
type Reason string

const (
	// ReasonMissing means the archive file does not exist.
	ReasonMissing Reason = "missing"

	// ReasonUnreadable means the file exists but could not be read or
	// decompressed.
	ReasonUnreadable Reason = "unreadable"

	// ReasonMalformed means the decompressed content is not an archive
	// document.
	ReasonMalformed Reason = "malformed"

	// ReasonArticleAbsent means the archive has no article with the
	// requested id.
	ReasonArticleAbsent Reason = "article-absent"
)

// Result is the outcome of reading one article. Exactly one of the
// success fields (Title with Body or Paragraphs) or the failure fields
// (Reason, Err) is meaningful, as reported by OK.
type Result struct {
	Path      string
	ArticleID string

	// Title is the article title, empty when the archive has none.
	Title string

	// Body is the paragraphs joined by single spaces. Empty in
	// paragraph mode.
	Body string

	// Paragraphs is the body paragraph by paragraph. Set only in
	// paragraph mode.
	Paragraphs []string

	// Reason is empty on success.
	Reason Reason

	// Err is the underlying error for a failed read.
	Err error
}

// OK reports whether the article was read.
func (r Result) OK() bool {
	return r.Reason == ""
}

// Options configures a [Reader].
type Options struct {
	// Paragraphs selects paragraph mode: results carry Paragraphs
	// instead of a joined Body.
	Paragraphs bool

	// CacheSize is the number of decoded archives kept in memory.
	// Zero means DefaultCacheSize; negative disables caching.
	CacheSize int

	// Logger receives read failures. If nil, a no-op logger is used.
	Logger *slog.Logger
}

// DefaultCacheSize is the number of decoded archives a Reader keeps
// when Options.CacheSize is zero.
const DefaultCacheSize = 8

// Reader reads articles from archives. It is safe for concurrent use.
type Reader struct {
	paragraphs bool
	cacheSize  int
	logger     *slog.Logger

	group singleflight.Group

	mutex sync.Mutex
	// cache maps archive path to its decoded articles. order holds
	// the same keys in insertion order for FIFO eviction.
	cache map[string]map[string]document
	order []string
}

// NewReader returns a Reader configured by options.
func NewReader(options Options) *Reader {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cacheSize := options.CacheSize
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}
	return &Reader{
		paragraphs: options.Paragraphs,
		cacheSize:  cacheSize,
		logger:     logger,
		cache:      make(map[string]map[string]document),
	}
}

// document is one article entry. Fields absent from the JSON decode
// to their zero values.
type document struct {
	Title string   `json:"title"`
	Body  []string `json:"body"`
}

type archiveFile struct {
	Articles map[string]document `json:"articles"`
}

// readError carries a Reason through singleflight.
type readError struct {
	reason Reason
	err    error
}

func (e *readError) Error() string { return fmt.Sprintf("%s: %v", e.reason, e.err) }
func (e *readError) Unwrap() error { return e.err }

// Read returns the article with articleID from the archive at path.
func (r *Reader) Read(path, articleID string) Result {
	result := Result{Path: path, ArticleID: articleID}

	articles, err := r.articles(path)
	if err != nil {
		var failure *readError
		if errors.As(err, &failure) {
			result.Reason = failure.reason
			result.Err = failure.err
		} else {
			result.Reason = ReasonUnreadable
			result.Err = err
		}
		r.logFailure(result)
		return result
	}

	article, ok := articles[articleID]
	if !ok {
		result.Reason = ReasonArticleAbsent
		result.Err = fmt.Errorf("article %q not in archive", articleID)
		r.logFailure(result)
		return result
	}

	result.Title = article.Title
	if r.paragraphs {
		result.Paragraphs = append([]string(nil), article.Body...)
	} else {
		result.Body = strings.Join(article.Body, " ")
	}
	return result
}

func (r *Reader) logFailure(result Result) {
	r.logger.Warn("reading article failed",
		"path", result.Path,
		"article_id", result.ArticleID,
		"reason", string(result.Reason),
		"error", result.Err,
	)
}

// articles returns the decoded article map for path, from the cache
// when possible.
func (r *Reader) articles(path string) (map[string]document, error) {
	if r.cacheSize > 0 {
		r.mutex.Lock()
		articles, ok := r.cache[path]
		r.mutex.Unlock()
		if ok {
			return articles, nil
		}
	}

	value, err, _ := r.group.Do(path, func() (any, error) {
		articles, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		r.store(path, articles)
		return articles, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(map[string]document), nil
}

func (r *Reader) store(path string, articles map[string]document) {
	if r.cacheSize <= 0 {
		return
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, exists := r.cache[path]; exists {
		return
	}
	for len(r.order) >= r.cacheSize {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.cache, oldest)
	}
	r.cache[path] = articles
	r.order = append(r.order, path)
}

func decodeFile(path string) (map[string]document, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &readError{reason: ReasonMissing, err: err}
		}
		return nil, &readError{reason: ReasonUnreadable, err: err}
	}
	defer file.Close()

	content, err := decompress(bufio.NewReader(file))
	if err != nil {
		return nil, &readError{reason: ReasonUnreadable, err: err}
	}

	var archive archiveFile
	if err := json.Unmarshal(content, &archive); err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		if errors.As(err, &syntaxError) || errors.As(err, &typeError) {
			return nil, &readError{reason: ReasonMalformed, err: err}
		}
		return nil, &readError{reason: ReasonUnreadable, err: err}
	}
	if archive.Articles == nil {
		return nil, &readError{reason: ReasonMalformed, err: errors.New(`no "articles" mapping`)}
	}
	return archive.Articles, nil
}

// Compression identifies an archive's container format.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionLZ4
)

// String returns the lower-case name of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Detect identifies the compression from the leading bytes of a file.
func Detect(header []byte) Compression {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(header, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(header, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

func decompress(input *bufio.Reader) ([]byte, error) {
	// Peek returns what it can with io.EOF for short files; those are
	// handled as plain content.
	header, err := input.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	switch compression := Detect(header); compression {
	case CompressionGzip:
		reader, err := gzip.NewReader(input)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer reader.Close()
		return readAll(reader, compression)

	case CompressionZstd:
		decoder, err := zstd.NewReader(input)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer decoder.Close()
		return readAll(decoder, compression)

	case CompressionLZ4:
		return readAll(lz4.NewReader(input), compression)

	default:
		return io.ReadAll(input)
	}
}

func readAll(reader io.Reader, compression Compression) ([]byte, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", compression, err)
	}
	return data, nil
}
