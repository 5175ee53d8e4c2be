package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/ppiankov/casefile/internal/evidence"
)

// PrepareJob reads and checks one evidence file
type PrepareJob struct {
	Index    int
	Path     string
	MIME     string // Declared type; detected from the extension when empty
	readFile func(string) ([]byte, error)
}

// Execute executes the preparation job
func (j *PrepareJob) Execute(ctx context.Context) Result {
	out := &PreparedFile{
		Index:    j.Index,
		Path:     j.Path,
		Filename: filepath.Base(j.Path),
		MIME:     j.MIME,
	}
	if err := ctx.Err(); err != nil {
		out.Error = err
		return out
	}

	content, err := j.readFile(j.Path)
	if err != nil {
		out.Error = fmt.Errorf("read %s: %w", j.Path, err)
		return out
	}
	if out.MIME == "" {
		out.MIME = DetectMIME(out.Filename)
	}

	out.Content = content
	out.Validation = evidence.Validate(out.Filename, out.MIME, content)
	return out
}

// PreparedFile is a read and validated evidence file ready to index.
// Error is an I/O failure; validation rejections are in Validation.
type PreparedFile struct {
	Index      int
	Path       string
	Filename   string
	MIME       string
	Content    []byte
	Validation evidence.ValidationResult
	Error      error
}

// GetError returns the read error, if any
func (r *PreparedFile) GetError() error {
	return r.Error
}

// ErrNotPrepared marks a file the batch stopped before reaching
var ErrNotPrepared = errors.New("file not prepared")

// BatchPreparer reads and validates evidence files concurrently
type BatchPreparer struct {
	concurrency int
	progress    func(done, total int)
	readFile    func(string) ([]byte, error)
}

// NewBatchPreparer creates a new batch preparer
func NewBatchPreparer(concurrency int) *BatchPreparer {
	return &BatchPreparer{
		concurrency: concurrency,
		readFile:    readLimited,
	}
}

// OnProgress registers a callback invoked after each file. It may be
// called from several goroutines.
func (b *BatchPreparer) OnProgress(fn func(done, total int)) {
	b.progress = fn
}

// Prepare processes the paths and returns results in input order
func (b *BatchPreparer) Prepare(ctx context.Context, paths []string, declaredMIME string) []*PreparedFile {
	if len(paths) == 0 {
		return []*PreparedFile{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	var done int32
	total := len(paths)
	for i, path := range paths {
		job := &progressJob{
			Job: &PrepareJob{Index: i, Path: path, MIME: declaredMIME, readFile: b.readFile},
			after: func() {
				if b.progress != nil {
					b.progress(int(atomic.AddInt32(&done, 1)), total)
				}
			},
		}
		if !pool.Submit(job) {
			break
		}
	}

	prepared := make([]*PreparedFile, total)
	for _, r := range pool.Wait() {
		f := r.(*PreparedFile)
		prepared[f.Index] = f
	}

	// Every path gets a result, even when cancellation left its job unrun
	for i, f := range prepared {
		if f != nil {
			continue
		}
		cause := ErrNotPrepared
		if err := ctx.Err(); err != nil {
			cause = fmt.Errorf("%w: %w", ErrNotPrepared, err)
		}
		prepared[i] = &PreparedFile{
			Index:    i,
			Path:     paths[i],
			Filename: filepath.Base(paths[i]),
			Error:    cause,
		}
	}
	return prepared
}

type progressJob struct {
	Job
	after func()
}

func (j *progressJob) Execute(ctx context.Context) Result {
	r := j.Job.Execute(ctx)
	j.after()
	return r
}

// DetectMIME guesses a MIME type from the file extension
func DetectMIME(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".eml" {
		return "message/rfc822"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// readLimited reads at most one byte past the evidence size limit so
// oversize files are rejected without loading them whole
func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(io.LimitReader(f, evidence.MaxFileSize+1))
}

// ReadPathsFromFile reads evidence paths from a file (one per line).
// Relative paths resolve against the list file's directory.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
