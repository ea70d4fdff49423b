package logging

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RotationConfig controls size-based log rotation.
type RotationConfig struct {
	// MaxSizeMB is the file size in megabytes at which the log is rotated.
	// Zero disables rotation entirely.
	MaxSizeMB int
	// MaxBackups is how many rotated files to keep. Zero or less still
	// keeps the single most recent backup (.1).
	MaxBackups int
	// Compress gzip-compresses rotated files.
	Compress bool
}

// DefaultRotationConfig returns the rotation settings used when the
// operator configures none: 10MB per file, three backups, no compression.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSizeMB:  10,
		MaxBackups: 3,
		Compress:   false,
	}
}

// RotatingWriter is an io.Writer over a log file that renames the file
// aside and starts a fresh one once it grows past a size threshold.
// Backups are numbered <path>.1 (newest) through <path>.N (oldest),
// with a .gz suffix when compression is on. Safe for concurrent use.
type RotatingWriter struct {
	mu sync.Mutex

	filePath   string
	maxSizeB   int64
	maxBackups int
	compress   bool

	file        *os.File
	currentSize int64
}

// NewRotatingWriter opens (creating if needed) the log file at filePath
// and returns a writer that rotates it per config.
func NewRotatingWriter(filePath string, config RotationConfig) (*RotatingWriter, error) {
	rw := &RotatingWriter{
		filePath:   filePath,
		maxSizeB:   int64(config.MaxSizeMB) * 1024 * 1024,
		maxBackups: config.MaxBackups,
		compress:   config.Compress,
	}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

// open opens the log file in append mode and records its size so the
// rotation check accounts for pre-existing content. Caller holds mu.
func (rw *RotatingWriter) open() error {
	if err := os.MkdirAll(filepath.Dir(rw.filePath), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(rw.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	rw.file = file
	rw.currentSize = info.Size()
	return nil
}

// Write appends p to the log file, rotating first if the write would push
// the file past the size threshold. A failed rotation is reported on
// stderr and the write proceeds against the oversized file; losing the
// size bound beats losing log lines.
func (rw *RotatingWriter) Write(p []byte) (n int, err error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return 0, fmt.Errorf("log file is closed")
	}

	if rw.maxSizeB > 0 && rw.currentSize+int64(len(p)) > rw.maxSizeB {
		if err := rw.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "planrunner: log rotation failed: %v\n", err)
		}
	}

	n, err = rw.file.Write(p)
	rw.currentSize += int64(n)
	return n, err
}

// rotate closes the current file, shifts the backup chain, moves the
// closed file to the .1 slot, and opens a fresh log file. Caller holds mu.
func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Sync(); err != nil {
		return fmt.Errorf("sync before rotate: %w", err)
	}
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("close before rotate: %w", err)
	}
	rw.file = nil

	rw.shiftBackups()

	newest := rw.backupName(1)
	if err := os.Rename(rw.filePath, newest); err != nil {
		// Keep logging into the original file rather than dropping output.
		if openErr := rw.open(); openErr != nil {
			return fmt.Errorf("rename log file, then reopen: %w", openErr)
		}
		return fmt.Errorf("rename log file: %w", err)
	}

	if rw.compress {
		go compressBackup(newest)
	}

	return rw.open()
}

// shiftBackups ages every backup one slot (.1 -> .2, ...), dropping
// whichever falls off the end of the chain. Each backup may exist in
// compressed or plain form depending on when the config changed, so both
// names are tried. Caller holds mu.
func (rw *RotatingWriter) shiftBackups() {
	if rw.maxBackups <= 0 {
		os.Remove(rw.backupName(1))
		os.Remove(rw.backupName(1) + ".gz")
		return
	}

	os.Remove(rw.backupName(rw.maxBackups))
	os.Remove(rw.backupName(rw.maxBackups) + ".gz")

	for i := rw.maxBackups - 1; i >= 1; i-- {
		from, to := rw.backupName(i), rw.backupName(i+1)
		if _, err := os.Stat(from + ".gz"); err == nil {
			os.Rename(from+".gz", to+".gz")
		} else if _, err := os.Stat(from); err == nil {
			os.Rename(from, to)
		}
	}
}

// backupName returns the path of the n-th backup slot.
func (rw *RotatingWriter) backupName(n int) string {
	return fmt.Sprintf("%s.%d", rw.filePath, n)
}

// compressBackup gzips path and removes the original. Runs on its own
// goroutine after a rotation; on any failure the plain backup is left in
// place and a warning goes to stderr.
func compressBackup(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "planrunner: read backup %s for compression: %v\n", path, err)
		return
	}

	gzPath := path + ".gz"
	gzFile, err := os.Create(gzPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "planrunner: create %s: %v\n", gzPath, err)
		return
	}
	defer gzFile.Close()

	zw := gzip.NewWriter(gzFile)
	if _, err := zw.Write(data); err != nil {
		os.Remove(gzPath)
		fmt.Fprintf(os.Stderr, "planrunner: compress %s: %v\n", gzPath, err)
		return
	}
	if err := zw.Close(); err != nil {
		os.Remove(gzPath)
		fmt.Fprintf(os.Stderr, "planrunner: finalize %s: %v\n", gzPath, err)
		return
	}

	os.Remove(path)
}

// Sync flushes the underlying file. A no-op once closed.
func (rw *RotatingWriter) Sync() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}
	return rw.file.Sync()
}

// Close syncs and closes the underlying file. Subsequent writes fail.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}

	if err := rw.file.Sync(); err != nil {
		return fmt.Errorf("sync log file: %w", err)
	}
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	rw.file = nil
	return nil
}

// CurrentSize reports the log file's size in bytes.
func (rw *RotatingWriter) CurrentSize() int64 {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.currentSize
}

// FilePath reports the path the writer was opened with.
func (rw *RotatingWriter) FilePath() string {
	return rw.filePath
}
