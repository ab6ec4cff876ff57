package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"idlecraft.ai/internal/sim/world"
)

// Journal appends entries of one type as JSON lines to hourly zstd segments
// named <prefix>-YYYY-MM-DD-HH.jsonl.zst under dir.
type Journal[T any] struct {
	dir    string
	prefix string
	now    func() time.Time

	mu    sync.Mutex
	seg   *segment
	stats JournalStats
}

type JournalStats struct {
	Lines     uint64
	Segments  uint64 // segments opened, including reopened ones
	WriteErrs uint64
}

// segment is one open hourly file.
type segment struct {
	hour string
	f    *os.File
	enc  *zstd.Encoder
	buf  *bufio.Writer
}

func NewJournal[T any](dir, prefix string) *Journal[T] {
	return &Journal[T]{dir: dir, prefix: prefix, now: time.Now}
}

// Append writes one entry. The line is pushed through the encoder before
// returning so a crash loses at most the frame trailer.
func (j *Journal[T]) Append(v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.appendLocked(b); err != nil {
		j.stats.WriteErrs++
		return err
	}
	j.stats.Lines++
	return nil
}

func (j *Journal[T]) appendLocked(line []byte) error {
	hour := j.now().UTC().Format("2006-01-02-15")
	if j.seg == nil || j.seg.hour != hour {
		if err := j.closeLocked(); err != nil {
			return err
		}
		seg, err := openSegment(j.Path(hour), hour)
		if err != nil {
			return err
		}
		j.seg = seg
		j.stats.Segments++
	}
	if _, err := j.seg.buf.Write(line); err != nil {
		return err
	}
	if err := j.seg.buf.Flush(); err != nil {
		return err
	}
	return j.seg.enc.Flush()
}

// Path is the segment file for an hour key like 2024-05-01-10.
func (j *Journal[T]) Path(hour string) string {
	return filepath.Join(j.dir, fmt.Sprintf("%s-%s.jsonl.zst", j.prefix, hour))
}

func (j *Journal[T]) Stats() JournalStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stats
}

func (j *Journal[T]) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}

func (j *Journal[T]) closeLocked() error {
	if j.seg == nil {
		return nil
	}
	err := j.seg.close()
	j.seg = nil
	return err
}

func openSegment(path, hour string) (*segment, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// Appending to an existing hour adds a new zstd frame; readers see one stream.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &segment{hour: hour, f: f, enc: enc, buf: bufio.NewWriterSize(enc, 64*1024)}, nil
}

func (s *segment) close() error {
	flushErr := s.buf.Flush()
	encErr := s.enc.Close()
	fileErr := s.f.Close()
	for _, err := range []error{flushErr, encErr, fileErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// TickLogger is the world's tick journal under <world>/events.
type TickLogger struct {
	*Journal[world.TickLogEntry]
}

func NewTickLogger(worldDir string) *TickLogger {
	return &TickLogger{NewJournal[world.TickLogEntry](filepath.Join(worldDir, "events"), "events")}
}

func (l *TickLogger) WriteTick(e world.TickLogEntry) error { return l.Append(e) }

// AuditLogger is the world's audit journal under <world>/audit.
type AuditLogger struct {
	*Journal[world.AuditEntry]
}

func NewAuditLogger(worldDir string) *AuditLogger {
	return &AuditLogger{NewJournal[world.AuditEntry](filepath.Join(worldDir, "audit"), "audit")}
}

func (l *AuditLogger) WriteAudit(e world.AuditEntry) error { return l.Append(e) }
