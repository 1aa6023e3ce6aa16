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

	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/world"
)

const segmentLayout = "2006-01-02-15"

// segmentWriter appends JSON lines to <dir>/<prefix>-<hour>.jsonl.zst, opening
// a new segment whenever the UTC hour changes. Reopening an existing hour
// appends a fresh zstd frame, which readers decode as one stream.
type segmentWriter struct {
	dir    string
	prefix string
	now    func() time.Time

	mu    sync.Mutex
	hour  string
	file  *os.File
	zw    *zstd.Encoder
	bw    *bufio.Writer
	lines int64
}

func newSegmentWriter(dir, prefix string) *segmentWriter {
	return &segmentWriter{dir: dir, prefix: prefix, now: time.Now}
}

func (s *segmentWriter) segmentPath(hour string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-%s.jsonl.zst", s.prefix, hour))
}

func (s *segmentWriter) append(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", s.prefix, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if hour := s.now().UTC().Format(segmentLayout); hour != s.hour {
		if err := s.open(hour); err != nil {
			return err
		}
	}
	line = append(line, '\n')
	if _, err := s.bw.Write(line); err != nil {
		return fmt.Errorf("%s: write: %w", s.prefix, err)
	}
	if err := s.bw.Flush(); err != nil {
		return fmt.Errorf("%s: flush: %w", s.prefix, err)
	}
	s.lines++
	return nil
}

func (s *segmentWriter) open(hour string) error {
	if err := s.closeSegment(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%s: mkdir: %w", s.prefix, err)
	}
	f, err := os.OpenFile(s.segmentPath(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%s: open segment: %w", s.prefix, err)
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: zstd: %w", s.prefix, err)
	}
	s.file, s.zw, s.hour = f, zw, hour
	s.bw = bufio.NewWriterSize(zw, 64*1024)
	return nil
}

// closeSegment finishes the current zstd frame. The hour is cleared so the
// next append reopens a segment.
func (s *segmentWriter) closeSegment() error {
	if s.file == nil {
		return nil
	}
	var err error
	if ferr := s.bw.Flush(); ferr != nil {
		err = ferr
	}
	if zerr := s.zw.Close(); zerr != nil && err == nil {
		err = zerr
	}
	if cerr := s.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	s.file, s.zw, s.bw, s.hour = nil, nil, nil, ""
	if err != nil {
		return fmt.Errorf("%s: close segment: %w", s.prefix, err)
	}
	return nil
}

func (s *segmentWriter) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeSegment()
}

func (s *segmentWriter) written() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

// GrowthEventLogger records every growth notification under <world>/events.
type GrowthEventLogger struct{ seg *segmentWriter }

func NewGrowthEventLogger(worldDir string) *GrowthEventLogger {
	return &GrowthEventLogger{seg: newSegmentWriter(filepath.Join(worldDir, "events"), "events")}
}

func (l *GrowthEventLogger) WriteGrowthEvent(ev growth.Notification) error { return l.seg.append(ev) }

// Written counts events appended since the logger was created.
func (l *GrowthEventLogger) Written() int64 { return l.seg.written() }

func (l *GrowthEventLogger) Close() error { return l.seg.close() }

// AuditLogger records block changes under <world>/audit.
type AuditLogger struct{ seg *segmentWriter }

func NewAuditLogger(worldDir string) *AuditLogger {
	return &AuditLogger{seg: newSegmentWriter(filepath.Join(worldDir, "audit"), "audit")}
}

func (l *AuditLogger) WriteAudit(e world.AuditEntry) error { return l.seg.append(e) }

func (l *AuditLogger) Written() int64 { return l.seg.written() }

func (l *AuditLogger) Close() error { return l.seg.close() }
