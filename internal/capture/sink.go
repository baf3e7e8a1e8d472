package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Sink is the persistence abstraction for recorded clips and exported JSON
// documents. Implementations can be directory-backed or in-memory.
// The Recorder and Exporter use a Sink for all writes; callers do not need
// to know which Sink is behind them.
type Sink interface {
	WriteClip(name string, data []byte) error
	WriteJSON(name string, data []byte) error
}

// ErrEmptyName is returned when an artifact name reduces to nothing after
// sanitization.
var ErrEmptyName = errors.New("empty artifact name")

// FileSink writes artifacts into a single output directory. Artifact names
// are reduced to their base name so callers cannot escape the directory.
type FileSink struct {
	dir string
}

// NewFileSink creates the output directory if needed and returns a sink
// writing into it.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &FileSink{dir: dir}, nil
}

// Dir returns the output directory.
func (s *FileSink) Dir() string {
	return s.dir
}

// WriteClip implements Sink.WriteClip.
func (s *FileSink) WriteClip(name string, data []byte) error {
	return s.write(name, data)
}

// WriteJSON implements Sink.WriteJSON.
func (s *FileSink) WriteJSON(name string, data []byte) error {
	return s.write(name, data)
}

func (s *FileSink) write(name string, data []byte) error {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) || base == "" {
		return ErrEmptyName
	}
	path := filepath.Join(s.dir, base)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// MemorySink is an in-memory Sink. Useful for tests and dry runs; safe for
// concurrent use because clip finalization happens off the frame loop.
type MemorySink struct {
	mu    sync.Mutex
	clips map[string][]byte
	docs  map[string][]byte
}

// NewMemorySink returns a new empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		clips: make(map[string][]byte),
		docs:  make(map[string][]byte),
	}
}

// WriteClip implements Sink.WriteClip.
func (s *MemorySink) WriteClip(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clips[name] = data
	return nil
}

// WriteJSON implements Sink.WriteJSON.
func (s *MemorySink) WriteJSON(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = data
	return nil
}

// Clip returns the stored clip bytes for name.
func (s *MemorySink) Clip(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.clips[name]
	return data, ok
}

// Doc returns the stored JSON document for name.
func (s *MemorySink) Doc(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[name]
	return data, ok
}

// ClipNames returns the stored clip names, sorted.
func (s *MemorySink) ClipNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.clips))
	for name := range s.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DocNames returns the stored document names, sorted.
func (s *MemorySink) DocNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
