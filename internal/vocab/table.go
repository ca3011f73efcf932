package vocab

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"vocabdetect/internal/logger"
)

var (
	// ErrMissingFields is returned by Add when english or korean is empty.
	ErrMissingFields = errors.New("both english and korean are required")
	// ErrClosed is returned by Add after Close.
	ErrClosed = errors.New("translation table is closed")
)

// Store persists one side of the table (Korean or romanization).
type Store interface {
	Load() (map[string]string, error)
	Save(table map[string]string) error
}

// Mapping is a single English entry to add.
type Mapping struct {
	English      string
	Korean       string
	Romanization string // optional
}

// Snapshot is an immutable view of the table. It is never modified after publication.
type Snapshot struct {
	korean map[string]string
	roman  map[string]string
}

// Lookup returns the Korean label and romanization for an English class name.
// Missing Korean falls back to the name itself, missing romanization to "".
func (s *Snapshot) Lookup(name string) (korean, romanization string) {
	korean, ok := s.korean[name]
	if !ok {
		korean = name
	}
	return korean, s.roman[name]
}

// Len returns the number of Korean mappings.
func (s *Snapshot) Len() int {
	return len(s.korean)
}

// RomanizationLen returns the number of romanization mappings.
func (s *Snapshot) RomanizationLen() int {
	return len(s.roman)
}

// Mappings returns a copy of the English to Korean table.
func (s *Snapshot) Mappings() map[string]string {
	return clone(s.korean)
}

type addRequest struct {
	mapping Mapping
	reply   chan error
}

// Table owns the translation maps. Reads go through an atomically published
// snapshot; every mutation is applied and persisted by a single goroutine.
type Table struct {
	korean  Store
	roman   Store
	logger  *logger.Logger
	current atomic.Pointer[Snapshot]

	requests  chan addRequest
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// Open loads both tables and starts the writer goroutine. A missing file is
// replaced by the built-in COCO defaults; it is created on the first Add.
func Open(korean, roman Store, logger *logger.Logger) (*Table, error) {
	koreanMap, err := loadOrDefault(korean, DefaultKorean, "korean", logger)
	if err != nil {
		return nil, err
	}
	romanMap, err := loadOrDefault(roman, DefaultRomanization, "romanization", logger)
	if err != nil {
		return nil, err
	}

	t := &Table{
		korean:   korean,
		roman:    roman,
		logger:   logger,
		requests: make(chan addRequest),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	t.current.Store(&Snapshot{korean: koreanMap, roman: romanMap})

	go t.run()

	logger.Info("Translation table loaded: %d korean, %d romanization mappings", len(koreanMap), len(romanMap))
	return t, nil
}

func loadOrDefault(store Store, defaults func() map[string]string, name string, logger *logger.Logger) (map[string]string, error) {
	table, err := store.Load()
	if err == nil {
		return table, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		logger.Warning("No %s table found, using built-in defaults: %v", name, err)
		return defaults(), nil
	}
	return nil, fmt.Errorf("failed to load %s table: %w", name, err)
}

// Snapshot returns the current immutable view of the table.
func (t *Table) Snapshot() *Snapshot {
	return t.current.Load()
}

// Lookup resolves a class name against the current snapshot.
func (t *Table) Lookup(name string) (korean, romanization string) {
	return t.Snapshot().Lookup(name)
}

// Add inserts or overwrites a mapping and persists the affected tables.
// When ctx is cancelled while waiting for the reply the mapping may still be applied.
func (t *Table) Add(ctx context.Context, m Mapping) error {
	m.English = strings.TrimSpace(m.English)
	m.Korean = strings.TrimSpace(m.Korean)
	m.Romanization = strings.TrimSpace(m.Romanization)
	if m.English == "" || m.Korean == "" {
		return ErrMissingFields
	}

	req := addRequest{mapping: m, reply: make(chan error, 1)}

	select {
	case t.requests <- req:
	case <-t.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the writer goroutine. Lookups keep working on the last snapshot.
func (t *Table) Close() {
	t.closeOnce.Do(func() {
		close(t.done)
		<-t.stopped
	})
}

func (t *Table) run() {
	defer close(t.stopped)

	for {
		select {
		case req := <-t.requests:
			req.reply <- t.apply(req.mapping)
		case <-t.done:
			return
		}
	}
}

// apply runs on the writer goroutine only.
func (t *Table) apply(m Mapping) error {
	cur := t.current.Load()

	korean := clone(cur.korean)
	korean[m.English] = m.Korean
	if err := t.korean.Save(korean); err != nil {
		t.logger.Error("Failed to persist korean mapping %s: %v", m.English, err)
		return fmt.Errorf("failed to save korean table: %w", err)
	}

	next := &Snapshot{korean: korean, roman: cur.roman}
	if m.Romanization != "" {
		roman := clone(cur.roman)
		roman[m.English] = m.Romanization
		if err := t.roman.Save(roman); err != nil {
			// korean side is already on disk, publish it alone
			t.current.Store(next)
			t.logger.Error("Failed to persist romanization mapping %s: %v", m.English, err)
			return fmt.Errorf("failed to save romanization table: %w", err)
		}
		next.roman = roman
	}

	t.current.Store(next)
	t.logger.Info("Added mapping: %s -> %s", m.English, m.Korean)
	return nil
}

func clone(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
