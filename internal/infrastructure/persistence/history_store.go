package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"amazon_offers/internal/domain"
	"amazon_offers/internal/domain/entity"
	"amazon_offers/pkg/errcodes"
	"amazon_offers/pkg/logx"
)

// HistoryStore keeps the last-known state per ASIN in memory and persists it
// as one JSON document. A missing file means an empty history; a corrupt file
// is recovered as empty (every product re-classifies as new on the next
// cycle), which is logged loudly but never fatal.
type HistoryStore struct {
	path string

	mu      sync.RWMutex
	entries map[string]entity.HistoryEntry
}

func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{
		path:    path,
		entries: make(map[string]entity.HistoryEntry),
	}
}

func (s *HistoryStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entity.HistoryEntry)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger(ctx).Info("no history file yet, starting empty", slog.String("path", s.path))
			return nil
		}

		logger(ctx).Error(
			"history file unreadable, starting empty",
			slog.String("path", s.path),
			logx.Error(domain.WrapError(err, errcodes.HistoryCorrupted, "read history")),
		)

		return nil
	}

	var entries map[string]entity.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger(ctx).Error(
			"history file corrupt, starting empty",
			slog.String("path", s.path),
			logx.Error(domain.WrapError(err, errcodes.HistoryCorrupted, "decode history")),
		)

		return nil
	}

	if entries == nil {
		entries = make(map[string]entity.HistoryEntry)
	}

	s.entries = entries

	logger(ctx).Info("history loaded", slog.String("path", s.path), slog.Int("products", len(entries)))

	return nil
}

func (s *HistoryStore) Save(ctx context.Context) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "    ")
	s.mu.RUnlock()

	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("writeFileAtomic: %w", err)
	}

	logger(ctx).Debug("history saved", slog.String("path", s.path), slog.Int("products", s.Len()))

	return nil
}

func (s *HistoryStore) Get(asin string) (entity.HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[asin]
	return entry, ok
}

func (s *HistoryStore) Set(asin string, entry entity.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[asin] = entry
}

func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
