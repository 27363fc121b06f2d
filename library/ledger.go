package library

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// RecordSink receives every transaction appended to a Library.
type RecordSink interface {
	Append(rec LibraryRecord) error
}

// Library is the lending ledger: it owns the catalog with its canonical
// counters and the append-only transaction log.
type Library struct {
	Name    string
	Address string

	mu      sync.Mutex
	books   []*Book
	records []LibraryRecord

	sink   RecordSink
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Library.
type Option func(*Library)

// WithRecordSink mirrors each appended record to s.
func WithRecordSink(s RecordSink) Option { return func(l *Library) { l.sink = s } }

func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source used for issuance timestamps.
func WithClock(now func() time.Time) Option { return func(l *Library) { l.now = now } }

func NewLibrary(name, address string, opts ...Option) *Library {
	l := &Library{
		Name:    name,
		Address: address,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddBook appends b to the catalog. Entries equal to an existing one are
// kept as separate entries.
func (l *Library) AddBook(b *Book) {
	l.mu.Lock()
	l.books = append(l.books, b)
	l.mu.Unlock()
	l.logger.Info("book added", "title", b.Title, "author", b.Author, "year", b.Year, "count", b.AvailableCount)
}

// RemoveBook drops the first catalog entry equal to b. Readers holding
// the book keep their copies.
func (l *Library) RemoveBook(b *Book) error {
	l.mu.Lock()
	idx := -1
	for i, cur := range l.books {
		if cur.Equal(b) {
			idx = i
			break
		}
	}
	if idx >= 0 {
		l.books = append(l.books[:idx], l.books[idx+1:]...)
	}
	l.mu.Unlock()

	if idx < 0 {
		l.logger.Warn("book not removed", "title", b.Title, "reason", ErrBookNotFound)
		return fmt.Errorf("%q: %w", b.Title, ErrBookNotFound)
	}
	l.logger.Info("book removed", "title", b.Title)
	return nil
}

// ListBooks returns the catalog in insertion order. An empty catalog
// yields an empty slice.
func (l *Library) ListBooks() []*Book {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Book, len(l.books))
	copy(out, l.books)
	return out
}

// FindByTitle returns the first catalog entry with exactly this title.
func (l *Library) FindByTitle(title string) (*Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.books {
		if b.Title == title {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", title, ErrBookNotFound)
}

// RecordTransaction appends an issuance to the log.
func (l *Library) RecordTransaction(readerName, bookTitle string, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendRecord(LibraryRecord{ReaderName: readerName, BookTitle: bookTitle, BorrowedAt: at})
}

// appendRecord requires l.mu. The in-memory log is authoritative; a sink
// failure is reported but the record stays.
func (l *Library) appendRecord(rec LibraryRecord) error {
	l.records = append(l.records, rec)
	if l.sink == nil {
		return nil
	}
	if err := l.sink.Append(rec); err != nil {
		return fmt.Errorf("journal record: %w", err)
	}
	return nil
}

// Records returns a copy of the transaction log, oldest first.
func (l *Library) Records() []LibraryRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LibraryRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Stats computes catalog totals under the ledger lock.
func (l *Library) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ComputeStats(l.books)
}
