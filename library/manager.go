package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Config describes the ledger a LibraryManager builds.
type Config struct {
	Name          string
	Address       string
	JournalPath   string
	StaffName     string
	StaffPosition string
	Logger        *slog.Logger
	// ReaderID generates ids for newly seen readers. Defaults to a random
	// number in [1000, 9999].
	ReaderID func() int
}

// LibraryManager is a thin façade over the ledger, keeping CLI code simple.
// It resolves titles and reader names into catalog entries and readers.
type LibraryManager struct {
	lib     *Library
	staff   *Staff
	journal *Journal
	logger  *slog.Logger

	readers  map[string]*Reader
	readerID func() int
}

// NewLibraryManager opens the journal and builds an empty ledger around it.
func NewLibraryManager(cfg Config) (*LibraryManager, error) {
	journal, err := OpenJournal(cfg.JournalPath)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	readerID := cfg.ReaderID
	if readerID == nil {
		readerID = func() int { return 1000 + rand.IntN(9000) }
	}
	staffName, position := cfg.StaffName, cfg.StaffPosition
	if staffName == "" {
		staffName = "Maria"
	}
	if position == "" {
		position = "Librarian"
	}

	lib := NewLibrary(cfg.Name, cfg.Address, WithRecordSink(journal), WithLogger(logger))
	return &LibraryManager{
		lib:      lib,
		staff:    NewStaff(staffName, position, lib, logger),
		journal:  journal,
		logger:   logger,
		readers:  make(map[string]*Reader),
		readerID: readerID,
	}, nil
}

// Close closes the underlying journal.
func (lm *LibraryManager) Close() error { return lm.journal.Close() }

func (lm *LibraryManager) Library() *Library { return lm.lib }
func (lm *LibraryManager) Staff() *Staff     { return lm.staff }

// ------------------ Catalog ------------------

// AddBook creates a catalog entry with count copies on the shelf.
func (lm *LibraryManager) AddBook(title, author string, year int, genre Genre, count int) (*Book, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title cannot be empty")
	}
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}
	b := NewBook(title, author, year, genre, count)
	lm.lib.AddBook(b)
	return b, nil
}

// RemoveBook removes the first entry with this title and reports whether
// one was found.
func (lm *LibraryManager) RemoveBook(title string) bool {
	b, err := lm.lib.FindByTitle(title)
	if err != nil {
		lm.logger.Warn("book not removed", "title", title, "reason", err)
		return false
	}
	return lm.lib.RemoveBook(b) == nil
}

func (lm *LibraryManager) ListBooks() []*Book { return lm.lib.ListBooks() }
func (lm *LibraryManager) Stats() Stats       { return lm.lib.Stats() }

// ------------------ Readers ------------------

// Reader returns the reader registered under name, registering a new one
// with a generated id on first use.
func (lm *LibraryManager) Reader(name string) *Reader {
	if r, ok := lm.readers[name]; ok {
		return r
	}
	r := NewReader(name, lm.readerID())
	lm.readers[name] = r
	lm.logger.Debug("reader registered", "reader", name, "reader_id", r.ID)
	return r
}

// ------------------ Circulation ------------------

// IssueBook lends the first catalog entry titled title to readerName.
func (lm *LibraryManager) IssueBook(title, readerName string) (bool, string) {
	b, err := lm.lib.FindByTitle(title)
	if err != nil {
		return false, "Book not found."
	}
	out := lm.staff.IssueBook(b, lm.Reader(readerName))
	return out.OK, out.Message
}

// AcceptReturn takes the first catalog entry titled title back from readerName.
func (lm *LibraryManager) AcceptReturn(title, readerName string) (bool, string) {
	b, err := lm.lib.FindByTitle(title)
	if err != nil {
		return false, "Book not found."
	}
	out := lm.staff.AcceptReturn(b, lm.Reader(readerName))
	return out.OK, out.Message
}

// Records returns the ledger's transaction log.
func (lm *LibraryManager) Records() []LibraryRecord { return lm.lib.Records() }

// History reads journaled issuances for readerName, or all when empty.
func (lm *LibraryManager) History(readerName string) ([]LibraryRecord, error) {
	return lm.journal.History(readerName)
}

// Tallies returns per-reader issuance counts from the journal.
func (lm *LibraryManager) Tallies() ([]ReaderTally, error) { return lm.journal.CountByReader() }

// ------------------ Import ------------------

// ImportCatalogFromFile loads catalog rows from the CSV file at path.
func (lm *LibraryManager) ImportCatalogFromFile(path string) (int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return lm.ImportCatalog(f)
}

// ImportCatalog adds one book per CSV row of title,author,year,genre,count.
// A leading header row starting with "title" is skipped. Rows before the
// first bad row are kept.
func (lm *LibraryManager) ImportCatalog(r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5
	cr.TrimLeadingSpace = true

	added := 0
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return added, nil
		}
		if err != nil {
			return added, fmt.Errorf("read catalog: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "title") {
			continue
		}
		if err := lm.importRow(row); err != nil {
			return added, fmt.Errorf("catalog line %d: %w", line, err)
		}
		added++
	}
}

func (lm *LibraryManager) importRow(row []string) error {
	year, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return fmt.Errorf("invalid year %q", row[2])
	}
	genre, err := ParseGenre(row[3])
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(strings.TrimSpace(row[4]))
	if err != nil {
		return fmt.Errorf("invalid count %q", row[4])
	}
	_, err = lm.AddBook(strings.TrimSpace(row[0]), strings.TrimSpace(row[1]), year, genre, count)
	return err
}

// ------------------ Utilities ------------------

// PrettyBook formats a book for table listings.
func PrettyBook(b *Book) string {
	return fmt.Sprintf("%-30s %-25s %-6d %-8s %-9d %-6d %t",
		truncate(b.Title, 30), truncate(b.Author, 25), b.Year, b.Genre, b.AvailableCount, b.TakenCount, b.CheckAvailability())
}

func truncate(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	return string([]rune(s)[:maxLength-3]) + "..."
}
