package library

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Borrowable is implemented by anyone allowed to hand books out and take
// them back.
type Borrowable interface {
	IssueBook(b *Book, r *Reader) Outcome
	AcceptReturn(b *Book, r *Reader) Outcome
}

// Outcome reports how an issue or return went. Expected failures are
// reported here and never returned as errors to the caller.
type Outcome struct {
	OK      bool
	Message string
	Err     error
}

func success(msg string) Outcome { return Outcome{OK: true, Message: msg} }

func failure(err error) Outcome { return Outcome{Message: "Library error: " + err.Error(), Err: err} }

// Staff is the issuing agent standing between readers and the ledger.
type Staff struct {
	Name     string
	Position string

	library *Library
	logger  *slog.Logger
}

func NewStaff(name, position string, lib *Library, logger *slog.Logger) *Staff {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Staff{
		Name:     name,
		Position: position,
		library:  lib,
		logger:   logger.With("staff", name),
	}
}

var _ Borrowable = (*Staff)(nil)

// IssueBook lends b to r and logs the issuance in the ledger. When no
// copy is available nothing changes and the failure is reported.
func (s *Staff) IssueBook(b *Book, r *Reader) Outcome {
	lib := s.library
	lib.mu.Lock()
	err := r.BorrowBook(b)
	var journalErr error
	if err == nil {
		journalErr = lib.appendRecord(LibraryRecord{ReaderName: r.Name, BookTitle: b.Title, BorrowedAt: lib.now()})
	}
	lib.mu.Unlock()

	if err != nil {
		s.logger.Warn("issue refused", "reader", r.Name, "title", b.Title, "err", err)
		return failure(err)
	}
	if journalErr != nil {
		s.logger.Error("issuance not journaled", "reader", r.Name, "title", b.Title, "err", journalErr)
	}
	s.logger.Info("book issued", "reader", r.Name, "reader_id", r.ID, "title", b.Title)
	return success(fmt.Sprintf("%s borrowed '%s'.", r.Name, b.Title))
}

// AcceptReturn takes b back from r. Returns are not written to the
// transaction log.
func (s *Staff) AcceptReturn(b *Book, r *Reader) Outcome {
	s.library.mu.Lock()
	err := r.ReturnBook(b)
	s.library.mu.Unlock()

	if err != nil {
		s.logger.Warn("return refused", "reader", r.Name, "title", b.Title, "err", err)
		return failure(err)
	}
	s.logger.Info("book returned", "reader", r.Name, "reader_id", r.ID, "title", b.Title)
	return success(fmt.Sprintf("%s returned '%s'.", r.Name, b.Title))
}

// IsUnavailable reports whether the outcome failed because no copy was free.
func (o Outcome) IsUnavailable() bool { return errors.Is(o.Err, ErrBookUnavailable) }

// IsNotHeld reports whether the outcome failed because the reader did not hold the book.
func (o Outcome) IsNotHeld() bool { return errors.Is(o.Err, ErrBookNotHeld) }
