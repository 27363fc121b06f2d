package library

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Genre classifies a catalog entry.
type Genre int

const (
	Fiction Genre = iota
	Science
	History
	Fantasy
	Rare
)

var genreNames = [...]string{"Fiction", "Science", "History", "Fantasy", "Rare"}

// Genres lists every genre in menu order.
func Genres() []Genre { return []Genre{Fiction, Science, History, Fantasy, Rare} }

func (g Genre) String() string {
	if g < Fiction || g > Rare {
		return "Genre(" + strconv.Itoa(int(g)) + ")"
	}
	return genreNames[g]
}

// ParseGenre accepts a genre name (case-insensitive) or its menu index 0-4.
func ParseGenre(s string) (Genre, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(Fiction) || n > int(Rare) {
			return 0, fmt.Errorf("genre index %d out of range 0-%d", n, int(Rare))
		}
		return Genre(n), nil
	}
	for i, name := range genreNames {
		if strings.EqualFold(s, name) {
			return Genre(i), nil
		}
	}
	return 0, fmt.Errorf("unknown genre %q", s)
}

// BookKey is the identity of a catalog entry. Genre and counters are not part of it.
type BookKey struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

// Book is a catalog entry with aggregate availability counters.
// Counters are changed only through Reader borrow/return, which the
// Ledger serializes; callers should treat them as read-only.
type Book struct {
	Title          string `json:"title"`
	Author         string `json:"author"`
	Year           int    `json:"year"`
	Genre          Genre  `json:"genre"`
	AvailableCount int    `json:"available_count"`
	TakenCount     int    `json:"taken_count"`
}

// NewBook builds a catalog entry with nothing taken yet.
func NewBook(title, author string, year int, genre Genre, count int) *Book {
	return &Book{
		Title:          title,
		Author:         author,
		Year:           year,
		Genre:          genre,
		AvailableCount: count,
	}
}

func (b *Book) Key() BookKey {
	return BookKey{Title: b.Title, Author: b.Author, Year: b.Year}
}

// Equal compares title, author and year only. Two entries that differ
// just in genre or counters are the same book.
func (b *Book) Equal(other *Book) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Key() == other.Key()
}

// CheckAvailability reports whether at least one copy is still on the shelf.
func (b *Book) CheckAvailability() bool { return b.AvailableCount > b.TakenCount }

func (b *Book) String() string {
	return fmt.Sprintf("%s (%s, %d) - %s", b.Title, b.Author, b.Year, b.Genre)
}

// Details formats the two-line description shown in catalog listings.
func (b *Book) Details() string {
	return fmt.Sprintf("Title: %s, Author: %s, Year: %d, Genre: %s\nAvailable: %d, Taken: %d",
		b.Title, b.Author, b.Year, b.Genre, b.AvailableCount, b.TakenCount)
}

// LibraryRecord is one issuance in the transaction log. Records are never
// changed once appended.
type LibraryRecord struct {
	ReaderName string    `json:"reader_name"`
	BookTitle  string    `json:"book_title"`
	BorrowedAt time.Time `json:"borrowed_at"`
}

// Stats is the aggregate view over a catalog.
type Stats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

func (g Genre) MarshalText() ([]byte, error) {
	if g < Fiction || g > Rare {
		return nil, fmt.Errorf("invalid genre %d", int(g))
	}
	return []byte(genreNames[g]), nil
}

func (g *Genre) UnmarshalText(text []byte) error {
	parsed, err := ParseGenre(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
