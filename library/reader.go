package library

import "fmt"

// Reader keeps the books a person currently has out. Held entries are
// value snapshots taken at borrow time, so removing a title from the
// catalog never invalidates them.
type Reader struct {
	Name string `json:"name"`
	ID   int    `json:"id"`

	held []Book
}

func NewReader(name string, id int) *Reader {
	return &Reader{Name: name, ID: id}
}

// Books returns a copy of the held collection in borrow order.
func (r *Reader) Books() []Book {
	out := make([]Book, len(r.held))
	copy(out, r.held)
	return out
}

// Holds reports whether the reader has a copy equal to b.
func (r *Reader) Holds(b *Book) bool { return r.indexOf(b) >= 0 }

func (r *Reader) indexOf(b *Book) int {
	key := b.Key()
	for i := range r.held {
		if r.held[i].Key() == key {
			return i
		}
	}
	return -1
}

// BorrowBook takes one copy of b. It fails with ErrBookUnavailable and
// leaves everything untouched when no copy is free.
func (r *Reader) BorrowBook(b *Book) error {
	if !b.CheckAvailability() {
		return fmt.Errorf("%q: %w", b.Title, ErrBookUnavailable)
	}
	b.TakenCount++
	r.held = append(r.held, *b)
	return nil
}

// ReturnBook gives back one copy of b. It fails with ErrBookNotHeld when
// the reader has no entry equal to b.
func (r *Reader) ReturnBook(b *Book) error {
	i := r.indexOf(b)
	if i < 0 {
		return fmt.Errorf("%s does not have %q: %w", r.Name, b.Title, ErrBookNotHeld)
	}
	// A re-added catalog entry may start at zero taken.
	if b.TakenCount > 0 {
		b.TakenCount--
	}
	r.held = append(r.held[:i], r.held[i+1:]...)
	return nil
}
