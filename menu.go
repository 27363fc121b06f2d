package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"library-lending/library"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type menu struct {
	sc          *bufio.Scanner
	out         io.Writer
	mgr         *library.LibraryManager
	interactive bool
	asJSON      bool
}

func (m *menu) printf(format string, args ...any) { fmt.Fprintf(m.out, format, args...) }
func (m *menu) println(args ...any)               { fmt.Fprintln(m.out, args...) }

// prompt prints label and reads one trimmed line. It reports false at end of input.
func (m *menu) prompt(label string) (string, bool) {
	m.printf("%s", label)
	if !m.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.sc.Text()), true
}

func (m *menu) promptInt(label string) (int, bool) {
	s, ok := m.prompt(label)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		m.printf("Invalid number: %s\n", s)
		return 0, false
	}
	return n, true
}

func (m *menu) run() {
	lib := m.mgr.Library()
	for {
		if m.interactive {
			m.printf("\033[2J\033[H")
		}
		m.printf("%s, %s\n", lib.Name, lib.Address)
		m.println("Menu:")
		m.println("1. Add book")
		m.println("2. Remove book")
		m.println("3. List books")
		m.println("4. Manage reader books")
		m.println("5. Issuance history")
		m.println("0. Exit")

		choice, ok := m.prompt("Choose an option: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			m.addBook()
		case "2":
			m.removeBook()
		case "3":
			m.listBooks()
		case "4":
			m.manageReader()
		case "5":
			m.history()
		case "0":
			m.println("Goodbye!")
			return
		default:
			m.println("Invalid choice.")
		}
		m.pause()
	}
}

func (m *menu) pause() {
	if !m.interactive {
		return
	}
	m.printf("\nPress Enter to continue...")
	m.sc.Scan()
}

func (m *menu) addBook() {
	title, ok := m.prompt("Title: ")
	if !ok {
		return
	}
	author, ok := m.prompt("Author: ")
	if !ok {
		return
	}
	year, ok := m.promptInt("Year: ")
	if !ok {
		return
	}

	var choices []string
	for _, g := range library.Genres() {
		choices = append(choices, fmt.Sprintf("%d - %s", int(g), g))
	}
	raw, ok := m.prompt(fmt.Sprintf("Genre (%s): ", strings.Join(choices, ", ")))
	if !ok {
		return
	}
	genre, err := library.ParseGenre(raw)
	if err != nil {
		m.printf("Invalid genre: %v\n", err)
		return
	}
	count, ok := m.promptInt("Count: ")
	if !ok {
		return
	}

	b, err := m.mgr.AddBook(title, author, year, genre, count)
	if err != nil {
		m.printf("Error adding book: %v\n", err)
		return
	}
	m.printf("Book '%s' added to the library.\n", b.Title)
}

func (m *menu) removeBook() {
	title, ok := m.prompt("Book title: ")
	if !ok {
		return
	}
	if m.mgr.RemoveBook(title) {
		m.printf("Book '%s' removed from the library.\n", title)
	} else {
		m.println("Book not found.")
	}
}

func (m *menu) listBooks() {
	books := m.mgr.ListBooks()
	stats := m.mgr.Stats()

	if m.asJSON {
		m.writeJSON(struct {
			Books []*library.Book `json:"books"`
			Stats library.Stats   `json:"stats"`
		}{Books: books, Stats: stats})
		return
	}

	if len(books) == 0 {
		m.println("There are no books in the library.")
	} else {
		m.println("Books:")
		m.printf("%-30s %-25s %-6s %-8s %-9s %-6s %s\n", "Title", "Author", "Year", "Genre", "Available", "Taken", "On shelf")
		m.println(strings.Repeat("-", 100))
		for _, b := range books {
			m.println(library.PrettyBook(b))
		}
	}

	m.println("\n[Library statistics]")
	m.printf("Total books: %d\n", stats.Total)
	m.printf("Available: %d\n", stats.Available)
}

func (m *menu) manageReader() {
	name, ok := m.prompt("Reader name: ")
	if !ok {
		return
	}
	reader := m.mgr.Reader(name)
	m.printf("Reader %s (ID: %d)\n", reader.Name, reader.ID)
	m.println("1. Borrow book")
	m.println("2. Return book")
	action, ok := m.prompt("> ")
	if !ok {
		return
	}
	title, ok := m.prompt("Book title: ")
	if !ok {
		return
	}

	var msg string
	switch action {
	case "1":
		_, msg = m.mgr.IssueBook(title, name)
	case "2":
		_, msg = m.mgr.AcceptReturn(title, name)
	default:
		msg = "Invalid choice."
	}
	m.println(msg)
}

func (m *menu) history() {
	name, ok := m.prompt("Reader name (empty for all): ")
	if !ok {
		return
	}
	records, err := m.mgr.History(name)
	if err != nil {
		m.printf("Error reading history: %v\n", err)
		return
	}

	if m.asJSON {
		m.writeJSON(records)
		return
	}
	if len(records) == 0 {
		m.println("No issuances recorded.")
		return
	}
	m.printf("%-20s %-30s %s\n", "Reader", "Title", "Borrowed at")
	m.println(strings.Repeat("-", 75))
	for _, rec := range records {
		m.printf("%-20s %-30s %s\n", rec.ReaderName, rec.BookTitle, rec.BorrowedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if name != "" {
		return
	}

	tallies, err := m.mgr.Tallies()
	if err != nil {
		m.printf("Error reading tallies: %v\n", err)
		return
	}
	m.println("\nIssuances per reader:")
	for _, t := range tallies {
		m.printf("  %-20s %d\n", t.ReaderName, t.Issued)
	}
}

func (m *menu) writeJSON(v any) {
	enc := json.NewEncoder(m.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		m.printf("Error encoding JSON: %v\n", err)
	}
}
