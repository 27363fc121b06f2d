package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"library-lending/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMenu(t *testing.T, input string, asJSON bool) (*menu, *bytes.Buffer) {
	t.Helper()
	mgr, err := library.NewLibraryManager(library.Config{Name: "Test Library", Address: "Street 1"})
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	out := &bytes.Buffer{}
	return &menu{
		sc:     bufio.NewScanner(strings.NewReader(input)),
		out:    out,
		mgr:    mgr,
		asJSON: asJSON,
	}, out
}

func TestMenuScenario(t *testing.T) {
	script := strings.Join([]string{
		"1", "Dune", "Herrick", "1965", "0", "1", // add
		"4", "Ana", "1", "Dune", // Ana borrows
		"4", "Ben", "1", "Dune", // Ben is refused
		"4", "Ana", "2", "Dune", // Ana returns
		"3",             // list
		"2", "Dune",     // remove
		"2", "Dune",     // remove again
		"5", "",         // history
		"0",
	}, "\n")
	m, out := newTestMenu(t, script, false)

	m.run()

	got := out.String()
	assert.Contains(t, got, "Test Library, Street 1")
	assert.Contains(t, got, "Book 'Dune' added to the library.")
	assert.Contains(t, got, "Ana borrowed 'Dune'.")
	assert.Contains(t, got, "not available")
	assert.Contains(t, got, "Ana returned 'Dune'.")
	assert.Contains(t, got, "Total books: 1")
	assert.Contains(t, got, "Available: 1")
	assert.Contains(t, got, "Book 'Dune' removed from the library.")
	assert.Contains(t, got, "Book not found.")
	assert.Contains(t, got, "Issuances per reader:")
	assert.Contains(t, got, "Goodbye!")
	assert.Len(t, m.mgr.Records(), 1)
	assert.Empty(t, m.mgr.ListBooks())
}

func TestMenuRejectsBadInput(t *testing.T) {
	m, out := newTestMenu(t, "1\nDune\nHerrick\nsoon\n1\nDune\nHerrick\n1965\npoetry\n9\n0\n", false)

	m.run()

	got := out.String()
	assert.Contains(t, got, "Invalid number: soon")
	assert.Contains(t, got, "Invalid genre")
	assert.Contains(t, got, "Invalid choice.")
	assert.Empty(t, m.mgr.ListBooks())
}

func TestMenuListEmpty(t *testing.T) {
	m, out := newTestMenu(t, "", false)

	m.listBooks()

	assert.Contains(t, out.String(), "There are no books in the library.")
	assert.Contains(t, out.String(), "Total books: 0")
}

func TestMenuListJSON(t *testing.T) {
	m, out := newTestMenu(t, "", true)
	_, err := m.mgr.AddBook("Dune", "Herrick", 1965, library.Rare, 2)
	require.NoError(t, err)

	m.listBooks()

	var got struct {
		Books []library.Book `json:"books"`
		Stats library.Stats  `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Books, 1)
	assert.Equal(t, library.Rare, got.Books[0].Genre)
	assert.Equal(t, library.Stats{Total: 1, Available: 1}, got.Stats)
}

func TestListCommandWithCatalog(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "books.csv")
	require.NoError(t, os.WriteFile(catalog, []byte("Dune,Herrick,1965,Fiction,1\nEmma,Austen,1815,0,0\n"), 0o644))

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"list", "--catalog", catalog, "--journal", filepath.Join(dir, "journal.db")})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Dune")
	assert.Contains(t, out.String(), "Total books: 2")
	assert.Contains(t, out.String(), "Available: 1")
}

func TestSeedCommandPreloadsCatalog(t *testing.T) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetIn(strings.NewReader("4\nAna\n1\nThe Hobbit\n3\n0\n"))
	cmd.SetArgs([]string{"seed"})

	require.NoError(t, cmd.Execute())
	got := out.String()
	assert.Contains(t, got, "Ana borrowed 'The Hobbit'.")
	assert.Contains(t, got, "Codex Seraphinianus")
	assert.Contains(t, got, "Total books: 5")
	assert.Contains(t, got, "Available: 5")
	assert.Contains(t, got, "Goodbye!")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("")))

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	assert.False(t, isTerminal(f))
}

func TestRootCommandRejectsBadLogLevel(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"list", "--log-level", "loud"})

	assert.Error(t, cmd.Execute())
}

func TestEnvOr(t *testing.T) {
	t.Setenv("LIBRARY_NAME", "City Library")
	assert.Equal(t, "City Library", envOr("LIBRARY_NAME", defaultName))

	t.Setenv("LIBRARY_NAME", "")
	assert.Equal(t, defaultName, envOr("LIBRARY_NAME", defaultName))
}

func TestLoadEnvFilesDoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("LIBRARY_ADDRESS=from_file\nLIBRARY_TEST_ONLY=from_file\n"), 0o644))

	t.Setenv("LIBRARY_ADDRESS", "from_env")
	t.Setenv("LIBRARY_TEST_ONLY", "")
	os.Unsetenv("LIBRARY_TEST_ONLY")

	cwd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	loadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("LIBRARY_ADDRESS"))
	assert.Equal(t, "from_file", os.Getenv("LIBRARY_TEST_ONLY"))
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	assert.NoError(t, err)
	_, err = newLogger("verbose")
	assert.Error(t, err)
}
