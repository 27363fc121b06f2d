package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"library-lending/library"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	loadEnvFiles()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var s settings

	root := &cobra.Command{
		Use:          "library",
		Short:        "Book inventory and lending ledger",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, s, false)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&s.name, "name", envOr("LIBRARY_NAME", defaultName), "library name")
	f.StringVar(&s.address, "address", envOr("LIBRARY_ADDRESS", defaultAddress), "library address")
	f.StringVar(&s.journal, "journal", envOr("LIBRARY_JOURNAL", library.MemoryJournal), "SQLite journal path for issuance records")
	f.StringVar(&s.catalog, "catalog", envOr("LIBRARY_CATALOG", ""), "CSV file (title,author,year,genre,count) to preload")
	f.StringVar(&s.logLevel, "log-level", envOr("LIBRARY_LOG_LEVEL", "warn"), "log level: debug, info, warn, error")
	f.BoolVar(&s.asJSON, "json", false, "print listings as JSON")

	root.AddCommand(newListCmd(&s), newSeedCmd(&s))
	return root
}

func newListCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the preloaded catalog and its statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := openManager(*s)
			if err != nil {
				return err
			}
			defer mgr.Close()

			m := &menu{out: cmd.OutOrStdout(), mgr: mgr, asJSON: s.asJSON}
			m.listBooks()
			return nil
		},
	}
}

func newSeedCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Start the menu with a sample catalog already on the shelves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, *s, true)
		},
	}
}

func runMenu(cmd *cobra.Command, s settings, seed bool) error {
	mgr, err := openManager(s)
	if err != nil {
		return err
	}
	defer mgr.Close()

	if seed {
		if _, err := mgr.ImportCatalog(strings.NewReader(sampleCatalog)); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	in := cmd.InOrStdin()
	m := &menu{
		sc:          bufio.NewScanner(in),
		out:         cmd.OutOrStdout(),
		mgr:         mgr,
		interactive: isTerminal(in),
		asJSON:      s.asJSON,
	}
	m.run()
	return nil
}

// isTerminal reports whether r is a file attached to a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func openManager(s settings) (*library.LibraryManager, error) {
	logger, err := newLogger(s.logLevel)
	if err != nil {
		return nil, err
	}
	mgr, err := library.NewLibraryManager(library.Config{
		Name:        s.name,
		Address:     s.address,
		JournalPath: s.journal,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if s.catalog != "" {
		n, err := mgr.ImportCatalogFromFile(s.catalog)
		if err != nil {
			mgr.Close()
			return nil, fmt.Errorf("import catalog: %w", err)
		}
		logger.Info("catalog imported", "path", s.catalog, "books", n)
	}
	return mgr, nil
}
