package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/noaaclock/internal/log"
	"github.com/chrissnell/noaaclock/pkg/location"
)

func main() {
	var (
		inputFile  = flag.String("input", location.DefaultDatasetFile, "Path to plain-text location dataset")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite location database (required)")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
		debug      = flag.Bool("debug", false, "Turn on debugging output")
	)
	flag.Parse()

	if *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -input <noaa_clock.cnf> -sqlite <locations.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Check if SQLite file already exists
	if _, err := os.Stat(*sqliteFile); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: SQLite file already exists: %s\n", *sqliteFile)
		fmt.Fprintf(os.Stderr, "Use -force to overwrite or choose a different filename\n")
		os.Exit(1)
	}

	fmt.Printf("Converting location dataset to SQLite...\n")
	fmt.Printf("  Source: %s\n", *inputFile)
	fmt.Printf("  Target: %s\n", *sqliteFile)

	locs, err := readDataset(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading location dataset: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  Loaded %d locations\n", len(locs))

	if *dryRun {
		for _, l := range locs {
			fmt.Printf("    %v\n", l)
		}
		fmt.Println("DRY RUN complete - no database created")
		return
	}

	if *force {
		if err := os.Remove(*sqliteFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error removing existing SQLite file: %v\n", err)
			os.Exit(1)
		}
	}

	if err := os.MkdirAll(filepath.Dir(*sqliteFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	db, err := location.NewSQLiteProvider(*sqliteFile, log.GetSugaredLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Import(locs); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading locations into SQLite: %v\n", err)
		db.Close()
		os.Exit(1)
	}

	fmt.Printf("Conversion completed successfully!\n")
	fmt.Printf("You can now use the database with: noaaclock -location-db %s\n", *sqliteFile)
}

func readDataset(path string) ([]location.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var locs []location.Location
	err = location.ScanDataset(f, func(l location.Location) bool {
		locs = append(locs, l)
		return true
	}, func(lineNo int, err error) {
		log.Warnf("%s:%d: skipping malformed location record: %v", path, lineNo, err)
	})
	return locs, err
}
