package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/chrissnell/noaaclock/internal/log"
	"github.com/chrissnell/noaaclock/pkg/location"
)

func main() {
	var (
		inputFile  = flag.String("input", location.DefaultDatasetFile, "Path to plain-text location dataset")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite location database")
	)
	flag.Parse()

	if *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -input <noaa_clock.cnf> -sqlite <locations.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := log.Init(false); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger := log.GetSugaredLogger()

	fmt.Println("Location Dataset Comparison Test")
	fmt.Println("================================")

	if _, err := os.Stat(*sqliteFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: SQLite file does not exist: %s\n", *sqliteFile)
		os.Exit(1)
	}

	fmt.Printf("Loading text dataset: %s\n", *inputFile)
	text := location.NewFileProvider(*inputFile, logger)
	textNames, err := text.Names()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading text dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loading SQLite database: %s\n", *sqliteFile)
	db, err := location.NewSQLiteProvider(*sqliteFile, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening SQLite database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	dbNames, err := db.Names()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite database: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nComparison Results:")
	fmt.Println("==================")
	fmt.Printf("Locations - text: %d, SQLite: %d\n", len(textNames), len(dbNames))

	mismatches := 0
	if len(textNames) == len(dbNames) {
		fmt.Println("✓ Location count matches")
	} else {
		fmt.Println("✗ Location count mismatch")
		mismatches++
	}

	// names are compared through Resolve so that the first-match rule applies to both
	for _, name := range textNames {
		want, _, _ := text.Resolve(name)
		got, ok, err := db.Resolve(name)
		switch {
		case err != nil:
			fmt.Printf("✗ %s: %v\n", name, err)
			mismatches++
		case !ok:
			fmt.Printf("✗ %s missing from SQLite\n", name)
			mismatches++
		case !sameLocation(want, got):
			fmt.Printf("✗ %s differs\n    text:   %v\n    sqlite: %v\n", name, want, got)
			mismatches++
		default:
			fmt.Printf("✓ %s matches\n", name)
		}
	}

	if mismatches > 0 {
		fmt.Printf("\n%d mismatches found\n", mismatches)
		db.Close()
		os.Exit(1)
	}
	fmt.Println("\nAll locations match")
}

func sameLocation(a, b location.Location) bool {
	const eps = 1e-9
	return a.Name == b.Name &&
		math.Abs(a.Latitude-b.Latitude) < eps &&
		math.Abs(a.Longitude-b.Longitude) < eps &&
		math.Abs(a.TZ-b.TZ) < eps &&
		a.DST == b.DST
}
