package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/chrissnell/noaaclock/internal/app"
	"github.com/chrissnell/noaaclock/internal/config"
	"github.com/chrissnell/noaaclock/internal/log"
	"github.com/chrissnell/noaaclock/pkg/location"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage:\n")
	fmt.Fprintf(out, "  noaaclock [flags] <location> [homeTimezone]\n")
	fmt.Fprintf(out, "  noaaclock [flags] <latitude> <longitude> <timezone> [homeTimezone]\n\n")
	fmt.Fprintf(out, "Longitude is positive east. Timezones are UTC offsets in hours. An explicit\n")
	fmt.Fprintf(out, "timezone must already include daylight saving time.\n\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	cfgFile := flag.String("config", "", "Path to YAML configuration file (default $NOAACLOCK_CONFIG or "+config.DefaultConfigFile+")")
	dataset := flag.String("dataset", "", "Path to plain-text location dataset (default "+location.DefaultDatasetFile+")")
	locationDB := flag.String("location-db", "", "Path to SQLite location database. Use 'locations-convert' to create one")
	interval := flag.Duration("interval", 0, "Refresh interval (default 5s)")
	listen := flag.String("listen", "", "Serve the clock over HTTP on this address, e.g. :8080")
	once := flag.Bool("once", false, "Print a single readout and exit")
	logFile := flag.String("log-file", "", "Write logs to this file, rotated by size, instead of stderr")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("noaaclock %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.InitWithFile(*debug, *logFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	if *logFile == "" {
		*logFile = cfg.LogFile
	}
	if (cfg.Debug && !*debug) || *logFile != "" {
		if err := log.InitWithFile(*debug || cfg.Debug, *logFile); err != nil {
			fmt.Printf("Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
	}
	applyFlags(cfg, *dataset, *locationDB, *interval, *listen)

	sel, err := app.ParseArgs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	sel = sel.Merge(cfg)

	application, err := app.New(cfg, log.GetSugaredLogger())
	if err != nil {
		log.Errorf("Failed to set up locations: %v", err)
		os.Exit(1)
	}
	defer application.Close()

	if sel.Empty() {
		flag.Usage()
		fmt.Fprintln(os.Stderr)
		app.PrintKnownLocations(os.Stderr, application.Resolver().KnownNames(), 76)
		os.Exit(1)
	}

	loc, err := application.Locate(sel)
	if err != nil {
		var cfgErr *location.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "Unknown location %q\n\n", cfgErr.Name)
			flag.Usage()
			fmt.Fprintln(os.Stderr)
			app.PrintKnownLocations(os.Stderr, application.Resolver().KnownNames(), 76)
		} else {
			log.Errorf("Invalid location: %v", err)
		}
		application.Close()
		os.Exit(1)
	}
	log.Infof("Using location %v from %s", loc, loc.Source)

	if *once {
		if err := application.Once(loc, sel.HomeTZ, os.Stdout); err != nil {
			log.Errorf("Refresh failed: %v", err)
			application.Close()
			os.Exit(1)
		}
		return
	}

	if err := application.Run(context.Background(), loc, sel.HomeTZ, os.Stdout); err != nil {
		log.Errorf("Application error: %v", err)
		application.Close()
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, dataset, locationDB string, interval time.Duration, listen string) {
	if dataset != "" {
		cfg.Dataset = dataset
	}
	if locationDB != "" {
		cfg.LocationDB = locationDB
	}
	if interval > 0 {
		cfg.RefreshInterval = interval
	}
	if listen != "" {
		cfg.HTTP.ListenAddr = listen
	}
}
