package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/noaaclock/internal/log"
	"github.com/chrissnell/noaaclock/pkg/dst"
	"github.com/chrissnell/noaaclock/pkg/location"
	"github.com/chrissnell/noaaclock/pkg/solar"
)

func main() {
	var dateStr, dataset string
	var step int
	flag.StringVar(&dateStr, "date", "", "Civil date to tabulate (YYYY-MM-DD, default today)")
	flag.StringVar(&dataset, "dataset", location.DefaultDatasetFile, "Path to plain-text location dataset")
	flag.IntVar(&step, "step", 30, "Minutes between rows")
	flag.Parse()

	if flag.NArg() != 1 || step < 1 || step > solar.MinutesPerDay {
		fmt.Fprintf(os.Stderr, "Usage: %s [-date YYYY-MM-DD] [-step minutes] <location>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := log.Init(false); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	logger := log.GetSugaredLogger()
	resolver := location.NewResolver(logger, location.NewFileProvider(dataset, logger), location.Builtin())
	loc, err := resolver.Resolve(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	day := time.Now()
	if dateStr != "" {
		day, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			os.Exit(1)
		}
	}

	// the offset in force at local noon applies to the whole table
	y, m, d := day.Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, dst.FixedZone(loc.TZ))
	tz, _ := dst.Effective(loc.DST, loc.TZ, noon)

	date := solar.DateSerial(y, m, d)
	table, err := solar.BuildDailyTable(loc.Observer(), date, tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building table: %v\n", err)
		os.Exit(1)
	}

	noonSample, _ := solar.Calculate(loc.Observer(), solar.Moment{Date: date, Fraction: 0.5, TZ: tz})
	ev := solar.Events(loc.Observer(), solar.Moment{Date: date, Fraction: 0.5, TZ: tz}, noonSample)

	fmt.Printf("Solar table for %v on %04d-%02d-%02d (UTC%+g)\n", loc, y, m, d, tz)
	switch ev.Condition {
	case solar.Normal:
		fmt.Printf("  Sunrise %s  Solar noon %s  Sunset %s  Daylight %s\n",
			solar.FormatFraction(ev.Sunrise), solar.FormatFraction(ev.SolarNoon),
			solar.FormatFraction(ev.Sunset), solar.FormatMinutes(ev.DaylightMinutes))
	default:
		fmt.Printf("  %s, solar noon %s\n", ev.Condition, solar.FormatFraction(ev.SolarNoon))
	}
	fmt.Println()
	fmt.Printf("  %-5s  %-5s  %9s  %9s  %9s  %9s  %s\n", "Time", "Solar", "Elev", "Corr", "Azimuth", "Longit", "Band")

	for i := 0; i < solar.MinutesPerDay; i += step {
		s := table.At(i)
		fmt.Printf("  %s  %s  %9.3f  %9.3f  %9.3f  %9.4f  %s\n",
			solar.FormatMinutes(float64(i)),
			solar.FormatMinutes(s.SolarTimeMinutes),
			s.ElevationDeg,
			s.CorrectedElevationDeg,
			s.AzimuthDeg,
			s.ApparentLongitudeDeg,
			solar.Classify(s.CorrectedElevationDeg),
		)
	}
}
