package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sitivezD99/CofI-Functions/internal/calstore"
	"github.com/sitivezD99/CofI-Functions/internal/ccd"
	"github.com/sitivezD99/CofI-Functions/internal/config"
	"github.com/sitivezD99/CofI-Functions/internal/flat"
	"github.com/sitivezD99/CofI-Functions/internal/monitoring"
	"github.com/sitivezD99/CofI-Functions/internal/version"
)

var (
	flatsArg      = flag.String("flats", "", "Flat frames: a glob pattern or a comma-separated list of FITS files")
	biasPath      = flag.String("bias", "", "Master bias FITS file (optional)")
	darkPath      = flag.String("dark", "", "Dark-current FITS file in counts/sec (optional)")
	outPath       = flag.String("out", "flat.fits", "Output path for the master flat")
	configPath    = flag.String("config", "", "Reduction config JSON (defaults apply when omitted)")
	plotDir       = flag.String("plot-dir", "", "Directory for diagnostic PNG plots (disabled when empty)")
	reportPath    = flag.String("report", "", "Path for the HTML heatmap report (disabled when empty)")
	dbPath        = flag.String("db", "", "Sqlite calibration index (disabled when empty)")
	migrationsDir = flag.String("migrations", "migrations", "Directory holding calibration index migrations")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *flatsArg == "" {
		log.Fatal("-flats is required")
	}

	files, err := resolveFlatList(*flatsArg)
	if err != nil {
		log.Fatalf("resolve flat list: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("no flat frames match %q", *flatsArg)
	}

	cfg := &config.ReductionConfig{}
	if *configPath != "" {
		cfg, err = config.LoadReductionConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	opts := cfg.Options()

	if *biasPath != "" {
		opts.Bias, err = ccd.ReadFrame(*biasPath)
		if err != nil {
			log.Fatalf("read bias: %v", err)
		}
	}
	if *darkPath != "" {
		opts.Dark, err = ccd.ReadFrame(*darkPath)
		if err != nil {
			log.Fatalf("read dark: %v", err)
		}
	}

	monitoring.Logf("combining %d flat frames", len(files))
	res, err := flat.FlatCombine(files, opts)
	if err != nil {
		log.Fatalf("flat combine: %v", err)
	}

	if err := ccd.WriteFrame(*outPath, res.Flat); err != nil {
		log.Fatalf("write master flat: %v", err)
	}
	monitoring.Logf("wrote master flat %s (%dx%d)", *outPath, res.Flat.NX, res.Flat.NY)

	if *plotDir != "" {
		n, err := flat.SaveDiagnostics(*plotDir, res, opts.Threshold)
		if err != nil {
			log.Fatalf("diagnostics: %v", err)
		}
		monitoring.Logf("wrote %d diagnostic plots to %s", n, *plotDir)
	}

	if *reportPath != "" {
		title := fmt.Sprintf("Master Flat (%s)", cfg.GetInstrument())
		if err := flat.WriteHeatmapReport(*reportPath, res.Flat, title); err != nil {
			log.Fatalf("report: %v", err)
		}
		monitoring.Logf("wrote heatmap report %s", *reportPath)
	}

	if *dbPath != "" {
		if err := recordRun(cfg, opts, res, files); err != nil {
			log.Fatalf("calibration index: %v", err)
		}
	}
}

// recordRun stores the run in the calibration index.
func recordRun(cfg *config.ReductionConfig, opts flat.Options, res *flat.Result, files []string) error {
	db, err := calstore.Open(*dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", *dbPath, err)
	}
	defer db.Close()

	if err := db.MigrateUp(*migrationsDir); err != nil {
		return err
	}

	mf := &calstore.MasterFlat{
		Instrument:  cfg.GetInstrument(),
		NFrames:     res.NFrames,
		NX:          res.Flat.NX,
		NY:          res.Flat.NY,
		Threshold:   opts.Threshold,
		ResponseCor: opts.ResponseCor,
		Smooth:      opts.Smooth,
		NPix:        opts.NPix,
		OutputPath:  *outPath,
	}
	if res.Illum != nil {
		start, end := res.Illum.Start, res.Illum.End
		mf.IllumStart = &start
		mf.IllumEnd = &end
	}
	if err := db.RecordMasterFlat(mf); err != nil {
		return err
	}
	if err := db.RecordInputFiles(mf.ID, files); err != nil {
		return err
	}
	monitoring.Logf("recorded master flat %s in %s", mf.ID, *dbPath)
	return nil
}

// resolveFlatList expands the -flats argument. A comma turns it into
// an explicit file list; otherwise it is treated as a glob pattern.
// The result is sorted for a stable combine order.
func resolveFlatList(arg string) ([]string, error) {
	if strings.Contains(arg, ",") {
		parts := strings.Split(arg, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, err := os.Stat(p); err != nil {
				return nil, fmt.Errorf("flat frame %s: %w", p, err)
			}
			out = append(out, p)
		}
		sort.Strings(out)
		return out, nil
	}

	matches, err := filepath.Glob(arg)
	if err != nil {
		return nil, fmt.Errorf("bad glob %q: %w", arg, err)
	}
	sort.Strings(matches)
	return matches, nil
}
