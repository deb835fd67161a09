// Command stabsim parses a stabilizer-circuit program and samples it for
// many independent shots, printing one line of measurement bits per shot
// plus a histogram summary of the measurement bit-strings. Detector and
// observable bits are written only to the files named by --detector-out
// and --observable-out.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/clifford-labs/stabsim/internal/config"
	"github.com/clifford-labs/stabsim/internal/logger"
	"github.com/clifford-labs/stabsim/qc/stab/executor"
	"github.com/clifford-labs/stabsim/qc/stab/parser"
	"github.com/clifford-labs/stabsim/qc/stab/sample"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "stabsim:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("stabsim", flag.ContinueOnError)
	shots := fs.Int("shots", 0, "number of shots to sample (default 1024, or config file value)")
	seed := fs.Int64("seed", 0, "master RNG seed")
	workers := fs.Int("workers", 0, "number of worker goroutines (default: number of CPUs)")
	cfgPath := fs.String("config", "", "optional viper config file with default shots/seed/workers")
	detectorOut := fs.String("detector-out", "", "file to write detector bits to, one shot per line (default: discard)")
	observableOut := fs.String("observable-out", "", "file to write observable bits to, one shot per line (default: discard)")
	verbose := fs.Bool("verbose", false, "enable debug-level logging")
	serial := fs.Bool("serial", false, "run shots serially instead of across a worker pool")
	if err := fs.Parse(args); err != nil {
		return err
	}

	defaults, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	opts := sample.Options{
		Shots:   firstNonZeroInt(*shots, defaults.Shots, 1024),
		Seed:    firstNonZeroInt64(*seed, defaults.Seed),
		Workers: firstNonZeroInt(*workers, defaults.Workers),
		Verbose: *verbose || defaults.Verbose,
	}

	log := logger.NewLogger(logger.LoggerOptions{Debug: opts.Verbose})

	var programSrc io.Reader = os.Stdin
	if rest := fs.Args(); len(rest) > 0 {
		f, err := os.Open(rest[0])
		if err != nil {
			return fmt.Errorf("opening program file: %w", err)
		}
		defer f.Close()
		programSrc = f
	}

	program, err := io.ReadAll(programSrc)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}

	instrs, err := parser.Parse(string(program))
	if err != nil {
		log.Error().Err(err).Msg("stabsim: failed to parse program")
		return err
	}

	runner := sample.NewRunner(instrs, opts)

	var results []sample.Result
	if *serial {
		results, err = runner.RunSerial()
	} else {
		results, err = runner.RunAll()
	}
	if err != nil {
		log.Error().Err(err).Msg("stabsim: run failed")
		return err
	}

	var detectorFile, observableFile *os.File
	if *detectorOut != "" {
		detectorFile, err = os.Create(*detectorOut)
		if err != nil {
			return fmt.Errorf("creating detector output: %w", err)
		}
		defer detectorFile.Close()
	}
	if *observableOut != "" {
		observableFile, err = os.Create(*observableOut)
		if err != nil {
			return fmt.Errorf("creating observable output: %w", err)
		}
		defer observableFile.Close()
	}

	for _, res := range results {
		fmt.Fprintln(stdout, bitLine(res.Output.Measurements))
		if detectorFile != nil {
			fmt.Fprintln(detectorFile, detectorLine(res.Output.Detectors))
		}
		if observableFile != nil {
			fmt.Fprintln(observableFile, observableLine(res.Output.Observables))
		}
	}

	printHistogramSummary(stdout, sample.MeasurementHistogram(results), len(results))
	return nil
}

func bitLine(bits []bool) string {
	var sb strings.Builder
	for _, b := range bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func detectorLine(dets []executor.DetectorBit) string {
	var sb strings.Builder
	for i, d := range dets {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if d.Bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func observableLine(obs []executor.ObservableBit) string {
	var sb strings.Builder
	for i, o := range obs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d:", o.Index)
		if o.Bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func printHistogramSummary(w io.Writer, hist map[string]int, shots int) {
	if shots == 0 {
		return
	}
	keys := make([]string, 0, len(hist))
	for k := range hist {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, "--- summary ---")
	for _, k := range keys {
		count := hist[k]
		fmt.Fprintf(w, "%s: %d (%.2f%%)\n", k, count, 100*float64(count)/float64(shots))
	}
}

func firstNonZeroInt(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonZeroInt64(vals ...int64) int64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
