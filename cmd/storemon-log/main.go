// Command storemon-log views and analyzes storemon sample trace files.
//
// Trace files are written by storemon when started with the -trace flag.
//
// Usage:
//
//	storemon-log <command> [flags] <file.trace>
//
// Commands:
//
//	view     View trace events in human-readable format
//	export   Export trace events to JSONL or CSV
//	filter   Filter a trace and write matching events to a new file
//	stats    Show per-device statistics
//
// Examples:
//
//	# View all events
//	storemon-log view storemon.trace
//
//	# View skipped ticks of one device
//	storemon-log view -device "Main Bank" -category skip storemon.trace
//
//	# Export to CSV
//	storemon-log export -format csv -o samples.csv storemon.trace
//
//	# Show statistics
//	storemon-log stats storemon.trace
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/storemon/storemon-go/cmd/storemon-log/commands"
)

const usage = `storemon-log - storemon sample trace analyzer

Usage:
  storemon-log <command> [flags] <file.trace>

Commands:
  view     View trace events in human-readable format
  export   Export trace events to JSONL or CSV
  filter   Filter a trace and write matching events to a new file
  stats    Show per-device statistics

Use "storemon-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the event selection flags shared by view, export
// and filter.
func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.Device, "device", "", "Filter by device name")
	fs.StringVar(&opts.Kind, "kind", "", "Filter by device kind (counter, totals, ...)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (sample, baseline, skip)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	return opts
}

func newFlagSet(name, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `storemon-log %s - %s

Usage:
  storemon-log %s [flags] <file.trace>

Flags:
`, name, summary, name)
		fs.PrintDefaults()
	}
	return fs
}

// tracePath parses args and returns the trace file argument.
func tracePath(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := newFlagSet("view", "View trace events in human-readable format")
	opts := filterFlags(fs)
	path := tracePath(fs, args)

	filter, err := opts.Build()
	fail(err)
	fail(commands.RunView(path, filter, os.Stdout))
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export trace events to JSONL or CSV")
	opts := filterFlags(fs)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := tracePath(fs, args)

	filter, err := opts.Build()
	fail(err)
	fail(commands.RunExport(path, filter, *format, *output))
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter a trace and write matching events to a new file")
	opts := filterFlags(fs)
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	path := tracePath(fs, args)

	if opts.Output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	count, err := commands.RunFilter(path, *opts)
	fail(err)
	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show per-device statistics")
	path := tracePath(fs, args)

	fail(commands.RunStats(path, os.Stdout))
}
