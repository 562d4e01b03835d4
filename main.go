package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"peinspect/common"
	"peinspect/hdrw"
)

// Program configuration
type Config struct {
	Verbose     bool
	Parallel    bool
	MaxWorkers  int
	Strict      bool
	Deep        bool
	JSONOut     bool
	Fields      []string
	ShowHelp    bool
	ShowVersion bool
}

// Processing statistics
type ProcessStats struct {
	mu        sync.Mutex
	Processed int
	Failed    int
	Warned    int
}

const versionString = "peinspect, version 0.1"

var (
	config = &Config{}
	stats  = &ProcessStats{}

	// Command flags
	verbose     = flag.Bool("v", false, "Enable verbose output (hashes, entropy, deep parse dump)")
	parallel    = flag.Bool("j", false, "Process files in parallel")
	maxWorkers  = flag.Int("workers", 4, "Maximum number of parallel workers (default: 4)")
	strict      = flag.Bool("strict", false, "Treat a missing MZ signature as a hard error")
	deep        = flag.Bool("deep", false, "Verify the whole image with the go-pe parser after decoding")
	jsonOut     = flag.Bool("json", false, "Emit the decoded fields as JSON")
	fieldFilter = flag.String("fields", "", "Comma-separated field names or prefixes to display (e.g. e_magic,e_res)")
	showHelp    = flag.Bool("help", false, "Display this help and exit")
	showVersion = flag.Bool("version", false, "Display version information and exit")
)

// Input triage errors
var (
	ErrELFInput = errors.New("input is an ELF binary, not a PE image")
)

// ProcessResult represents the outcome of inspecting one file
type ProcessResult struct {
	Filename string
	Output   string
	Summary  *common.InspectionResult
	Warnings int
	Error    error
}

func init() {
	flag.Usage = customUsage
}

func customUsage() {
	_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] FILE...\n", os.Args[0])
	_, _ = fmt.Fprintln(os.Stderr, "Decode and display the DOS header of PE executable files.")
	_, _ = fmt.Fprintln(os.Stderr, "")
	_, _ = fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
	_, _ = fmt.Fprintln(os.Stderr, "")
	_, _ = fmt.Fprintln(os.Stderr, "Examples:")
	_, _ = fmt.Fprintf(os.Stderr, "  %s program.exe                     # Decode the DOS header\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "  %s -fields e_magic,e_lfanew a.exe  # Show selected fields only\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "  %s -j -workers=8 *.dll             # Parallel processing with 8 workers\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "  %s -deep -v program.exe            # Full go-pe verification, verbose\n", os.Args[0])
}

func parseFlags() {
	flag.Parse()

	config.Verbose = *verbose
	config.Parallel = *parallel
	config.MaxWorkers = *maxWorkers
	config.Strict = *strict
	config.Deep = *deep
	config.JSONOut = *jsonOut
	config.ShowHelp = *showHelp
	config.ShowVersion = *showVersion

	if *fieldFilter != "" {
		for _, name := range strings.Split(*fieldFilter, ",") {
			if name = strings.TrimSpace(name); name != "" {
				config.Fields = append(config.Fields, name)
			}
		}
	}

	// Parameter validation
	if config.MaxWorkers < 1 {
		config.MaxWorkers = 1
	}
	if config.MaxWorkers > 16 {
		config.MaxWorkers = 16
	}
}

func processFile(filename string) *ProcessResult {
	result := &ProcessResult{Filename: filename}
	ctx := context.Background()

	fileInfo, err := os.Stat(filename)
	if err != nil {
		return result.fail(fmt.Errorf("cannot access file: %w", err))
	}
	if !fileInfo.Mode().IsRegular() {
		return result.fail(fmt.Errorf("not a regular file"))
	}

	img := hdrw.Open(filename)

	if err := img.WaitLoaded(ctx); err != nil {
		return result.fail(err)
	}

	// Triage: a misfed ELF binary deserves a precise message
	if common.DetectFormat(img.Data()) == common.FormatELF {
		return result.fail(fmt.Errorf("%w (%s)", ErrELFInput, common.DescribeELF(img.Data())))
	}

	dos, err := img.DecodeHeaders(ctx, config.Strict)
	if err != nil {
		return result.fail(err)
	}
	result.Warnings = len(img.Warnings())

	output, err := renderOutput(img, dos)
	if err != nil {
		return result.fail(err)
	}
	result.Output = output
	result.Summary = common.NewDecoded(dos.Name, len(dos.Fields))
	return result
}

func (r *ProcessResult) fail(err error) *ProcessResult {
	r.Error = err
	r.Summary = common.NewFailed(err.Error())
	return r
}

func renderOutput(img *hdrw.Image, dos *hdrw.Schema) (string, error) {
	rows := dos.Rows(config.Fields)

	if config.JSONOut {
		payload := struct {
			File     string            `json:"file"`
			Fields   []common.FieldRow `json:"fields"`
			Warnings []string          `json:"warnings,omitempty"`
		}{img.FileName, rows, img.Warnings()}
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to serialize output: %w", err)
		}
		return string(out) + "\n", nil
	}

	var out strings.Builder
	title := fmt.Sprintf("%s - %s", dos.Name, filepath.Base(img.FileName))
	out.WriteString(common.FormatFieldTable(title, rows))
	out.WriteString(common.FormatWarnings(img.Warnings()))

	if config.Verbose {
		out.WriteString(common.FormatDigest(common.DigestBuffer(img.Data())))
	}

	if config.Deep {
		info, err := img.VerifyDeep()
		if err != nil {
			out.WriteString(fmt.Sprintf("   ❌ deep verification: %v\n", err))
		} else {
			out.WriteString("   ✅ image parses past the DOS header\n")
			if config.Verbose {
				out.WriteString(info + "\n")
			}
		}
	}
	return out.String(), nil
}

func processFilesSequential(filenames []string) []ProcessResult {
	results := make([]ProcessResult, 0, len(filenames))

	for _, filename := range filenames {
		result := processFile(filename)
		results = append(results, *result)
		printResult(result)
	}
	return results
}

func processFilesParallel(filenames []string) []ProcessResult {
	jobs := make(chan string, len(filenames))
	results := make(chan ProcessResult, len(filenames))

	// Start the workers
	var wg sync.WaitGroup
	for i := 0; i < config.MaxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for filename := range jobs {
				result := processFile(filename)
				results <- *result
			}
		}()
	}

	// Submit the jobs
	go func() {
		for _, filename := range filenames {
			jobs <- filename
		}
		close(jobs)
	}()

	// Close the result channel once all workers finish
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect the results
	var allResults []ProcessResult
	for result := range results {
		allResults = append(allResults, result)
		printResult(&result)
	}
	return allResults
}

func printResult(result *ProcessResult) {
	if result.Error != nil {
		_, _ = fmt.Fprintf(os.Stderr, "❌ %s: %v\n", filepath.Base(result.Filename), result.Error)
		return
	}
	fmt.Print(result.Output)
	if config.Verbose && result.Summary != nil {
		fmt.Printf("   %s\n", result.Summary)
	}
}

func updateStats(results []ProcessResult) {
	stats.mu.Lock()
	defer stats.mu.Unlock()

	for _, result := range results {
		stats.Processed++
		if result.Error != nil {
			stats.Failed++
		}
		if result.Warnings > 0 {
			stats.Warned++
		}
	}
}

func printSummary() {
	if stats.Processed == 0 {
		return
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Files processed: %d\n", stats.Processed)
	fmt.Printf("  Decoded: %d\n", stats.Processed-stats.Failed)
	fmt.Printf("  Failed: %d\n", stats.Failed)
	if stats.Warned > 0 {
		fmt.Printf("  With warnings: %d\n", stats.Warned)
	}
}

func main() {
	parseFlags()

	if config.ShowHelp {
		flag.Usage()
		os.Exit(0)
	}

	if config.ShowVersion {
		fmt.Println(versionString)
		os.Exit(0)
	}

	filenames := flag.Args()
	if len(filenames) == 0 {
		flag.Usage()
		os.Exit(0)
	}

	var results []ProcessResult
	if config.Parallel && len(filenames) > 1 {
		if config.Verbose {
			fmt.Printf("Processing %d files with %d workers...\n", len(filenames), config.MaxWorkers)
		}
		results = processFilesParallel(filenames)
	} else {
		results = processFilesSequential(filenames)
	}

	updateStats(results)

	if len(filenames) > 1 || config.Verbose {
		printSummary()
	}

	if stats.Failed > 0 {
		os.Exit(1)
	}
}
