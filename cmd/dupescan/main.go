package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"dupescan/internal/config"
	"dupescan/internal/dupes"
	"dupescan/internal/hash"
	"dupescan/internal/progress"
	"dupescan/internal/reconcile"
	"dupescan/internal/walker"
)

var (
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	cfgFile     string
	noRecursive bool
	minSize     int64
	algoName    string
	doDelete    bool
	workers     int
	reportPath  string
)

var rootCmd = &cobra.Command{
	Use:   "dupescan [directory]",
	Short: "Find and manage duplicate files in a directory tree",
	Long: `dupescan finds files with byte-identical content. Files are first grouped
by size, then only size collisions are hashed, so unique files are never read.
With --delete, discovered duplicate sets can be cleaned up interactively.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "dupescan.yaml", "Config file path")
	rootCmd.Flags().BoolVar(&noRecursive, "no-recursive", false, "Do not scan subdirectories")
	rootCmd.Flags().Int64Var(&minSize, "min-size", -1, "Minimum file size in bytes to consider")
	rootCmd.Flags().StringVar(&algoName, "hash", "", "Hash algorithm: fast (xxHash64) or strong (SHA-256)")
	rootCmd.Flags().BoolVar(&doDelete, "delete", false, "Interactively delete duplicate files")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of hashing workers (default: number of CPUs)")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Write the report as JSON to this file")
}

func run(cmd *cobra.Command, args []string) error {
	directory := "."
	if len(args) == 1 {
		directory = args[0]
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags override config file values.
	if minSize < 0 {
		minSize = cfg.MinSize
	}
	if algoName == "" {
		algoName = cfg.Algorithm
	}
	if workers == 0 {
		workers = cfg.Workers
	}
	if reportPath == "" {
		reportPath = cfg.ReportFile
	}

	algo, err := hash.ParseAlgorithm(algoName)
	if err != nil {
		return err
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	fmt.Printf("Scanning directory: %s\n", absDirectory)
	fmt.Printf("   Recursive: %t, Min size: %s, Hash: %s\n",
		!noRecursive, dupes.FormatSize(minSize), algo)

	spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("Collecting file sizes...")
	scan, err := walker.Scan(absDirectory, walker.Options{
		Recursive: !noRecursive,
		MinSize:   minSize,
		Exclude:   cfg.Exclude,
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	fmt.Printf("Found %d files to analyze\n", scan.FileCount)

	candidates := scan.Candidates()
	candidateCount := scan.CandidateCount()
	if candidateCount == 0 {
		fmt.Println("✓ No potential duplicates found (all files have unique sizes)")
		return nil
	}

	fmt.Printf("Hashing %d potential duplicates...\n", candidateCount)

	bar := progress.New(int64(candidateCount))
	result := dupes.Classify(candidates, algo, workers, func(completed int) {
		bar.Increment()
	})
	bar.Finish()

	report := dupes.BuildReport(absDirectory, algo, result)
	fmt.Println(dupes.FormatReport(report))

	if report.HashFailures > 0 {
		fmt.Println(yellow.Render(fmt.Sprintf("⚠ %d file(s) could not be read and are unresolved:", report.HashFailures)))
		for _, failure := range result.Failures {
			fmt.Printf("  ✗ %v\n", failure)
		}
	}

	if reportPath != "" {
		if err := report.Save(reportPath); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Printf("Report written to %s\n", reportPath)
	}

	if doDelete && len(report.Sets) > 0 {
		workflow := reconcile.New(os.Stdin, os.Stdout)
		summary := workflow.Run(report.Sets)
		fmt.Print(reconcile.FormatSummary(summary))
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
