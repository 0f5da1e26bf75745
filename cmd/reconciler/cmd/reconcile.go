package cmd

import (
	"fmt"
	"os"
	"time"

	"vietnam-address-reconciliation/cmd/reconciler/config"
	"vietnam-address-reconciliation/internal/matcher"
	"vietnam-address-reconciliation/internal/reconciler"
	"vietnam-address-reconciliation/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the reconcile command
var (
	formsFile     string
	referenceFile string
	outputDir     string
	outputFormat  string
	fileFormat    string
	matchStrategy string
	reportFile    string
	showProgress  bool
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Validate form responses against the reference address file",
	Long: `Reconcile compares customer address-change form responses with the
addresses on file in the logistics reference system.

Every form record lands in exactly one of two result tables: matched (the
requested addresses are consistent with the reference system) or unmatched
(with the reason, for manual follow-up). Matched records are expanded into
the fixed-schema upload template used to bulk-update the reference system.

This command requires:
- The form responses export (.xlsx or .csv)
- The reference system address extract (.xlsx or .csv)

Examples:
  # Basic reconciliation, .xlsx outputs in the current directory
  reconciler reconcile --forms-file responses.xlsx --reference-file addresses.xlsx

  # CSV outputs in a dedicated directory, JSON summary to a file
  reconciler reconcile --forms-file responses.csv --reference-file addresses.csv \
    --output-dir out --file-format csv --output-format json --report-file summary.json

  # Opt in to the weaker containment matching
  reconciler reconcile --forms-file responses.xlsx --reference-file addresses.xlsx \
    --match-strategy containment`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	// Required flags
	reconcileCmd.Flags().StringVarP(&formsFile, "forms-file", "f", "", "path to the form responses file (required)")
	reconcileCmd.Flags().StringVarP(&referenceFile, "reference-file", "r", "", "path to the reference address extract (required)")

	// Output flags
	reconcileCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for the three result tables")
	reconcileCmd.Flags().StringVar(&fileFormat, "file-format", "xlsx", "result table format: xlsx, csv")
	reconcileCmd.Flags().StringVar(&outputFormat, "output-format", "console", "summary report format: console, json, csv")
	reconcileCmd.Flags().StringVar(&reportFile, "report-file", "", "summary report path (default: stdout)")

	// Matching flags
	reconcileCmd.Flags().StringVar(&matchStrategy, "match-strategy", "exact", "address match strategy: exact, containment")

	reconcileCmd.Flags().BoolVar(&showProgress, "progress", false, "log per-second progress during the run")

	reconcileCmd.MarkFlagRequired("forms-file")
	reconcileCmd.MarkFlagRequired("reference-file")

	viper.BindPFlag("forms-file", reconcileCmd.Flags().Lookup("forms-file"))
	viper.BindPFlag("reference-file", reconcileCmd.Flags().Lookup("reference-file"))
	viper.BindPFlag("output-dir", reconcileCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("file-format", reconcileCmd.Flags().Lookup("file-format"))
	viper.BindPFlag("output-format", reconcileCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("report-file", reconcileCmd.Flags().Lookup("report-file"))
	viper.BindPFlag("match-strategy", reconcileCmd.Flags().Lookup("match-strategy"))
	viper.BindPFlag("progress", reconcileCmd.Flags().Lookup("progress"))
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	// Viper values win so config-file settings can override defaults
	formsFile = viper.GetString("forms-file")
	referenceFile = viper.GetString("reference-file")
	outputDir = viper.GetString("output-dir")
	fileFormat = viper.GetString("file-format")
	outputFormat = viper.GetString("output-format")
	reportFile = viper.GetString("report-file")
	matchStrategy = viper.GetString("match-strategy")

	if formsFile == "" {
		return fmt.Errorf("forms-file is required")
	}
	if referenceFile == "" {
		return fmt.Errorf("reference-file is required")
	}

	if err := validateFileExists(formsFile, "form responses file"); err != nil {
		return err
	}
	if err := validateFileExists(referenceFile, "reference address extract"); err != nil {
		return err
	}

	if !reporter.FileFormat(fileFormat).IsValid() {
		return fmt.Errorf("invalid file format '%s'. Valid formats: xlsx, csv", fileFormat)
	}
	if !reporter.OutputFormat(outputFormat).IsValid() {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}
	if _, err := matcher.ParseStrategy(matchStrategy); err != nil {
		return err
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting reconciliation...\n")
		fmt.Fprintf(os.Stderr, "Forms file: %s\n", formsFile)
		fmt.Fprintf(os.Stderr, "Reference file: %s\n", referenceFile)
		fmt.Fprintf(os.Stderr, "Output directory: %s\n", outputDir)
	}

	serviceConfig, err := config.CreateServiceConfig(matchStrategy)
	if err != nil {
		return err
	}
	if viper.GetBool("progress") {
		serviceConfig.ProgressInterval = time.Second
	}

	service, err := reconciler.NewService(serviceConfig)
	if err != nil {
		return fmt.Errorf("failed to create reconciliation service: %w", err)
	}

	run, err := service.Run(formsFile, referenceFile)
	if err != nil {
		return err
	}

	// Write the three result tables
	writer, err := reporter.NewResultWriter(reporter.FileFormat(fileFormat))
	if err != nil {
		return err
	}
	paths, err := writer.WriteAll(run.Results, outputDir)
	if err != nil {
		return err
	}

	// Generate the summary report
	reportGenerator, err := reporter.NewReportGenerator(config.CreateReportConfig(outputFormat))
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	output := os.Stdout
	if reportFile != "" {
		output, err = os.Create(reportFile)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer output.Close()
	}

	if err := reportGenerator.GenerateReport(run, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nReconciliation completed.\n")
		fmt.Fprintf(os.Stderr, "Matched %d of %d records (%d unmatched).\n",
			run.Summary.Matched, run.Summary.TotalRequests, run.Summary.Unmatched)
		for _, path := range paths {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		}
	}

	return nil
}
