package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taxplan-in/taxplan/internal/calculation"
	"github.com/taxplan-in/taxplan/internal/config"
	"github.com/taxplan-in/taxplan/internal/domain"
	"github.com/taxplan-in/taxplan/internal/output"
	"github.com/taxplan-in/taxplan/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// zapEngineLogger adapts a zap sugared logger to the engine's Logger seam.
type zapEngineLogger struct {
	s *zap.SugaredLogger
}

func (l zapEngineLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l zapEngineLogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l zapEngineLogger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l zapEngineLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

func newLogger(debugMode bool) (*zap.Logger, error) {
	if debugMode {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// buildEngine creates the engine with built-in tables, applying the regime
// override file from the flag or settings when present.
func buildEngine(regimeFile string, settings *config.Settings, logger *zap.Logger, debugMode bool) (*calculation.TaxEngine, error) {
	engine := calculation.NewTaxEngine()
	if debugMode {
		engine.SetLogger(zapEngineLogger{s: logger.Sugar()})
	}

	if regimeFile == "" && settings != nil {
		regimeFile = settings.RegimeFile
	}
	if regimeFile != "" {
		if err := config.LoadRegimeFile(regimeFile, engine.Registry, engine.Caps); err != nil {
			return nil, err
		}
		logger.Sugar().Debugf("loaded regime overrides from %s", regimeFile)
	}
	return engine, nil
}

// exitWithError prints a user-facing message that distinguishes bad input
// from system misconfiguration, then exits non-zero.
func exitWithError(err error) {
	var vErr *domain.ValidationError
	var cErr *domain.ConfigurationError
	switch {
	case errors.As(err, &vErr):
		fmt.Fprintf(os.Stderr, "input error: %v\n", vErr)
	case errors.As(err, &cErr):
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", cErr)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}

var rootCmd = &cobra.Command{
	Use:   "taxplan",
	Short: "Indian income tax calculator",
	Long:  "Computes income-tax liability under the old and new regimes and recommends tax-saving investments",
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [profile-file]",
	Short: "Compute the tax report for a profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		debugMode, _ := cmd.Flags().GetBool("debug")
		logger, err := newLogger(debugMode)
		if err != nil {
			exitWithError(err)
		}
		defer func() { _ = logger.Sync() }()

		settings, err := config.LoadSettings()
		if err != nil {
			exitWithError(err)
		}

		regimeFile, _ := cmd.Flags().GetString("regimes")
		engine, err := buildEngine(regimeFile, settings, logger, debugMode)
		if err != nil {
			exitWithError(err)
		}

		parser := config.NewInputParser()
		profile, err := parser.LoadProfile(args[0])
		if err != nil {
			exitWithError(err)
		}

		report, err := engine.GenerateReport(profile)
		if err != nil {
			exitWithError(err)
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = settings.OutputFormat
		}
		formatter := output.GetFormatterByName(format)
		if formatter == nil {
			exitWithError(fmt.Errorf("unsupported format %q (supported: %s)",
				format, strings.Join(output.FormatterNames(), ", ")))
		}

		data, err := formatter.Format(report)
		if err != nil {
			exitWithError(err)
		}

		// The workbook is binary; write it to a file like the legacy
		// exporter did rather than dumping bytes on stdout.
		if formatter.Name() == "xlsx" {
			filename := fmt.Sprintf("tax_report_%s.xlsx", time.Now().Format("20060102_150405"))
			if err := os.WriteFile(filename, data, 0o644); err != nil {
				exitWithError(err)
			}
			fmt.Printf("Report exported to %s\n", filename)
			return
		}
		fmt.Print(string(data))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [profile-file]",
	Short: "Validate a profile file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		if _, err := parser.LoadProfile(args[0]); err != nil {
			exitWithError(err)
		}
		fmt.Printf("Profile %s is valid\n", args[0])
	},
}

var regimesCmd = &cobra.Command{
	Use:   "regimes",
	Short: "List the registered regime tables",
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := newLogger(false)
		if err != nil {
			exitWithError(err)
		}
		defer func() { _ = logger.Sync() }()

		settings, err := config.LoadSettings()
		if err != nil {
			exitWithError(err)
		}
		regimeFile, _ := cmd.Flags().GetString("regimes")
		engine, err := buildEngine(regimeFile, settings, logger, false)
		if err != nil {
			exitWithError(err)
		}

		for _, t := range engine.Registry.Tables() {
			deductions := "deductions allowed"
			if !t.AllowsDeductions {
				deductions = "deductions not allowed"
			}
			fmt.Printf("%-8s AY %s  standard deduction %s, rebate up to %s below %s, %s\n",
				t.Regime, t.AssessmentYear,
				output.FormatCurrency(t.StandardDeduction),
				output.FormatCurrency(t.RebateCap),
				output.FormatCurrency(t.RebateThreshold),
				deductions)
		}
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive tax planner",
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := newLogger(false)
		if err != nil {
			exitWithError(err)
		}
		defer func() { _ = logger.Sync() }()

		settings, err := config.LoadSettings()
		if err != nil {
			exitWithError(err)
		}
		regimeFile, _ := cmd.Flags().GetString("regimes")
		engine, err := buildEngine(regimeFile, settings, logger, false)
		if err != nil {
			exitWithError(err)
		}
		if err := tui.Run(engine); err != nil {
			exitWithError(err)
		}
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "taxplan %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

func init() {
	calculateCmd.Flags().String("format", "", "output format: console, json, csv, xlsx")
	calculateCmd.Flags().Bool("debug", false, "enable debug logging")

	for _, cmd := range []*cobra.Command{calculateCmd, regimesCmd, tuiCmd} {
		cmd.Flags().String("regimes", "", "path to a regime/cap table override file")
	}

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(regimesCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
