package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sql-remap/internal/converter"
	"sql-remap/internal/mapping"
	"sql-remap/internal/model"
	"sql-remap/internal/reporter"
)

var (
	cfgFile     string
	mappingPath string
	inlineQuery string
	catalog     string
	reportFmt   string
	outputFile  string
	validate    bool
	concurrency int
	excludes    []string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "sql-remap [file|dir|-]",
	Short: "Rewrites legacy-schema SQL queries against a renamed target schema",
	Long: `sql-remap rewrites T-SQL queries written against a legacy
database.schema.table naming into equivalent queries against the renamed
target warehouse schema, driven by a CSV mapping table. References it cannot
resolve are reported instead of silently guessed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		initLogging()
		return runConvert(args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Optional config file with flag defaults")
	rootCmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "Path to mapping CSV file (required)")
	rootCmd.Flags().StringVarP(&inlineQuery, "query", "q", "", "Inline SQL query to convert")
	rootCmd.Flags().StringVarP(&catalog, "catalog", "c", "", "Target catalog to prefix rewritten tables with")
	rootCmd.Flags().StringVarP(&reportFmt, "report", "r", "console", "Report format (console, html)")
	rootCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file path (default: 'report.html' for html)")
	rootCmd.Flags().BoolVar(&validate, "validate", false, "Parse converted statements and warn when one no longer parses")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 4, "Worker count for directory conversion")
	rootCmd.Flags().StringSliceVarP(&excludes, "exclude", "e", nil, "Glob patterns to exclude in directory mode")
	rootCmd.Flags().StringVar(&logLevel, "log-level", zerolog.LevelWarnValue,
		fmt.Sprintf("Logging level (%s|%s|%s)", zerolog.LevelDebugValue, zerolog.LevelInfoValue, zerolog.LevelWarnValue))

	for _, name := range []string{"mapping", "catalog", "report", "validate", "concurrency", "log-level"} {
		if err := viper.BindPFlag(name, rootCmd.Flags().Lookup(name)); err != nil {
			log.Fatal().Err(err).Msg("")
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initConfig() error {
	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func initLogging() {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		level = zerolog.WarnLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func runConvert(args []string) error {
	path := viper.GetString("mapping")
	if path == "" {
		return fmt.Errorf("a mapping file is required (--mapping)")
	}
	table, err := mapping.Load(path)
	if err != nil {
		return err
	}
	log.Info().Int("entries", table.Len()).Msg("mapping table ready")

	engine := converter.New(table, converter.Options{
		Catalog:  viper.GetString("catalog"),
		Validate: viper.GetBool("validate"),
	})

	if inlineQuery == "" && len(args) == 1 && args[0] != "-" {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			return runBatch(engine, args[0])
		}
	}

	query, err := readQuery(args)
	if err != nil {
		return err
	}

	result, err := engine.Convert(query)
	if err != nil {
		return err
	}
	return buildReporter().Report(result)
}

func readQuery(args []string) (string, error) {
	if inlineQuery != "" {
		return inlineQuery, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("no input: pass a SQL file, a directory, '-' for stdin, or --query")
	}
	if args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read query file: %w", err)
	}
	return string(data), nil
}

func buildReporter() model.Reporter {
	switch viper.GetString("report") {
	case "html":
		target := outputFile
		if target == "" {
			target = "report.html"
		}
		return reporter.NewHTMLReporter(target)
	default:
		return reporter.NewConsoleReporter()
	}
}

func runBatch(engine *converter.Engine, root string) error {
	if viper.GetString("report") == "html" {
		return fmt.Errorf("html report is not supported in directory mode")
	}

	paths, err := converter.FindSQLFiles(root, excludes)
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .sql files found under %s", root)
	}
	log.Info().Int("files", len(paths)).Str("root", root).Msg("batch conversion started")

	rpt := reporter.NewConsoleReporter()
	failed := 0
	for res := range engine.ConvertFiles(context.Background(), paths, viper.GetInt("concurrency")) {
		fmt.Printf("==> %s\n", res.Path)
		if res.Err != nil {
			failed++
			log.Error().Err(res.Err).Str("path", res.Path).Msg("conversion failed")
			continue
		}
		if err := rpt.Report(res.Result); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to convert", failed, len(paths))
	}
	return nil
}
