package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chriscorrea/reviewdtm/internal/app"
	"github.com/chriscorrea/reviewdtm/internal/config"
	"github.com/chriscorrea/reviewdtm/internal/progress"

	"github.com/spf13/cobra"
)

// buildConfig loads the config file and applies command flags over it
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("train") {
		cfg.Train, _ = flags.GetString("train")
	}
	if flags.Changed("eval") {
		cfg.Eval, _ = flags.GetString("eval")
	}
	if flags.Changed("out") {
		cfg.OutDir, _ = flags.GetString("out")
	}
	if flags.Changed("artifact") {
		cfg.Artifact, _ = flags.GetString("artifact")
	}
	if flags.Changed("theta") {
		th, _ := flags.GetFloat64("theta")
		cfg.SetThreshold(th)
	}
	if flags.Changed("theta-class") {
		perClass, _ := flags.GetStringToString("theta-class")
		if err := applyClassThresholds(cfg, perClass); err != nil {
			return nil, err
		}
	}
	if flags.Changed("eval-theta") {
		cfg.Vocabulary.EvalThreshold, _ = flags.GetFloat64("eval-theta")
	}
	if flags.Changed("aggregates") {
		cfg.Columns.Aggregates, _ = flags.GetStringSlice("aggregates")
	}
	if flags.Changed("features") {
		cfg.Computed, _ = flags.GetStringSlice("features")
	}
	if flags.Changed("strip-html") {
		cfg.Columns.StripHTML, _ = flags.GetBool("strip-html")
	}
	if flags.Changed("strip-furniture") {
		cfg.Columns.StripFurniture, _ = flags.GetBool("strip-furniture")
	}
	if flags.Changed("no-stem") {
		noStem, _ := flags.GetBool("no-stem")
		cfg.Tokenizer.StemWords = !noStem
	}
	if flags.Changed("train-model") {
		cfg.Model.Train, _ = flags.GetBool("train-model")
	}
	if flags.Changed("cutoff") {
		cfg.Model.Cutoff, _ = flags.GetFloat64("cutoff")
		cfg.Model.ExplicitCutoff = true
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile, _ = flags.GetString("metrics-file")
	}

	return cfg, cfg.Validate()
}

// setupLogger configures the default slog logger based on debug and quiet modes
func setupLogger(debug, quiet bool) {
	var level slog.Level
	switch {
	case debug:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

var rootCmd = &cobra.Command{
	Use:   "reviewdtm",
	Short: "Build aligned term-document feature matrices from labeled reviews",
	Long: `reviewdtm builds a sparse lexical feature matrix from labeled reviews, selecting
each class's vocabulary with its own sparsity threshold, and projects a held-out
evaluation set onto exactly the same columns.

Examples:
  reviewdtm --train train.csv --eval test.csv --out results
  reviewdtm --config reviewdtm.yaml --theta-class 0=0.99,1=0.9 --train-model
  reviewdtm --artifact results/schema.json --eval new_reviews.csv --out scored`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		debug, _ := cmd.Flags().GetBool("debug")

		// configure logging pending debug flag
		setupLogger(debug, quiet)

		// build config from file and flags
		cfg, err := buildConfig(cmd)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// create context with signal handling for graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		rep := progress.New(ctx, os.Stderr, !quiet && !debug && progress.Interactive(os.Stderr))

		res, err := app.Run(ctx, cfg, rep)
		if err != nil {
			return fmt.Errorf("reviewdtm failed: %w", err)
		}

		if !quiet {
			for _, f := range res.Files {
				fmt.Println(f)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringP("config", "c", "", "YAML configuration file")

	// inputs and outputs
	rootCmd.Flags().String("train", "", "Training corpus (CSV file, URL, or - for stdin)")
	rootCmd.Flags().String("eval", "", "Evaluation corpus (CSV file, URL, or - for stdin)")
	rootCmd.Flags().StringP("out", "o", "", "Output directory (default: out)")
	rootCmd.Flags().String("artifact", "", "Project the evaluation corpus onto a saved schema.json instead of training")
	rootCmd.Flags().String("metrics-file", "", "Write run metrics in Prometheus text format to this file")

	// training and artifact inputs are mutually exclusive
	rootCmd.MarkFlagsMutuallyExclusive("train", "artifact")

	// vocabulary
	rootCmd.Flags().Float64("theta", 0, "Sparsity threshold in (0,1) for every class")
	rootCmd.Flags().StringToString("theta-class", nil, "Per-class sparsity thresholds, e.g. 0=0.99,1=0.9")
	rootCmd.Flags().Float64("eval-theta", 0, "Sparsity threshold in (0,1) for the evaluation corpus")
	rootCmd.Flags().StringSlice("aggregates", nil, "Precomputed numeric feature columns")
	rootCmd.Flags().StringSlice("features", nil, "Computed length features (token_count, word_count, char_count)")
	rootCmd.Flags().Bool("strip-html", false, "Reduce review text to its visible text")
	rootCmd.Flags().Bool("strip-furniture", false, "Drop scraped interface text such as 'Report abuse'")
	rootCmd.Flags().Bool("no-stem", false, "Disable stemming")

	// model
	rootCmd.Flags().Bool("train-model", false, "Train the baseline model and score the evaluation corpus")
	rootCmd.Flags().Float64("cutoff", 0, "Classification cut-off in (0,1) (default: 0.5)")

	// other flags
	rootCmd.Flags().BoolP("quiet", "q", false, "Suppress output messages")
	rootCmd.Flags().BoolP("debug", "D", false, "Enable debug logging")
	_ = rootCmd.Flags().MarkHidden("debug")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
