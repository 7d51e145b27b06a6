// Command acumen runs the education inference pipeline from the command
// line: feature extraction, model training, prediction, performance
// aggregation, and synthetic data seeding.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindora/acumen/internal/app"
	"github.com/mindora/acumen/internal/batch"
	"github.com/mindora/acumen/internal/config"
	"github.com/mindora/acumen/internal/domain/feature"
	"github.com/mindora/acumen/internal/registry"
	"github.com/mindora/acumen/pkg/logger"
)

var version = "dev"

func main() {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "acumen",
		Short:         "Question difficulty and answer quality inference",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			cfg = loaded
			if err := logger.Init(); err != nil {
				return err
			}
			return logger.SetLevelString(cfg.LogLevel)
		},
	}

	rootCmd.AddCommand(
		extractCmd(&cfg),
		trainCmd(&cfg),
		predictCmd(&cfg),
		aggregateCmd(&cfg),
		batchCmd(&cfg),
		seedCmd(&cfg),
		statsCmd(&cfg),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// withService starts the service for one command invocation.
func withService(ctx context.Context, cfg *config.Config, fn func(*app.Service) error) error {
	svc := app.New(cfg)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()
	return fn(svc)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func extractCmd(cfg **config.Config) *cobra.Command {
	var in feature.Input
	var mode string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a feature vector from text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Mode = feature.Mode(mode)
			return withService(cmd.Context(), *cfg, func(svc *app.Service) error {
				vec, err := svc.ExtractFeatures(cmd.Context(), in)
				if err != nil {
					return err
				}
				return printJSON(vec.Named())
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "question", "extraction mode: question or answer")
	cmd.Flags().StringVar(&in.Text, "text", "", "text to extract features from")
	cmd.Flags().StringVar(&in.QuestionType, "type", "", "question type (question mode)")
	cmd.Flags().StringVar(&in.Question, "question", "", "question text (answer mode)")
	cmd.Flags().StringVar(&in.Reference, "reference", "", "reference answer (answer mode)")
	cmd.Flags().Float64Var(&in.TimeTaken, "time", 0, "seconds taken (answer mode)")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func trainCmd(cfg **config.Config) *cobra.Command {
	var questionsPath string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train all model roles from stored attempts",
		Long: "Builds training sets from the attempt store and trains the difficulty\n" +
			"classifier, score regressor, and comprehension clusterer. The questions\n" +
			"file supplies text context for stored attempts; the seed command emits one.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			questions, err := readQuestions(questionsPath)
			if err != nil {
				return err
			}
			return withService(cmd.Context(), *cfg, func(svc *app.Service) error {
				reports, err := svc.TrainFromAttempts(cmd.Context(), questions)
				if len(reports) > 0 {
					if perr := printJSON(reports); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&questionsPath, "questions", "", "path to a JSON file of questions")
	_ = cmd.MarkFlagRequired("questions")
	return cmd
}

func predictCmd(cfg **config.Config) *cobra.Command {
	var role string
	var in feature.Input

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Serve a prediction from the active model of a role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), *cfg, func(svc *app.Service) error {
				pred, err := svc.Predict(cmd.Context(), registry.Role(role), in)
				if err != nil {
					return err
				}
				return printJSON(pred)
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", string(registry.RoleDifficulty), "model role: difficulty, score, or comprehension")
	cmd.Flags().StringVar(&in.Text, "text", "", "text to predict on")
	cmd.Flags().StringVar(&in.QuestionType, "type", "", "question type (difficulty role)")
	cmd.Flags().StringVar(&in.Question, "question", "", "question text (score and comprehension roles)")
	cmd.Flags().StringVar(&in.Reference, "reference", "", "reference answer (score and comprehension roles)")
	cmd.Flags().Float64Var(&in.TimeTaken, "time", 0, "seconds taken (score and comprehension roles)")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func aggregateCmd(cfg **config.Config) *cobra.Command {
	var questionID string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Recompute the difficulty summary of a question from its attempts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), *cfg, func(svc *app.Service) error {
				summary, err := svc.AggregatePerformance(cmd.Context(), questionID)
				if err != nil {
					return err
				}
				return printJSON(summary)
			})
		},
	}

	cmd.Flags().StringVar(&questionID, "question", "", "question id")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

func batchCmd(cfg **config.Config) *cobra.Command {
	var op string
	var itemsPath string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run an operation over a JSON file of items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(itemsPath)
			if err != nil {
				return fmt.Errorf("read items file: %w", err)
			}
			var items []batch.Item
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("parse items file: %w", err)
			}
			return withService(cmd.Context(), *cfg, func(svc *app.Service) error {
				report, err := svc.RunBatch(cmd.Context(), batch.Op(op), items)
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	}

	cmd.Flags().StringVar(&op, "op", string(batch.OpExtract), "operation: extract, predict_difficulty, or predict_score")
	cmd.Flags().StringVar(&itemsPath, "items", "", "path to a JSON file of batch items")
	_ = cmd.MarkFlagRequired("items")
	return cmd
}

func seedCmd(cfg **config.Config) *cobra.Command {
	var seedValue int64
	var questionsOut string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the attempt store with synthetic questions and attempts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), *cfg, func(svc *app.Service) error {
				questions, total, err := svc.SeedData(cmd.Context(), seedValue)
				if err != nil {
					return err
				}

				data, err := json.MarshalIndent(questions, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(questionsOut, data, 0o644); err != nil {
					return fmt.Errorf("write questions file: %w", err)
				}

				fmt.Printf("Seeded %d questions and %d attempts\n", len(questions), total)
				fmt.Printf("Question catalog written to %s\n", questionsOut)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&seedValue, "seed", 42, "random seed")
	cmd.Flags().StringVar(&questionsOut, "questions-out", "questions.json", "path to write the question catalog for train")
	return cmd
}

func statsCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the active model of every role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), *cfg, func(svc *app.Service) error {
				return printJSON(svc.Stats(cmd.Context()))
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("acumen", version)
		},
	}
}

func readQuestions(path string) ([]app.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	var questions []app.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("questions file %s is empty", path)
	}
	return questions, nil
}
