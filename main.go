package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/hickeroar/spamcheck/bayes"
	"github.com/hickeroar/spamcheck/internal/config"
	"github.com/hickeroar/spamcheck/internal/logger"
	"github.com/hickeroar/spamcheck/internal/report"
	"github.com/spf13/cobra"
)

var errNothingToAnalyze = fmt.Errorf("please enter an email to analyze: %w", bayes.ErrEmptyInput)

var (
	logFatal = func(v ...interface{}) { log.Fatal(v...) }
	runMain  = func() error { return newRootCmd().Execute() }
)

// app carries what the persistent pre-run resolved to every subcommand.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "spamcheck",
		Short: "Estimate how likely a short text is spam",
		Long: `spamcheck scores text with a Naive Bayes model trained once on a small
set of example spam and non-spam sentences.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error, none)")

	cmd.AddCommand(newClassifyCmd(a))
	cmd.AddCommand(newInfoCmd(a))
	cmd.AddCommand(newServeCmd(a))

	return cmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if err := logger.Init(cfg.Logging.File, cfg.Logging.Level); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	a.cfg = cfg
	return nil
}

func newClassifyCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify text given as arguments or on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			posterior, err := a.cfg.NewClassifier().Classify(text)
			if errors.Is(err, bayes.ErrEmptyInput) {
				return errNothingToAnalyze
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(NewClassificationResponse(posterior))
			}
			return report.Render(cmd.OutOrStdout(), posterior)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the trained model's counters and constants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := NewInfoResponse(a.cfg.NewClassifier())
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Smoothing: %g\n", info.Smoothing)
			fmt.Fprintf(out, "Priors: spam=%g ham=%g\n", info.Priors.Spam, info.Priors.Ham)
			for _, label := range bayes.Labels {
				summary := info.Categories[string(label)]
				fmt.Fprintf(out, "%-5s tokens=%d vocabulary=%d\n", label, summary.TokenTally, summary.Vocabulary)
			}
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var port, authToken string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classifier over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Server.Port
			}
			if !cmd.Flags().Changed("auth-token") {
				authToken = a.cfg.Server.AuthToken
			}

			return serve(NewClassifierAPI(a.cfg.NewClassifier()), port, authToken)
		},
	}
	cmd.Flags().StringVar(&port, "port", "8000", "The port the server should listen on.")
	cmd.Flags().StringVar(&authToken, "auth-token", "", "Require this bearer token on non-probe endpoints.")

	return cmd
}

func main() {
	if err := runMain(); err != nil {
		logFatal(err)
	}
}
