package main

import (
	"errors"
	"fmt"
	"time"

	"nyayasetu-web/backend"
	"nyayasetu-web/config"
	"nyayasetu-web/logging"
	"nyayasetu-web/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what every subcommand shares
type app struct {
	cfg    config.Config
	client *backend.Client
	logger *zap.Logger

	plain   bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		legalURL string
		docURL   string
		timeout  time.Duration
	)

	root := &cobra.Command{
		Use:   "nyaya",
		Short: "NyayaSetu legal research from the terminal",
		Long: `nyaya asks the NyayaSetu research agent, searches case law, maps IPC
sections to BNS, and runs question answering over your own documents.

Backend addresses come from LEGAL_BACKEND_URL and DOC_BACKEND_URL (or a .env
file) unless given as flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if legalURL != "" {
				cfg.LegalBackendURL = legalURL
			}
			if docURL != "" {
				cfg.DocBackendURL = docURL
			}
			if timeout > 0 {
				cfg.BackendTimeout = timeout
			}
			a.cfg = cfg

			level := "error"
			if a.verbose {
				level = "debug"
			}
			if a.logger, err = logging.New(level); err != nil {
				return err
			}
			a.client = backend.NewClient(cfg.LegalBackendURL, cfg.DocBackendURL,
				backend.WithTimeout(cfg.BackendTimeout),
				backend.WithLogger(a.logger),
			)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&legalURL, "legal-url", "", "research backend base URL")
	root.PersistentFlags().StringVar(&docURL, "doc-url", "", "document backend base URL")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout (default 120s)")
	root.PersistentFlags().BoolVar(&a.plain, "plain", false, "print plain text without colors or markdown rendering")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log backend calls to stderr")

	root.AddCommand(
		newAskCmd(a),
		newSearchCmd(a),
		newCompareCmd(a),
		newUploadCmd(a),
		newDocQueryCmd(a),
	)
	return root
}

// userMessage turns an error into the line shown to the user
func userMessage(err error) string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var be *backend.BackendError
	var te *backend.TransportError
	if errors.As(err, &be) || errors.As(err, &te) {
		return backend.UserMessage(err)
	}
	return fmt.Sprint(err)
}
