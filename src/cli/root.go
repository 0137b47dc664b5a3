// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/issuer"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/verifier"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/logger"
)

var (
	// ErrInputFileRequired is returned when no certificate file is given.
	ErrInputFileRequired = errors.New("cli: input file is required (-f)")

	// ErrCertificateInvalid is returned when verification finishes with a failing step.
	ErrCertificateInvalid = errors.New("cli: certificate is not valid")

	// ErrUnknownLogFormat is returned for a --log-format other than text, json or zap.
	ErrUnknownLogFormat = errors.New("cli: unknown log format")
)

var (
	// OperationPerformed reports whether a verification was attempted.
	OperationPerformed bool
	// OperationPerformedSuccessfully reports whether the last verification succeeded.
	OperationPerformedSuccessfully bool
)

// flags holds the parsed command-line flags of one invocation.
type flags struct {
	inputFile      string
	issuerProfile  string
	revocationList string
	configPath     string
	logFormat      string
	metricsFile    string
	timeout        int
	jsonOutput     bool
	treeOutput     bool
	tableOutput    bool
}

// Execute runs the root command with os.Args.
//
// Parameters:
//   - ctx: Cancelled on SIGINT/SIGTERM by the caller
//   - version: Reported by --version and in the User-Agent
//   - log: Logger for progress diagnostics when --log-format is text; its
//     output is redirected to the command's stderr
//
// Returns:
//   - error: [ErrInputFileRequired], [ErrCertificateInvalid] or any I/O error
func Execute(ctx context.Context, version string, log logger.Logger) error {
	return newRootCmd(version, log).ExecuteContext(ctx)
}

func newRootCmd(version string, log logger.Logger) *cobra.Command {
	f := &flags{}
	name := posix.GetExecutableName()

	rootCmd := &cobra.Command{
		Use:           name + " -f CERTIFICATE [FLAGS]",
		Short:         "Blockcerts certificate verifier",
		Long:          "Verifies a Blockcerts certificate: integrity, blockchain anchoring, issuer authenticity, revocation and expiry.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execCli(cmd, f, version, log)
		},
	}

	rootCmd.Flags().StringVarP(&f.inputFile, "file", "f", "", "certificate JSON file to verify")
	rootCmd.Flags().StringVar(&f.issuerProfile, "issuer-profile", "", "issuer profile file or URL (default: from the certificate)")
	rootCmd.Flags().StringVar(&f.revocationList, "revocation-list", "", "revocation list file or URL (default: from the certificate or profile)")
	rootCmd.Flags().StringVar(&f.configPath, "config", "", "configuration file (.json, .yaml, .yml; default: $"+ConfigEnv+")")
	rootCmd.Flags().StringVar(&f.logFormat, "log-format", "text", "diagnostic log format: text, json or zap")
	rootCmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file after verification")
	rootCmd.Flags().IntVar(&f.timeout, "timeout", 0, "HTTP timeout in seconds (overrides the config file)")
	rootCmd.Flags().BoolVarP(&f.jsonOutput, "json", "j", false, "emit the verification result as JSON")
	rootCmd.Flags().BoolVarP(&f.treeOutput, "tree", "t", false, "display the step log as an ASCII tree")
	rootCmd.Flags().BoolVar(&f.tableOutput, "table", false, "display the step log as a markdown table")
	rootCmd.MarkFlagsMutuallyExclusive("json", "tree", "table")

	return rootCmd
}

// execCli reads the certificate, resolves its issuer, runs the verifier and
// writes the result in the selected format.
func execCli(cmd *cobra.Command, f *flags, version string, log logger.Logger) error {
	if f.inputFile == "" {
		return ErrInputFileRequired
	}
	OperationPerformed = true
	OperationPerformedSuccessfully = false

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	diag, err := diagnosticLogger(f.logFormat, cmd.ErrOrStderr(), log)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(f.configPath)
	if err != nil {
		return err
	}
	if f.timeout > 0 {
		cfg.Timeout = f.timeout
	}
	apis, err := cfg.ExplorerAPIs()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(f.inputFile)
	if err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}
	cert, err := certificate.Parse(data)
	if err != nil {
		return fmt.Errorf("error parsing certificate: %w", err)
	}

	httpCfg := cfg.HTTPConfig(version)
	resolver := issuer.NewResolver(httpCfg, issuer.NewCache(cfg.CacheConfig()))
	iss, err := resolveIssuer(ctx, resolver, cert, f.issuerProfile, f.revocationList)
	switch {
	case err != nil:
		// Steps that need the issuer fail on their own.
		diag.Printf("Issuer profile unavailable: %v", err)
	case iss.RevocationErr != nil:
		diag.Printf("Revocation list unavailable: %v", iss.RevocationErr)
	}

	opts := verifier.Options{
		Issuer:         iss,
		ExplorerAPIs:   apis,
		ExplorerConfig: cfg.ExplorerConfig(httpCfg),
		Logger:         diag,
	}
	streaming := !f.jsonOutput && !f.treeOutput && !f.tableOutput
	if streaming {
		opts.Progress = func(latest verifier.StepStatus, _ verifier.StepLog) {
			fmt.Fprintln(out, progressLine(latest))
		}
	}

	v, err := verifier.New(cert, opts)
	if err != nil {
		return err
	}

	res, verr := v.Verify(ctx)
	if res == nil {
		return verr
	}
	if f.metricsFile != "" {
		if err := prometheus.WriteToTextfile(f.metricsFile, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("error writing metrics: %w", err)
		}
	}
	if err := render(out, res, f); err != nil {
		return err
	}
	if verr != nil {
		return verr
	}

	if res.Status != verifier.StatusSuccess {
		return fmt.Errorf("%w: %w", ErrCertificateInvalid, res.Err())
	}
	OperationPerformedSuccessfully = true
	return nil
}

func diagnosticLogger(format string, stderr io.Writer, fallback logger.Logger) (logger.Logger, error) {
	switch format {
	case "", "text":
		if fallback == nil {
			fallback = logger.NewCLILogger()
		}
		// Stdout carries the result only.
		fallback.SetOutput(stderr)
		return fallback, nil
	case "json":
		return logger.NewJSONLogger(stderr, false), nil
	case "zap":
		return logger.NewZapLogger(stderr, zapcore.InfoLevel), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
	}
}

// resolveIssuer loads the issuer profile and revocation list. Explicit
// locations from flags replace the ones named by the certificate.
func resolveIssuer(ctx context.Context, r *issuer.Resolver, cert *certificate.Certificate, profile, list string) (*issuer.Issuer, error) {
	if profile == "" && list == "" {
		return r.Resolve(ctx, cert)
	}

	if profile == "" {
		profile = cert.IssuerProfileURL
	}
	if profile == "" {
		return nil, issuer.ErrNoProfile
	}
	iss, err := r.Profile(ctx, profile)
	if err != nil {
		return nil, err
	}

	if list == "" {
		list = cert.RevocationListURL
	}
	if list == "" {
		list = iss.RevocationListURL
	}
	r.LoadRevocations(ctx, iss, list)
	return iss, nil
}

func progressLine(s verifier.StepStatus) string {
	if s.Status == verifier.StatusFailure {
		return fmt.Sprintf("%s %s: %v", color.RedString("✗"), s.Action, s.Err)
	}
	return fmt.Sprintf("%s %s", color.GreenString("✓"), s.Action)
}

func render(out io.Writer, res *verifier.Result, f *flags) error {
	switch {
	case f.jsonOutput:
		data, err := res.ToJSON()
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case f.treeOutput:
		_, err := fmt.Fprint(out, res.RenderASCIITree())
		return err
	case f.tableOutput:
		_, err := fmt.Fprintln(out, res.RenderTable())
		return err
	default:
		_, err := fmt.Fprintln(out, res.Message)
		return err
	}
}
