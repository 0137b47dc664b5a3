// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/cli"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/logger"
	verpkg "github.com/H0llyW00dzZ/blockcerts-verifier/src/version"
)

var version string // set by ldflags or defaults to imported version

// Exit codes.
const (
	exitInvalid   = 2   // verification ran and a step failed
	exitCancelled = 130 // standard exit code for SIGINT
)

func init() {
	if version == "" {
		version = verpkg.Version
	}
}

// exitCode maps the CLI outcome to a process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, cli.ErrCertificateInvalid):
		return exitInvalid
	case errors.Is(err, context.Canceled):
		return exitCancelled
	default:
		return 1
	}
}

func main() {
	log := logger.NewCLILogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- cli.Execute(ctx, version, log)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Printf("Verification failed: %v", err)
			stop()
			os.Exit(exitCode(err))
		}
	case <-ctx.Done():
		log.Println("Operation cancelled by signal. Exiting...")
		// Give pending explorer requests a moment to observe the cancellation.
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
		os.Exit(exitCancelled)
	}

	if cli.OperationPerformedSuccessfully {
		log.Println("Certificate verified successfully.")
	}
}
