// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/canon"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/explorer"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/issuer"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/logger"
)

// ProgressFunc is called after every step with the new status and a
// snapshot of the log so far. Panics are recovered and logged.
type ProgressFunc func(latest StepStatus, log StepLog)

// Options configures a [Verifier]. The zero value is usable.
type Options struct {
	// Issuer is the resolved issuer profile and revocation list.
	Issuer *issuer.Issuer

	// ExplorerAPIs are caller supplied explorers placed around the defaults
	// according to their priority.
	ExplorerAPIs []explorer.ExplorerAPI

	// Explorers replaces the built-in explorers. Nil means [explorer.Defaults].
	Explorers []explorer.Explorer

	// ExplorerConfig configures the built-in explorers and the HTTP transport
	// of ExplorerAPIs.
	ExplorerConfig *explorer.Config

	// Canonicalizer defaults to [canon.Default].
	Canonicalizer canon.Canonicalizer

	Progress ProgressFunc
	Logger   logger.Logger

	// Now defaults to time.Now; it decides expiry.
	Now func() time.Time
}

// Result is the outcome of a verification run.
type Result struct {
	RunID   string  `json:"runId"`
	Status  Status  `json:"status"`
	Message string  `json:"message"`
	Steps   StepLog `json:"steps"`

	// FailedStep and Cause describe the first failure.
	FailedStep StepID `json:"failedStep,omitempty"`
	Cause      error  `json:"-"`

	Version         certificate.Version `json:"version"`
	Chain           string              `json:"chain"`
	TransactionID   string              `json:"transactionId,omitempty"`
	TransactionLink string              `json:"transactionLink,omitempty"`
}

// Verifier checks one certificate. It is not reusable.
type Verifier struct {
	cert          *certificate.Certificate
	issuer        *issuer.Issuer
	explorers     []explorer.Explorer
	canonicalizer canon.Canonicalizer
	progress      ProgressFunc
	logger        logger.Logger
	now           func() time.Time

	profile profile
	steps   []StepID
	runID   string

	mu  sync.Mutex
	ran bool

	log       StepLog
	localHash string
	tx        *explorer.TransactionData
}

// New validates cert and prepares a verifier for it.
//
// Parameters:
//   - cert: Parsed certificate
//   - opts: Issuer data, explorers and collaborators
//
// Returns:
//   - *Verifier: Ready to run [Verifier.Verify] once
//   - error: [ErrMissingField], [ErrUnsupportedVersion] or [ErrInvalidPriority]
func New(cert *certificate.Certificate, opts Options) (*Verifier, error) {
	if cert == nil {
		return nil, fmt.Errorf("%w: certificate", ErrMissingField)
	}

	p, err := profileFor(cert.Version)
	if err != nil {
		return nil, err
	}
	if err := checkFields(cert); err != nil {
		return nil, err
	}

	steps, err := ResolveSteps(cert.Version, cert.Chain, cert.Receipt)
	if err != nil {
		return nil, err
	}

	cfg := opts.ExplorerConfig
	if cfg == nil {
		cfg = explorer.NewConfig()
	}
	defaults := opts.Explorers
	if defaults == nil {
		defaults = explorer.Defaults(cert.Chain, cfg)
	}
	explorers, err := explorer.Resolve(cert.Chain, opts.ExplorerAPIs, defaults, cfg.HTTP)
	if err != nil {
		return nil, err
	}

	v := &Verifier{
		cert:          cert,
		issuer:        opts.Issuer,
		explorers:     explorers,
		canonicalizer: opts.Canonicalizer,
		progress:      opts.Progress,
		logger:        opts.Logger,
		now:           opts.Now,
		profile:       p,
		steps:         steps,
		runID:         uuid.NewString(),
	}
	if v.canonicalizer == nil {
		v.canonicalizer = canon.Default
	}
	if v.logger == nil {
		v.logger = logger.NewJSONLogger(nil, true)
	}
	if v.now == nil {
		v.now = time.Now
	}
	return v, nil
}

// NewFromJSON parses a certificate and calls [New].
func NewFromJSON(data []byte, opts Options) (*Verifier, error) {
	cert, err := certificate.Parse(data)
	if err != nil {
		return nil, err
	}
	return New(cert, opts)
}

func checkFields(cert *certificate.Certificate) error {
	switch {
	case cert.Chain.IsZero():
		return fmt.Errorf("%w: chain", ErrMissingField)
	case cert.Document == nil:
		return fmt.Errorf("%w: document", ErrMissingField)
	case cert.Version != certificate.V1_1 && cert.Receipt == nil:
		return fmt.Errorf("%w: receipt", ErrMissingField)
	case !cert.Chain.IsMock() && cert.TransactionID == "":
		return fmt.Errorf("%w: transaction id", ErrMissingField)
	}
	return nil
}

// RunID identifies this verification in logs.
func (v *Verifier) RunID() string { return v.runID }

// Steps returns the resolved steps in run order.
func (v *Verifier) Steps() []StepID { return slices.Clone(v.steps) }

// Explorers returns the names of the resolved explorers in lookup order.
func (v *Verifier) Explorers() []string {
	names := make([]string, len(v.explorers))
	for i, e := range v.explorers {
		names[i] = e.Name()
	}
	return names
}

// Verify runs every resolved step once and returns the verdict.
//
// The only error besides [ErrAlreadyVerified] is a canonicalization failure,
// which aborts the run; the returned Result still holds the partial log.
func (v *Verifier) Verify(ctx context.Context) (*Result, error) {
	v.mu.Lock()
	if v.ran {
		v.mu.Unlock()
		return nil, ErrAlreadyVerified
	}
	v.ran = true
	v.mu.Unlock()

	v.logger.Printf("[%s] verifying %s certificate %s on %s", v.runID, v.cert.Version, v.cert.ID, v.cert.Chain.Code)

	for _, step := range v.steps {
		err := checks[step](v, ctx)
		v.record(step, err)

		if step == ComputeLocalHash && err != nil {
			res := v.result()
			return res, err
		}
	}

	return v.result(), nil
}

// IsFailing reports whether any step recorded so far failed.
func (v *Verifier) IsFailing() bool { return v.log.IsFailing() }

func (v *Verifier) record(step StepID, err error) {
	status := StepStatus{Step: step, Status: StatusSuccess, Action: step.Action()}
	if err != nil {
		status.Status = StatusFailure
		status.Err = err
		v.logger.Printf("[%s] %s: %s: %v", v.runID, step, status.Status, err)
	} else {
		v.logger.Printf("[%s] %s: %s", v.runID, step, status.Status)
	}
	stepsTotal.WithLabelValues(string(step), string(status.Status)).Inc()

	v.log = append(v.log, status)
	v.notify(status)
}

func (v *Verifier) notify(status StepStatus) {
	if v.progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			v.logger.Printf("[%s] progress callback panicked on %s: %v", v.runID, status.Step, r)
		}
	}()
	v.progress(status, slices.Clone(v.log))
}

func (v *Verifier) result() *Result {
	status := StatusSuccess
	if v.log.IsFailing() {
		status = StatusFailure
	}
	verificationsTotal.WithLabelValues(string(status)).Inc()

	res := &Result{
		RunID:           v.runID,
		Status:          status,
		Message:         finalMessage(v.profile.family, v.cert.Chain, status),
		Steps:           slices.Clone(v.log),
		Version:         v.cert.Version,
		Chain:           v.cert.Chain.DisplayName(),
		TransactionID:   v.cert.TransactionID,
		TransactionLink: v.cert.TransactionLink(),
	}
	if failed, ok := v.log.FirstFailure(); ok {
		res.FailedStep = failed.Step
		res.Cause = failed.Err
	}

	v.logger.Printf("[%s] %s: %s", v.runID, res.Status, res.Message)
	return res
}

// Err returns the first failure as an error, or nil on success.
func (r *Result) Err() error {
	if r == nil || r.Status == StatusSuccess {
		return nil
	}
	if r.Cause != nil {
		return r.Cause
	}
	return errors.New("verifier: verification failed")
}
