// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderASCIITree renders the step log as an ASCII tree.
//
// Status markers are colored unless color output is disabled
// (color.NoColor, set automatically when stdout is not a terminal).
func (r *Result) RenderASCIITree() string {
	if r == nil || len(r.Steps) == 0 {
		return "No verification steps"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %s)\n", r.Message, r.Version, r.Chain)
	for i, s := range r.Steps {
		connector := "├── "
		if i == len(r.Steps)-1 {
			connector = "└── "
		}

		icon := color.GreenString("✓")
		if s.Status == StatusFailure {
			icon = color.RedString("✗")
		}

		line := fmt.Sprintf("[%s] %s", icon, s.Action)
		if s.Err != nil {
			line += ": " + s.Err.Error()
		}
		b.WriteString(connector + line + "\n")
	}
	return b.String()
}

// RenderTable renders the step log as a markdown table.
func (r *Result) RenderTable() string {
	if r == nil || len(r.Steps) == 0 {
		return "No verification steps"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"#", "Step", "Action", "Status", "Detail"})

	rows := make([][]string, 0, len(r.Steps))
	for i, s := range r.Steps {
		detail := ""
		if s.Err != nil {
			detail = s.Err.Error()
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			string(s.Step),
			s.Action,
			string(s.Status),
			detail,
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// ToJSON converts the result to indented JSON, including step errors.
func (r *Result) ToJSON() ([]byte, error) {
	type stepData struct {
		Step   StepID `json:"step"`
		Action string `json:"action"`
		Status Status `json:"status"`
		Kind   Kind   `json:"kind,omitempty"`
		Error  string `json:"error,omitempty"`
	}

	type resultData struct {
		Timestamp       string     `json:"timestamp"`
		RunID           string     `json:"runId"`
		Status          Status     `json:"status"`
		Message         string     `json:"message"`
		Version         string     `json:"version"`
		Chain           string     `json:"chain"`
		TransactionID   string     `json:"transactionId,omitempty"`
		TransactionLink string     `json:"transactionLink,omitempty"`
		FailedStep      StepID     `json:"failedStep,omitempty"`
		Steps           []stepData `json:"steps"`
	}

	data := resultData{
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		RunID:           r.RunID,
		Status:          r.Status,
		Message:         r.Message,
		Version:         string(r.Version),
		Chain:           r.Chain,
		TransactionID:   r.TransactionID,
		TransactionLink: r.TransactionLink,
		FailedStep:      r.FailedStep,
		Steps:           make([]stepData, len(r.Steps)),
	}

	for i, s := range r.Steps {
		step := stepData{Step: s.Step, Action: s.Action, Status: s.Status}
		if s.Err != nil {
			step.Error = s.Err.Error()
			var se *StepError
			if errors.As(s.Err, &se) {
				step.Kind = se.Kind
			}
		}
		data.Steps[i] = step
	}

	return json.MarshalIndent(data, "", "  ")
}
