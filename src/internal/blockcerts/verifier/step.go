// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier

import "slices"

// StepID names a verification step.
type StepID string

// Steps in canonical order.
const (
	ComputeLocalHash     StepID = "computeLocalHash"
	CompareHashes        StepID = "compareHashes"
	CheckMerkleRoot      StepID = "checkMerkleRoot"
	CheckReceipt         StepID = "checkReceipt"
	FetchRemoteHash      StepID = "fetchRemoteHash"
	CompareRemoteHash    StepID = "compareRemoteHash"
	CheckIssuerSignature StepID = "checkIssuerSignature"
	CheckAuthenticity    StepID = "checkAuthenticity"
	CheckRevokedStatus   StepID = "checkRevokedStatus"
	CheckExpiresDate     StepID = "checkExpiresDate"
)

var stepActions = map[StepID]string{
	ComputeLocalHash:     "Computing local hash",
	CompareHashes:        "Comparing hashes",
	CheckMerkleRoot:      "Checking Merkle root",
	CheckReceipt:         "Checking receipt",
	FetchRemoteHash:      "Fetching remote hash",
	CompareRemoteHash:    "Comparing remote hash",
	CheckIssuerSignature: "Checking issuer signature",
	CheckAuthenticity:    "Checking authenticity",
	CheckRevokedStatus:   "Checking revoked status",
	CheckExpiresDate:     "Checking expiration date",
}

// Action returns the human readable label of s.
func (s StepID) Action() string {
	if a, ok := stepActions[s]; ok {
		return a
	}
	return string(s)
}

// Status is the outcome of a step or of a whole run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// StepStatus is one entry of the step log.
type StepStatus struct {
	Step   StepID `json:"step"`
	Status Status `json:"status"`
	Action string `json:"action"`
	Err    error  `json:"-"`
}

// StepLog is the ordered record of completed steps.
type StepLog []StepStatus

// IsFailing reports whether any recorded step failed.
func (l StepLog) IsFailing() bool {
	return slices.ContainsFunc(l, func(s StepStatus) bool { return s.Status == StatusFailure })
}

// FirstFailure returns the first failed step.
func (l StepLog) FirstFailure() (StepStatus, bool) {
	i := slices.IndexFunc(l, func(s StepStatus) bool { return s.Status == StatusFailure })
	if i < 0 {
		return StepStatus{}, false
	}
	return l[i], true
}

// Steps returns the step ids in log order.
func (l StepLog) Steps() []StepID {
	out := make([]StepID, len(l))
	for i, s := range l {
		out[i] = s.Step
	}
	return out
}

// Status returns the recorded status of step, if it ran.
func (l StepLog) Status(step StepID) (StepStatus, bool) {
	i := slices.IndexFunc(l, func(s StepStatus) bool { return s.Step == step })
	if i < 0 {
		return StepStatus{}, false
	}
	return l[i], true
}
