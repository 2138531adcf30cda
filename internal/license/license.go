// Package license derives a tenant's trial state from its license key and
// creation time. Nothing here is stored; state is recomputed on every read.
package license

import (
	"fmt"
	"time"
)

// TrialWindow is how long an unlicensed tenant may accept check-ins.
const TrialWindow = 24 * time.Hour

type Phase int

const (
	PhaseActive Phase = iota
	PhaseCounting
	PhaseExpired
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseCounting:
		return "counting"
	case PhaseExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// State is a point-in-time evaluation. Remaining is only meaningful while Counting.
type State struct {
	Phase     Phase
	Remaining time.Duration
}

// Evaluate applies the trial rules: a license key wins outright, a missing
// creation time counts as "just created".
func Evaluate(licenseKey string, createdAt *time.Time, now time.Time) State {
	if licenseKey != "" {
		return State{Phase: PhaseActive}
	}
	if createdAt == nil {
		return State{Phase: PhaseCounting, Remaining: TrialWindow}
	}
	remaining := TrialWindow - now.Sub(*createdAt)
	if remaining <= 0 {
		return State{Phase: PhaseExpired}
	}
	return State{Phase: PhaseCounting, Remaining: remaining}
}

// AllowsSubmit is false only once the trial has run out.
func (s State) AllowsSubmit() bool {
	return s.Phase != PhaseExpired
}

// Countdown renders the remaining trial as HH:MM:SS. Active tenants have no
// countdown.
func (s State) Countdown() string {
	switch s.Phase {
	case PhaseActive:
		return ""
	case PhaseExpired:
		return "00:00:00"
	}
	total := int64(s.Remaining / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
