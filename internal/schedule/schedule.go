// Package schedule decides which operations a daily run performs.
//
// The decision is a pure function of the day of year and an injected random
// source, so tests can fix outcomes. It only parameterizes the run; it has no
// side effects of its own.
package schedule

import (
	"time"

	"github.com/sgaunet/auto-ops/pkg/hostapi"
)

// skipGateOdds is the 1-in-N chance that a run is skipped entirely.
const skipGateOdds = 7

// Rand is the random source injected into the decision and into branch
// suffix generation. A *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Ranges bounds the randomized fabrication counts. Each value is the
// inclusive upper bound of a 1..N draw.
type Ranges struct {
	MaxIssues  int
	MaxBotPRs  int
	MaxUserPRs int
	MaxApprove int
}

// DefaultRanges returns the built-in count ranges.
func DefaultRanges() Ranges {
	return Ranges{
		MaxIssues:  4,
		MaxBotPRs:  4,
		MaxUserPRs: 2,
		MaxApprove: 2,
	}
}

// Plan is the set of operations a run performs, in order: fabricate, link,
// merge user PRs, approve bot PRs, merge approved bot PRs.
type Plan struct {
	// Skip aborts the entire run before any action.
	Skip bool

	// Day is the day of year the plan was computed for.
	Day int

	// Issues is the number of issues to fabricate (even days only).
	Issues int

	// IssueIdentity is who authors the fabricated issues.
	IssueIdentity hostapi.Identity

	// BotPRs is the number of bot pull requests to fabricate (even days only).
	BotPRs int

	// UserPRs is the number of user pull requests to fabricate (odd days only).
	UserPRs int

	// MergeUserPRs merges all linked user pull requests (odd days only).
	MergeUserPRs bool

	// ApproveBotPRs is how many linked bot pull requests to approve
	// (odd days only).
	ApproveBotPRs int

	// MergeBotPRs merges linked, approved bot pull requests (odd days only).
	MergeBotPRs bool
}

// DayOfYear returns the UTC day of year for t.
func DayOfYear(t time.Time) int {
	return t.UTC().YearDay()
}

// Decide computes the plan for the given day of year.
//
// A 1-in-7 draw skips the run entirely. Even days fabricate issues and bot
// pull requests; the issue author alternates between bot and user with the
// parity of day/2 (odd index means user). Odd days fabricate user pull
// requests and progress existing linked pull requests toward merge.
func Decide(day int, rng Rand, ranges Ranges) Plan {
	if rng.Intn(skipGateOdds) == 0 {
		return Plan{Skip: true, Day: day}
	}

	plan := Plan{Day: day}

	if day%2 == 0 {
		plan.Issues = 1 + rng.Intn(ranges.MaxIssues)
		plan.IssueIdentity = hostapi.IdentityBot
		if (day/2)%2 != 0 {
			plan.IssueIdentity = hostapi.IdentityUser
		}
		plan.BotPRs = 1 + rng.Intn(ranges.MaxBotPRs)
		return plan
	}

	plan.UserPRs = 1 + rng.Intn(ranges.MaxUserPRs)
	plan.MergeUserPRs = true
	plan.ApproveBotPRs = 1 + rng.Intn(ranges.MaxApprove)
	plan.MergeBotPRs = true
	return plan
}
