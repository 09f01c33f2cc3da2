// Package contentfilter screens free-text chat for contact-exchange and
// escrow-bypass signals. It is a best-effort heuristic: the goal is raising
// the cost of settling off-platform before funds are protected, not
// eliminating it. The filter depends on nothing but the text itself; the
// caller picks the mode from the transaction's escrow phase.
package contentfilter

// Mode selects how strict the filter is.
type Mode string

const (
	// PreEscrow applies before the buyer's money reaches custody.
	// Any detected violation blocks the message.
	PreEscrow Mode = "PRE_ESCROW"
	// PostEscrow applies from ESCROW_HELD onward. Contact exchange no
	// longer threatens fee collection, so everything passes through.
	PostEscrow Mode = "POST_ESCROW"
)

type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

var severityRank = map[Severity]int{
	SeverityNone:   0,
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

const (
	whitelistToken = "•" // neutral, never matches a rule
	redactedToken  = "[removido]"
)

type Result struct {
	IsBlocked     bool
	Severity      Severity
	Violations    []string
	SanitizedText string
}

// Analyze runs the rule table over the text. The working copy has
// whitelisted numeric content stripped first; each rule that matches is
// recorded once and redacted from both the working copy (so later rules do
// not re-match the same span) and the sanitized text returned to the
// caller.
func Analyze(text string, mode Mode) Result {
	if mode == PostEscrow {
		return Result{
			IsBlocked:     false,
			Severity:      SeverityNone,
			Violations:    nil,
			SanitizedText: text,
		}
	}

	working := text
	for _, wl := range whitelistPatterns {
		working = wl.ReplaceAllString(working, whitelistToken)
	}

	sanitized := text
	severity := SeverityNone
	seen := make(map[string]bool)
	var violations []string

	for _, r := range rules {
		if !r.pattern.MatchString(working) {
			continue
		}
		working = r.pattern.ReplaceAllString(working, redactedToken)
		sanitized = r.pattern.ReplaceAllString(sanitized, redactedToken)

		if !seen[r.label] {
			seen[r.label] = true
			violations = append(violations, r.label)
		}
		labelSeverity, ok := severityByLabel[r.label]
		if !ok {
			labelSeverity = SeverityLow
		}
		if severityRank[labelSeverity] > severityRank[severity] {
			severity = labelSeverity
		}
	}

	return Result{
		IsBlocked:     severity != SeverityNone,
		Severity:      severity,
		Violations:    violations,
		SanitizedText: sanitized,
	}
}
