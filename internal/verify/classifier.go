// Package verify implements the email classification engine and the
// batch orchestrator that runs it over submitted address lists.
package verify

import (
	"regexp"
	"strings"

	"github.com/aniket3077/mailcheck/pkg/models"
)

// Syntax shape: non-empty local part, a domain containing a dot, no
// whitespace anywhere. Compiled once at package init.
var reAddressShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Scoring weights and thresholds. These are part of the observable
// contract; changing them changes every stored verdict.
const (
	baseScore        = 85
	rolePenalty      = 20
	lengthPenalty    = 5
	providerPenalty  = 10
	maxAddressLength = 30
	riskyThreshold   = 50
	concernThreshold = 70
)

// Reason strings returned alongside non-clean verdicts.
const (
	ReasonInvalidFormat   = "Invalid email format"
	ReasonTestDomain      = "Test domain marked as invalid"
	ReasonDisposable      = "Possible disposable email address"
	ReasonBouncePattern   = "Bounce email pattern detected"
	ReasonTypoPattern     = "Possible typo in domain name"
	ReasonMultipleRisks   = "Multiple risk factors detected"
	ReasonMinorConcerns   = "Valid but with minor concerns"
	ReasonCheckIncomplete = "Verification check could not be completed"
)

// Rules holds the pattern data the classifier matches against. All
// matching is case-insensitive; callers normally start from
// DefaultRules and override lists as needed.
type Rules struct {
	// InvalidDomains are marker domains always classified invalid.
	InvalidDomains map[string]bool
	// RiskyKeywords flag disposable or otherwise risky mailboxes when
	// found in the local part or domain.
	RiskyKeywords []string
	// BouncePrefixes on the local part indicate a bounce address.
	BouncePrefixes []string
	// TypoPrefixes on the local part indicate a likely domain typo.
	TypoPrefixes []string
	// RoleKeywords in the local part indicate a role or no-reply mailbox.
	RoleKeywords []string
	// CommonProviders is the allow-list of public mailbox providers.
	CommonProviders map[string]bool
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		InvalidDomains: map[string]bool{
			"test.com":    true,
			"invalid.com": true,
			"example.com": true,
		},
		RiskyKeywords: []string{
			"risky", "tempmail", "mailinator", "guerrillamail",
			"10minutemail", "throwaway", "trashmail", "yopmail", "disposable",
		},
		BouncePrefixes: []string{"bounce"},
		TypoPrefixes:   []string{"typo"},
		RoleKeywords: []string{
			"noreply", "no-reply", "donotreply", "admin", "support",
			"info", "contact", "sales", "marketing", "billing",
			"postmaster", "webmaster", "abuse",
		},
		CommonProviders: map[string]bool{
			"gmail.com":      true,
			"yahoo.com":      true,
			"outlook.com":    true,
			"hotmail.com":    true,
			"icloud.com":     true,
			"aol.com":        true,
			"protonmail.com": true,
			"proton.me":      true,
			"live.com":       true,
			"msn.com":        true,
			"mail.com":       true,
			"zoho.com":       true,
			"gmx.com":        true,
			"yandex.com":     true,
		},
	}
}

// Classifier maps one address to one verdict. It is pure, deterministic,
// and total: any input, including the empty string, resolves to a result.
type Classifier struct {
	rules Rules
}

func NewClassifier(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify evaluates a single address. Rules are priority-ordered: the
// syntax check and override patterns are terminal; heuristic scoring
// only runs when no override fires. The returned Address is the
// submitted form, not the normalized one.
func (c *Classifier) Classify(address string) models.EmailResult {
	result := models.EmailResult{Address: address}

	if !reAddressShape.MatchString(address) {
		result.Status = models.StatusInvalid
		result.Score = 0
		result.Reason = ReasonInvalidFormat
		return result
	}

	normalized := strings.ToLower(address)
	at := strings.LastIndex(normalized, "@")
	local, domain := normalized[:at], normalized[at+1:]

	if c.rules.InvalidDomains[domain] {
		result.Status = models.StatusInvalid
		result.Score = 0
		result.Reason = ReasonTestDomain
		return result
	}

	if containsAny(local, c.rules.RiskyKeywords) || containsAny(domain, c.rules.RiskyKeywords) {
		result.Status = models.StatusRisky
		result.Score = 50
		result.Reason = ReasonDisposable
		return result
	}

	if hasAnyPrefix(local, c.rules.BouncePrefixes) {
		result.Status = models.StatusInvalid
		result.Score = 10
		result.Reason = ReasonBouncePattern
		return result
	}

	if hasAnyPrefix(local, c.rules.TypoPrefixes) {
		result.Status = models.StatusRisky
		result.Score = 40
		result.Reason = ReasonTypoPattern
		return result
	}

	score := baseScore
	if containsAny(local, c.rules.RoleKeywords) {
		score -= rolePenalty
	}
	if len(address) > maxAddressLength {
		score -= lengthPenalty
	}
	if !c.rules.CommonProviders[domain] {
		score -= providerPenalty
	}

	result.Score = score
	if score < riskyThreshold {
		result.Status = models.StatusRisky
		result.Reason = ReasonMultipleRisks
		return result
	}

	result.Status = models.StatusValid
	if score < concernThreshold {
		result.Reason = ReasonMinorConcerns
	}
	return result
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
