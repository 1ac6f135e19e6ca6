// Package bankrules selects bank-specific extraction strategies by sender
// address. The set of strategies is a closed, compile-time enumeration;
// adding a bank means adding a type here and registering it.
package bankrules

import (
	"regexp"
	"strings"
)

// Strategy extracts identifying fields out of unstructured statement text.
// Implementations return "" when nothing matches; absence is never an error.
type Strategy interface {
	Name() string
	ExtractStatementNumber(text string) string
	ExtractAccountNumber(text, subject, filename string) string
}

type rule struct {
	key      string // lower-case sender substring
	strategy Strategy
}

// Registry maps sender addresses to strategies with an ordered
// first-match-wins substring lookup.
type Registry struct {
	rules   []rule
	generic Strategy
}

// NewRegistry returns a registry with all known bank senders registered
func NewRegistry() *Registry {
	r := &Registry{generic: Generic{}}
	r.register("homebank@nlb-rs.ba", NLBRS{})
	r.register("info.rbbh@rbbh.ba", RBBH{})
	r.register("izvodi.pravne@unicreditgroup.ba", UniCredit{})
	r.register("back.office@atosbank.ba", Atos{})
	r.register("izvodi@asabanka.ba", ASA{})
	r.register("izvodi@sparkasse.ba", Sparkasse{})
	r.register("novabanka-eizvodi@novabanka.com", Nova{})
	return r
}

func (r *Registry) register(key string, s Strategy) {
	r.rules = append(r.rules, rule{key: strings.ToLower(key), strategy: s})
}

// Resolve returns the strategy for a sender address. The first registered key
// contained in the lower-cased address wins; unknown or empty senders get the
// generic strategy.
func (r *Registry) Resolve(sender string) Strategy {
	s := strings.ToLower(strings.TrimSpace(sender))
	if s == "" {
		return r.generic
	}
	for _, rule := range r.rules {
		if strings.Contains(s, rule.key) {
			return rule.strategy
		}
	}
	return r.generic
}

// Generic returns the fallback strategy directly
func (r *Registry) Generic() Strategy {
	return r.generic
}

// firstMatch returns the first capture group of re in s, or ""
func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return ""
}

// matchNoDot returns the first capture group whose match is not immediately
// followed by a dot. Statement headers often sit next to dotted dates and
// decimal amounts; a trailing dot means the digits belong to one of those.
func matchNoDot(re *regexp.Regexp, s string) string {
	for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		if m[3] < len(s) && s[m[3]] == '.' {
			continue
		}
		return s[m[2]:m[3]]
	}
	return ""
}

// headLines returns the first n lines of text joined back together
func headLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
