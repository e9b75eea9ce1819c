// Package featureflags evaluates the FEATURE_FLAGS setting, a comma-separated
// list such as "comment_moderation=25%,other=on".
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// CommentModeration holds comments from anyone but the blog's author as
// PENDING until the author approves them.
const CommentModeration = "comment_moderation"

// Known lists the flags the application reads. They always appear in a
// snapshot, off unless configured.
var Known = []string{CommentModeration}

type ruleKind int

const (
	ruleOff ruleKind = iota
	ruleOn
	rulePercent
)

type rule struct {
	raw     string
	kind    ruleKind
	percent int
}

func parseRule(value string) (rule, bool) {
	r := rule{raw: value}
	switch value {
	case "on", "true", "1":
		r.kind = ruleOn
		return r, true
	case "off", "false", "0":
		r.kind = ruleOff
		return r, true
	}
	pct, ok := strings.CutSuffix(value, "%")
	if !ok {
		return r, false
	}
	n, err := strconv.Atoi(pct)
	if err != nil {
		return r, false
	}
	switch {
	case n <= 0:
		r.kind = ruleOff
	case n >= 100:
		r.kind = ruleOn
	default:
		r.kind, r.percent = rulePercent, n
	}
	return r, true
}

// Manager holds parsed flag rules. A nil Manager has every flag off.
type Manager struct {
	rules map[string]rule
}

// NewManager parses raw. Malformed entries are skipped.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		if r, ok := parseRule(value); ok {
			rules[key] = r
		}
	}
	return &Manager{rules: rules}
}

// Enabled reports whether name is on for userID. Percentage rollouts bucket
// users deterministically and never include anonymous callers.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	name = normalize(name)
	r, ok := m.rules[name]
	if !ok {
		return false
	}
	switch r.kind {
	case ruleOn:
		return true
	case rulePercent:
		return userID != 0 && rolloutBucket(name, userID) < r.percent
	default:
		return false
	}
}

// Raw returns the configured value of every parsed flag.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string)
	if m == nil {
		return out
	}
	for k, r := range m.rules {
		out[k] = r.raw
	}
	return out
}

// Snapshot evaluates every configured and known flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(Known))
	for _, name := range Known {
		out[name] = m.Enabled(name, userID)
	}
	if m != nil {
		for name := range m.rules {
			out[name] = m.Enabled(name, userID)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name + ":" + strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32() % 100)
}
