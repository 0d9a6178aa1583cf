package component

import (
	"regexp"
	"strings"
)

// SensitiveFinding is a spec value that looks like a hardcoded secret.
type SensitiveFinding struct {
	Field   string // e.g. "env.GITHUB_TOKEN"
	Kind    string // e.g. "token"
	Preview string // redacted value
}

type sensitivePattern struct {
	kind string
	key  *regexp.Regexp // matched against the variable or alias name
	val  *regexp.Regexp // matched against the value
}

var sensitivePatterns = []sensitivePattern{
	{kind: "api key", key: regexp.MustCompile(`(?i)api[_-]?key`)},
	{kind: "token", key: regexp.MustCompile(`(?i)(^|_)(auth_|access_)?token$`)},
	{kind: "password", key: regexp.MustCompile(`(?i)(password|passwd|pwd)$`)},
	{kind: "secret", key: regexp.MustCompile(`(?i)secret`)},
	{kind: "aws key", val: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{kind: "github token", val: regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`)},
}

// ScanSensitive reports env values and alias commands that look like
// literal secrets. Values that only reference other variables ($VAR) or
// command substitutions are not literals and are skipped.
func ScanSensitive(s *Spec) []SensitiveFinding {
	var findings []SensitiveFinding

	check := func(field, key, value string) {
		for _, p := range sensitivePatterns {
			switch {
			case p.val != nil && p.val.MatchString(value):
			case p.key != nil && key != "" && p.key.MatchString(key) && isLiteral(value):
			default:
				continue
			}
			findings = append(findings, SensitiveFinding{Field: field, Kind: p.kind, Preview: redact(value)})
			return
		}
	}

	for _, k := range SortedKeys(s.Env) {
		check("env."+k, k, s.Env[k])
	}
	for _, k := range SortedKeys(s.Aliases) {
		check("aliases."+k, "", s.Aliases[k])
	}
	return findings
}

func isLiteral(v string) bool {
	v = strings.TrimSpace(v)
	return len(v) >= 8 && !strings.ContainsAny(v, "$`")
}

func redact(v string) string {
	if len(v) <= 4 {
		return "[REDACTED]"
	}
	return v[:4] + "...[REDACTED]"
}
