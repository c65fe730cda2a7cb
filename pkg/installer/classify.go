package installer

import (
	"regexp"
	"strings"

	"github.com/matzehuels/uvmigrate/pkg/errors"
)

// Category is the single failure class assigned to a failed install call.
type Category string

const (
	CategoryWheelUnavailable Category = "wheel_unavailable"
	CategoryVersionConflict  Category = "version_conflict"
	CategoryNetworkFailure   Category = "network_failure"
	CategoryNotFound         Category = "not_found"
	CategoryUnknown          Category = "unknown"
)

// Code maps the category onto the shared error taxonomy.
func (c Category) Code() errors.Code {
	switch c {
	case CategoryWheelUnavailable:
		return errors.ErrCodeWheelUnavailable
	case CategoryVersionConflict:
		return errors.ErrCodeVersionConflict
	case CategoryNetworkFailure:
		return errors.ErrCodeInstallNetwork
	case CategoryNotFound:
		return errors.ErrCodeInstallNotFound
	default:
		return errors.ErrCodeInstallUnknown
	}
}

type classifyRule struct {
	category Category
	patterns []*regexp.Regexp
}

// Rule order is load-bearing. Wheel messages frequently also read as
// resolution conflicts, and conflict messages mention package names a naive
// not-found rule would match, so the most specific class is tried first.
var classifyRules = []classifyRule{
	{
		category: CategoryWheelUnavailable,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)no wheels? (?:are |is )?available`),
			regexp.MustCompile(`(?i)has no wheels`),
			regexp.MustCompile(`(?i)matching (?:python )?(?:abi|platform|interpreter|version) tag`),
			regexp.MustCompile(`(?i)not supported on this platform`),
			regexp.MustCompile(`(?i)unsupported (?:platform|abi) tag`),
		},
	},
	{
		category: CategoryVersionConflict,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)no solution found when resolving`),
			regexp.MustCompile(`(?i)requirements are unsatisfiable`),
			regexp.MustCompile(`(?i)resolutionimpossible`),
			regexp.MustCompile(`(?i)conflicting dependencies`),
			regexp.MustCompile(`(?i)dependency conflict`),
		},
	},
	{
		category: CategoryNetworkFailure,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)connection (?:refused|reset|aborted|timed? out)`),
			regexp.MustCompile(`(?i)failed to (?:fetch|download)`),
			regexp.MustCompile(`(?i)temporary failure in name resolution`),
			regexp.MustCompile(`(?i)could not connect`),
			regexp.MustCompile(`(?i)network is unreachable`),
			regexp.MustCompile(`(?i)tls handshake`),
			regexp.MustCompile(`(?i)proxy error`),
		},
	},
	{
		category: CategoryNotFound,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)was not found in the (?:package )?registry`),
			regexp.MustCompile(`(?i)no matching distribution found`),
			regexp.MustCompile(`(?i)could not find a version that satisfies`),
			regexp.MustCompile(`(?i)not found in the index`),
			regexp.MustCompile(`(?i)\b404\b`),
		},
	},
}

// Classify assigns exactly one category to an install failure. Rules are
// evaluated in declaration order and the first match wins; output that
// matches nothing, including a bare timeout with no diagnostic text, is
// Unknown.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}
	addErr, ok := err.(*AddError)
	if !ok {
		return CategoryUnknown
	}
	return classifyText(addErr.Stderr)
}

func classifyText(output string) Category {
	for _, rule := range classifyRules {
		for _, pat := range rule.patterns {
			if pat.MatchString(output) {
				return rule.category
			}
		}
	}
	return CategoryUnknown
}

// WheelDetails carries the structured fields mined out of a
// wheel-unavailable message for the user-facing diagnostic.
type WheelDetails struct {
	Package        string
	SupportedTags  []string
	RuntimeVersion string
}

var (
	wheelPackageRE = regexp.MustCompile("(?i)(?:because |distribution )`?([A-Za-z0-9][A-Za-z0-9._-]*)`?(?:==[^ ]+)? has no wheels")
	wheelTagRE     = regexp.MustCompile(`\bcp\d{2,3}\b`)
	wheelRuntimeRE = regexp.MustCompile(`(?i)(?:current|your|installed) python (?:version )?(?:is )?\(?v?(\d+\.\d+(?:\.\d+)?)`)
)

// ExtractWheelDetails pulls the offending package, the tag list it does
// ship wheels for, and the running interpreter version out of the message.
// Any field the message omits stays empty.
func ExtractWheelDetails(output string) WheelDetails {
	var d WheelDetails
	if m := wheelPackageRE.FindStringSubmatch(output); m != nil {
		d.Package = m[1]
	}
	tags := wheelTagRE.FindAllString(output, -1)
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		d.SupportedTags = append(d.SupportedTags, t)
	}
	if m := wheelRuntimeRE.FindStringSubmatch(output); m != nil {
		d.RuntimeVersion = m[1]
	}
	return d
}

// Diagnostic renders a one-line human explanation for a failed package.
func Diagnostic(category Category, err error) string {
	output := ""
	if addErr, ok := err.(*AddError); ok {
		output = strings.TrimSpace(addErr.Stderr)
		if addErr.TimedOut && output == "" {
			return "install call exceeded its time limit"
		}
	}
	switch category {
	case CategoryWheelUnavailable:
		d := ExtractWheelDetails(output)
		var b strings.Builder
		b.WriteString("no compatible wheel")
		if d.Package != "" {
			b.WriteString(" for " + d.Package)
		}
		if d.RuntimeVersion != "" {
			b.WriteString(" on Python " + d.RuntimeVersion)
		}
		if len(d.SupportedTags) > 0 {
			b.WriteString(" (wheels exist for " + strings.Join(d.SupportedTags, ", ") + ")")
		}
		return b.String()
	case CategoryVersionConflict:
		return "version constraints are unsatisfiable"
	case CategoryNetworkFailure:
		return "network failure while contacting the package index"
	case CategoryNotFound:
		return "package does not exist in the registry"
	default:
		if output != "" {
			return firstLine(output)
		}
		if err != nil {
			return err.Error()
		}
		return "unknown install failure"
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
