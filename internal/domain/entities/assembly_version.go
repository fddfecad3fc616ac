package entities

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	versionComponents = 4
	wildcard          = "*"
)

// ErrVersionFormat is returned for malformed version strings and version format templates.
var ErrVersionFormat = errors.New("invalid version format")

var digitsPattern = regexp.MustCompile(`^\d+$`)

// AssemblyVersion is a four-part major.minor.build.revision version. A
// wildcard ("1.2.*") is stored as zeros plus the index of the first "*"
// component so it can be re-emitted.
type AssemblyVersion struct {
	Components [versionComponents]int
	Wildcard   int
}

// ParseAssemblyVersion parses one to four dot-separated non-negative
// integers. Only the last given component may be a "*" wildcard.
func ParseAssemblyVersion(raw string) (AssemblyVersion, error) {
	version := AssemblyVersion{Wildcard: -1}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return version, fmt.Errorf("%w: empty version", ErrVersionFormat)
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) > versionComponents {
		return version, fmt.Errorf("%w: %q has more than %d components", ErrVersionFormat, raw, versionComponents)
	}

	for i, part := range parts {
		if part == wildcard {
			if i != len(parts)-1 {
				return version, fmt.Errorf("%w: %q has a wildcard before the last component", ErrVersionFormat, raw)
			}
			version.Wildcard = i
			part = "0"
		}
		value, err := parseComponent(part)
		if err != nil {
			return version, fmt.Errorf("%w: %q: %w", ErrVersionFormat, raw, err)
		}
		version.Components[i] = value
	}

	return version, nil
}

func parseComponent(part string) (int, error) {
	if !digitsPattern.MatchString(part) {
		return 0, fmt.Errorf("component %q is not a non-negative integer", part)
	}
	return strconv.Atoi(part)
}

// HasWildcard reports whether the version was declared with a "*" component.
func (v AssemblyVersion) HasWildcard() bool {
	return v.Wildcard >= 0
}

// String renders "a.b.c.d", or the wildcard form "a.b.*" when one was present.
func (v AssemblyVersion) String() string {
	count := versionComponents
	if v.HasWildcard() {
		count = v.Wildcard
	}

	parts := make([]string, 0, versionComponents)
	for i := range count {
		parts = append(parts, strconv.Itoa(v.Components[i]))
	}
	if v.HasWildcard() {
		parts = append(parts, wildcard)
	}
	return strings.Join(parts, ".")
}

// semverString maps major.minor.build onto a semver string for ordering.
func (v AssemblyVersion) semverString() string {
	return fmt.Sprintf("v%d.%d.%d", v.Components[0], v.Components[1], v.Components[2])
}

// CompareAssemblyVersions returns -1, 0 or +1. Wildcard components compare as 0.
func CompareAssemblyVersions(a, b AssemblyVersion) int {
	if cmp := semver.Compare(a.semverString(), b.semverString()); cmp != 0 {
		return cmp
	}
	switch {
	case a.Components[3] < b.Components[3]:
		return -1
	case a.Components[3] > b.Components[3]:
		return 1
	default:
		return 0
	}
}

// MaxVersionString returns whichever of two version strings is higher. An
// empty or unparseable current value is replaced by the candidate.
func MaxVersionString(current, candidate string) string {
	if candidate == "" {
		return current
	}
	currentVersion, err := ParseAssemblyVersion(current)
	if err != nil {
		return candidate
	}
	candidateVersion, err := ParseAssemblyVersion(candidate)
	if err != nil {
		return current
	}
	if CompareAssemblyVersions(candidateVersion, currentVersion) > 0 {
		return candidate
	}
	return current
}

// MaxInformationalVersion returns the higher of two informational versions.
// Values are compared as assembly versions ("1.2.3.4") or as semantic
// versions ("1.2.3-beta"). A value that parses either way outranks free text,
// and between two free-text values the first one is kept.
func MaxInformationalVersion(current, candidate string) string {
	switch {
	case candidate == "":
		return current
	case current == "":
		return candidate
	}

	if cmp, ok := compareInformational(candidate, current); ok {
		if cmp > 0 {
			return candidate
		}
		return current
	}
	if !isOrderedVersion(current) && isOrderedVersion(candidate) {
		return candidate
	}
	return current
}

func compareInformational(a, b string) (int, bool) {
	versionA, errA := ParseAssemblyVersion(a)
	versionB, errB := ParseAssemblyVersion(b)
	if errA == nil && errB == nil {
		return CompareAssemblyVersions(versionA, versionB), true
	}
	semverA, semverB := semverOf(a), semverOf(b)
	if semverA != "" && semverB != "" {
		return semver.Compare(semverA, semverB), true
	}
	return 0, false
}

func isOrderedVersion(value string) bool {
	if _, err := ParseAssemblyVersion(value); err == nil {
		return true
	}
	return semverOf(value) != ""
}

// semverOf returns value as a "v"-prefixed semantic version, or "" when it is not one.
func semverOf(value string) string {
	candidate := "v" + strings.TrimPrefix(value, "v")
	if semver.IsValid(candidate) {
		return candidate
	}
	return ""
}

// ExpandVersionFormat computes a new version from a four-component format
// such as "$(current).$(current).$(increment).$(date:MMdd)". Each component is
// expanded against the matching component of current. A wildcard in current
// is carried over to the result.
func ExpandVersionFormat(format string, current AssemblyVersion, now time.Time) (AssemblyVersion, error) {
	result := AssemblyVersion{Wildcard: -1}

	parts, err := splitVersionFormat(format)
	if err != nil {
		return result, err
	}

	for i, part := range parts {
		if strings.TrimSpace(part) == wildcard {
			if !result.HasWildcard() {
				result.Wildcard = i
			}
			continue
		}

		component := current.Components[i]
		expanded, expandErr := expandTokens(part, func(name, arg string) (string, error) {
			switch name {
			case tokenCurrent:
				return strconv.Itoa(component), nil
			case tokenIncrement:
				return strconv.Itoa(component + 1), nil
			case tokenDate:
				return expandDate(arg, now)
			default:
				return "", fmt.Errorf("%w: $(%s) is not valid in a version component", ErrTokenFormat, name)
			}
		})
		if expandErr != nil {
			return result, fmt.Errorf("version format %q: %w", format, expandErr)
		}

		value, parseErr := parseComponent(strings.TrimSpace(expanded))
		if parseErr != nil {
			return result, fmt.Errorf("%w: %q component %d: %w", ErrVersionFormat, format, i+1, parseErr)
		}
		result.Components[i] = value
	}

	if current.HasWildcard() && (!result.HasWildcard() || current.Wildcard < result.Wildcard) {
		result.Wildcard = current.Wildcard
	}
	if result.HasWildcard() {
		for i := result.Wildcard; i < versionComponents; i++ {
			result.Components[i] = 0
		}
	}

	return result, nil
}

// splitVersionFormat splits on dots that are not inside a $(...) token.
func splitVersionFormat(format string) ([]string, error) {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(format); i++ {
		switch {
		case strings.HasPrefix(format[i:], tokenOpen):
			depth++
			i++
		case format[i] == ')' && depth > 0:
			depth--
		case format[i] == '.' && depth == 0:
			parts = append(parts, format[start:i])
			start = i + 1
		}
	}
	parts = append(parts, format[start:])

	if len(parts) != versionComponents {
		return nil, fmt.Errorf(
			"%w: %q must have exactly %d dot-separated components, got %d",
			ErrVersionFormat, format, versionComponents, len(parts),
		)
	}
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			return nil, fmt.Errorf("%w: %q component %d is empty", ErrVersionFormat, format, i+1)
		}
	}
	return parts, nil
}
