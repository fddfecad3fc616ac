package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	tokenOpen        = "$("
	tokenCurrent     = "current"
	tokenIncrement   = "increment"
	tokenDate        = "date"
	tokenVersion     = "version"
	tokenFileVersion = "fileversion"
)

// ErrTokenFormat is returned for unknown, unterminated or misplaced $(...) tokens.
var ErrTokenFormat = errors.New("invalid token")

// TokenValues are the values available to string attribute templates.
type TokenValues struct {
	Version     string
	FileVersion string
	Now         time.Time
}

// ExpandStringFormat expands $(version), $(fileversion) and $(date:<format>)
// in a free-text attribute template.
func ExpandStringFormat(format string, values TokenValues) (string, error) {
	expanded, err := expandTokens(format, func(name, arg string) (string, error) {
		switch name {
		case tokenVersion:
			return values.Version, nil
		case tokenFileVersion:
			return values.FileVersion, nil
		case tokenDate:
			return expandDate(arg, values.Now)
		case tokenCurrent, tokenIncrement:
			return "", fmt.Errorf("%w: $(%s) is only valid in a version component", ErrTokenFormat, name)
		default:
			return "", fmt.Errorf("%w: unknown token $(%s)", ErrTokenFormat, name)
		}
	})
	if err != nil {
		return "", fmt.Errorf("format %q: %w", format, err)
	}
	return expanded, nil
}

type tokenResolver func(name, arg string) (string, error)

// expandTokens replaces every $(name) or $(name:arg) using resolve.
// Token names are case-insensitive.
func expandTokens(template string, resolve tokenResolver) (string, error) {
	var sb strings.Builder
	rest := template
	for {
		start := strings.Index(rest, tokenOpen)
		if start < 0 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		sb.WriteString(rest[:start])

		body := rest[start+len(tokenOpen):]
		end := strings.IndexByte(body, ')')
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated token in %q", ErrTokenFormat, template)
		}

		name, arg, _ := strings.Cut(body[:end], ":")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return "", fmt.Errorf("%w: empty token in %q", ErrTokenFormat, template)
		}

		value, err := resolve(name, arg)
		if err != nil {
			return "", err
		}
		sb.WriteString(value)
		rest = body[end+1:]
	}
}

// expandDate renders a custom .NET date format. A lone character such as
// "d" is a .NET standard format with a culture-specific meaning, so it is
// rejected; "%d" selects the custom specifier instead.
func expandDate(layout string, now time.Time) (string, error) {
	if layout == "" {
		return "", fmt.Errorf("%w: $(date) requires a format such as $(date:yyyy)", ErrTokenFormat)
	}
	if len([]rune(layout)) == 1 {
		return "", fmt.Errorf(
			"%w: $(date:%s) is a standard format, use $(date:%%%s) for the custom specifier",
			ErrTokenFormat, layout, layout,
		)
	}
	return FormatDotNetDate(now, layout), nil
}

//nolint:gochecknoglobals // lookup table
var (
	shortMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	shortDays   = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

// FormatDotNetDate renders t using .NET custom date and time format
// specifiers (yyyy, MM, dd, HH, hh, mm, ss, fff, tt and friends). Quoted text
// and backslash-escaped characters are copied literally, as is anything that
// is not a specifier. A % is dropped, so "%d" renders the day.
func FormatDotNetDate(t time.Time, layout string) string {
	var sb strings.Builder
	runes := []rune(layout)

	for i := 0; i < len(runes); {
		ch := runes[i]

		switch ch {
		case '%':
			// %x marks a single custom specifier
			i++
			continue
		case '\\':
			if i+1 < len(runes) {
				sb.WriteRune(runes[i+1])
			}
			i += 2
			continue
		case '\'', '"':
			j := i + 1
			for j < len(runes) && runes[j] != ch {
				sb.WriteRune(runes[j])
				j++
			}
			i = j + 1
			continue
		}

		count := 1
		for i+count < len(runes) && runes[i+count] == ch {
			count++
		}

		if formatted, ok := formatDateSpecifier(t, ch, count); ok {
			sb.WriteString(formatted)
		} else {
			sb.WriteString(string(runes[i : i+count]))
		}
		i += count
	}

	return sb.String()
}

func formatDateSpecifier(t time.Time, ch rune, count int) (string, bool) {
	switch ch {
	case 'y':
		switch count {
		case 1:
			return fmt.Sprintf("%d", t.Year()%100), true
		case 2:
			return fmt.Sprintf("%02d", t.Year()%100), true
		default:
			return fmt.Sprintf("%0*d", count, t.Year()), true
		}
	case 'M':
		switch count {
		case 1, 2:
			return padded(int(t.Month()), count), true
		case 3:
			return shortMonths[t.Month()-1], true
		default:
			return t.Month().String(), true
		}
	case 'd':
		switch count {
		case 1, 2:
			return padded(t.Day(), count), true
		case 3:
			return shortDays[t.Weekday()], true
		default:
			return t.Weekday().String(), true
		}
	case 'H':
		return padded(t.Hour(), count), true
	case 'h':
		hour := t.Hour() % 12
		if hour == 0 {
			hour = 12
		}
		return padded(hour, count), true
	case 'm':
		return padded(t.Minute(), count), true
	case 's':
		return padded(t.Second(), count), true
	case 'f', 'F':
		digits := min(count, 9)
		divisor := 1
		for range 9 - digits {
			divisor *= 10
		}
		return fmt.Sprintf("%0*d", digits, t.Nanosecond()/divisor), true
	case 't':
		marker := "AM"
		if t.Hour() >= 12 {
			marker = "PM"
		}
		if count == 1 {
			return marker[:1], true
		}
		return marker, true
	default:
		return "", false
	}
}

// padded renders a one-or-two digit field: "1" for a single specifier, "01" otherwise.
func padded(value, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", value)
	}
	return fmt.Sprintf("%02d", value)
}
