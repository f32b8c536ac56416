package core

import (
	"strconv"
	"strings"
)

// Name template keywords.
const (
	KeywordMotors        = "motors"
	KeywordManufacturers = "manufacturers"
)

// Placeholder texts used by the name formatter.
const (
	NoMotorsText      = "[No motors]"
	NoStageMotorsText = "[No stage motors]"
)

const (
	stageSeparator = "; "
	entrySeparator = ", "
	countSign      = "×"
)

// templatePart is either literal text or a keyword group.
type templatePart struct {
	literal  string
	keywords []string
	// delims[i] sits between keywords[i] and keywords[i+1].
	delims []string
}

func (p templatePart) isGroup() bool { return len(p.keywords) > 0 }

// parseTemplate splits a template into literal text and {keyword} groups.
// It returns false for any malformed or unknown group.
func parseTemplate(template string) ([]templatePart, bool) {
	var parts []templatePart
	rest := template
	for rest != "" {
		open := strings.IndexAny(rest, "{}")
		if open < 0 {
			parts = append(parts, templatePart{literal: rest})
			break
		}
		if rest[open] == '}' {
			return nil, false
		}
		if open > 0 {
			parts = append(parts, templatePart{literal: rest[:open]})
		}
		body := rest[open+1:]
		end := strings.IndexAny(body, "{}")
		if end < 0 || body[end] == '{' {
			return nil, false
		}
		group, ok := parseGroup(body[:end])
		if !ok {
			return nil, false
		}
		parts = append(parts, group)
		rest = body[end+1:]
	}
	return parts, true
}

func isDelimiter(r byte) bool { return r == ' ' || r == '|' }

func parseGroup(body string) (templatePart, bool) {
	var g templatePart
	i := 0
	for i < len(body) {
		start := i
		for i < len(body) && !isDelimiter(body[i]) {
			i++
		}
		word := body[start:i]
		if word != KeywordMotors && word != KeywordManufacturers {
			return templatePart{}, false
		}
		g.keywords = append(g.keywords, word)

		start = i
		for i < len(body) && isDelimiter(body[i]) {
			i++
		}
		if i == start {
			continue
		}
		if i == len(body) {
			// Trailing delimiter.
			return templatePart{}, false
		}
		g.delims = append(g.delims, body[start:i])
	}
	return g, len(g.keywords) > 0
}

// FormatName renders template against fc. Malformed templates and unknown
// keywords are returned verbatim.
func FormatName(template string, fc *FlightConfiguration) string {
	parts, ok := parseTemplate(template)
	if !ok {
		return template
	}
	var sb strings.Builder
	for _, p := range parts {
		if !p.isGroup() {
			sb.WriteString(p.literal)
			continue
		}
		sb.WriteString(renderGroup(p, fc))
	}
	return sb.String()
}

func renderGroup(g templatePart, fc *FlightConfiguration) string {
	motors := fc.ActiveMotors()
	if len(motors) == 0 {
		return NoMotorsText
	}

	stages := make([]string, fc.StageCount())
	for n := range stages {
		if !fc.IsStageActive(n) {
			continue
		}
		var order []string
		counts := make(map[string]int)
		for _, m := range motors {
			if m.StageNumber != n {
				continue
			}
			combo := motorCombo(g, m)
			if _, seen := counts[combo]; !seen {
				order = append(order, combo)
			}
			counts[combo] += m.Count
		}
		if len(order) == 0 {
			stages[n] = NoStageMotorsText
			continue
		}
		entries := make([]string, len(order))
		for i, combo := range order {
			if c := counts[combo]; c > 1 {
				entries[i] = strconv.Itoa(c) + countSign + combo
			} else {
				entries[i] = combo
			}
		}
		stages[n] = strings.Join(entries, entrySeparator)
	}
	return strings.Join(stages, stageSeparator)
}

func motorCombo(g templatePart, m ActiveMotor) string {
	var sb strings.Builder
	for i, kw := range g.keywords {
		if i > 0 {
			sb.WriteString(g.delims[i-1])
		}
		switch kw {
		case KeywordMotors:
			sb.WriteString(m.Config.Describe())
		case KeywordManufacturers:
			sb.WriteString(m.Config.Motor.Manufacturer.Name)
		}
	}
	return sb.String()
}
