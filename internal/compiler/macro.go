package compiler

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	defineDirective = "#define"
	endDirective    = "#enifed"
)

// callPattern matches a macro call: {NAME} or {NAME ARG...}.
var callPattern = regexp.MustCompile(`\{[^\s{}]+(?:\s[^{}]*)?\}`)

// Macro is a named text template with positional parameters.
type Macro struct {
	Name   string
	Params []string
	Body   []string
}

// Expand substitutes each {param} placeholder with the matching argument.
// Missing arguments expand to the empty string.
func (m Macro) Expand(args []string) string {
	pairs := make([]string, 0, 2*len(m.Params))
	for i, p := range m.Params {
		arg := ""
		if i < len(args) {
			arg = args[i]
		}
		pairs = append(pairs, "{"+p+"}", arg)
	}
	r := strings.NewReplacer(pairs...)

	lines := make([]string, len(m.Body))
	for i, line := range m.Body {
		lines[i] = r.Replace(line)
	}
	return strings.Join(lines, "\n")
}

// Macros indexes macros by name.
type Macros map[string]Macro

// ExtractMacros removes every #define ... #enifed block from src and returns the
// remaining text together with the macros found. Removed lines are left empty.
func ExtractMacros(src string) (string, Macros, error) {
	macros := make(Macros)
	lines := strings.Split(src, "\n")

	var current *Macro
	start := 0
	for i, line := range lines {
		switch {
		case strings.Contains(line, defineDirective):
			if current != nil {
				return "", nil, syntaxErrorf(i+1, "#define %s inside macro %s", line, current.Name)
			}
			fields := strings.Fields(line[strings.Index(line, defineDirective)+len(defineDirective):])
			if len(fields) == 0 {
				return "", nil, syntaxErrorf(i+1, "#define without a name")
			}
			current = &Macro{Name: fields[0], Params: fields[1:]}
			start = i + 1
			lines[i] = ""
		case current != nil && strings.Contains(line, endDirective):
			macros[current.Name] = *current
			current = nil
			lines[i] = ""
		case current != nil:
			current.Body = append(current.Body, line)
			lines[i] = ""
		}
	}
	if current != nil {
		return "", nil, syntaxErrorf(start, "macro %s is missing %s", current.Name, endDirective)
	}

	return strings.Join(lines, "\n"), macros, nil
}

// Expand replaces every macro call in src with the macro body, in one pass.
// Calls produced by an expansion are not expanded again.
func (m Macros) Expand(src string) (string, error) {
	locs := callPattern.FindAllStringIndex(src, -1)
	if len(locs) == 0 {
		return src, nil
	}

	var sb strings.Builder
	last := 0
	for _, loc := range locs {
		call := src[loc[0]+1 : loc[1]-1]
		fields := strings.Fields(call)
		macro, ok := m[fields[0]]
		if !ok {
			line := strings.Count(src[:loc[0]], "\n") + 1
			return "", errorAt(line, fmt.Errorf("%w: %s", ErrUndefinedMacro, fields[0]))
		}
		sb.WriteString(src[last:loc[0]])
		sb.WriteString(macro.Expand(fields[1:]))
		last = loc[1]
	}
	sb.WriteString(src[last:])
	return sb.String(), nil
}
