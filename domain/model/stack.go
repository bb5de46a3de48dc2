package model

import (
	"strconv"
	"strings"
)

// stackItem is one token of a stack expression. Either group is set (a
// parenthesized sub-expression, possibly repeated) or name is.
type stackItem struct {
	name        string
	thickness   *float64
	group       string
	repetitions int
	environment string
}

// parseStack splits a stack expression into ordered items. Grammar:
//
//	expr  := item ('|' item)*
//	item  := [count] '(' expr ')' ['in' name]  |  name [number]
//
// Names may contain spaces; a trailing bare number is a thickness in the
// model's default length unit. Surrounding whitespace is insignificant.
func parseStack(expr string) ([]stackItem, error) {
	parts, err := splitTop(expr)
	if err != nil {
		return nil, err
	}
	items := make([]stackItem, 0, len(parts))
	for _, p := range parts {
		item, err := parseItem(p)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// splitTop splits on '|' at parenthesis depth zero.
func splitTop(expr string) ([]string, error) {
	var parts []string
	depth := 0
	start := 0
	for i, c := range expr {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, invalidDef(expr, "unbalanced parentheses")
			}
		case '|':
			if depth == 0 {
				parts = append(parts, expr[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, invalidDef(expr, "unbalanced parentheses")
	}
	parts = append(parts, expr[start:])
	return parts, nil
}

func parseItem(s string) (stackItem, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return stackItem{}, invalidDef(s, "empty stack item")
	}

	if open := strings.IndexByte(s, '('); open >= 0 && isCount(s[:open]) {
		end := matchParen(s, open)
		if end < 0 {
			return stackItem{}, invalidDef(s, "unbalanced parentheses")
		}
		item := stackItem{
			group:       strings.TrimSpace(s[open+1 : end]),
			repetitions: 1,
		}
		if prefix := strings.TrimSpace(s[:open]); prefix != "" {
			n, err := strconv.Atoi(prefix)
			if err != nil || n < 1 {
				return stackItem{}, invalidDef(s, "bad repetition count")
			}
			item.repetitions = n
		}
		rest := strings.TrimSpace(s[end+1:])
		if rest != "" {
			env, ok := strings.CutPrefix(rest, "in ")
			if !ok {
				return stackItem{}, invalidDef(s, "unexpected text after group")
			}
			item.environment = strings.TrimSpace(env)
		}
		return item, nil
	}

	item := stackItem{name: s}
	fields := strings.Fields(s)
	if len(fields) > 1 {
		if th, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil {
			item.thickness = &th
			item.name = strings.Join(fields[:len(fields)-1], " ")
		}
	}
	return item, nil
}

// isCount reports whether the text before '(' is empty or a bare integer,
// i.e. the parenthesis opens a repetition group rather than being part of a
// name.
func isCount(s string) bool {
	s = strings.TrimSpace(s)
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
