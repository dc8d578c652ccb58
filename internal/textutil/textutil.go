// Package textutil normalises source text before comparison.
package textutil

import (
	"runtime"
	"strings"
)

// EndOfLine selects how line endings in transformed output are normalised.
type EndOfLine string

const (
	EOLLF       EndOfLine = "lf"
	EOLCRLF     EndOfLine = "crlf"
	EOLAuto     EndOfLine = "auto"     // Platform default
	EOLPreserve EndOfLine = "preserve" // Whatever the input code uses
	EOLNone     EndOfLine = "none"     // No conversion
)

// Valid reports whether e is a known policy. The empty policy means EOLLF.
func (e EndOfLine) Valid() bool {
	switch e {
	case "", EOLLF, EOLCRLF, EOLAuto, EOLPreserve, EOLNone:
		return true
	}
	return false
}

// ConvertEOL rewrites the line endings of s according to policy. input is
// the untransformed code, consulted by EOLPreserve.
func ConvertEOL(s string, policy EndOfLine, input string) string {
	switch policy {
	case EOLNone:
		return s
	case EOLCRLF:
		return toCRLF(s)
	case EOLAuto:
		if runtime.GOOS == "windows" {
			return toCRLF(s)
		}
		return toLF(s)
	case EOLPreserve:
		if strings.Contains(input, "\r\n") {
			return toCRLF(s)
		}
		return toLF(s)
	default:
		return toLF(s)
	}
}

func toLF(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func toCRLF(s string) string {
	return strings.ReplaceAll(toLF(s), "\n", "\r\n")
}

// StripIndent removes the indentation shared by every non-blank line, then
// trims surrounding whitespace.
func StripIndent(s string) string {
	lines := strings.Split(s, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent > 0 {
		for i, line := range lines {
			if len(line) >= indent {
				lines[i] = line[indent:]
			} else {
				lines[i] = strings.TrimLeft(line, " \t")
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Trim trims surrounding whitespace, the form in which expected and actual
// output are compared.
func Trim(s string) string {
	return strings.TrimSpace(s)
}
