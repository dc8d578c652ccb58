package plugintester

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/tools/imports"

	"github.com/AndreyAkinshin/plugintester/internal/model"
)

var (
	_ model.Formatter = DefaultFormatter
	_ model.Formatter = GoFormatter
	_ model.Formatter = NoFormatter
)

// DefaultFormatter normalises text to NFC, strips trailing whitespace from
// every line, and ends the text with exactly one newline.
func DefaultFormatter(code string, _ FormatContext) (string, error) {
	code = norm.NFC.String(code)
	lines := strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n", nil
}

// GoFormatter formats Go source with gofmt rules and goimports grouping.
// Fragments without a package clause are accepted.
func GoFormatter(code string, fc FormatContext) (string, error) {
	out, err := imports.Process(fc.Filepath, []byte(code), &imports.Options{
		Fragment:   true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// NoFormatter returns code unchanged.
func NoFormatter(code string, _ FormatContext) (string, error) {
	return code, nil
}
