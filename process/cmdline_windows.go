//go:build windows

package process

import "strings"

// buildCmdLine joins argv into the single command-line string
// CreateProcessW expects, quoting each argument per the same rules
// CommandLineToArgvW uses to parse it back apart. This mirrors
// build_cmdline_utf16/quote_arg_ from the Windows reference
// implementation; UTF-16 conversion itself happens at the
// windows.UTF16PtrFromString call site in launch_windows.go.
func buildCmdLine(argv []string) string {
	var b strings.Builder
	for i, a := range argv {
		if i > 0 {
			b.WriteByte(' ')
		}
		quoteArg(&b, a)
	}
	return b.String()
}

func quoteArg(b *strings.Builder, a string) {
	if a == "" {
		b.WriteString(`""`)
		return
	}
	if !strings.ContainsAny(a, " \t\"") {
		b.WriteString(a)
		return
	}
	b.WriteByte('"')
	backslashes := 0
	for _, c := range a {
		switch c {
		case '\\':
			backslashes++
		case '"':
			b.WriteString(strings.Repeat(`\`, backslashes*2+1))
			b.WriteByte('"')
			backslashes = 0
		default:
			if backslashes > 0 {
				b.WriteString(strings.Repeat(`\`, backslashes))
				backslashes = 0
			}
			b.WriteRune(c)
		}
	}
	if backslashes > 0 {
		b.WriteString(strings.Repeat(`\`, backslashes*2))
	}
	b.WriteByte('"')
}
