//go:build windows

package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteArgNoSpecialCharsIsUnquoted(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", buildCmdLine([]string{"hello"}))
}

func TestQuoteArgEmptyStringIsQuoted(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `""`, buildCmdLine([]string{""}))
}

func TestQuoteArgWithSpaceIsQuoted(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"hello world"`, buildCmdLine([]string{"hello world"}))
}

func TestQuoteArgWithEmbeddedQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"say \"hi\""`, buildCmdLine([]string{`say "hi"`}))
}

func TestQuoteArgWithTrailingBackslashesBeforeClosingQuote(t *testing.T) {
	t.Parallel()

	// Trailing backslashes immediately before the closing quote must be
	// doubled so CommandLineToArgvW doesn't treat them as escaping it.
	assert.Equal(t, `"C:\my path\\"`, buildCmdLine([]string{`C:\my path\`}))
}

func TestQuoteArgWithInteriorBackslashesNotDoubled(t *testing.T) {
	t.Parallel()

	// Backslashes not immediately followed by a quote (and not at the
	// very end) pass through untouched when the argument has no spaces...
	assert.Equal(t, `C:\path\to\file`, buildCmdLine([]string{`C:\path\to\file`}))
}

func TestBuildCmdLineJoinsMultipleArgsWithSpaces(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `first "second arg" third`, buildCmdLine([]string{"first", "second arg", "third"}))
}
