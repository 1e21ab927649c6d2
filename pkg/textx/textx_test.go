package textx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-recruit-engine/pkg/textx"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	in := "  hello\x00world\n\tok\x7f  "
	assert.Equal(t, "helloworld\n\tok", textx.SanitizeText(in))
}

func TestLines(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b"}, textx.Lines("a\r\n\n  b  \n"))
	assert.Empty(t, textx.Lines("  \n \n"))
}

func TestFirstNonEmptyLine(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Title", textx.FirstNonEmptyLine("\n\n Title \nrest"))
	assert.Equal(t, "", textx.FirstNonEmptyLine(""))
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "héll", textx.TruncateRunes("héllo", 4))
	assert.Equal(t, "héllo", textx.TruncateRunes("héllo", 10))
	assert.Equal(t, "", textx.TruncateRunes("x", 0))
}
