package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/parenfmt/internal/ui/pretty"
)

func TestFormatProblem(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t,
		"src/a.scm:3:7: error: expected ')' to close list\n",
		styles.FormatProblem("src/a.scm", 3, 7, "error", "expected ')' to close list"))

	assert.Equal(t,
		"a.scm: error: permission denied\n",
		styles.FormatProblem("a.scm", 0, 0, "error", "permission denied"))
}

func TestFormatSourceContext(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "    (foo \"bar\n        ^\n", styles.FormatSourceContext(`(foo "bar`, 5))
	assert.Equal(t, "        x\n        ^\n", styles.FormatSourceContext("\tx", 2), "tabs widen the caret offset")
	assert.Equal(t, "    abc\n", styles.FormatSourceContext("abc", 0))
}

func TestFormatStatus(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "a.scm: formatted\n", styles.FormatStatus("a.scm", "formatted"))
	assert.Equal(t, "b.scm: needs formatting\n", styles.FormatStatus("b.scm", "needs formatting"))
}
