package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/strata/internal/demo"
	"github.com/aretw0/strata/internal/presentation/tui"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoState() domain.State {
	return domain.NewState().
		With(demo.SliceCount, demo.CountState{Count: 2}).
		With(demo.SliceUser, demo.UserState{IsActivated: true})
}

func TestPrinter_YAML(t *testing.T) {
	var buf bytes.Buffer
	p, err := tui.NewPrinter(&buf, "")
	require.NoError(t, err)

	require.NoError(t, p.PrintState("after INCREMENT", demoState()))
	out := buf.String()

	assert.Contains(t, out, "after INCREMENT")
	assert.NotContains(t, out, "\x1b[", "a buffer is not a terminal")
	assert.Less(t, strings.Index(out, "count:"), strings.Index(out, "user:"), "slices keep their order")
	assert.Contains(t, out, "isActivated: true")
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p, err := tui.NewPrinter(&buf, tui.FormatJSON)
	require.NoError(t, err)

	require.NoError(t, p.PrintState("state", demoState()))
	assert.Contains(t, buf.String(), `"count": {`)
}

func TestPrinter_Markdown(t *testing.T) {
	var buf bytes.Buffer
	p, err := tui.NewPrinter(&buf, tui.FormatMarkdown)
	require.NoError(t, err)

	require.NoError(t, p.PrintState("state", demoState()))
	assert.Contains(t, buf.String(), "count")
	assert.Contains(t, buf.String(), "user")
}

func TestPrinter_ForcedColor(t *testing.T) {
	var buf bytes.Buffer
	p, err := tui.NewPrinter(&buf, tui.FormatYAML, tui.WithColor(true))
	require.NoError(t, err)

	require.NoError(t, p.PrintState("state", demoState()))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestPrinter_UnknownFormat(t *testing.T) {
	_, err := tui.NewPrinter(&bytes.Buffer{}, "xml")
	assert.ErrorContains(t, err, "xml")
}

func TestPrinter_Diff(t *testing.T) {
	var buf bytes.Buffer
	p, err := tui.NewPrinter(&buf, "")
	require.NoError(t, err)

	diff := domain.Diff(demoState(), domain.NewState().With(demo.SliceCount, demo.CountState{Count: 3}))
	require.NoError(t, p.PrintDiff("s1", diff))
	assert.Equal(t, "s1 ~ count {\"count\":3}\ns1 - user\n", buf.String())

	buf.Reset()
	require.NoError(t, p.PrintDiff("s1", nil))
	assert.Empty(t, buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}
