package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{"bogus", true, ModeText},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)

	r.Header(2, "Load")
	r.StatusLine("publisher", "success", "4 rows")
	r.StatusLine("shop", "skipped", "")
	r.KeyValue("Total", 28)
	r.Success("done")

	assert.Equal(t, "## Load\n- publisher: success (4 rows)\n- shop: skipped\n**Total:** 28\ndone\n", out.String())
}

func TestRenderer_Text(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)

	r.Header(1, "Schema")
	r.StatusLine("book", "success", "")
	r.Success("created")
	r.KeyValue("Run ID", "abc")
	r.Muted("took 3ms")

	got := out.String()
	assert.Contains(t, got, "Run ID: abc\n")
	assert.Contains(t, got, "took 3ms\n")
	assert.Contains(t, got, "Schema\n")
	assert.Contains(t, got, "✓ book\n")
	assert.Contains(t, got, "✓ created\n")
}

func TestRenderer_JSONSuppressesStatus(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)

	r.Header(1, "Load")
	r.Println("hello")
	r.Printf("%d\n", 1)
	r.StatusLine("x", "success", "")
	r.Success("ok")
	r.Muted("quiet")
	r.KeyValue("k", "v")
	assert.Empty(t, out.String())

	require.NoError(t, r.JSON(map[string]int{"rows": 3}))
	assert.JSONEq(t, `{"rows": 3}`, out.String())
}

func TestRenderer_WarningGoesToErr(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)
	r.Warning("skipped 2 records")
	assert.Empty(t, out.String())
	assert.Equal(t, "Warning: skipped 2 records\n", errOut.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "**Rows:** 5", FormatKeyValue("Rows", 5))
}
