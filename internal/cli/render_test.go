package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Stdout(t *testing.T) {
	out, err := execute(t, "render", specsDir, "tree", "-n", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "<svg ")
	assert.Contains(t, out, `width="1000"`)
	assert.Contains(t, out, `height="1000"`)
	// 11[1[0]0]1[0]0 has eight drawing symbols.
	assert.Equal(t, 8, strings.Count(out, "<line "))
	assert.Contains(t, out, "</svg>")
}

func TestRender_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "koch.svg")

	out, err := execute(t, "--format", "json", "render", specsDir, "koch", "-n", "2", "-o", path)
	require.NoError(t, err)

	var result RenderResult
	resp := decode(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 49, result.Symbols)
	assert.Equal(t, 25, result.Segments)
	assert.InDelta(t, 0.5625, result.Scale, 1e-12)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 25, strings.Count(string(data), "<line "))
}

func TestRender_TextSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.svg")

	out, err := execute(t, "render", specsDir, "tree", "-n", "1", "-o", path)
	require.NoError(t, err)
	assert.Equal(t, "✓ Rendered tree generation 1 (3 segment(s)) to "+path+"\n", out)
}

func TestRender_NoDrawRules(t *testing.T) {
	out, err := execute(t, "render", specsDir, "algae")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "system algae has no draw rules")
}
