package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/ralt/composediff/internal/nevra"
	"github.com/ralt/composediff/internal/pkgset"
	"github.com/ralt/composediff/internal/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildResult(t *testing.T) *reconcile.Result {
	t.Helper()
	set := func(ids ...string) *pkgset.Set {
		s := pkgset.New()
		for _, id := range ids {
			pkg, err := nevra.Parse(id)
			require.NoError(t, err)
			s.Add(pkg)
		}
		return s
	}
	old := set("zsh-0:5.9-1.fc43.src", "gone-0:1-1.fc43.src", "rust-uuid-1:1.11.0-2.fc42.src")
	new := set("zsh-0:5.9-1.fc43.src", "fresh-0:2-1.fc43.src", "rust-uuid-1:1.13.2-1.fc43.src")
	return reconcile.Reconcile(old, new)
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, buildResult(t), TextOptions{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"gone REMOVED (gone-0:1-1)",
		"fresh ADDED (fresh-0:2-1)",
		"rust-uuid CHANGED (1:1.11.0-2.fc42 -> 1:1.13.2-1.fc43) upgrade",
		"1 removed, 1 added, 1 changed, 1 unchanged",
	}, lines)
}

func TestTextColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, buildResult(t), TextOptions{Color: true}))

	out := buf.String()
	assert.Contains(t, out, "\033[31mgone REMOVED")
	assert.Contains(t, out, "\033[32mfresh ADDED")
	assert.Contains(t, out, "\033[33mrust-uuid CHANGED")
}

func TestTextSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, buildResult(t), TextOptions{Summary: true}))
	assert.Equal(t, "1 removed, 1 added, 1 changed, 1 unchanged\n", buf.String())
}

func TestTextLargeCounts(t *testing.T) {
	s := pkgset.New()
	for i := 0; i < 1200; i++ {
		pkg, err := nevra.Parse(fmt.Sprintf("pkg%d-0:1.0-1.fc43.src", i))
		require.NoError(t, err)
		s.Add(pkg)
	}

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, reconcile.Reconcile(s, s), TextOptions{Summary: true}))
	assert.Equal(t, "0 removed, 0 added, 0 changed, 1,200 unchanged\n", buf.String())
}

func TestJSON(t *testing.T) {
	report := NewReport(buildResult(t), Source{Path: "old.json", Packages: 3}, Source{Path: "new.json", Packages: 3}, false)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, report, true))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	changed := decoded["changed"].([]interface{})
	require.Len(t, changed, 1)
	first := changed[0].(map[string]interface{})
	assert.Equal(t, "rust-uuid", first["name"])
	assert.Equal(t, "upgrade", first["direction"])
	assert.Equal(t, "fc42", first["old"].(map[string]interface{})["distro_tag"])

	summary := decoded["summary"].(map[string]interface{})
	assert.EqualValues(t, 1, summary["removed"])
	assert.EqualValues(t, 1, summary["unchanged"])
}

func TestJSONSummaryOnly(t *testing.T) {
	report := NewReport(buildResult(t), Source{}, Source{}, true)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, report, false))
	assert.Contains(t, buf.String(), `"removed":[]`)
	assert.Contains(t, buf.String(), `"summary":{"removed":1,"added":1,"changed":1,"unchanged":1}`)
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, ColorEnabled(&buf, false))
	assert.False(t, ColorEnabled(&buf, true))
}
