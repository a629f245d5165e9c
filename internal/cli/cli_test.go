package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ralt/composediff/internal/models"
	"github.com/ralt/composediff/internal/nevra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manifestJSON(ids ...string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = fmt.Sprintf("%q: {}", id)
	}
	return fmt.Sprintf(`{"header": {"version": "1.2"}, "payload": {"compose": {"id": "test"}, "rpms": {"Everything": {"x86_64": {%s}}}}}`,
		strings.Join(quoted, ", "))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func fixtures(t *testing.T) (string, string, string) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.json", manifestJSON(
		"pkg1-0:1.0-1.fc43.src",
		"pkg2-0:1.0-1.fc43.src",
		"shim-0:15.8-3.src",
	))
	newPath := writeFile(t, dir, "new.json", manifestJSON(
		"pkg1-0:2.0-1.fc43.src",
		"shim-0:15.8-3.src",
		"pkg3-0:0.1-1.fc43.src",
	))
	return dir, oldPath, newPath
}

func TestDiffText(t *testing.T) {
	_, oldPath, newPath := fixtures(t)

	out, err := execute(t, "diff", oldPath, newPath)
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"pkg2 REMOVED (pkg2-0:1.0-1)",
		"pkg3 ADDED (pkg3-0:0.1-1)",
		"pkg1 CHANGED (0:1.0-1.fc43 -> 0:2.0-1.fc43) upgrade",
		"1 removed, 1 added, 1 changed, 1 unchanged",
	}, "\n")+"\n", out)
}

func TestDiffJSONToFile(t *testing.T) {
	dir, oldPath, newPath := fixtures(t)
	reportPath := filepath.Join(dir, "reports", "diff.json")

	out, err := execute(t, "diff", "--format", "json", "-o", reportPath, oldPath, newPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var report struct {
		Old struct {
			Path      string `json:"path"`
			SHA256    string `json:"sha256"`
			ComposeID string `json:"compose_id"`
		} `json:"old"`
		Removed []struct {
			NEVRA string `json:"nevra"`
		} `json:"removed"`
		Changed []struct {
			Name string `json:"name"`
		} `json:"changed"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, oldPath, report.Old.Path)
	assert.Len(t, report.Old.SHA256, 64)
	assert.Equal(t, "test", report.Old.ComposeID)
	require.Len(t, report.Removed, 1)
	assert.Equal(t, "pkg2-0:1.0-1.fc43.src", report.Removed[0].NEVRA)
	require.Len(t, report.Changed, 1)
	assert.Equal(t, "pkg1", report.Changed[0].Name)
}

func TestDiffExcludeFromConfig(t *testing.T) {
	dir, oldPath, newPath := fixtures(t)
	cfg := writeFile(t, dir, "config.yaml", "exclude: [\"pkg2\", \"pkg3\"]\n")

	out, err := execute(t, "diff", "--config", cfg, "--summary", oldPath, newPath)
	require.NoError(t, err)
	assert.Equal(t, "0 removed, 0 added, 1 changed, 1 unchanged\n", out)
}

func TestDiffInvalidIdentifier(t *testing.T) {
	dir, oldPath, _ := fixtures(t)
	badPath := writeFile(t, dir, "bad.json", manifestJSON("pkg1-1.0-1.fc43.src"))

	_, err := execute(t, "diff", oldPath, badPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, nevra.ErrParse))

	out, err := execute(t, "diff", "--skip-invalid", "--summary", oldPath, badPath)
	require.NoError(t, err)
	assert.Equal(t, "3 removed, 0 added, 0 changed, 0 unchanged\n", out)
}

func TestDiffErrors(t *testing.T) {
	dir, oldPath, newPath := fixtures(t)

	tests := []struct {
		name string
		args []string
		typ  models.ErrorType
	}{
		{"missing file", []string{"diff", oldPath, filepath.Join(dir, "missing.json")}, models.ErrFileOp},
		{"bad format", []string{"diff", "--format", "yaml", oldPath, newPath}, models.ErrInvalidConfig},
		{"empty prefix", []string{"diff", "--prefix", " ", oldPath, newPath}, models.ErrInvalidConfig},
		{"missing keyring", []string{"diff", "--keyring", filepath.Join(dir, "missing.asc"), oldPath, newPath}, models.ErrSignature},
		{"missing config", []string{"diff", "--config", filepath.Join(dir, "missing.yaml"), oldPath, newPath}, models.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)

			var cdErr *models.ComposeDiffError
			require.True(t, errors.As(err, &cdErr), "got %v", err)
			assert.Equal(t, tt.typ, cdErr.Type)
		})
	}
}

func TestDiffArgs(t *testing.T) {
	_, err := execute(t, "diff", "only-one.json")
	assert.Error(t, err)
}

func TestComposes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><pre>
<a href="latest-Fedora-Rawhide/">latest-Fedora-Rawhide/</a>
</pre></body></html>`)
	}))
	defer srv.Close()

	out, err := execute(t, "composes", "--url", srv.URL+"/", "-d", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "latest-Fedora-Rawhide")
	assert.Contains(t, out, srv.URL+"/latest-Fedora-Rawhide/compose/metadata/rpms.json")
}

func TestComposesListingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := execute(t, "composes", "--url", srv.URL)
	require.Error(t, err)

	var cdErr *models.ComposeDiffError
	require.True(t, errors.As(err, &cdErr))
	assert.Equal(t, models.ErrListing, cdErr.Type)
}
