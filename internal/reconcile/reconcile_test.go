package reconcile

import (
	"testing"

	"github.com/ralt/composediff/internal/models"
	"github.com/ralt/composediff/internal/nevra"
	"github.com/ralt/composediff/internal/pkgset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSet(t *testing.T, ids ...string) *pkgset.Set {
	t.Helper()
	s := pkgset.New()
	for _, id := range ids {
		pkg, err := nevra.Parse(id)
		require.NoError(t, err)
		s.Add(pkg)
	}
	return s
}

func ids(s *pkgset.Set) []string {
	out := []string{}
	for _, pkg := range s.Sorted() {
		out = append(out, pkg.FullName)
	}
	return out
}

func TestReconcileVersionChange(t *testing.T) {
	old := mustSet(t, "pkg1-0:1.0-1.fc43.src")
	new := mustSet(t, "pkg1-0:2.0-1.fc43.src")

	result := Reconcile(old, new)

	assert.Empty(t, ids(result.Removed))
	assert.Empty(t, ids(result.Added))
	require.Len(t, result.Changed, 1)
	assert.Equal(t, "pkg1-0:1.0-1.fc43.src", result.Changed[0].Old.FullName)
	assert.Equal(t, "pkg1-0:2.0-1.fc43.src", result.Changed[0].New.FullName)
	assert.Equal(t, Upgrade, result.Changed[0].Direction)
}

func TestReconcileRemoval(t *testing.T) {
	old := mustSet(t, "pkg1-0:1.0-1.fc43.src", "pkg2-0:1.0-1.fc43.src")
	new := mustSet(t, "pkg1-0:1.0-1.fc43.src")

	result := Reconcile(old, new)

	assert.Equal(t, []string{"pkg2-0:1.0-1.fc43.src"}, ids(result.Removed))
	assert.Empty(t, ids(result.Added))
	assert.Empty(t, result.Changed)
	assert.Equal(t, 1, result.Unchanged)
}

func TestReconcileAddition(t *testing.T) {
	old := mustSet(t, "pkg1-0:1.0-1.fc43.src")
	new := mustSet(t, "pkg1-0:1.0-1.fc43.src", "shim-0:15.8-3.src")

	result := Reconcile(old, new)

	assert.Empty(t, ids(result.Removed))
	assert.Equal(t, []string{"shim-0:15.8-3.src"}, ids(result.Added))
	assert.Empty(t, result.Changed)
}

func TestReconcileIdentical(t *testing.T) {
	x := mustSet(t,
		"rust-uuid-1:1.13.2-4.fc43.src",
		"shim-0:15.8-3.src",
		"perl-Math.Complex-0:1.59-1.fc43.src",
	)

	result := Reconcile(x, x)

	assert.Empty(t, ids(result.Removed))
	assert.Empty(t, ids(result.Added))
	assert.Empty(t, result.Changed)
	assert.Equal(t, 3, result.Unchanged)
}

func TestReconcileEmpty(t *testing.T) {
	result := Reconcile(pkgset.New(), pkgset.New())

	assert.Equal(t, 0, result.Removed.Len())
	assert.Equal(t, 0, result.Added.Len())
	assert.Empty(t, result.Changed)
}

func TestReconcileEachFieldCounts(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		dir  Direction
	}{
		{"epoch", "a-0:1.0-1.fc43.src", "a-1:1.0-1.fc43.src", Upgrade},
		{"version", "a-0:1.10-1.fc43.src", "a-0:1.9-1.fc43.src", Downgrade},
		{"release", "a-0:1.0-1.fc43.src", "a-0:1.0-2.fc43.src", Upgrade},
		{"distro tag", "a-0:1.0-1.fc42.src", "a-0:1.0-1.fc43.src", Rebuild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Reconcile(mustSet(t, tt.old), mustSet(t, tt.new))

			require.Len(t, result.Changed, 1)
			assert.Equal(t, tt.dir, result.Changed[0].Direction)
			assert.Equal(t, 0, result.Removed.Len())
			assert.Equal(t, 0, result.Added.Len())
		})
	}
}

// Same name and EVR but different arch is not a change.
func TestReconcileArchOnlyDifference(t *testing.T) {
	old := mustSet(t, "a-0:1.0-1.fc43.src")
	new := mustSet(t, "a-0:1.0-1.fc43.noarch")

	result := Reconcile(old, new)

	assert.Empty(t, result.Changed)
	assert.Equal(t, []string{"a-0:1.0-1.fc43.src"}, ids(result.Removed))
	assert.Equal(t, []string{"a-0:1.0-1.fc43.noarch"}, ids(result.Added))
}

func TestReconcileProperties(t *testing.T) {
	old := mustSet(t,
		"bash-0:5.2.37-1.fc43.src",
		"rust-uuid-1:1.11.0-2.fc42.src",
		"python-trio-websocket-0:0.12.0~dev^202501304247cd5-1.fc43.src",
		"shim-0:15.8-3.src",
		"gone-0:1-1.fc43.src",
		"perl-Math.Complex-0:1.59-1.fc43.src",
	)
	new := mustSet(t,
		"bash-0:5.2.37-1.fc43.src",
		"rust-uuid-1:1.13.2-1.fc43.src",
		"python-trio-websocket-0:0.12.1-1.fc43.src",
		"shim-0:15.8-3.src",
		"fresh-0:1-1.fc43.src",
		"perl-Math.Complex-0:1.60-1.fc43.src",
	)

	result := Reconcile(old, new)

	// disjoint by name
	seen := map[string]string{}
	mark := func(name, group string) {
		if prev, ok := seen[name]; ok {
			t.Errorf("%s appears in %s and %s", name, prev, group)
		}
		seen[name] = group
	}
	for _, pkg := range result.Removed.Sorted() {
		mark(pkg.Name, "removed")
	}
	for _, pkg := range result.Added.Sorted() {
		mark(pkg.Name, "added")
	}
	for _, c := range result.Changed {
		mark(c.Name(), "changed")
	}

	// every old package is accounted for
	accounted := result.Removed.Union(old.Intersection(new))
	for _, c := range result.Changed {
		accounted.Add(c.Old)
	}
	assert.ElementsMatch(t, ids(old), ids(accounted))

	assert.Equal(t, []string{"gone-0:1-1.fc43.src"}, ids(result.Removed))
	assert.Equal(t, []string{"fresh-0:1-1.fc43.src"}, ids(result.Added))

	var changedNames []string
	for _, c := range result.Changed {
		changedNames = append(changedNames, c.Name())
	}
	assert.Equal(t, []string{"perl-Math.Complex", "python-trio-websocket", "rust-uuid"}, changedNames)
}

func TestDuplicateNames(t *testing.T) {
	s := mustSet(t,
		"kernel-0:6.13.0-1.fc43.src",
		"kernel-0:6.14.0-1.fc43.src",
		"bash-0:5.2.37-1.fc43.src",
	)

	dups := DuplicateNames(s)

	require.Len(t, dups, 1)
	assert.Equal(t, []string{"kernel-0:6.13.0-1.fc43.src", "kernel-0:6.14.0-1.fc43.src"}, dups["kernel"])
}

func TestCompare(t *testing.T) {
	a := models.Package{Epoch: "0", Version: "1.0", Release: "1"}
	b := models.Package{Epoch: "0", Version: "1.0", Release: "1", DistroTag: "fc43"}

	assert.Equal(t, Rebuild, Compare(a, b))
	assert.Equal(t, "rebuild", Compare(a, b).String())
}
