// Package reconcile classifies the packages of two compose manifests as
// removed, added or changed.
//
// Packages are aligned by name. Each side is reduced to one package per
// name before alignment, the last one inserted winning, so a manifest that
// lists several builds of the same name (multiple kernels, for instance)
// is compared through only one of them. DuplicateNames reports the names
// affected so callers can warn about it.
package reconcile

import (
	"github.com/ralt/composediff/internal/models"
	"github.com/ralt/composediff/internal/pkgset"
	rpmutils "github.com/sassoftware/go-rpmutils"
)

// Direction tells how a changed package moved between the two manifests
type Direction int

const (
	// Rebuild means epoch, version and release compare equal and only the
	// distro tag or the spelling of the EVR differs
	Rebuild Direction = iota
	Upgrade
	Downgrade
)

// String returns the string representation of Direction
func (d Direction) String() string {
	switch d {
	case Upgrade:
		return "upgrade"
	case Downgrade:
		return "downgrade"
	default:
		return "rebuild"
	}
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Change pairs the old and new package sharing one name
type Change struct {
	Old       models.Package
	New       models.Package
	Direction Direction
}

// Name returns the package name shared by both sides
func (c Change) Name() string {
	return c.Old.Name
}

// Result holds the three disjoint groups of a reconciliation
type Result struct {
	Removed *pkgset.Set
	Added   *pkgset.Set
	Changed []Change

	// Unchanged counts full identifiers present in both manifests
	Unchanged int
}

// Reconcile compares old against new
func Reconcile(old, new *pkgset.Set) *Result {
	rawRemoved := old.Difference(new)
	rawAdded := new.Difference(old)

	changed := changedPackages(old, new)
	changedNames := make(map[string]struct{}, len(changed))
	for _, c := range changed {
		changedNames[c.Name()] = struct{}{}
	}
	notChanged := func(pkg models.Package) bool {
		_, ok := changedNames[pkg.Name]
		return !ok
	}

	return &Result{
		Removed:   rawRemoved.Filter(notChanged),
		Added:     rawAdded.Filter(notChanged),
		Changed:   changed,
		Unchanged: old.Intersection(new).Len(),
	}
}

// changedPackages aligns both sides by name and keeps the pairs whose
// epoch, version, release or distro tag differ. Pairs follow the sorted
// order of old names.
func changedPackages(old, new *pkgset.Set) []Change {
	oldByName := old.ByName()
	newByName := new.ByName()

	var changed []Change
	for _, name := range old.Names() {
		oldPkg := oldByName[name]
		newPkg, ok := newByName[name]
		if !ok || oldPkg.SameEVR(newPkg) {
			continue
		}
		changed = append(changed, Change{
			Old:       oldPkg,
			New:       newPkg,
			Direction: Compare(oldPkg, newPkg),
		})
	}
	return changed
}

// Compare orders two builds of a package by epoch, version and release
// using rpm version comparison
func Compare(old, new models.Package) Direction {
	for _, pair := range [][2]string{
		{old.Epoch, new.Epoch},
		{old.Version, new.Version},
		{old.Release, new.Release},
	} {
		switch rpmutils.Vercmp(pair[0], pair[1]) {
		case -1:
			return Upgrade
		case 1:
			return Downgrade
		}
	}
	return Rebuild
}

// DuplicateNames returns, for every name held by more than one package in
// s, the full identifiers sharing it. Only the last of each list takes part
// in name alignment.
func DuplicateNames(s *pkgset.Set) map[string][]string {
	byName := make(map[string][]string)
	for _, pkg := range s.Packages() {
		byName[pkg.Name] = append(byName[pkg.Name], pkg.FullName)
	}
	for name, ids := range byName {
		if len(ids) < 2 {
			delete(byName, name)
		}
	}
	return byName
}
