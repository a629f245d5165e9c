// Package pkgset provides a set of parsed packages keyed by full identifier.
package pkgset

import (
	"sort"

	"github.com/ralt/composediff/internal/models"
)

// Set is a collection of packages, unique by FullName. It remembers
// insertion order so that name lookups resolve collisions deterministically.
type Set struct {
	index map[string]int
	pkgs  []models.Package
}

// New creates a set holding pkgs
func New(pkgs ...models.Package) *Set {
	s := &Set{index: make(map[string]int, len(pkgs))}
	for _, pkg := range pkgs {
		s.Add(pkg)
	}
	return s
}

// Add inserts pkg, replacing any package with the same FullName
func (s *Set) Add(pkg models.Package) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[pkg.FullName]; ok {
		s.pkgs[i] = pkg
		return
	}
	s.index[pkg.FullName] = len(s.pkgs)
	s.pkgs = append(s.pkgs, pkg)
}

// Contains reports whether a package with fullName is in the set
func (s *Set) Contains(fullName string) bool {
	_, ok := s.index[fullName]
	return ok
}

// Get returns the package with fullName
func (s *Set) Get(fullName string) (models.Package, bool) {
	i, ok := s.index[fullName]
	if !ok {
		return models.Package{}, false
	}
	return s.pkgs[i], true
}

// Len returns the number of packages
func (s *Set) Len() int {
	return len(s.pkgs)
}

// Packages returns the packages in insertion order
func (s *Set) Packages() []models.Package {
	out := make([]models.Package, len(s.pkgs))
	copy(out, s.pkgs)
	return out
}

// Difference returns the packages of s whose FullName is absent from other
func (s *Set) Difference(other *Set) *Set {
	out := New()
	for _, pkg := range s.pkgs {
		if !other.Contains(pkg.FullName) {
			out.Add(pkg)
		}
	}
	return out
}

// Intersection returns the packages of s whose FullName is also in other
func (s *Set) Intersection(other *Set) *Set {
	out := New()
	for _, pkg := range s.pkgs {
		if other.Contains(pkg.FullName) {
			out.Add(pkg)
		}
	}
	return out
}

// Union returns the packages of both sets; on a shared FullName the
// package from other wins
func (s *Set) Union(other *Set) *Set {
	out := New(s.pkgs...)
	for _, pkg := range other.pkgs {
		out.Add(pkg)
	}
	return out
}

// Filter returns the packages for which keep returns true
func (s *Set) Filter(keep func(models.Package) bool) *Set {
	out := New()
	for _, pkg := range s.pkgs {
		if keep(pkg) {
			out.Add(pkg)
		}
	}
	return out
}

// ByName maps each package name to a package. When several packages share
// a name the one inserted last wins.
func (s *Set) ByName() map[string]models.Package {
	out := make(map[string]models.Package, len(s.pkgs))
	for _, pkg := range s.pkgs {
		out[pkg.Name] = pkg
	}
	return out
}

// Names returns the distinct package names, sorted
func (s *Set) Names() []string {
	seen := make(map[string]struct{}, len(s.pkgs))
	names := make([]string, 0, len(s.pkgs))
	for _, pkg := range s.pkgs {
		if _, ok := seen[pkg.Name]; ok {
			continue
		}
		seen[pkg.Name] = struct{}{}
		names = append(names, pkg.Name)
	}
	sort.Strings(names)
	return names
}

// Sorted returns the packages ordered by name, then full identifier
func (s *Set) Sorted() []models.Package {
	out := s.Packages()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].FullName < out[j].FullName
	})
	return out
}
