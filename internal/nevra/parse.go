// Package nevra parses compose package identifiers of the form
// name-epoch:version-release[.distrotag].arch into structured records.
//
// The identifier grammar is ambiguous: name and version may both contain
// the '.' and '-' delimiters, so components are split off from the right.
// Whether a distro tag is present cannot be derived from the grammar at all.
// The parser settles it with a fixed convention: an identifier containing
// the distro marker (".fc" by default) is taken to carry a distro tag
// between release and arch. A version that happens to contain the marker
// is misread; no error is raised for that case.
package nevra

import (
	"strings"

	"github.com/ralt/composediff/internal/models"
)

// DefaultDistroMarker flags identifiers that carry a Fedora distro tag
const DefaultDistroMarker = ".fc"

// Parser splits identifiers using a configurable distro marker
type Parser struct {
	// DistroMarker is the substring whose presence means the identifier
	// has a distro tag segment before the arch
	DistroMarker string
}

var defaultParser = Parser{DistroMarker: DefaultDistroMarker}

// Parse parses an identifier using DefaultDistroMarker
func Parse(id string) (models.Package, error) {
	return defaultParser.Parse(id)
}

// Parse splits id into name, epoch, version, release, distro tag and arch.
// The returned package's FullName is always id.
func (p Parser) Parse(id string) (models.Package, error) {
	nameEpoch, evra, ok := cutLast(id, ':')
	if !ok {
		return models.Package{}, &ParseError{Input: id, Expected: ':'}
	}

	var versionRelease, distroTag, arch string
	if p.hasDistroTag(id) {
		rest, a, ok := cutLast(evra, '.')
		if !ok {
			return models.Package{}, &ParseError{Input: id, Expected: '.'}
		}
		versionRelease, distroTag, ok = cutLast(rest, '.')
		if !ok {
			return models.Package{}, &ParseError{Input: id, Expected: '.'}
		}
		arch = a
	} else {
		versionRelease, arch, ok = cutLast(evra, '.')
		if !ok {
			return models.Package{}, &ParseError{Input: id, Expected: '.'}
		}
	}

	version, release, ok := cutLast(versionRelease, '-')
	if !ok {
		return models.Package{}, &ParseError{Input: id, Expected: '-'}
	}

	name, epoch, ok := cutLast(nameEpoch, '-')
	if !ok {
		return models.Package{}, &ParseError{Input: id, Expected: '-'}
	}

	pkg := models.Package{
		Name:      name,
		FullName:  id,
		Epoch:     epoch,
		Version:   version,
		Release:   release,
		DistroTag: distroTag,
		Arch:      arch,
	}
	if err := validate(pkg); err != nil {
		return models.Package{}, err
	}
	return pkg, nil
}

func (p Parser) hasDistroTag(id string) bool {
	return p.DistroMarker != "" && strings.Contains(id, p.DistroMarker)
}

// cutLast slices s around the last instance of sep
func cutLast(s string, sep byte) (before, after string, found bool) {
	i := strings.LastIndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

func validate(pkg models.Package) error {
	required := []struct {
		field string
		value string
	}{
		{"name", pkg.Name},
		{"epoch", pkg.Epoch},
		{"version", pkg.Version},
		{"release", pkg.Release},
		{"arch", pkg.Arch},
	}
	for _, r := range required {
		if r.value == "" {
			return &ParseError{Input: pkg.FullName, Reason: "empty " + r.field}
		}
	}

	for _, c := range pkg.Epoch {
		if c < '0' || c > '9' {
			return &ParseError{Input: pkg.FullName, Reason: "epoch " + pkg.Epoch + " is not a non-negative integer"}
		}
	}
	return nil
}
