package models

import "strings"

// Package is one parsed package identifier from a compose manifest.
//
// FullName is the identity of the record: two packages are the same record
// only when their FullName matches byte for byte.
type Package struct {
	Name      string
	FullName  string
	Epoch     string
	Version   string
	Release   string
	DistroTag string // empty when the identifier carries no distro tag
	Arch      string
}

// String returns the original identifier
func (p Package) String() string {
	return p.FullName
}

// EVR returns epoch:version-release, with the distro tag appended when present
func (p Package) EVR() string {
	var b strings.Builder
	b.WriteString(p.Epoch)
	b.WriteByte(':')
	b.WriteString(p.Version)
	b.WriteByte('-')
	b.WriteString(p.Release)
	if p.DistroTag != "" {
		b.WriteByte('.')
		b.WriteString(p.DistroTag)
	}
	return b.String()
}

// Field returns the value of a named field. Names are the lower case
// manifest terms: name, full_name, epoch, version, release, distro_tag, arch.
func (p Package) Field(name string) (string, bool) {
	switch name {
	case "name":
		return p.Name, true
	case "full_name":
		return p.FullName, true
	case "epoch":
		return p.Epoch, true
	case "version":
		return p.Version, true
	case "release":
		return p.Release, true
	case "distro_tag":
		return p.DistroTag, true
	case "arch":
		return p.Arch, true
	default:
		return "", false
	}
}

// SameEVR reports whether both packages carry the same epoch, version,
// release and distro tag
func (p Package) SameEVR(other Package) bool {
	return p.Epoch == other.Epoch &&
		p.Version == other.Version &&
		p.Release == other.Release &&
		p.DistroTag == other.DistroTag
}
