package manifest

import (
	"fmt"
	"strings"

	"github.com/ryanuber/go-glob"
)

// nameFilter selects packages by name. An empty include list keeps
// everything that is not excluded.
type nameFilter struct {
	include []string
	exclude []string
}

func newNameFilter(include, exclude []string) (*nameFilter, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("empty name pattern")
		}
	}
	return &nameFilter{include: include, exclude: exclude}, nil
}

func (f *nameFilter) keep(name string) bool {
	for _, p := range f.exclude {
		if glob.Glob(p, name) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if glob.Glob(p, name) {
			return true
		}
	}
	return false
}
