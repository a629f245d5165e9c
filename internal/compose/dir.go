// Package compose lists Fedora Rawhide compose directories published on
// the koji web listing.
package compose

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultName is the compose family listed by default
	DefaultName = "Fedora-Rawhide"
	// Latest is the date of the latest-* symlinked directory
	Latest = "latest"
	// DefaultDaysAgo is how far back listing goes by default
	DefaultDaysAgo = 3

	dateLayout = "20060102"
)

// Dir is one compose directory, e.g. Fedora-Rawhide-20250208.n.1
type Dir struct {
	Name       string `json:"name"`
	Date       string `json:"date"`
	Generation int    `json:"generation"`
}

// String returns the directory name as it appears in the listing
func (d Dir) String() string {
	if d.Date == Latest {
		return "latest-" + d.Name
	}
	return fmt.Sprintf("%s-%s.n.%d", d.Name, d.Date, d.Generation)
}

// ManifestURL returns the location of the rpms.json manifest of d
// below the listing at base
func (d Dir) ManifestURL(base string) string {
	return strings.TrimSuffix(base, "/") + "/" + d.String() + "/compose/metadata/rpms.json"
}

// ParseDirName parses a listing entry such as "Fedora-Rawhide-20250208.n.1/".
// Any entry mentioning latest maps to the Latest date with generation 0.
func ParseDirName(text string) (Dir, error) {
	text = strings.TrimSuffix(strings.TrimSpace(text), "/")
	if strings.Contains(text, Latest) {
		return Dir{Name: DefaultName, Date: Latest}, nil
	}

	i := strings.LastIndexByte(text, '-')
	if i < 0 {
		return Dir{}, fmt.Errorf("compose directory %q: missing '-' before date", text)
	}
	name, stamp := text[:i], text[i+1:]

	parts := strings.Split(stamp, ".")
	if len(parts) != 3 {
		return Dir{}, fmt.Errorf("compose directory %q: expected DATE.TYPE.GENERATION", text)
	}
	if _, err := time.Parse(dateLayout, parts[0]); err != nil {
		return Dir{}, fmt.Errorf("compose directory %q: invalid date: %w", text, err)
	}
	generation, err := strconv.Atoi(parts[2])
	if err != nil {
		return Dir{}, fmt.Errorf("compose directory %q: invalid generation: %w", text, err)
	}

	return Dir{Name: name, Date: parts[0], Generation: generation}, nil
}

// FilterByDaysAgo keeps the latest entries and the composes dated on or
// after now minus daysAgo days, ordered newest first
func FilterByDaysAgo(dirs []Dir, daysAgo int, now time.Time) []Dir {
	y, m, d := now.AddDate(0, 0, -daysAgo).Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var kept []Dir
	for _, dir := range dirs {
		if dir.Date == Latest {
			kept = append(kept, dir)
			continue
		}
		date, err := time.Parse(dateLayout, dir.Date)
		if err != nil {
			continue
		}
		if !date.Before(cutoff) {
			kept = append(kept, dir)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Date != b.Date {
			// latest sorts after any digit string, so it stays on top
			return a.Date > b.Date
		}
		return a.Generation > b.Generation
	})
	return kept
}
