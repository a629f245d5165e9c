package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ralt/composediff/internal/models"
	"github.com/ralt/composediff/internal/reconcile"
)

// Source describes one of the compared manifests
type Source struct {
	Path      string `json:"path"`
	SHA256    string `json:"sha256,omitempty"`
	ComposeID string `json:"compose_id,omitempty"`
	Date      string `json:"date,omitempty"`
	Packages  int    `json:"packages"`
}

// Report is the JSON document written by JSON
type Report struct {
	Old     Source        `json:"old"`
	New     Source        `json:"new"`
	Removed []packageJSON `json:"removed"`
	Added   []packageJSON `json:"added"`
	Changed []changeJSON  `json:"changed"`
	Summary SummaryCounts `json:"summary"`
}

// SummaryCounts holds the size of each group
type SummaryCounts struct {
	Removed   int `json:"removed"`
	Added     int `json:"added"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
}

type packageJSON struct {
	Name      string `json:"name"`
	NEVRA     string `json:"nevra"`
	Epoch     string `json:"epoch"`
	Version   string `json:"version"`
	Release   string `json:"release"`
	DistroTag string `json:"distro_tag"`
	Arch      string `json:"arch"`
}

type changeJSON struct {
	Name      string              `json:"name"`
	Direction reconcile.Direction `json:"direction"`
	Old       packageJSON         `json:"old"`
	New       packageJSON         `json:"new"`
}

func toPackageJSON(pkg models.Package) packageJSON {
	return packageJSON{
		Name:      pkg.Name,
		NEVRA:     pkg.FullName,
		Epoch:     pkg.Epoch,
		Version:   pkg.Version,
		Release:   pkg.Release,
		DistroTag: pkg.DistroTag,
		Arch:      pkg.Arch,
	}
}

// NewReport builds the JSON document for result
func NewReport(result *reconcile.Result, old, new Source, summaryOnly bool) *Report {
	r := &Report{
		Old:     old,
		New:     new,
		Removed: []packageJSON{},
		Added:   []packageJSON{},
		Changed: []changeJSON{},
		Summary: SummaryCounts{
			Removed:   result.Removed.Len(),
			Added:     result.Added.Len(),
			Changed:   len(result.Changed),
			Unchanged: result.Unchanged,
		},
	}
	if summaryOnly {
		return r
	}

	for _, pkg := range result.Removed.Sorted() {
		r.Removed = append(r.Removed, toPackageJSON(pkg))
	}
	for _, pkg := range result.Added.Sorted() {
		r.Added = append(r.Added, toPackageJSON(pkg))
	}
	for _, ch := range result.Changed {
		r.Changed = append(r.Changed, changeJSON{
			Name:      ch.Name(),
			Direction: ch.Direction,
			Old:       toPackageJSON(ch.Old),
			New:       toPackageJSON(ch.New),
		})
	}
	return r
}

// JSON writes report to w
func JSON(w io.Writer, report *Report, pretty bool) error {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(report, "", "  ")
	} else {
		b, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
