package manifest

import (
	"fmt"

	"github.com/Jeffail/gabs"
	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"
)

// supportedFormats is the range of productmd rpms manifest versions
// the loader understands
const supportedFormats = ">= 1.0, < 2.0"

// ComposeInfo identifies the compose a manifest was generated for
type ComposeInfo struct {
	ID     string `json:"id,omitempty"`
	Date   string `json:"date,omitempty"`
	Type   string `json:"type,omitempty"`
	Respin int    `json:"respin"`
}

func headerVersion(v interface{}) string {
	c, err := gabs.Consume(v)
	if err != nil {
		return ""
	}
	version, _ := c.Path("version").Data().(string)
	return version
}

func composeInfo(v interface{}) ComposeInfo {
	c, err := gabs.Consume(v)
	if err != nil {
		return ComposeInfo{}
	}

	info := ComposeInfo{}
	info.ID, _ = c.Path("id").Data().(string)
	info.Date, _ = c.Path("date").Data().(string)
	info.Type, _ = c.Path("type").Data().(string)
	if respin, ok := c.Path("respin").Data().(float64); ok {
		info.Respin = int(respin)
	}
	return info
}

// checkFormat warns when the manifest declares a format version outside
// supportedFormats. Loading continues either way.
func checkFormat(path, format string) {
	if format == "" {
		logrus.Debugf("%s has no productmd header version", path)
		return
	}
	if err := validateFormat(format); err != nil {
		logrus.Warnf("%s: %v", path, err)
	}
}

func validateFormat(format string) error {
	v, err := semver.NewVersion(format)
	if err != nil {
		return fmt.Errorf("unparseable manifest format version %q: %w", format, err)
	}
	c, err := semver.NewConstraint(supportedFormats)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("manifest format version %s is not in supported range %s", format, supportedFormats)
	}
	return nil
}
