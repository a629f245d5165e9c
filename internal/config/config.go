// Package config loads optional YAML files whose values become the
// defaults of command line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// File mirrors the flags that may be preset from a config file
type File struct {
	Prefix          string   `yaml:"prefix"`
	DistroMarker    string   `yaml:"distro_marker"`
	Include         []string `yaml:"include"`
	Exclude         []string `yaml:"exclude"`
	SkipInvalid     *bool    `yaml:"skip_invalid"`
	Format          string   `yaml:"format"`
	NoColor         *bool    `yaml:"no_color"`
	Progress        *bool    `yaml:"progress"`
	Keyring         string   `yaml:"keyring"`
	SignatureSuffix string   `yaml:"signature_suffix"`
	ListingURL      string   `yaml:"listing_url"`
	DaysAgo         int      `yaml:"days_ago"`
}

// Load reads and strictly decodes the YAML file at path
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if f.DaysAgo < 0 {
		return nil, fmt.Errorf("config %s: days_ago must not be negative", path)
	}
	return &f, nil
}

// values maps flag names to their configured values; unset entries are omitted
func (f *File) values() map[string]string {
	v := make(map[string]string)
	set := func(name, value string) {
		if value != "" {
			v[name] = value
		}
	}
	setBool := func(name string, b *bool) {
		if b != nil {
			v[name] = strconv.FormatBool(*b)
		}
	}

	set("prefix", f.Prefix)
	set("distro-marker", f.DistroMarker)
	set("include", strings.Join(f.Include, ","))
	set("exclude", strings.Join(f.Exclude, ","))
	setBool("skip-invalid", f.SkipInvalid)
	set("format", f.Format)
	setBool("no-color", f.NoColor)
	setBool("progress", f.Progress)
	set("keyring", f.Keyring)
	set("signature-suffix", f.SignatureSuffix)
	set("url", f.ListingURL)
	if f.DaysAgo > 0 {
		v["days"] = strconv.Itoa(f.DaysAgo)
	}
	return v
}

// Apply sets every configured flag of fs that was not given explicitly.
// Values for flags fs does not define are ignored.
func (f *File) Apply(fs *pflag.FlagSet) error {
	for name, value := range f.values() {
		flag := fs.Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("config value for %s: %w", name, err)
		}
		logrus.Debugf("Flag --%s set from config: %s", name, value)
	}
	return nil
}
