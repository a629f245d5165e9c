package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Key paths of the metadata decoded alongside the package keys
const (
	headerKey  = "header"
	composeKey = "payload.compose"
)

var metadataPaths = [][]string{
	{"header"},
	{"payload", "compose"},
}

// walker drives a json.Decoder over a manifest. It descends only into
// objects on the way to the prefix or to a metadata path and skips
// everything else token by token.
type walker struct {
	dec    *json.Decoder
	prefix []string

	onKey      func(id string) error
	onMetadata func(key string, value interface{})

	prefixFound bool
}

func newWalker(r io.Reader, prefix []string) *walker {
	return &walker{
		dec:    json.NewDecoder(r),
		prefix: prefix,
	}
}

func (w *walker) run() error {
	return w.value(nil)
}

// value consumes the next JSON value, which sits at path
func (w *walker) value(path []string) error {
	if equalPath(path, w.prefix) {
		return w.packages()
	}
	for _, mp := range metadataPaths {
		if equalPath(path, mp) {
			var v interface{}
			if err := w.dec.Decode(&v); err != nil {
				return err
			}
			if w.onMetadata != nil {
				w.onMetadata(joinPath(path), v)
			}
			return nil
		}
	}
	if !w.wanted(path) {
		return w.skip()
	}

	tok, err := w.dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return skipRest(w.dec, tok)
	}

	for w.dec.More() {
		key, err := w.key()
		if err != nil {
			return err
		}
		if err := w.value(append(path[:len(path):len(path)], key)); err != nil {
			return err
		}
	}
	_, err = w.dec.Token() // closing '}'
	return err
}

// packages consumes the package object, reporting each key
func (w *walker) packages() error {
	tok, err := w.dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("value at %s is %v, not an object", joinPath(w.prefix), describe(tok))
	}
	w.prefixFound = true

	for w.dec.More() {
		key, err := w.key()
		if err != nil {
			return err
		}
		if w.onKey != nil {
			if err := w.onKey(key); err != nil {
				return err
			}
		}
		if err := w.skip(); err != nil {
			return err
		}
	}
	_, err = w.dec.Token()
	return err
}

func (w *walker) key() (string, error) {
	tok, err := w.dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

// wanted reports whether path leads towards the prefix or a metadata path
func (w *walker) wanted(path []string) bool {
	if hasPathPrefix(w.prefix, path) {
		return true
	}
	for _, mp := range metadataPaths {
		if hasPathPrefix(mp, path) {
			return true
		}
	}
	return false
}

// skip consumes the next value without keeping it
func (w *walker) skip() error {
	tok, err := w.dec.Token()
	if err != nil {
		return err
	}
	return skipRest(w.dec, tok)
}

// skipRest consumes the remainder of a value whose first token was tok
func skipRest(dec *json.Decoder, tok json.Token) error {
	delim, ok := tok.(json.Delim)
	if !ok || delim == '}' || delim == ']' {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
	}
	return nil
}

func describe(tok json.Token) string {
	switch tok.(type) {
	case json.Delim:
		return "an array"
	case string:
		return "a string"
	case float64, json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return "null"
	}
}

func equalPath(a, b []string) bool {
	return len(a) == len(b) && hasPathPrefix(a, b)
}

// hasPathPrefix reports whether p starts with prefix
func hasPathPrefix(p, prefix []string) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
