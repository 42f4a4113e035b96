// Package versioning reads the version manifest and computes the next semver.
package versioning

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/thirukguru/release-cutter/model"
)

// NewService creates a new versioning service.
func NewService() Service {
	return &service{}
}

// Load reads the manifest at path. When the file is missing it is created from
// the template (or, with create=false, only returned as if it had been).
func (s *service) Load(path, name string, create bool) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		m := Manifest{Path: path, Name: name, Version: InitialVersion, Created: true}
		if !create {
			return m, nil
		}
		if err := writeTemplate(path, name); err != nil {
			return Manifest{}, err
		}
		return m, nil
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var doc struct {
		Name    string `json:"name"`
		Version any    `json:"version"`
	}
	if err := gojson.Unmarshal(raw, &doc); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	version, ok := doc.Version.(string)
	if !ok {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrNoVersion)
	}
	if _, err := Parse(version); err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name != "" {
		name = doc.Name
	}
	return Manifest{Path: path, Name: name, Version: version}, nil
}

func (s *service) Next(current string, releaseType model.ReleaseType, preid string) (string, error) {
	v, err := Parse(current)
	if err != nil {
		return "", err
	}
	next, err := Increment(v, releaseType, preid)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}

// Write replaces the top-level version value and leaves every other byte alone.
func (s *service) Write(path, version string) error {
	if _, err := Parse(version); err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	start, end, err := findVersionValue(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var buf bytes.Buffer
	buf.Write(raw[:start])
	buf.WriteString(strconv.Quote(version))
	buf.Write(raw[end:])
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func writeTemplate(path, name string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}
	b, err := gojson.MarshalIndent(manifestTemplate{
		Name:        name,
		Version:     InitialVersion,
		Description: name + " release bundle",
		Private:     true,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to create manifest %s: %w", path, err)
	}
	return nil
}

// findVersionValue returns the byte span of the top-level "version" string value.
// It needs Decoder.InputOffset, so it stays on encoding/json.
func findVersionValue(raw []byte) (int, int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return 0, 0, fmt.Errorf("invalid manifest: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return 0, 0, errors.New("manifest must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return 0, 0, fmt.Errorf("invalid manifest: %w", err)
		}
		key, _ := keyTok.(string)
		keyEnd := dec.InputOffset()

		valTok, err := dec.Token()
		if err != nil {
			return 0, 0, fmt.Errorf("invalid manifest: %w", err)
		}
		if key == "version" {
			if _, ok := valTok.(string); !ok {
				return 0, 0, ErrNoVersion
			}
			end := int(dec.InputOffset())
			start := bytes.IndexByte(raw[keyEnd:end], '"')
			if start < 0 {
				return 0, 0, ErrNoVersion
			}
			return int(keyEnd) + start, end, nil
		}
		if d, ok := valTok.(json.Delim); ok && (d == '{' || d == '[') {
			if err := skipComposite(dec); err != nil {
				return 0, 0, err
			}
		}
	}
	return 0, 0, ErrNoVersion
}

func skipComposite(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err == io.EOF {
			return errors.New("invalid manifest: unexpected end of input")
		}
		if err != nil {
			return fmt.Errorf("invalid manifest: %w", err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
