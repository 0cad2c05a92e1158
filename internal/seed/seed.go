// Package seed resolves the forest an editing session starts from.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smileynet/treelist/internal/tree"
)

// DefaultName is the preset used when no seed is specified.
const DefaultName = "default"

var (
	// ErrTooDeep is returned when a seed nests items past the depth limit.
	ErrTooDeep = errors.New("seed: item nested too deep")

	// ErrUnknownSeed is returned when a specifier is neither a preset nor a readable file.
	ErrUnknownSeed = errors.New("seed: unknown seed")
)

// seedFile is the top-level YAML structure for a seed file.
type seedFile struct {
	Items []tree.Item `yaml:"items"`
}

// Load resolves a seed specifier to a forest.
// The specifier can be a preset name found in presets as "<name>.yaml"
// (e.g. "default", "empty") or a path to a YAML or JSON file.
// An empty specifier means DefaultName.
func Load(presets fs.FS, specifier string, maxDepth int) ([]tree.Item, error) {
	if specifier == "" {
		specifier = DefaultName
	}

	if isPresetName(specifier) && presets != nil {
		data, err := fs.ReadFile(presets, specifier+".yaml")
		if err == nil {
			items, err := Parse(data, maxDepth)
			if err != nil {
				return nil, fmt.Errorf("seed %q: %w", specifier, err)
			}
			return items, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("seed: reading preset %q: %w", specifier, err)
		}
	}

	return LoadFile(specifier, maxDepth)
}

// LoadFile loads a forest from a YAML or JSON file.
func LoadFile(path string, maxDepth int) ([]tree.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q is not a preset or file", ErrUnknownSeed, path)
		}
		return nil, fmt.Errorf("seed: reading %s: %w", path, err)
	}
	items, err := Parse(data, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return items, nil
}

// Parse decodes a forest from YAML or JSON bytes. The document is either
// a mapping with an "items" list or a bare list of items. Unknown fields
// are rejected. A negative maxDepth disables the depth check.
func Parse(data []byte, maxDepth int) ([]tree.Item, error) {
	items, err := decode(data)
	if err != nil {
		return nil, err
	}
	if maxDepth >= 0 {
		if err := Validate(items, maxDepth); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func decode(data []byte) ([]tree.Item, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	// Empty and comment-only documents are an empty forest.
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	if root.Content[0].Kind == yaml.SequenceNode {
		var items []tree.Item
		if err := strictDecode(data, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var file seedFile
	if err := strictDecode(data, &file); err != nil {
		return nil, err
	}
	return file.Items, nil
}

func strictDecode(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parsing: %w", err)
	}
	return nil
}

// Validate checks that no item sits deeper than maxDepth. Roots are at depth 0.
func Validate(items []tree.Item, maxDepth int) error {
	return validate(items, 0, maxDepth, nil)
}

func validate(items []tree.Item, depth, maxDepth int, path []string) error {
	for _, it := range items {
		p := append(path[:len(path):len(path)], it.Name)
		if depth > maxDepth {
			return fmt.Errorf("%w: %q is at depth %d, limit is %d", ErrTooDeep, strings.Join(p, "/"), depth, maxDepth)
		}
		if err := validate(it.Children, depth+1, maxDepth, p); err != nil {
			return err
		}
	}
	return nil
}

// Marshal encodes a forest in the seed file format, so the output of one
// session can seed the next.
func Marshal(items []tree.Item) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(seedFile{Items: items}); err != nil {
		return nil, fmt.Errorf("seed: encoding: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("seed: encoding: %w", err)
	}
	return buf.Bytes(), nil
}

// isPresetName reports whether s looks like a bare preset name rather than a path.
func isPresetName(s string) bool {
	return !strings.ContainsAny(s, `/\.`)
}
