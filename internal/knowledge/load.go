package knowledge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of an intents file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.  Anything that is
// not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// document is the envelope used by intents files: {"intents": [...]}.
type document struct {
	Intents *[]Intent `json:"intents" yaml:"intents"`
}

// Load reads an intents file from disk.  Both the {"intents": [...]} envelope
// and a bare list of intents are accepted.
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "read", Err: err}
	}
	intents, err := decode(data, FormatFromPath(path))
	if err != nil {
		return nil, &LoadError{Path: path, Op: "parse", Err: err}
	}
	return build(intents, path)
}

// Parse decodes intents from memory using the given format.
func Parse(data []byte, format Format) (*KnowledgeBase, error) {
	intents, err := decode(data, format)
	if err != nil {
		return nil, &LoadError{Op: "parse", Err: err}
	}
	return build(intents, "")
}

func decode(data []byte, format Format) ([]Intent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty document")
	}
	switch format {
	case FormatJSON:
		return decodeJSON(trimmed)
	case FormatYAML:
		return decodeYAML(trimmed)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func decodeJSON(data []byte) ([]Intent, error) {
	if data[0] == '[' {
		var intents []Intent
		if err := json.Unmarshal(data, &intents); err != nil {
			return nil, err
		}
		return intents, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Intents == nil {
		return nil, errors.New(`missing "intents" list`)
	}
	return *doc.Intents, nil
}

func decodeYAML(data []byte) ([]Intent, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, errors.New("empty document")
	}
	node := root.Content[0]
	if node.Kind == yaml.SequenceNode {
		var intents []Intent
		if err := node.Decode(&intents); err != nil {
			return nil, err
		}
		return intents, nil
	}
	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, err
	}
	if doc.Intents == nil {
		return nil, errors.New(`missing "intents" list`)
	}
	return *doc.Intents, nil
}

// Save writes the knowledge base to path using the {"intents": [...]}
// envelope.  The format follows the file extension.
func (kb *KnowledgeBase) Save(path string) error {
	intents := kb.Intents()
	if intents == nil {
		intents = []Intent{}
	}
	doc := document{Intents: &intents}

	var (
		data []byte
		err  error
	)
	switch FormatFromPath(path) {
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode intents: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create intents dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write intents file: %w", err)
	}
	return nil
}
