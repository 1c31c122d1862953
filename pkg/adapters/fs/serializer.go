package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/roomtag/pkg/core"
)

// Serializer defines how to read and write a save file format.
type Serializer interface {
	// Decode reads a container from r.
	Decode(r io.Reader) (core.ContainerState, error)
	// Encode converts a container to bytes.
	Encode(s core.ContainerState) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by extension.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(strict),
		".yaml": NewYAMLSerializer(strict),
		".yml":  NewYAMLSerializer(strict),
	}
}

// ExtensionFor maps a format name to the extension used when writing.
func ExtensionFor(format string) (string, error) {
	switch format {
	case "", "yaml", "yml":
		return ".yaml", nil
	case "json":
		return ".json", nil
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON saves.
type JSONSerializer struct {
	// Strict rejects unknown fields.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Decode(r io.Reader) (core.ContainerState, error) {
	var state core.ContainerState
	decoder := json.NewDecoder(r)
	if s.Strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(&state); err != nil {
		return core.ContainerState{}, fmt.Errorf("invalid json: %w", err)
	}
	return state, nil
}

func (s *JSONSerializer) Encode(state core.ContainerState) ([]byte, error) {
	return json.MarshalIndent(state, "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML saves.
type YAMLSerializer struct {
	// Strict rejects unknown fields.
	Strict bool
}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict}
}

func (s *YAMLSerializer) Decode(r io.Reader) (core.ContainerState, error) {
	var state core.ContainerState
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(s.Strict)
	if err := decoder.Decode(&state); err != nil {
		if err == io.EOF {
			return core.ContainerState{}, fmt.Errorf("invalid yaml: empty document")
		}
		return core.ContainerState{}, fmt.Errorf("invalid yaml: %w", err)
	}
	return state, nil
}

func (s *YAMLSerializer) Encode(state core.ContainerState) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(state); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
