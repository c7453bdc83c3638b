// Package file stores preferences in a local YAML, TOML or JSON file.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/photo-grid/internal/database"
)

// BackendName is the registry name of the file store.
const BackendName = "file"

// Format is a preference file encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatForPath picks the encoding from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported preference file extension %q (use .yaml, .toml or .json)", filepath.Ext(path))
	}
}

// Store is a file-backed preference store. Writes replace the file atomically.
type Store struct {
	path   string
	format Format
	mu     sync.Mutex
}

// NewStore creates a store for path. The file does not need to exist yet.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("preference file path is required")
	}
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, format: format}, nil
}

// Initialize creates the store for path and registers it as the file backend.
func Initialize(path string) (*Store, error) {
	s, err := NewStore(path)
	if err != nil {
		return nil, err
	}
	database.RegisterPreferenceStore(BackendName, func() database.PreferenceStore { return s })
	return s, nil
}

// Name implements database.PreferenceStore.
func (s *Store) Name() string {
	return BackendName
}

// Load reads the preference file. A missing file is an empty store.
func (s *Store) Load(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Save merges values into the stored preferences.
func (s *Store) Save(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	return s.write(current)
}

// Reset removes the preference file.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove preference file: %w", err)
	}
	return nil
}

func (s *Store) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preference file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]string{}, nil
	}

	raw := map[string]any{}
	switch s.format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&raw)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s preference file %s: %w", s.format, s.path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		values[k] = stringify(v)
	}
	return values, nil
}

func (s *Store) write(values map[string]string) error {
	data, err := encode(s.format, typed(values))
	if err != nil {
		return fmt.Errorf("encode %s preference file: %w", s.format, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preference directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".preferences-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace preference file: %w", err)
	}
	return nil
}

func encode(format Format, values map[string]any) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(values)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(values); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// typed turns stored text back into numbers and booleans so the file reads
// naturally when edited by hand.
func typed(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if v == "true" || v == "false" {
			out[k] = v == "true"
		} else if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			out[k] = n
		} else if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			out[k] = f
		} else {
			out[k] = v
		}
	}
	return out
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
