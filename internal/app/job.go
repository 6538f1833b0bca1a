package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Job file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

var (
	// ErrUnsupportedFormat is returned for job files that are neither TOML
	// nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported job file format")

	// ErrNoAlgorithm is returned for jobs that do not name an algorithm.
	ErrNoAlgorithm = errors.New("job does not name an algorithm")
)

// Job describes one algorithm run.
type Job struct {
	Algorithm string `toml:"algorithm" yaml:"algorithm"`

	// Version selects the algorithm version; -1 selects the highest.
	Version int `toml:"version" yaml:"version"`

	// Properties are applied in name order. Values may be strings,
	// numbers, booleans or lists of those.
	Properties map[string]any `toml:"properties" yaml:"properties"`
}

// Validate checks the job for errors.
func (j Job) Validate() error {
	if strings.TrimSpace(j.Algorithm) == "" {
		return ErrNoAlgorithm
	}
	if j.Version < -1 {
		return fmt.Errorf("invalid version %d", j.Version)
	}
	return nil
}

// PropertyValues returns the properties as strings, sorted by name.
func (j Job) PropertyValues() ([][2]string, error) {
	names := make([]string, 0, len(j.Properties))
	for name := range j.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([][2]string, 0, len(names))
	for _, name := range names {
		v, err := stringify(j.Properties[name])
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		out = append(out, [2]string{name, v})
	}
	return out, nil
}

// FormatOf returns the job format implied by the file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadJob reads and validates a job file.
func LoadJob(path string) (Job, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Job{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Job{}, err
	}
	return ParseJob(b, format)
}

// ParseJob decodes and validates a job.
func ParseJob(data []byte, format string) (Job, error) {
	job := Job{Version: -1}
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &job)
	case FormatYAML:
		err = yaml.Unmarshal(data, &job)
	default:
		return Job{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Job{}, fmt.Errorf("decode %s job: %w", format, err)
	}
	if err := job.Validate(); err != nil {
		return Job{}, err
	}
	return job, nil
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			s, err := stringify(item)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ","), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
