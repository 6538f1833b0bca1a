package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// keySeparator joins a name and a version in registry keys.
const keySeparator = "|"

// categorySeparator splits a category string into categories.
const categorySeparator = ";"

// Descriptor identifies one registered algorithm in one category.
type Descriptor struct {
	Name     string
	Version  int
	Category string
}

// Key returns the registry key of the descriptor.
func (d Descriptor) Key() string { return createKey(d.Name, d.Version) }

func createKey(name string, version int) string {
	return name + keySeparator + strconv.Itoa(version)
}

// DecodeName splits a key produced by Keys into name and version.
func DecodeName(key string) (string, int, error) {
	i := strings.LastIndex(key, keySeparator)
	if i <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	version, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: %v", ErrInvalidKey, key, err)
	}
	return key[:i], version, nil
}

// splitCategories returns the trimmed, non-empty categories in s.
func splitCategories(s string) []string {
	var out []string
	for _, c := range strings.Split(s, categorySeparator) {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
