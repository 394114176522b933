// Package ledger implements the inventory ledger: item-name normalization,
// the JSON-file backing store, and mutation operations that keep the remote
// mirror in sync.
package ledger

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Aliases maps shorthand item tokens to their canonical names.
// Example: "sch" -> "schneider".
type Aliases map[string]string

// DefaultAliases returns the built-in alias table.
func DefaultAliases() Aliases {
	return Aliases{
		"sch": "schneider",
		"sh":  "schneider",
	}
}

// nonWord matches every character that is not a letter, digit or underscore.
var nonWord = regexp.MustCompile(`[^\w]`)

// Normalize maps raw user text to a canonical item key: trim, lower-case,
// strip non-word characters, then substitute a known alias. It never fails;
// degenerate input yields an empty string.
func (a Aliases) Normalize(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = nonWord.ReplaceAllString(key, "")
	if canonical, ok := a[key]; ok {
		return canonical
	}
	return key
}

// LoadAliases reads a YAML alias file (flat shorthand -> canonical mapping)
// and overlays it on the defaults, so a file can add new aliases or override
// the built-in ones. Keys and values are normalized the same way item names
// are, keeping the table consistent with lookup keys.
func LoadAliases(path string) (Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading alias file: %w", err)
	}
	return ParseAliases(data)
}

// ParseAliases decodes a YAML alias document and merges it over the defaults.
func ParseAliases(data []byte) (Aliases, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing alias file: %w", err)
	}

	aliases := DefaultAliases()
	for short, canonical := range raw {
		short = nonWord.ReplaceAllString(strings.ToLower(strings.TrimSpace(short)), "")
		canonical = nonWord.ReplaceAllString(strings.ToLower(strings.TrimSpace(canonical)), "")
		if short == "" || canonical == "" {
			return nil, fmt.Errorf("alias %q -> %q: both sides must be non-empty after normalization", short, canonical)
		}
		aliases[short] = canonical
	}
	return aliases, nil
}
