package config

import (
	"sort"
	"strings"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "review.order")
	Type          ConfigValueType // Expected value type
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       any
}

// EnvVar returns the environment variable that overrides the key,
// e.g. "review.order" -> "CHANGELOG_REVIEW_ORDER".
func (s ConfigKeySchema) EnvVar() string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(s.Path, ".", "_"))
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"changelog_path": {
		Path:        "changelog_path",
		Type:        TypeString,
		Description: "Changelog file maintained by every command",
		Default:     "CHANGELOG.md",
	},
	"repo_url": {
		Path:        "repo_url",
		Type:        TypeString,
		Description: "Repository base URL for link definitions (empty = infer from remote)",
		Default:     "",
	},
	"remote": {
		Path:        "remote",
		Type:        TypeString,
		Description: "Git remote used to infer the repository URL",
		Default:     "origin",
	},
	"links": {
		Path:        "links",
		Type:        TypeBool,
		Description: "Generate compare/tag link definitions",
		Default:     true,
	},
	"editor": {
		Path:        "editor",
		Type:        TypeString,
		Description: "Editor command for review (after $VISUAL and $EDITOR)",
		Default:     "",
	},
	"empty_release": {
		Path:          "empty_release",
		Type:          TypeEnum,
		AllowedValues: []string{"reject", "allow"},
		Description:   "What release does when Unreleased has no entries",
		Default:       "reject",
	},
	"review.order": {
		Path:          "review.order",
		Type:          TypeEnum,
		AllowedValues: []string{"newest-first", "newest-last"},
		Description:   "Order commits are listed in during review",
		Default:       "newest-first",
	},
	"review.preselect": {
		Path:        "review.preselect",
		Type:        TypeBool,
		Description: "Pre-select feat and fix commits during review",
		Default:     true,
	},
	"show_diff": {
		Path:        "show_diff",
		Type:        TypeBool,
		Description: "Print the changed section after add and review",
		Default:     true,
	},
	"log_level": {
		Path:          "log_level",
		Type:          TypeEnum,
		AllowedValues: []string{"debug", "info", "warn", "error"},
		Description:   "Minimum level of log messages written to stderr",
		Default:       "warn",
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns every known key path in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// envKeys maps CHANGELOG_* variable names to key paths.
var envKeys = func() map[string]string {
	m := make(map[string]string, len(KnownKeys))
	for path, s := range KnownKeys {
		m[s.EnvVar()] = path
	}
	return m
}()
