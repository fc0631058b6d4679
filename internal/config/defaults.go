package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# changelog configuration
# See 'changelog config keys' for all options

changelog_path: CHANGELOG.md          # File maintained by every command
repo_url: ""                          # Base URL for links (empty = infer from remote)
remote: origin                        # Remote used to infer repo_url
links: true                           # Generate compare/tag link definitions
editor: ""                            # Review editor (after $VISUAL and $EDITOR)
empty_release: reject                 # reject | allow
show_diff: true                       # Print the changed section after add and review
log_level: warn                       # debug | info | warn | error

review:
  order: newest-first                 # newest-first | newest-last
  preselect: true                     # Pre-select feat and fix commits
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]any {
	defaults := make(map[string]any, len(KnownKeys))
	for path, s := range KnownKeys {
		defaults[path] = s.Default
	}
	return defaults
}
