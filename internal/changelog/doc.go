// Package changelog reads, edits and writes Keep a Changelog markdown files.
//
// This package implements:
//   - Parsing CHANGELOG.md into a Document of sections, categories and entries
//   - Canonical markdown rendering (render(parse(render(d))) == render(d))
//   - Semantic version ordering, bumping and git revision ranges
//   - Releasing Unreleased into a dated section with regenerated compare links
//   - Adding single entries to Unreleased or an existing release
//   - Terminal, YAML and JSON views of sections for CLI display
//
// The Document is the only source of truth; markdown is produced from it and
// never patched in place.
package changelog
