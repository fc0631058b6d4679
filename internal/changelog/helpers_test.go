package changelog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mustParse parses text and fails the test on error.
func mustParse(t *testing.T, text string) *Document {
	t.Helper()
	res, err := Parse(text)
	require.NoError(t, err)
	return res.Document
}

const loneRelease = `# Changelog
All notable changes to this project will be documented in this file.

## Unreleased

## 1.0.0 - 2025-01-01

### Added

- First release
- Cool new feature
`

const linkedRelease = `# Changelog

## [Unreleased]

## [1.0.0] - 2025-01-01

### Added

- Initial release

[Unreleased]: https://github.com/owner/repo/compare/v1.0.0...HEAD
[1.0.0]: https://github.com/owner/repo/releases/tag/v1.0.0
`

const threeReleases = `# Changelog

## [Unreleased]

### Added
- pending work

## [1.0.0] - 2025-03-01

### Changed
- stable API

## [0.1.1] - 2025-02-01

### Fixed
- crash on start

## [0.1.0] - 2025-01-01

### Added
- first cut

[Unreleased]: https://example.com/r/compare/v1.0.0...HEAD
[1.0.0]: https://example.com/r/compare/v0.1.1...v1.0.0
[0.1.1]: https://example.com/r/compare/v0.1.0...v0.1.1
[0.1.0]: https://example.com/r/releases/tag/v0.1.0
`
