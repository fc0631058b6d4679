// Package review turns git commits into changelog entries.
//
// A Session walks a fixed set of commits through three steps: the user picks
// commits in a Selector, assigns each picked commit a category and entry text in
// one Editor pass over a plain-text template, and the result is committed to a
// changelog.Document as a single batch. Either every entry lands or none do.
package review
