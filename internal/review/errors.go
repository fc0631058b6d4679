package review

import (
	"errors"
	"fmt"

	"github.com/ariel-frischer/changelog/internal/changelog"
)

// ErrAborted is returned by a Selector or Editor when the user backs out.
var ErrAborted = errors.New("review aborted")

// ErrNoEditor is returned when no editor command can be found.
var ErrNoEditor = errors.New("no editor found (set $VISUAL, $EDITOR or the editor config key)")

// StateError reports an operation attempted in the wrong session state.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: review session is %s", e.Op, e.State)
}

func (e *StateError) Kind() changelog.ErrorKind { return changelog.KindInteraction }

// EditorFormatError reports an editor line that is not "<category> <commit> <text>".
type EditorFormatError struct {
	Line   int
	Text   string
	Reason string
}

func (e *EditorFormatError) Error() string {
	return fmt.Sprintf("editor line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *EditorFormatError) Kind() changelog.ErrorKind { return changelog.KindInteraction }

// CommitError reports the item that stopped a batch; nothing from the batch was applied.
type CommitError struct {
	Index int
	Item  Item
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("adding entry %d (%s %s): %v", e.Index+1, e.Item.Category.Key(), e.Item.Commit.ShortID(), e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
