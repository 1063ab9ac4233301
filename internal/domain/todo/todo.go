// Package todo defines the Todo entity and its completion lifecycle.
package todo

// State is the completion state of a Todo.
type State string

// A Todo starts Incomplete and moves to Complete exactly once. Complete is
// absorbing: there is no transition back.
const (
	StateIncomplete State = "incomplete"
	StateComplete   State = "complete"
)

func (s State) String() string {
	return string(s)
}

// Todo represents a task item with a completion flag. ID is assigned by the
// store on insert and never changes afterwards.
type Todo struct {
	ID         int64
	Title      string
	IsComplete bool
}

// New returns an unsaved Todo. The ID is left zero for the store to assign.
func New(title string, complete bool) Todo {
	return Todo{Title: title, IsComplete: complete}
}

// State reports the current completion state.
func (t *Todo) State() State {
	if t.IsComplete {
		return StateComplete
	}
	return StateIncomplete
}

// MarkComplete moves the todo to the Complete state. It reports whether the
// state changed; calling it on a complete todo is a no-op.
func (t *Todo) MarkComplete() bool {
	if t.IsComplete {
		return false
	}
	t.IsComplete = true
	return true
}
