package todo_test

import (
	"testing"

	"github.com/jsamuelsen11/todo-api/internal/domain/todo"
)

func TestNew_LeavesIDUnassigned(t *testing.T) {
	t.Parallel()

	got := todo.New("buy milk", false)

	if got.ID != 0 {
		t.Errorf("ID = %d, want 0", got.ID)
	}
	if got.Title != "buy milk" {
		t.Errorf("Title = %q, want %q", got.Title, "buy milk")
	}
	if got.State() != todo.StateIncomplete {
		t.Errorf("State() = %q, want %q", got.State(), todo.StateIncomplete)
	}
}

func TestMarkComplete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		complete    bool
		wantChanged bool
	}{
		{
			name:        "incomplete todo transitions",
			complete:    false,
			wantChanged: true,
		},
		{
			name:        "complete todo is absorbing",
			complete:    true,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			td := todo.New("task", tt.complete)
			if got := td.MarkComplete(); got != tt.wantChanged {
				t.Errorf("MarkComplete() = %v, want %v", got, tt.wantChanged)
			}
			if !td.IsComplete {
				t.Error("IsComplete = false after MarkComplete, want true")
			}
			if td.State() != todo.StateComplete {
				t.Errorf("State() = %q, want %q", td.State(), todo.StateComplete)
			}
		})
	}
}

func TestMarkComplete_Twice(t *testing.T) {
	t.Parallel()

	td := todo.New("task", false)
	td.MarkComplete()
	td.MarkComplete()

	if !td.IsComplete {
		t.Error("IsComplete = false after two MarkComplete calls, want true")
	}
}
