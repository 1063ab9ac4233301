package todoapi

import "github.com/jsamuelsen11/todo-api/internal/domain/todo"

// todoBody is the JSON shape of a todo on the wire.
type todoBody struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	IsComplete bool   `json:"isComplete"`
}

// addTodoBody is the create payload. The server assigns the ID, so none is
// sent.
type addTodoBody struct {
	Title      string `json:"title"`
	IsComplete bool   `json:"isComplete"`
}

func toAddTodoBody(t todo.Todo) addTodoBody {
	return addTodoBody{Title: t.Title, IsComplete: t.IsComplete}
}

func (b todoBody) toDomain() todo.Todo {
	return todo.Todo{ID: b.ID, Title: b.Title, IsComplete: b.IsComplete}
}

func toDomainList(bodies []todoBody) []todo.Todo {
	out := make([]todo.Todo, len(bodies))
	for i, b := range bodies {
		out[i] = b.toDomain()
	}
	return out
}
