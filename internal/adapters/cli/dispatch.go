// Package cli is the command line adapter behind todoctl. It parses
// arguments, calls a ports.TodoClient and writes plain text results.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jsamuelsen11/todo-api/internal/app/fanout"
	"github.com/jsamuelsen11/todo-api/internal/domain"
	"github.com/jsamuelsen11/todo-api/internal/domain/todo"
	"github.com/jsamuelsen11/todo-api/internal/platform/logging"
	"github.com/jsamuelsen11/todo-api/internal/ports"
)

// DefaultWorkers bounds the concurrent calls made by multi-id commands.
const DefaultWorkers = 4

type command struct {
	usage    string
	synopsis string
	run      func(d *Dispatcher, ctx context.Context, args []string, out, errOut io.Writer) int
}

// commands is filled in init because the handlers refer back to it for
// their usage lines.
var commands map[string]command

func init() {
	commands = map[string]command{
		"ping": {"todoctl ping", "Check the API is reachable", (*Dispatcher).ping},
		"add":  {"todoctl add [-done] <title...>", "Create a todo", (*Dispatcher).add},
		"list": {"todoctl list", "List every todo", (*Dispatcher).list},
		"get":  {"todoctl get <id>", "Show one todo", (*Dispatcher).get},
		"done": {"todoctl done <id>...", "Mark todos complete", (*Dispatcher).done},
		"rm":   {"todoctl rm <id>...", "Delete todos", (*Dispatcher).rm},
	}
}

// commandOrder fixes the help listing.
var commandOrder = []string{"ping", "add", "list", "get", "done", "rm"}

// Dispatcher routes todoctl sub-commands to a TodoClient.
type Dispatcher struct {
	client  ports.TodoClient
	workers int
}

// NewDispatcher creates a Dispatcher. workers bounds concurrency for the
// multi-id commands; values below 1 mean DefaultWorkers.
func NewDispatcher(client ports.TodoClient, workers int) *Dispatcher {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Dispatcher{client: client, workers: workers}
}

// Run dispatches args (without the program name) and returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		writeHelp(out)
		return ExitOK
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return ExitUserError
	}
	return cmd.run(d, ctx, args[1:], out, errOut)
}

func writeHelp(out io.Writer) {
	fmt.Fprintln(out, "usage: todoctl <command> [args]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "commands:")
	for _, name := range commandOrder {
		cmd := commands[name]
		fmt.Fprintf(out, "  %-32s %s\n", cmd.usage, cmd.synopsis)
	}
}

func (d *Dispatcher) ping(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "ping", "unexpected arguments")
	}
	msg, err := d.client.Ping(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	fmt.Fprintln(out, msg)
	return ExitOK
}

func (d *Dispatcher) add(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	complete := fs.Bool("done", false, "")
	if err := fs.Parse(args); err != nil {
		return usageError(errOut, "add", err.Error())
	}

	title := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(title) == "" {
		return usageError(errOut, "add", "title required")
	}

	created, loc, err := d.client.AddTodo(ctx, todo.New(title, *complete))
	if err != nil {
		return reportError(errOut, err)
	}
	writeTodo(out, created)
	if loc != "" {
		fmt.Fprintf(out, "location: %s\n", loc)
	}
	return ExitOK
}

func (d *Dispatcher) list(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "list", "unexpected arguments")
	}
	todos, err := d.client.ListTodos(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	if len(todos) == 0 {
		fmt.Fprintln(out, "no todos")
		return ExitOK
	}
	for i := range todos {
		writeTodo(out, &todos[i])
	}
	return ExitOK
}

func (d *Dispatcher) get(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "get", "exactly one id required")
	}
	id, err := parseID(args[0])
	if err != nil {
		return usageError(errOut, "get", err.Error())
	}
	t, err := d.client.GetTodo(ctx, id)
	if err != nil {
		return reportError(errOut, fmt.Errorf("todo %d: %w", id, err))
	}
	writeTodo(out, t)
	return ExitOK
}

func (d *Dispatcher) done(ctx context.Context, args []string, out, errOut io.Writer) int {
	return d.each(ctx, "done", args, out, errOut, d.client.MarkComplete)
}

func (d *Dispatcher) rm(ctx context.Context, args []string, out, errOut io.Writer) int {
	return d.each(ctx, "rm", args, out, errOut, d.client.DeleteTodo)
}

// each applies op to every id concurrently and prints one line per id in
// argument order. The exit code is the most severe among the failures.
func (d *Dispatcher) each(ctx context.Context, name string, args []string, out, errOut io.Writer, op func(context.Context, int64) error) int {
	if len(args) == 0 {
		return usageError(errOut, name, "at least one id required")
	}
	ids := make([]int64, len(args))
	for i, a := range args {
		id, err := parseID(a)
		if err != nil {
			return usageError(errOut, name, err.Error())
		}
		ids[i] = id
	}

	results := fanout.Run(ctx, d.workers, ids, func(ctx context.Context, id int64) (struct{}, error) {
		return struct{}{}, op(ctx, id)
	})

	code := ExitOK
	for i, r := range results {
		if r.Err != nil {
			code = max(code, reportError(errOut, fmt.Errorf("todo %d: %w", ids[i], r.Err)))
			continue
		}
		fmt.Fprintf(out, "ok %d\n", ids[i])
	}
	if err := fanout.Errors(results); err != nil {
		logging.FromContext(ctx).DebugContext(ctx, "batch finished with failures",
			slog.String("command", name),
			slog.Int("ids", len(ids)),
			slog.Any("error", err),
		)
	}
	return code
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func writeTodo(out io.Writer, t *todo.Todo) {
	mark := " "
	if t.State() == todo.StateComplete {
		mark = "x"
	}
	fmt.Fprintf(out, "%d\t[%s]\t%s\n", t.ID, mark, t.Title)
}

func usageError(errOut io.Writer, name, msg string) int {
	fmt.Fprintf(errOut, "error: %s\nusage: %s\n", msg, commands[name].usage)
	return ExitUserError
}

// reportError prints err and maps it to an exit code.
func reportError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
		return ExitUserError
	case errors.Is(err, domain.ErrUnauthorized):
		return ExitAuthError
	default:
		return ExitBackendError
	}
}
