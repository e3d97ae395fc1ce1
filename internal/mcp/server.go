// Package mcp exposes the task store as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/five82/taskboard/internal/state"
	"github.com/five82/taskboard/internal/task"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "taskboard"

// taskView is the JSON shape returned for a task.
type taskView struct {
	ID        string `json:"id"`
	Position  int    `json:"position"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type countsView struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// tools holds the store behind every handler. MCP clients may issue calls
// concurrently while the store is single-threaded, so handlers hold mu.
type tools struct {
	mu     sync.Mutex
	store  *state.Store
	logger *log.Logger
}

// NewServer registers the task tools on a new MCP server.
func NewServer(store *state.Store, version string, logger *log.Logger) *server.MCPServer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	t := &tools{store: store, logger: logger}
	s := server.NewMCPServer(ServerName, version)

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks in order with their 1-based positions, plus active/completed counts."),
		mcp.WithString("filter", mcp.Description("all (default), active or completed")),
	), t.listTasks)

	s.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Append a new incomplete task."),
		mcp.WithString("text", mcp.Description("Task text; surrounding whitespace is trimmed"), mcp.Required()),
	), t.addTask)

	s.AddTool(mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip a task between active and completed."),
		mcp.WithString("ref", mcp.Description("Task id or 1-based position"), mcp.Required()),
	), t.toggleTask)

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task."),
		mcp.WithString("ref", mcp.Description("Task id or 1-based position"), mcp.Required()),
	), t.deleteTask)

	s.AddTool(mcp.NewTool("edit_task",
		mcp.WithDescription("Replace a task's text."),
		mcp.WithString("ref", mcp.Description("Task id or 1-based position"), mcp.Required()),
		mcp.WithString("text", mcp.Description("New text; must not be blank"), mcp.Required()),
	), t.editTask)

	s.AddTool(mcp.NewTool("task_counts",
		mcp.WithDescription("Count active and completed tasks."),
	), t.taskCounts)

	return s
}

// Serve runs the server on stdin/stdout until ctx is cancelled or stdin closes.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s).Listen(ctx, in, out)
}

func (t *tools) listTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := task.ParseFilter(mcp.ParseString(request, "filter", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.mu.Lock()
	all := t.store.Tasks()
	counts := t.store.Counts()
	t.mu.Unlock()

	views := make([]taskView, 0, len(all))
	for i, tk := range all {
		if filter.Matches(tk) {
			views = append(views, newTaskView(tk, i+1))
		}
	}
	return jsonResult(map[string]any{
		"filter": filter.String(),
		"tasks":  views,
		"counts": newCountsView(counts),
	})
}

func (t *tools) addTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := strings.TrimSpace(mcp.ParseString(request, "text", ""))
	if text == "" {
		return mcp.NewToolResultError("text is empty"), nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Add(text); err != nil {
		t.logger.Error("add_task failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	all := t.store.Tasks()
	return jsonResult(newTaskView(all[len(all)-1], len(all)))
}

func (t *tools) toggleTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tk, res := t.resolve(request)
	if res != nil {
		return res, nil
	}
	if err := t.store.Toggle(tk.ID); err != nil {
		t.logger.Error("toggle_task failed", "id", tk.ID, "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	updated, _ := t.store.Find(tk.ID)
	return jsonResult(newTaskView(updated, t.position(tk.ID)))
}

func (t *tools) deleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tk, res := t.resolve(request)
	if res != nil {
		return res, nil
	}
	if err := t.store.Delete(tk.ID); err != nil {
		t.logger.Error("delete_task failed", "id", tk.ID, "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted task %s (%q)", tk.ID, tk.Text)), nil
}

func (t *tools) editTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := strings.TrimSpace(mcp.ParseString(request, "text", ""))
	if text == "" {
		return mcp.NewToolResultError("text is empty"), nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tk, res := t.resolve(request)
	if res != nil {
		return res, nil
	}
	t.store.BeginEdit(tk.ID, tk.Text)
	t.store.SetEditText(text)
	if err := t.store.CommitEdit(tk.ID); err != nil {
		t.logger.Error("edit_task failed", "id", tk.ID, "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	updated, _ := t.store.Find(tk.ID)
	return jsonResult(newTaskView(updated, t.position(tk.ID)))
}

func (t *tools) taskCounts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	counts := t.store.Counts()
	t.mu.Unlock()
	return jsonResult(newCountsView(counts))
}

// resolve looks up the "ref" argument. Callers hold mu.
func (t *tools) resolve(request mcp.CallToolRequest) (task.Task, *mcp.CallToolResult) {
	ref := strings.TrimSpace(mcp.ParseString(request, "ref", ""))
	if ref == "" {
		return task.Task{}, mcp.NewToolResultError("ref is empty")
	}
	tk, ok := t.store.Find(ref)
	if !ok {
		return task.Task{}, mcp.NewToolResultError(fmt.Sprintf("Task %q not found", ref))
	}
	return tk, nil
}

// position returns the 1-based position of id. Callers hold mu.
func (t *tools) position(id string) int {
	for i, tk := range t.store.Tasks() {
		if tk.ID == id {
			return i + 1
		}
	}
	return 0
}

func newTaskView(tk task.Task, position int) taskView {
	v := taskView{ID: tk.ID, Position: position, Text: tk.Text, Completed: tk.Completed}
	if !tk.CreatedAt.IsZero() {
		v.CreatedAt = tk.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return v
}

func newCountsView(c task.Counts) countsView {
	return countsView{Active: c.Active, Completed: c.Completed, Total: c.Total()}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
