// Package dailynote keeps the focus task list inside per-day Markdown notes.
//
// Each day is a file named 2006-01-02.md. Tasks live under a configurable
// second-level heading as checklist lines tagged with a block id:
//
//	## Focus tasks
//	- [ ] write the report ^1f0c2a9b
//	- [x] answer mail ^77d1e0aa
//
// Everything else in the note is left untouched.
package dailynote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"focusloop/internal/core/clock"
)

var (
	// ErrTaskNotFound indicates no task with the given id exists in today's note.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmptyTask indicates an attempt to add a task without text.
	ErrEmptyTask = errors.New("task text is empty")
)

const lockRetry = 25 * time.Millisecond

var taskLine = regexp.MustCompile(`^- \[([ xX])\] (.*) \^([0-9a-f]{8})$`)

// Task is one checklist entry.
type Task struct {
	ID   string
	Text string
	Done bool
}

// Journal edits the task section of the daily notes in a directory.
type Journal struct {
	dir     string
	heading string
	clock   clock.Clock
}

// NewJournal creates a journal over dir. A nil clock uses the system clock.
func NewJournal(dir, heading string, clk clock.Clock) *Journal {
	if clk == nil {
		clk = clock.System()
	}
	if heading == "" {
		heading = "Focus tasks"
	}
	return &Journal{dir: dir, heading: heading, clock: clk}
}

// Path returns the note file for today.
func (journal *Journal) Path() string {
	return filepath.Join(journal.dir, journal.clock.Now().Format("2006-01-02")+".md")
}

// List returns today's tasks in file order.
func (journal *Journal) List(ctx context.Context) ([]Task, error) {
	var tasks []Task
	err := journal.edit(ctx, false, func(note *note) error {
		tasks = note.tasks()
		return nil
	})
	return tasks, err
}

// Add appends an open task to today's note.
func (journal *Journal) Add(ctx context.Context, text string) (Task, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return Task{}, ErrEmptyTask
	}
	task := Task{ID: uuid.New().String()[:8], Text: text}
	err := journal.edit(ctx, true, func(note *note) error {
		note.insert(task)
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

// Complete checks off the task with id.
func (journal *Journal) Complete(ctx context.Context, id string) (Task, error) {
	var done Task
	err := journal.edit(ctx, true, func(note *note) error {
		index, task, ok := note.find(id)
		if !ok {
			return fmt.Errorf("complete %s: %w", id, ErrTaskNotFound)
		}
		task.Done = true
		note.lines[index] = formatTask(task)
		done = task
		return nil
	})
	return done, err
}

// Delete removes the task with id.
func (journal *Journal) Delete(ctx context.Context, id string) error {
	return journal.edit(ctx, true, func(note *note) error {
		index, _, ok := note.find(id)
		if !ok {
			return fmt.Errorf("delete %s: %w", id, ErrTaskNotFound)
		}
		note.lines = append(note.lines[:index], note.lines[index+1:]...)
		return nil
	})
}

// edit loads today's note under the file lock, applies change and writes
// the note back when write is set.
func (journal *Journal) edit(ctx context.Context, write bool, change func(*note) error) error {
	if err := os.MkdirAll(journal.dir, 0o755); err != nil {
		return fmt.Errorf("create notes directory: %w", err)
	}
	path := journal.Path()

	fileLock := flock.New(path + ".lock")
	locked, err := fileLock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock daily note: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock daily note: %s is busy", path)
	}
	defer func() {
		_ = fileLock.Unlock()
	}()

	current, err := journal.read(path)
	if err != nil {
		return err
	}
	if err := change(current); err != nil {
		return err
	}
	if !write {
		return nil
	}
	return writeAtomic(path, []byte(current.String()))
}

// writeAtomic replaces path through a temp file in the same directory so a
// crash mid-write never leaves a truncated note.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write daily note: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write daily note: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync daily note: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write daily note: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("write daily note: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace daily note: %w", err)
	}
	return nil
}

func (journal *Journal) read(path string) (*note, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			title := "# " + journal.clock.Now().Format("2006-01-02")
			return &note{heading: journal.heading, lines: []string{title, ""}}, nil
		}
		return nil, fmt.Errorf("read daily note: %w", err)
	}
	content := string(raw)
	newline := "\n"
	if strings.Contains(content, "\r\n") {
		newline = "\r\n"
		content = strings.ReplaceAll(content, "\r\n", "\n")
	}
	content = strings.TrimRight(content, "\n")
	return &note{heading: journal.heading, newline: newline, lines: strings.Split(content, "\n")}, nil
}

type note struct {
	heading string
	newline string
	lines   []string
}

func (note *note) String() string {
	newline := note.newline
	if newline == "" {
		newline = "\n"
	}
	return strings.Join(note.lines, newline) + newline
}

// section returns the line range [start, end) of the task section body, or
// start -1 when the heading is absent.
func (note *note) section() (int, int) {
	start := -1
	for index, line := range note.lines {
		if start < 0 {
			if strings.TrimSpace(line) == "## "+note.heading {
				start = index + 1
			}
			continue
		}
		if strings.HasPrefix(line, "# ") || strings.HasPrefix(line, "## ") {
			return start, index
		}
	}
	return start, len(note.lines)
}

func (note *note) tasks() []Task {
	start, end := note.section()
	if start < 0 {
		return nil
	}
	var tasks []Task
	for _, line := range note.lines[start:end] {
		if task, ok := parseTask(line); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func (note *note) find(id string) (int, Task, bool) {
	start, end := note.section()
	if start < 0 {
		return 0, Task{}, false
	}
	for index := start; index < end; index++ {
		if task, ok := parseTask(note.lines[index]); ok && task.ID == id {
			return index, task, true
		}
	}
	return 0, Task{}, false
}

func (note *note) insert(task Task) {
	start, end := note.section()
	if start < 0 {
		if len(note.lines) > 0 && strings.TrimSpace(note.lines[len(note.lines)-1]) != "" {
			note.lines = append(note.lines, "")
		}
		note.lines = append(note.lines, "## "+note.heading, formatTask(task))
		return
	}

	at := start
	for index := start; index < end; index++ {
		if _, ok := parseTask(note.lines[index]); ok {
			at = index + 1
		}
	}
	note.lines = append(note.lines[:at], append([]string{formatTask(task)}, note.lines[at:]...)...)
}

func parseTask(line string) (Task, bool) {
	match := taskLine.FindStringSubmatch(strings.TrimRight(line, " \t\r"))
	if match == nil {
		return Task{}, false
	}
	return Task{ID: match[3], Text: match[2], Done: match[1] != " "}, true
}

func formatTask(task Task) string {
	box := " "
	if task.Done {
		box = "x"
	}
	return fmt.Sprintf("- [%s] %s ^%s", box, task.Text, task.ID)
}
