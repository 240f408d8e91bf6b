package service

import (
	"testing"
	"time"
)

func TestTaskServiceCreateDefaults(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewTaskService(gdb)

	task, err := svc.Create(1, TaskInput{Text: "  buy milk  ", Source: "assistant"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if task.Text != "buy milk" {
		t.Fatalf("text = %q, want trimmed", task.Text)
	}
	if task.Done {
		t.Fatal("new task must not be done")
	}

	if _, err := svc.Create(1, TaskInput{Text: "   "}); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestTaskServiceListFilters(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewTaskService(gdb)

	first, err := svc.Create(1, TaskInput{Text: "write report"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(1, TaskInput{Text: "send invoice"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(2, TaskInput{Text: "other user"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetDone(1, first.ID, true); err != nil {
		t.Fatalf("SetDone returned error: %v", err)
	}

	open := false
	tasks, err := svc.List(1, TaskFilter{Done: &open})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "send invoice" {
		t.Fatalf("unexpected open tasks: %+v", tasks)
	}

	all, err := svc.List(1, TaskFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks for user 1, got %d", len(all))
	}

	none, err := svc.List(1, TaskFilter{CreatedAfter: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected 0 tasks in future window, got %d", len(none))
	}
}

func TestTaskServiceSetDoneWrongUser(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewTaskService(gdb)
	task, err := svc.Create(1, TaskInput{Text: "mine"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetDone(2, task.ID, true); err != ErrTaskNotFound {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}
