package services

import (
	"testing"

	"github.com/projecthub/backend/internal/models"
)

func TestTaskCreate_Defaults(t *testing.T) {
	env := newTestEnv(t)

	task, err := env.tasks.Create(env.projectID, "alice", &CreateTaskRequest{Title: "set up ci"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.Status != models.TaskTodo {
		t.Errorf("status = %q, expected todo", task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, expected medium", task.Priority)
	}
}

func TestTaskCreate_ViewerDenied(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tasks.Create(env.projectID, "dave", &CreateTaskRequest{Title: "sneaky"})
	assertCode(t, err, CodeInsufficientPermissions)
}

func TestTaskCreate_NonMemberAssigneeRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tasks.Create(env.projectID, "alice", &CreateTaskRequest{Title: "x", AssignedTo: "stranger"})
	assertCode(t, err, CodeInvalidData)
}

func TestTaskCreate_DeveloperCannotAssignOthers(t *testing.T) {
	env := newTestEnv(t)

	// Developers may create tasks for themselves but not hand them out.
	if _, err := env.tasks.Create(env.projectID, "carol", &CreateTaskRequest{Title: "mine", AssignedTo: "carol"}); err != nil {
		t.Fatalf("self-assignment should be allowed: %v", err)
	}

	_, err := env.tasks.Create(env.projectID, "carol", &CreateTaskRequest{Title: "yours", AssignedTo: "bob"})
	assertCode(t, err, CodeInsufficientPermissions)
}

func TestTaskCreate_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tasks.Create(env.projectID, "alice", &CreateTaskRequest{Title: "x", Status: "done"})
	assertCode(t, err, CodeInvalidData)
}

func TestTaskCreate_RecomputesProgress(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.tasks.Create(env.projectID, "alice", &CreateTaskRequest{Title: "a", Status: "completed"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := env.tasks.Create(env.projectID, "alice", &CreateTaskRequest{Title: "b"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	project, _ := env.store.GetProject(env.projectID)
	if project.Progress != 50 {
		t.Errorf("progress = %d, expected 50", project.Progress)
	}
}

func TestTaskGet_CrossProjectIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	other := &models.Project{Name: "other", OwnerID: "alice", Status: models.ProjectActive}
	if err := env.store.CreateProject(other); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	task, err := env.tasks.Create(other.ID, "alice", &CreateTaskRequest{Title: "elsewhere"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = env.tasks.Get(env.projectID, task.ID, "alice")
	assertCode(t, err, CodeTaskNotFound)
}

func TestTaskUpdate_EmptyPayload(t *testing.T) {
	env := newTestEnv(t)

	task, _ := env.tasks.Create(env.projectID, "alice", &CreateTaskRequest{Title: "x"})

	_, err := env.tasks.Update(env.projectID, task.ID, "alice", &UpdateTaskRequest{})
	assertCode(t, err, CodeInvalidData)
}

func TestTaskUpdate_DeveloperOwnTaskOnly(t *testing.T) {
	env := newTestEnv(t)

	mine, _ := env.tasks.Create(env.projectID, "bob", &CreateTaskRequest{Title: "carol's", AssignedTo: "carol"})
	theirs, _ := env.tasks.Create(env.projectID, "bob", &CreateTaskRequest{Title: "bob's", AssignedTo: "bob"})

	title := "renamed"
	if _, err := env.tasks.Update(env.projectID, mine.ID, "carol", &UpdateTaskRequest{Title: &title}); err != nil {
		t.Fatalf("developer should edit their own task: %v", err)
	}

	_, err := env.tasks.Update(env.projectID, theirs.ID, "carol", &UpdateTaskRequest{Title: &title})
	assertCode(t, err, CodeInsufficientPermissions)
}

func TestTaskUpdate_UnassignedNotEditableByDeveloper(t *testing.T) {
	env := newTestEnv(t)

	task, _ := env.tasks.Create(env.projectID, "bob", &CreateTaskRequest{Title: "unassigned"})

	title := "renamed"
	_, err := env.tasks.Update(env.projectID, task.ID, "carol", &UpdateTaskRequest{Title: &title})
	assertCode(t, err, CodeInsufficientPermissions)
}

func TestTaskUpdate_EmptyTitleRejected(t *testing.T) {
	env := newTestEnv(t)

	task, _ := env.tasks.Create(env.projectID, "alice", &CreateTaskRequest{Title: "x"})

	empty := ""
	_, err := env.tasks.Update(env.projectID, task.ID, "alice", &UpdateTaskRequest{Title: &empty})
	assertCode(t, err, CodeInvalidData)
}

func TestTaskUpdateStatus_AssigneeOverride(t *testing.T) {
	env := newTestEnv(t)

	// dave is a viewer, whose role cannot update statuses, but he is the
	// assignee of this task.
	task, _ := env.tasks.Create(env.projectID, "alice", &CreateTaskRequest{Title: "review", AssignedTo: "dave"})

	updated, err := env.tasks.UpdateStatus(env.projectID, task.ID, "dave", &UpdateTaskStatusRequest{Status: "in_progress"})
	if err != nil {
		t.Fatalf("assignee should update their own task status: %v", err)
	}
	if updated.Status != models.TaskInProgress {
		t.Errorf("status = %q, expected in_progress", updated.Status)
	}
}

func TestTaskUpdateStatus_ViewerDeniedOnOthers(t *testing.T) {
	env := newTestEnv(t)

	task, _ := env.tasks.Create(env.projectID, "alice", &CreateTaskRequest{Title: "review", AssignedTo: "carol"})

	_, err := env.tasks.UpdateStatus(env.projectID, task.ID, "dave", &UpdateTaskStatusRequest{Status: "completed"})
	assertCode(t, err, CodeInsufficientPermissions)
}

func TestTaskUpdateStatus_InvalidStatusBeforeLookup(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tasks.UpdateStatus(env.projectID, 9999, "alice", &UpdateTaskStatusRequest{Status: "nonsense"})
	assertCode(t, err, CodeInvalidData)
}

func TestTaskUpdateStatus_RecomputesProgress(t *testing.T) {
	env := newTestEnv(t)

	task, _ := env.tasks.Create(env.projectID, "alice", &CreateTaskRequest{Title: "only one"})

	if _, err := env.tasks.UpdateStatus(env.projectID, task.ID, "alice", &UpdateTaskStatusRequest{Status: "completed"}); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	project, _ := env.store.GetProject(env.projectID)
	if project.Progress != 100 {
		t.Errorf("progress = %d, expected 100", project.Progress)
	}
}

func TestTaskDelete_DeveloperDenied(t *testing.T) {
	env := newTestEnv(t)

	task, _ := env.tasks.Create(env.projectID, "carol", &CreateTaskRequest{Title: "mine", AssignedTo: "carol"})

	err := env.tasks.Delete(env.projectID, task.ID, "carol")
	assertCode(t, err, CodeInsufficientPermissions)
}

func TestTaskDelete_ManagerAllowed(t *testing.T) {
	env := newTestEnv(t)

	task, _ := env.tasks.Create(env.projectID, "alice", &CreateTaskRequest{Title: "obsolete", Status: "completed"})

	if err := env.tasks.Delete(env.projectID, task.ID, "bob"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	project, _ := env.store.GetProject(env.projectID)
	if project.Progress != 0 {
		t.Errorf("progress = %d, expected 0 after the only task was deleted", project.Progress)
	}
}

func TestTaskList_NonMemberDenied(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tasks.List(env.projectID, "stranger")
	assertCode(t, err, CodeInsufficientPermissions)
}

func TestTaskOps_MissingProject(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tasks.List(9999, "alice")
	assertCode(t, err, CodeProjectNotFound)
}
