package store

import (
	"errors"
	"testing"

	"github.com/projecthub/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Project{}, &models.TeamMember{}, &models.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGormStore(db)
}

func TestGormStore_ProjectCRUD(t *testing.T) {
	st := newGormStore(t)

	project := &models.Project{Name: "web-app", OwnerID: "alice", Status: models.ProjectActive}
	if err := st.CreateProject(project); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if project.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	got, err := st.GetProject(project.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.Name != "web-app" {
		t.Errorf("name = %q, expected web-app", got.Name)
	}

	got.Description = "updated"
	if err := st.SaveProject(got); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	owned, err := st.ListProjectsByOwner("alice")
	if err != nil {
		t.Fatalf("ListProjectsByOwner: %v", err)
	}
	if len(owned) != 1 || owned[0].Description != "updated" {
		t.Errorf("owned = %+v, expected one updated project", owned)
	}
}

func TestGormStore_GetProject_NotFound(t *testing.T) {
	st := newGormStore(t)

	_, err := st.GetProject(42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, expected ErrNotFound", err)
	}
}

func TestGormStore_SetProjectProgress(t *testing.T) {
	st := newGormStore(t)

	project := &models.Project{Name: "p", OwnerID: "alice", Status: models.ProjectActive}
	st.CreateProject(project)

	if err := st.SetProjectProgress(project.ID, 75); err != nil {
		t.Fatalf("SetProjectProgress: %v", err)
	}

	got, _ := st.GetProject(project.ID)
	if got.Progress != 75 {
		t.Errorf("progress = %d, expected 75", got.Progress)
	}
}

func TestGormStore_DeleteProjectCascades(t *testing.T) {
	st := newGormStore(t)

	project := &models.Project{Name: "p", OwnerID: "alice", Status: models.ProjectActive}
	st.CreateProject(project)
	task := &models.Task{ProjectID: project.ID, Title: "t", Status: models.TaskTodo, Priority: models.PriorityMedium}
	st.CreateTask(task)
	member := &models.TeamMember{ProjectID: project.ID, Username: "bob", Role: "viewer"}
	st.CreateMember(member)

	if err := st.DeleteProject(project.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}

	if _, err := st.GetProject(project.ID); !errors.Is(err, ErrNotFound) {
		t.Error("project should be gone")
	}
	if _, err := st.GetTask(task.ID); !errors.Is(err, ErrNotFound) {
		t.Error("tasks should be deleted with the project")
	}
	if _, err := st.GetMember(project.ID, "bob"); !errors.Is(err, ErrNotFound) {
		t.Error("memberships should be deleted with the project")
	}
}

func TestGormStore_MemberLookups(t *testing.T) {
	st := newGormStore(t)

	project := &models.Project{Name: "p", OwnerID: "alice", Status: models.ProjectActive}
	st.CreateProject(project)

	for _, username := range []string{"bob", "carol"} {
		if err := st.CreateMember(&models.TeamMember{ProjectID: project.ID, Username: username, Role: "developer"}); err != nil {
			t.Fatalf("CreateMember(%s): %v", username, err)
		}
	}

	member, err := st.GetMember(project.ID, "bob")
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if member.Role != "developer" {
		t.Errorf("role = %q, expected developer", member.Role)
	}

	members, _ := st.ListMembersByProject(project.ID)
	if len(members) != 2 {
		t.Errorf("member count = %d, expected 2", len(members))
	}

	memberships, _ := st.ListMembershipsByUser("carol")
	if len(memberships) != 1 {
		t.Errorf("membership count = %d, expected 1", len(memberships))
	}

	if err := st.DeleteMember(member.ID); err != nil {
		t.Fatalf("DeleteMember: %v", err)
	}
	if _, err := st.GetMember(project.ID, "bob"); !errors.Is(err, ErrNotFound) {
		t.Error("membership row should be gone")
	}
}

func TestGormStore_TaskQueries(t *testing.T) {
	st := newGormStore(t)

	p1 := &models.Project{Name: "p1", OwnerID: "alice", Status: models.ProjectActive}
	p2 := &models.Project{Name: "p2", OwnerID: "alice", Status: models.ProjectActive}
	st.CreateProject(p1)
	st.CreateProject(p2)

	st.CreateTask(&models.Task{ProjectID: p1.ID, Title: "a", AssignedTo: "bob", Status: models.TaskTodo, Priority: models.PriorityLow})
	st.CreateTask(&models.Task{ProjectID: p1.ID, Title: "b", AssignedTo: "carol", Status: models.TaskTodo, Priority: models.PriorityLow})
	st.CreateTask(&models.Task{ProjectID: p2.ID, Title: "c", AssignedTo: "bob", Status: models.TaskTodo, Priority: models.PriorityLow})

	byProject, _ := st.ListTasksByProject(p1.ID)
	if len(byProject) != 2 {
		t.Errorf("project tasks = %d, expected 2", len(byProject))
	}

	byAssignee, _ := st.ListTasksByAssignee("bob")
	if len(byAssignee) != 2 {
		t.Errorf("assignee tasks = %d, expected 2", len(byAssignee))
	}

	scoped, _ := st.ListProjectTasksByAssignee(p1.ID, "bob")
	if len(scoped) != 1 {
		t.Errorf("scoped tasks = %d, expected 1", len(scoped))
	}
}

func TestGormStore_UserQueries(t *testing.T) {
	st := newGormStore(t)

	if err := st.CreateUser(&models.User{Username: "alice", Password: "x", Role: "admin", IsActive: true}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	st.CreateUser(&models.User{Username: "bob", Password: "x", Role: "user", IsActive: true})

	user, err := st.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user.Role != "admin" {
		t.Errorf("role = %q, expected admin", user.Role)
	}

	if _, err := st.GetUserByUsername("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, expected ErrNotFound", err)
	}

	admins, _ := st.CountUsersByRole("admin")
	if admins != 1 {
		t.Errorf("admin count = %d, expected 1", admins)
	}
}
