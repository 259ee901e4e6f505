package store

import (
	"errors"

	"github.com/projecthub/backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Callers translate it into their own domain error.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary for the domain engines and services.
// Implementations must return ErrNotFound for absent single records and
// empty slices (never an error) for empty list results.
type Store interface {
	// Projects
	GetProject(id uint) (*models.Project, error)
	ListProjectsByOwner(owner string) ([]models.Project, error)
	CreateProject(p *models.Project) error
	SaveProject(p *models.Project) error
	// DeleteProject removes the project together with its tasks and
	// team memberships.
	DeleteProject(id uint) error
	SetProjectProgress(id uint, progress int) error

	// Team members
	GetMember(projectID uint, username string) (*models.TeamMember, error)
	ListMembersByProject(projectID uint) ([]models.TeamMember, error)
	ListMembershipsByUser(username string) ([]models.TeamMember, error)
	CreateMember(m *models.TeamMember) error
	SaveMember(m *models.TeamMember) error
	DeleteMember(id uint) error

	// Tasks
	GetTask(id uint) (*models.Task, error)
	ListTasksByProject(projectID uint) ([]models.Task, error)
	ListTasksByAssignee(username string) ([]models.Task, error)
	ListProjectTasksByAssignee(projectID uint, username string) ([]models.Task, error)
	CreateTask(t *models.Task) error
	SaveTask(t *models.Task) error
	DeleteTask(id uint) error

	// Users
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	CreateUser(u *models.User) error
	SaveUser(u *models.User) error
	CountUsersByRole(role string) (int64, error)
}
