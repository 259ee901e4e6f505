package store

import (
	"errors"

	"github.com/projecthub/backend/internal/models"
	"gorm.io/gorm"
)

// GormStore is the production Store implementation backed by GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- Projects ---

func (s *GormStore) GetProject(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &project, nil
}

func (s *GormStore) ListProjectsByOwner(owner string) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Where("owner_id = ?", owner).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *GormStore) CreateProject(p *models.Project) error {
	return s.db.Create(p).Error
}

func (s *GormStore) SaveProject(p *models.Project) error {
	return s.db.Save(p).Error
}

func (s *GormStore) DeleteProject(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

func (s *GormStore) SetProjectProgress(id uint, progress int) error {
	return s.db.Model(&models.Project{}).Where("id = ?", id).
		Update("progress", progress).Error
}

// --- Team members ---

func (s *GormStore) GetMember(projectID uint, username string) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := s.db.Where("project_id = ? AND username = ?", projectID, username).
		First(&member).Error; err != nil {
		return nil, translateErr(err)
	}
	return &member, nil
}

func (s *GormStore) ListMembersByProject(projectID uint) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := s.db.Where("project_id = ?", projectID).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (s *GormStore) ListMembershipsByUser(username string) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := s.db.Where("username = ?", username).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (s *GormStore) CreateMember(m *models.TeamMember) error {
	return s.db.Create(m).Error
}

func (s *GormStore) SaveMember(m *models.TeamMember) error {
	return s.db.Save(m).Error
}

func (s *GormStore) DeleteMember(id uint) error {
	return s.db.Delete(&models.TeamMember{}, id).Error
}

// --- Tasks ---

func (s *GormStore) GetTask(id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &task, nil
}

func (s *GormStore) ListTasksByProject(projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *GormStore) ListTasksByAssignee(username string) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Where("assigned_to = ?", username).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *GormStore) ListProjectTasksByAssignee(projectID uint, username string) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Where("project_id = ? AND assigned_to = ?", projectID, username).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *GormStore) CreateTask(t *models.Task) error {
	return s.db.Create(t).Error
}

func (s *GormStore) SaveTask(t *models.Task) error {
	return s.db.Save(t).Error
}

func (s *GormStore) DeleteTask(id uint) error {
	return s.db.Delete(&models.Task{}, id).Error
}

// --- Users ---

func (s *GormStore) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *GormStore) CreateUser(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *GormStore) SaveUser(u *models.User) error {
	return s.db.Save(u).Error
}

func (s *GormStore) CountUsersByRole(role string) (int64, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", role).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
