package store

import (
	"sync"
	"time"

	"github.com/projecthub/backend/internal/models"
)

// MemoryStore is an in-memory Store used by tests. All methods copy
// records on the way in and out so callers cannot mutate shared state.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[uint]models.Project
	members  map[uint]models.TeamMember
	tasks    map[uint]models.Task
	users    map[uint]models.User
	nextID   uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[uint]models.Project),
		members:  make(map[uint]models.TeamMember),
		tasks:    make(map[uint]models.Task),
		users:    make(map[uint]models.User),
		nextID:   1,
	}
}

func (s *MemoryStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

// --- Projects ---

func (s *MemoryStore) GetProject(id uint) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListProjectsByOwner(owner string) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Project
	for _, p := range s.projects {
		if p.OwnerID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateProject(p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.allocID()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.projects[p.ID] = *p
	return nil
}

func (s *MemoryStore) SaveProject(p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	s.projects[p.ID] = *p
	return nil
}

func (s *MemoryStore) DeleteProject(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.projects, id)
	for tid, t := range s.tasks {
		if t.ProjectID == id {
			delete(s.tasks, tid)
		}
	}
	for mid, m := range s.members {
		if m.ProjectID == id {
			delete(s.members, mid)
		}
	}
	return nil
}

func (s *MemoryStore) SetProjectProgress(id uint, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.Progress = progress
	p.UpdatedAt = time.Now()
	s.projects[id] = p
	return nil
}

// --- Team members ---

func (s *MemoryStore) GetMember(projectID uint, username string) (*models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.ProjectID == projectID && m.Username == username {
			member := m
			return &member, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListMembersByProject(projectID uint) ([]models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TeamMember
	for _, m := range s.members {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListMembershipsByUser(username string) ([]models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TeamMember
	for _, m := range s.members {
		if m.Username == username {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateMember(m *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.allocID()
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.AssignedAt.IsZero() {
		m.AssignedAt = now
	}
	s.members[m.ID] = *m
	return nil
}

func (s *MemoryStore) SaveMember(m *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[m.ID]; !ok {
		return ErrNotFound
	}
	m.UpdatedAt = time.Now()
	s.members[m.ID] = *m
	return nil
}

func (s *MemoryStore) DeleteMember(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, id)
	return nil
}

// --- Tasks ---

func (s *MemoryStore) GetTask(id uint) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) ListTasksByProject(projectID uint) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListTasksByAssignee(username string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.AssignedTo == username {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListProjectTasksByAssignee(projectID uint, username string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID && t.AssignedTo == username {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateTask(t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.allocID()
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *MemoryStore) SaveTask(t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return ErrNotFound
	}
	t.UpdatedAt = time.Now()
	s.tasks[t.ID] = *t
	return nil
}

func (s *MemoryStore) DeleteTask(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}

// --- Users ---

func (s *MemoryStore) GetUserByID(id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.allocID()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) SaveUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) CountUsersByRole(role string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, u := range s.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}
