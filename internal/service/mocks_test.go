package service

import (
	"athletiq/coach-app/internal/domain"
	"athletiq/coach-app/internal/repository"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They honor the same contracts as the Mongo
// implementations (ErrNotFound, descending scheduledDate sort, upsert by
// assignment id) so service tests exercise real behavior.

type mockUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == primitive.NilObjectID {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = *user
	return user.ID, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type mockTemplateRepo struct {
	mu        sync.Mutex
	templates map[primitive.ObjectID]domain.WorkoutTemplate
}

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{templates: make(map[primitive.ObjectID]domain.WorkoutTemplate)}
}

func (m *mockTemplateRepo) Create(ctx context.Context, tpl *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tpl.ID == primitive.NilObjectID {
		tpl.ID = primitive.NewObjectID()
	}
	tpl.CreatedAt = time.Now().UTC()
	tpl.UpdatedAt = tpl.CreatedAt
	m.templates[tpl.ID] = *tpl
	return tpl.ID, nil
}

func (m *mockTemplateRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tpl, ok := m.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &tpl, nil
}

func (m *mockTemplateRepo) GetByTitle(ctx context.Context, title string) (*domain.WorkoutTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tpl := range m.templates {
		if tpl.Title == title {
			t := tpl
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockTemplateRepo) List(ctx context.Context) ([]domain.WorkoutTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	templates := make([]domain.WorkoutTemplate, 0, len(m.templates))
	for _, tpl := range m.templates {
		templates = append(templates, tpl)
	}
	return templates, nil
}

func (m *mockTemplateRepo) Replace(ctx context.Context, tpl *domain.WorkoutTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[tpl.ID]; !ok {
		return repository.ErrNotFound
	}
	tpl.UpdatedAt = time.Now().UTC()
	m.templates[tpl.ID] = *tpl
	return nil
}

func (m *mockTemplateRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.templates, id)
	return nil
}

type mockCustomWorkoutRepo struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]domain.CustomWorkout
}

func newMockCustomWorkoutRepo() *mockCustomWorkoutRepo {
	return &mockCustomWorkoutRepo{workouts: make(map[primitive.ObjectID]domain.CustomWorkout)}
}

func (m *mockCustomWorkoutRepo) Create(ctx context.Context, w *domain.CustomWorkout) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w.ID == primitive.NilObjectID {
		w.ID = primitive.NewObjectID()
	}
	w.CreatedAt = time.Now().UTC()
	w.UpdatedAt = w.CreatedAt
	m.workouts[w.ID] = *w
	return w.ID, nil
}

func (m *mockCustomWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CustomWorkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (m *mockCustomWorkoutRepo) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.CustomWorkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var workouts []domain.CustomWorkout
	for _, w := range m.workouts {
		if w.CoachID == coachID {
			workouts = append(workouts, w)
		}
	}
	return workouts, nil
}

func (m *mockCustomWorkoutRepo) Replace(ctx context.Context, w *domain.CustomWorkout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workouts[w.ID]; !ok {
		return repository.ErrNotFound
	}
	w.UpdatedAt = time.Now().UTC()
	m.workouts[w.ID] = *w
	return nil
}

func (m *mockCustomWorkoutRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.workouts, id)
	return nil
}

type mockAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[primitive.ObjectID]domain.Assignment
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[primitive.ObjectID]domain.Assignment)}
}

func (m *mockAssignmentRepo) CreateMany(ctx context.Context, assignments []domain.Assignment) ([]domain.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := make([]domain.Assignment, 0, len(assignments))
	now := time.Now().UTC()
	for _, a := range assignments {
		a.ID = primitive.NewObjectID()
		if a.Status == "" {
			a.Status = domain.StatusUpcoming
		}
		a.CreatedAt = now
		a.UpdatedAt = now
		m.assignments[a.ID] = a
		created = append(created, a)
	}
	return created, nil
}

func (m *mockAssignmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (m *mockAssignmentRepo) GetByAthleteID(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Assignment, error) {
	return m.filter(func(a domain.Assignment) bool { return a.AthleteID == athleteID }), nil
}

func (m *mockAssignmentRepo) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Assignment, error) {
	return m.filter(func(a domain.Assignment) bool { return a.CoachID == coachID }), nil
}

func (m *mockAssignmentRepo) filter(keep func(domain.Assignment) bool) []domain.Assignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Assignment
	for _, a := range m.assignments {
		if keep(a) {
			out = append(out, a)
		}
	}
	// Newest scheduled date first, same as the Mongo index-backed sort.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledDate.After(out[j].ScheduledDate)
	})
	return out
}

func (m *mockAssignmentRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.AssignmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	m.assignments[id] = a
	return nil
}

type mockRecurringRepo struct {
	mu    sync.Mutex
	rules map[primitive.ObjectID]domain.RecurringAssignment
}

func newMockRecurringRepo() *mockRecurringRepo {
	return &mockRecurringRepo{rules: make(map[primitive.ObjectID]domain.RecurringAssignment)}
}

func (m *mockRecurringRepo) Create(ctx context.Context, rec *domain.RecurringAssignment) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == primitive.NilObjectID {
		rec.ID = primitive.NewObjectID()
	}
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	m.rules[rec.ID] = *rec
	return rec.ID, nil
}

func (m *mockRecurringRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RecurringAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (m *mockRecurringRepo) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.RecurringAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rules []domain.RecurringAssignment
	for _, rec := range m.rules {
		if rec.CoachID == coachID {
			rules = append(rules, rec)
		}
	}
	return rules, nil
}

func (m *mockRecurringRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rules[id]
	if !ok {
		return repository.ErrNotFound
	}
	rec.Active = active
	rec.UpdatedAt = time.Now().UTC()
	m.rules[id] = rec
	return nil
}

type mockWorkoutLogRepo struct {
	mu   sync.Mutex
	logs map[primitive.ObjectID]domain.WorkoutLog // keyed by assignment id
}

func newMockWorkoutLogRepo() *mockWorkoutLogRepo {
	return &mockWorkoutLogRepo{logs: make(map[primitive.ObjectID]domain.WorkoutLog)}
}

func (m *mockWorkoutLogRepo) GetByAssignmentID(ctx context.Context, assignmentID primitive.ObjectID) (*domain.WorkoutLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log, ok := m.logs[assignmentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &log, nil
}

func (m *mockWorkoutLogRepo) SaveProgress(ctx context.Context, log *domain.WorkoutLog) (*domain.WorkoutLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := m.logs[log.AssignmentID]
	if !ok {
		existing = domain.WorkoutLog{
			ID:           primitive.NewObjectID(),
			AssignmentID: log.AssignmentID,
			CreatedAt:    now,
		}
	}
	existing.AthleteID = log.AthleteID
	existing.OverallNotes = log.OverallNotes
	existing.AvgHeartRate = log.AvgHeartRate
	existing.MaxHeartRate = log.MaxHeartRate
	existing.MinHeartRate = log.MinHeartRate
	existing.DeviceName = log.DeviceName
	existing.Sets = log.Sets
	existing.UpdatedAt = now
	m.logs[log.AssignmentID] = existing
	return &existing, nil
}

func (m *mockWorkoutLogRepo) SetCompleted(ctx context.Context, assignmentID, athleteID primitive.ObjectID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.logs[assignmentID]
	if !ok {
		existing = domain.WorkoutLog{
			ID:           primitive.NewObjectID(),
			AssignmentID: assignmentID,
			Sets:         []domain.SetLog{},
			CreatedAt:    at,
		}
	}
	existing.AthleteID = athleteID
	existing.CompletedAt = &at
	existing.UpdatedAt = at
	m.logs[assignmentID] = existing
	return nil
}

type mockGroupRepo struct {
	mu     sync.Mutex
	groups map[primitive.ObjectID]domain.Group
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[primitive.ObjectID]domain.Group)}
}

func (m *mockGroupRepo) Create(ctx context.Context, group *domain.Group) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if group.ID == primitive.NilObjectID {
		group.ID = primitive.NewObjectID()
	}
	m.groups[group.ID] = *group
	return group.ID, nil
}

func (m *mockGroupRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	group, ok := m.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &group, nil
}

func (m *mockGroupRepo) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var groups []domain.Group
	for _, group := range m.groups {
		if group.CoachID == coachID {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// passthroughTxn runs the callback directly; the fakes have no transactions.
type passthroughTxn struct{}

func (passthroughTxn) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockFileStorage records calls and fabricates deterministic URLs.
type mockFileStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (m *mockFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/upload/%s", objectKey), nil
}

func (m *mockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/download/%s", objectKey), nil
}

func (m *mockFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, objectKey)
	return nil
}
