// Package portstest provides in-memory implementations of the ports for service tests.
// Every Get returns a copy, so callers never share state with the store.
package portstest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

// Store is an in-memory database shared by the repository views.
type Store struct {
	mu       sync.Mutex
	users    map[domain.UserID]domain.User
	orgs     map[domain.OrganizationID]domain.Organization
	projects map[domain.ProjectID]domain.Project
	tasks    map[domain.TaskID]domain.Task
	bugs     map[domain.BugID]domain.Bug
	otps     []domain.Otp

	// Saves counts successful Save calls per entity kind ("user", "bug", ...).
	Saves map[string]int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:    map[domain.UserID]domain.User{},
		orgs:     map[domain.OrganizationID]domain.Organization{},
		projects: map[domain.ProjectID]domain.Project{},
		tasks:    map[domain.TaskID]domain.Task{},
		bugs:     map[domain.BugID]domain.Bug{},
		Saves:    map[string]int{},
	}
}

func (s *Store) Users() *UserRepo                 { return &UserRepo{s} }
func (s *Store) Organizations() *OrganizationRepo { return &OrganizationRepo{s} }
func (s *Store) Projects() *ProjectRepo           { return &ProjectRepo{s} }
func (s *Store) Tasks() *TaskRepo                 { return &TaskRepo{s} }
func (s *Store) Bugs() *BugRepo                   { return &BugRepo{s} }
func (s *Store) Otps() *OtpRepo                   { return &OtpRepo{s} }

// BugCount returns the number of stored bugs.
func (s *Store) BugCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bugs)
}

// OtpsFor returns copies of every otp issued to email, oldest first.
func (s *Store) OtpsFor(email string) []domain.Otp {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Otp
	for _, o := range s.otps {
		if o.Email == email {
			out = append(out, o)
		}
	}
	return out
}

func page[T any](items []T, req domain.PageRequest) domain.Page[T] {
	total := len(items)
	start := req.Offset()
	if start > total {
		start = total
	}
	end := start + req.Limit()
	if end > total {
		end = total
	}
	return domain.NewPage(items[start:end], req, total)
}

func newest[T any](items []*T, created func(*T) int64, id func(*T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if ci != cj {
			return ci > cj
		}
		return id(items[i]) > id(items[j])
	})
}

// UserRepo is the in-memory ports.UserRepository.
type UserRepo struct{ s *Store }

func (r *UserRepo) Save(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = domain.NewUserID(uuid.New())
	}
	for id, other := range r.s.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return domerrors.ErrUserExists
		}
	}
	r.s.users[u.ID] = *u
	r.s.Saves["user"]++
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByInviteToken(_ context.Context, token string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if token != "" && u.InviteToken == token {
			c := u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

func (r *UserRepo) ExistsByID(ctx context.Context, id domain.UserID) (bool, error) {
	u, err := r.GetByID(ctx, id)
	return u != nil, err
}

func (r *UserRepo) ListByOrganization(_ context.Context, orgID domain.OrganizationID, req domain.PageRequest) (domain.Page[*domain.User], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*domain.User
	for _, u := range r.s.users {
		if u.OrganizationID == orgID {
			c := u
			items = append(items, &c)
		}
	}
	newest(items, func(u *domain.User) int64 { return u.CreatedAt.UnixNano() }, func(u *domain.User) string { return u.ID.String() })
	return page(items, req), nil
}

// OrganizationRepo is the in-memory ports.OrganizationRepository.
type OrganizationRepo struct{ s *Store }

func (r *OrganizationRepo) Save(_ context.Context, o *domain.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = domain.NewOrganizationID(uuid.New())
	}
	for id, other := range r.s.orgs {
		if id != o.ID && other.Name == o.Name {
			return domerrors.ErrOrganizationExists
		}
	}
	r.s.orgs[o.ID] = *o
	r.s.Saves["organization"]++
	return nil
}

func (r *OrganizationRepo) GetByName(_ context.Context, name string) (*domain.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orgs {
		if o.Name == name {
			c := o
			return &c, nil
		}
	}
	return nil, nil
}

func (r *OrganizationRepo) GetByID(_ context.Context, id domain.OrganizationID) (*domain.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orgs[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *OrganizationRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	o, err := r.GetByName(ctx, name)
	return o != nil, err
}

func (r *OrganizationRepo) RemoveUser(_ context.Context, u *domain.User, o *domain.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[u.ID]
	if !ok || stored.OrganizationID != o.ID {
		return nil
	}
	stored.OrganizationID = domain.OrganizationID{}
	r.s.users[u.ID] = stored
	return nil
}

// ProjectRepo is the in-memory ports.ProjectRepository.
type ProjectRepo struct{ s *Store }

func (r *ProjectRepo) Save(_ context.Context, p *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = domain.NewProjectID(uuid.New())
	}
	for id, other := range r.s.projects {
		if id != p.ID && other.OrganizationID == p.OrganizationID && other.Name == p.Name {
			return domerrors.ErrProjectExists
		}
	}
	r.s.projects[p.ID] = *p
	r.s.Saves["project"]++
	return nil
}

func (r *ProjectRepo) GetByID(_ context.Context, id domain.ProjectID) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProjectRepo) ExistsByID(ctx context.Context, id domain.ProjectID) (bool, error) {
	p, err := r.GetByID(ctx, id)
	return p != nil, err
}

func (r *ProjectRepo) ExistsByNameAndOrganization(_ context.Context, name string, orgID domain.OrganizationID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.projects {
		if p.OrganizationID == orgID && p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProjectRepo) List(_ context.Context, orgID domain.OrganizationID, req domain.PageRequest) (domain.Page[*domain.Project], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*domain.Project
	for _, p := range r.s.projects {
		if p.OrganizationID == orgID {
			c := p
			items = append(items, &c)
		}
	}
	newest(items, func(p *domain.Project) int64 { return p.CreatedAt.UnixNano() }, func(p *domain.Project) string { return p.ID.String() })
	return page(items, req), nil
}

func (r *ProjectRepo) Delete(_ context.Context, id domain.ProjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.projects, id)
	return nil
}

// TaskRepo is the in-memory ports.TaskRepository.
type TaskRepo struct{ s *Store }

func copyTask(t domain.Task) *domain.Task {
	if t.AssignedTo != nil {
		a := *t.AssignedTo
		t.AssignedTo = &a
	}
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return &t
}

func (r *TaskRepo) Save(_ context.Context, t *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = domain.NewTaskID(uuid.New())
	}
	for id, other := range r.s.tasks {
		if id != t.ID && other.ProjectID == t.ProjectID && other.Title == t.Title {
			return domerrors.ErrTaskExists
		}
	}
	r.s.tasks[t.ID] = *copyTask(*t)
	r.s.Saves["task"]++
	return nil
}

func (r *TaskRepo) GetByID(_ context.Context, id domain.TaskID) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, nil
	}
	return copyTask(t), nil
}

func (r *TaskRepo) GetByTitle(_ context.Context, projectID domain.ProjectID, title string) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tasks {
		if t.ProjectID == projectID && t.Title == title {
			return copyTask(t), nil
		}
	}
	return nil, nil
}

func (r *TaskRepo) ExistsByTitleAndProject(ctx context.Context, title string, projectID domain.ProjectID) (bool, error) {
	t, err := r.GetByTitle(ctx, projectID, title)
	return t != nil, err
}

func (r *TaskRepo) list(match func(domain.Task) bool, req domain.PageRequest) domain.Page[*domain.Task] {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*domain.Task
	for _, t := range r.s.tasks {
		if match(t) {
			items = append(items, copyTask(t))
		}
	}
	newest(items, func(t *domain.Task) int64 { return t.CreatedAt.UnixNano() }, func(t *domain.Task) string { return t.ID.String() })
	return page(items, req)
}

func (r *TaskRepo) ListByProject(_ context.Context, projectID domain.ProjectID, req domain.PageRequest) (domain.Page[*domain.Task], error) {
	return r.list(func(t domain.Task) bool { return t.ProjectID == projectID }, req), nil
}

func (r *TaskRepo) ListByAssignee(_ context.Context, userID domain.UserID, req domain.PageRequest) (domain.Page[*domain.Task], error) {
	return r.list(func(t domain.Task) bool { return t.AssignedTo != nil && *t.AssignedTo == userID }, req), nil
}

func (r *TaskRepo) DeleteByID(_ context.Context, id domain.TaskID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tasks, id)
	return nil
}

// BugRepo is the in-memory ports.BugRepository.
type BugRepo struct{ s *Store }

func copyBug(b domain.Bug) *domain.Bug {
	if b.AssignedTo != nil {
		a := *b.AssignedTo
		b.AssignedTo = &a
	}
	if b.TaskID != nil {
		t := *b.TaskID
		b.TaskID = &t
	}
	return &b
}

func (r *BugRepo) Save(_ context.Context, b *domain.Bug) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = domain.NewBugID(uuid.New())
	}
	for id, other := range r.s.bugs {
		if id != b.ID && other.ProjectID == b.ProjectID && other.Title == b.Title {
			return domerrors.ErrBugExists
		}
	}
	r.s.bugs[b.ID] = *copyBug(*b)
	r.s.Saves["bug"]++
	return nil
}

func (r *BugRepo) GetByID(_ context.Context, id domain.BugID) (*domain.Bug, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bugs[id]
	if !ok {
		return nil, nil
	}
	return copyBug(b), nil
}

func (r *BugRepo) GetByIDAndTaskID(_ context.Context, id domain.BugID, taskID domain.TaskID) (*domain.Bug, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bugs[id]
	if !ok || b.TaskID == nil || *b.TaskID != taskID {
		return nil, nil
	}
	return copyBug(b), nil
}

func (r *BugRepo) ExistsByID(ctx context.Context, id domain.BugID) (bool, error) {
	b, err := r.GetByID(ctx, id)
	return b != nil, err
}

func (r *BugRepo) ExistsByTitleAndProject(_ context.Context, title string, projectID domain.ProjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bugs {
		if b.ProjectID == projectID && b.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *BugRepo) list(match func(domain.Bug) bool, req domain.PageRequest) domain.Page[*domain.Bug] {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*domain.Bug
	for _, b := range r.s.bugs {
		if match(b) {
			items = append(items, copyBug(b))
		}
	}
	newest(items, func(b *domain.Bug) int64 { return b.CreatedAt.UnixNano() }, func(b *domain.Bug) string { return b.ID.String() })
	return page(items, req)
}

func (r *BugRepo) ListByProject(_ context.Context, projectID domain.ProjectID, req domain.PageRequest) (domain.Page[*domain.Bug], error) {
	return r.list(func(b domain.Bug) bool { return b.ProjectID == projectID }, req), nil
}

func (r *BugRepo) ListByTask(_ context.Context, taskID domain.TaskID, req domain.PageRequest) (domain.Page[*domain.Bug], error) {
	return r.list(func(b domain.Bug) bool { return b.TaskID != nil && *b.TaskID == taskID }, req), nil
}

func (r *BugRepo) ListByAssignee(_ context.Context, userID domain.UserID, req domain.PageRequest) (domain.Page[*domain.Bug], error) {
	return r.list(func(b domain.Bug) bool { return b.AssignedTo != nil && *b.AssignedTo == userID }, req), nil
}

func (r *BugRepo) ListByCreator(_ context.Context, userID domain.UserID, req domain.PageRequest) (domain.Page[*domain.Bug], error) {
	return r.list(func(b domain.Bug) bool { return b.CreatedBy == userID }, req), nil
}

func (r *BugRepo) Delete(_ context.Context, id domain.BugID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.bugs, id)
	return nil
}

// OtpRepo is the in-memory ports.OtpRepository.
type OtpRepo struct{ s *Store }

func (r *OtpRepo) Save(_ context.Context, o *domain.Otp) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Saves["otp"]++
	if o.ID.UUID == uuid.Nil {
		o.ID = domain.NewOtpID(uuid.New())
		r.s.otps = append(r.s.otps, *o)
		return nil
	}
	for i := range r.s.otps {
		if r.s.otps[i].ID == o.ID {
			if r.s.otps[i].Used {
				return domerrors.ErrOtpUsed
			}
			r.s.otps[i] = *o
			return nil
		}
	}
	r.s.otps = append(r.s.otps, *o)
	return nil
}

// FindByEmailAndCode returns the most recently issued match.
func (r *OtpRepo) FindByEmailAndCode(_ context.Context, email, code string) (*domain.Otp, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.otps) - 1; i >= 0; i-- {
		o := r.s.otps[i]
		if o.Email == email && o.Code == code {
			return &o, nil
		}
	}
	return nil, nil
}
