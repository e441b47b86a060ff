//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

// Run with: go test -tags=integration ./internal/infrastructure/persistence/postgres/...
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("qonnect"),
		tcpostgres.WithUsername("qonnect"),
		tcpostgres.WithPassword("qonnect"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, EnsureSchema(ctx, pool))
	require.NoError(t, EnsureSchema(ctx, pool))
	return pool
}

type repos struct {
	tx       *Transactor
	users    *UserRepository
	orgs     *OrganizationRepository
	projects *ProjectRepository
	tasks    *TaskRepository
	bugs     *BugRepository
	otps     *OtpRepository
	accounts *AccountRepository
}

func newRepos(pool *pgxpool.Pool) repos {
	return repos{
		tx:       NewTransactor(pool),
		users:    NewUserRepository(pool),
		orgs:     NewOrganizationRepository(pool),
		projects: NewProjectRepository(pool),
		tasks:    NewTaskRepository(pool),
		bugs:     NewBugRepository(pool),
		otps:     NewOtpRepository(pool),
		accounts: NewAccountRepository(pool),
	}
}

func TestRepositories(t *testing.T) {
	pool := startPostgres(t)
	r := newRepos(pool)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	org := &domain.Organization{Name: "Acme", CreatedAt: now}
	require.NoError(t, r.orgs.Save(ctx, org))
	require.ErrorIs(t, r.orgs.Save(ctx, &domain.Organization{Name: "Acme", CreatedAt: now}), domerrors.ErrOrganizationExists)

	admin := &domain.User{Email: "admin@acme.com", FirstName: "Ada", LastName: "Admin", Role: domain.RoleAdmin,
		OrganizationID: org.ID, Enabled: true, CreatedAt: now, UpdatedAt: now}
	dev := &domain.User{Email: "dev@acme.com", Role: domain.RoleDeveloper, OrganizationID: org.ID,
		InviteToken: "tok-1", CreatedAt: now.Add(time.Second), UpdatedAt: now}
	require.NoError(t, r.users.Save(ctx, admin))
	require.NoError(t, r.users.Save(ctx, dev))
	require.ErrorIs(t, r.users.Save(ctx, &domain.User{Email: "admin@acme.com", Role: domain.RoleQAEngineer, CreatedAt: now, UpdatedAt: now}), domerrors.ErrUserExists)

	t.Run("users", func(t *testing.T) {
		got, err := r.users.GetByEmail(ctx, "ADMIN@acme.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, admin.ID, got.ID)
		assert.Equal(t, org.ID, got.OrganizationID)

		invited, err := r.users.GetByInviteToken(ctx, "tok-1")
		require.NoError(t, err)
		require.NotNil(t, invited)
		assert.Equal(t, dev.ID, invited.ID)

		missing, err := r.users.GetByEmail(ctx, "ghost@acme.com")
		require.NoError(t, err)
		assert.Nil(t, missing)

		members, err := r.users.ListByOrganization(ctx, org.ID, domain.PageRequest{Size: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, members.Total)
		require.Len(t, members.Items, 1)
		assert.Equal(t, dev.ID, members.Items[0].ID)
	})

	project := &domain.Project{Name: "Tracker", CreatedBy: admin.ID, OrganizationID: org.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.projects.Save(ctx, project))

	task := &domain.Task{Title: "Fix login", Description: "d"}
	task.Open(project.ID, now)
	require.NoError(t, r.tasks.Save(ctx, task))
	require.ErrorIs(t, r.tasks.Save(ctx, &domain.Task{Title: "Fix login", ProjectID: project.ID, Status: domain.TaskPending, CreatedAt: now, UpdatedAt: now}), domerrors.ErrTaskExists)

	t.Run("tasks", func(t *testing.T) {
		require.NoError(t, task.AssignTo(dev.ID, now))
		require.NoError(t, r.tasks.Save(ctx, task))
		got, err := r.tasks.GetByTitle(ctx, project.ID, "Fix login")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.AssignedTo)
		assert.Equal(t, dev.ID, *got.AssignedTo)
		assert.Nil(t, got.DueDate)

		assigned, err := r.tasks.ListByAssignee(ctx, dev.ID, domain.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, assigned.Total)
	})

	t.Run("bugs", func(t *testing.T) {
		taskID := task.ID
		bug := &domain.Bug{Title: "Crash", Description: "boom", Severity: domain.SeverityMajor, Priority: domain.PriorityHigh,
			ProjectID: project.ID, TaskID: &taskID}
		bug.MarkReported(admin.ID, now)
		require.NoError(t, r.bugs.Save(ctx, bug))

		got, err := r.bugs.GetByIDAndTaskID(ctx, bug.ID, task.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.BugOpen, got.Status)
		assert.Nil(t, got.AssignedTo)

		exists, err := r.bugs.ExistsByTitleAndProject(ctx, "Crash", project.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		byTask, err := r.bugs.ListByTask(ctx, task.ID, domain.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, byTask.Total)

		require.NoError(t, r.tasks.DeleteByID(ctx, task.ID))
		detached, err := r.bugs.GetByID(ctx, bug.ID)
		require.NoError(t, err)
		require.NotNil(t, detached)
		assert.Nil(t, detached.TaskID)

		require.NoError(t, r.bugs.Delete(ctx, bug.ID))
		gone, err := r.bugs.ExistsByID(ctx, bug.ID)
		require.NoError(t, err)
		assert.False(t, gone)
	})

	t.Run("otps", func(t *testing.T) {
		first := &domain.Otp{Code: "123456", Email: "dev@acme.com", Type: domain.OtpVerification, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
		second := &domain.Otp{Code: "123456", Email: "dev@acme.com", Type: domain.OtpResetPassword, CreatedAt: now.Add(time.Second), ExpiresAt: now.Add(time.Minute)}
		require.NoError(t, r.otps.Save(ctx, first))
		require.NoError(t, r.otps.Save(ctx, second))

		got, err := r.otps.FindByEmailAndCode(ctx, "dev@acme.com", "123456")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.OtpResetPassword, got.Type)

		got.Used = true
		require.NoError(t, r.otps.Save(ctx, got))
		again, err := r.otps.FindByEmailAndCode(ctx, "dev@acme.com", "123456")
		require.NoError(t, err)
		assert.True(t, again.Used)
		require.ErrorIs(t, r.otps.Save(ctx, again), domerrors.ErrOtpUsed)
	})

	t.Run("accounts", func(t *testing.T) {
		acc := ports.Account{Email: "Dev@Acme.com", Role: domain.RoleDeveloper, PasswordHash: "h1"}
		require.NoError(t, r.accounts.Create(ctx, acc))
		require.ErrorIs(t, r.accounts.Create(ctx, acc), domerrors.ErrUserExists)

		ok, err := r.accounts.Enable(ctx, "dev@acme.com")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = r.accounts.SetPassword(ctx, "ghost@acme.com", "h2")
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := r.accounts.Get(ctx, "dev@acme.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Enabled)
		assert.Equal(t, "dev@acme.com", got.Email)
	})

	t.Run("members are detached, not deleted", func(t *testing.T) {
		require.NoError(t, r.orgs.RemoveUser(ctx, dev, org))
		got, err := r.users.GetByID(ctx, dev.ID)
		require.NoError(t, err)
		assert.False(t, got.HasOrganization())
		still, err := r.orgs.GetByID(ctx, org.ID)
		require.NoError(t, err)
		assert.NotNil(t, still)
	})
}

func TestConcurrentOtpConsumeSucceedsOnce(t *testing.T) {
	pool := startPostgres(t)
	r := newRepos(pool)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, r.otps.Save(ctx, &domain.Otp{Code: "246810", Email: "qa@acme.com", Type: domain.OtpResetPassword,
		CreatedAt: now, ExpiresAt: now.Add(time.Minute)}))

	consume := func() error {
		return r.tx.WithinTx(ctx, func(ctx context.Context) error {
			o, err := r.otps.FindByEmailAndCode(ctx, "qa@acme.com", "246810")
			if err != nil {
				return err
			}
			if err := o.Consume(time.Now()); err != nil {
				return err
			}
			return r.otps.Save(ctx, o)
		})
	}

	const callers = 6
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- consume()
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domerrors.ErrOtpUsed)
	}
	assert.Equal(t, 1, ok)
}

func TestConcurrentBugAssignmentConflicts(t *testing.T) {
	pool := startPostgres(t)
	r := newRepos(pool)
	ctx := context.Background()
	now := time.Now().UTC()

	org := &domain.Organization{Name: "Globex", CreatedAt: now}
	require.NoError(t, r.orgs.Save(ctx, org))
	qa := &domain.User{Email: "qa@globex.com", Role: domain.RoleQAEngineer, OrganizationID: org.ID, Enabled: true, CreatedAt: now, UpdatedAt: now}
	dev := &domain.User{Email: "dev@globex.com", Role: domain.RoleDeveloper, OrganizationID: org.ID, Enabled: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.users.Save(ctx, qa))
	require.NoError(t, r.users.Save(ctx, dev))
	project := &domain.Project{Name: "Portal", OrganizationID: org.ID, CreatedBy: qa.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.projects.Save(ctx, project))
	b := &domain.Bug{Title: "Crash", Description: "on save", Status: domain.BugOpen, Severity: domain.SeverityMinor,
		Priority: domain.PriorityMedium, ProjectID: project.ID, CreatedBy: qa.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.bugs.Save(ctx, b))

	assign := func() error {
		return r.tx.WithinTx(ctx, func(ctx context.Context) error {
			got, err := r.bugs.GetByID(ctx, b.ID)
			if err != nil {
				return err
			}
			if err := got.AssignTo(dev.ID, time.Now()); err != nil {
				return err
			}
			return r.bugs.Save(ctx, got)
		})
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- assign()
		}()
	}
	wg.Wait()
	close(errs)

	var failures []error
	for err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], domerrors.ErrAlreadyAssigned)
}

func TestTransactorRollsBack(t *testing.T) {
	pool := startPostgres(t)
	r := newRepos(pool)
	ctx := context.Background()
	boom := errors.New("boom")

	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := r.orgs.Save(ctx, &domain.Organization{Name: "Initech", CreatedAt: time.Now()}); err != nil {
			return err
		}
		return r.tx.WithinTx(ctx, func(ctx context.Context) error { return boom })
	})
	require.ErrorIs(t, err, boom)

	exists, err := r.orgs.ExistsByName(ctx, "Initech")
	require.NoError(t, err)
	assert.False(t, exists)

	err = r.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		return r.orgs.Save(ctx, &domain.Organization{Name: "Initech", CreatedAt: time.Now()})
	})
	require.Error(t, err)
}
