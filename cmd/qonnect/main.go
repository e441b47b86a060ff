package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/account"
	"github.com/petim7277/Qonnect-sub000/internal/application/bug"
	"github.com/petim7277/Qonnect-sub000/internal/application/organization"
	"github.com/petim7277/Qonnect-sub000/internal/application/otp"
	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/application/project"
	"github.com/petim7277/Qonnect-sub000/internal/application/task"
	"github.com/petim7277/Qonnect-sub000/internal/config"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	infraauth "github.com/petim7277/Qonnect-sub000/internal/infrastructure/auth"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/email"
	httprouter "github.com/petim7277/Qonnect-sub000/internal/infrastructure/http"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/http/handlers"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/http/middleware"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/identity"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/lockout"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/persistence/postgres"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/queue"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/revocation"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/security"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/webhook"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("ensure schema")
	}

	var redisClient *redis.Client
	var redisOpt *redis.Options
	if cfg.Redis.URL != "" {
		redisOpt, err = redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(redisOpt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	checks := map[string]handlers.Pinger{"postgres": handlers.PingFunc(pool.Ping)}
	if redisClient != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}

	tx := postgres.NewTransactor(pool)
	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	bugRepo := postgres.NewBugRepository(pool)
	otpRepo := postgres.NewOtpRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)

	// Delivery backends. With Redis both go through asynq and the worker calls these.
	var deliverMail ports.EmailSender = email.NewLogSender(log)
	if cfg.SMTP.Host != "" {
		deliverMail = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		}, log)
	}
	var deliverAudit ports.AuditEmitter = webhook.NewNoopEmitter()
	if cfg.Webhook.URL != "" {
		deliverAudit = webhook.NewHTTPEmitter(cfg.Webhook.URL, webhook.WithSecret(cfg.Webhook.Secret))
	}

	mailer, emitter := deliverMail, deliverAudit
	var revoker ports.SessionRevoker = revocation.NewMemoryStore()
	var loginLockout ports.LoginLockoutStore = lockout.NewMemoryStore(cfg.Lockout.MaxAttempts, cfg.Lockout.Cooldown)
	var worker *queue.Worker
	if redisClient != nil {
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Username: redisOpt.Username, Password: redisOpt.Password, DB: redisOpt.DB}
		enqueuer := queue.NewAsynqEnqueuer(asynqOpt, log)
		defer enqueuer.Close()
		mailer, emitter = enqueuer, enqueuer
		worker = queue.NewWorker(asynqOpt, cfg.Worker.Concurrency, deliverMail, deliverAudit, log)
		go func() {
			if err := worker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
		revoker = revocation.NewRedisStore(redisClient)
		loginLockout = lockout.NewRedisStore(redisClient, cfg.Lockout.MaxAttempts, cfg.Lockout.Cooldown, log)
	} else {
		log.Warn().Msg("REDIS_URL not set; revocation, lockout and rate limits are per instance and email is sent inline")
	}

	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  16,
		KeyLength:   32,
	})

	privateKey, ephemeral, err := infraauth.LoadSigningKey(cfg.JWT.PrivateKeyPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load JWT private key")
	}
	if ephemeral {
		log.Warn().Msg("JWT_PRIVATE_KEY_PATH not set; using an ephemeral key, sessions end on restart")
	}
	issuer := infraauth.NewTokenIssuer(privateKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	idp := identity.NewLocalProvider(accountRepo, hasher, issuer, revoker, cfg.JWT.AccessExpiry, log)

	otps := otp.NewService(otpRepo, mailer, otp.Config{Expiry: map[domain.OtpType]time.Duration{
		domain.OtpVerification:  cfg.OTP.VerificationExpiry,
		domain.OtpResetPassword: cfg.OTP.ResetPasswordExpiry,
	}})
	sessions := account.NewSessions(idp)
	readTasks := task.NewReadTasks(tx, projectRepo, taskRepo)
	listBugs := bug.NewListBugs(tx, bugRepo, taskRepo, projectRepo)
	auditor := handlers.NewAuditor(log, emitter)

	authHandler := handlers.NewAuthHandler(handlers.AuthUseCases{
		RegisterAdmin:  organization.NewRegisterAdmin(tx, userRepo, orgRepo, idp, hasher, otps),
		SignUp:         account.NewSignUp(tx, userRepo, idp, hasher, otps),
		Verification:   account.NewVerification(tx, userRepo, idp, otps),
		Login:          account.NewLogin(idp, userRepo, loginLockout),
		Passwords:      account.NewPasswords(tx, userRepo, idp, hasher, otps),
		Sessions:       sessions,
		CompleteInvite: organization.NewCompleteInvite(tx, userRepo, idp, hasher, otps),
	}, auditor, log)
	orgsHandler := handlers.NewOrganizationsHandler(
		organization.NewInviteMember(tx, userRepo, orgRepo, mailer, cfg.Invite.BaseURL),
		organization.NewMembers(tx, userRepo, orgRepo, idp),
		auditor, log)
	projectsHandler := handlers.NewProjectsHandler(
		project.NewCreateProject(tx, projectRepo),
		project.NewProjects(tx, projectRepo),
		auditor, log)
	tasksHandler := handlers.NewTasksHandler(
		task.NewCreateTask(tx, userRepo, projectRepo, taskRepo),
		readTasks,
		task.NewManageTask(tx, userRepo, projectRepo, taskRepo),
		auditor, log)
	bugsHandler := handlers.NewBugsHandler(handlers.BugUseCases{
		Report:         bug.NewReportBug(tx, bugRepo, taskRepo, projectRepo),
		Get:            bug.NewGetBug(tx, bugRepo, taskRepo, projectRepo),
		UpdateDetails:  bug.NewUpdateBugDetails(tx, bugRepo, taskRepo, projectRepo),
		UpdateStatus:   bug.NewUpdateBugStatus(tx, bugRepo, taskRepo, projectRepo),
		UpdateSeverity: bug.NewUpdateBugSeverity(tx, bugRepo, taskRepo, projectRepo),
		List:           listBugs,
		Assign:         bug.NewAssignBug(tx, bugRepo, userRepo, projectRepo),
		Delete:         bug.NewDeleteBug(tx, bugRepo, projectRepo),
	}, auditor, log)
	usersHandler := handlers.NewUsersHandler(sessions, listBugs, readTasks, log)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	userLimit, err := middleware.NewUserRateLimiter(cfg.RateLimit.RatePerUser, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("create user rate limiter")
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:          authHandler,
		HealthHandler:        handlers.NewHealthHandler(checks),
		UsersHandler:         usersHandler,
		OrganizationsHandler: orgsHandler,
		ProjectsHandler:      projectsHandler,
		TasksHandler:         tasksHandler,
		BugsHandler:          bugsHandler,
		RequireJWT:           middleware.NewAuthenticator(idp, userRepo, log).Handler,
		Log:                  log,
		Secure:               middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment)),
		CORS:                 middleware.CORS(cfg.CORS.AllowedOrigins),
		IPRateLimit:          ipLimit,
		UserRateLimit:        userLimit,
		Metrics:              true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if worker != nil {
		worker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
