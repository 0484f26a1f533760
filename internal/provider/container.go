package provider

import (
	"fmt"
	"strings"

	"github.com/taxepay/internal/authz"
	"github.com/taxepay/internal/cache"
	"github.com/taxepay/internal/config"
	"github.com/taxepay/internal/logger"
	"github.com/taxepay/internal/models"
	"github.com/taxepay/internal/queue"
	"github.com/taxepay/internal/repository"
	"github.com/taxepay/internal/service"
)

// Container dependency injection container
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo       repository.UserRepository
	OperatorRepo   repository.OperatorRepository
	TaxServiceRepo repository.TaxServiceRepository
	RequestRepo    repository.PaymentRequestRepository
	PaymentRepo    repository.PaymentRepository
	AuditLogRepo   repository.AuditLogRepository

	// Services
	AuthzService   *authz.Service
	AuthService    *service.AuthService
	AuditService   *service.AuditService
	PaymentService *service.PaymentService
}

// NewContainer wires the application graph
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.OperatorRepo = repository.NewOperatorRepository(db)
	c.TaxServiceRepo = repository.NewTaxServiceRepository(db)
	c.RequestRepo = repository.NewPaymentRequestRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}
	if err := c.syncUserRoleBindings(); err != nil {
		logger.Errorw("provider_sync_user_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.AuditService = service.NewAuditService(c.AuditLogRepo, c.QueueClient)
	c.PaymentService = service.NewPaymentService(
		c.Config,
		c.RequestRepo,
		c.PaymentRepo,
		c.OperatorRepo,
		c.AuditService,
		c.QueueClient,
	)
}

// syncUserRoleBindings mirrors users.role into the casbin grouping so that
// accounts created before the enforcer existed are enforceable.
func (c *Container) syncUserRoleBindings() error {
	users, err := c.UserRepo.List()
	if err != nil {
		return fmt.Errorf("list users failed: %w", err)
	}
	for _, user := range users {
		role := strings.TrimSpace(user.Role)
		if role == "" {
			continue
		}
		if err := c.AuthzService.SetUserRoles(user.ID, []string{role}); err != nil {
			return fmt.Errorf("bind user %d to role %q failed: %w", user.ID, role, err)
		}
	}
	return nil
}
