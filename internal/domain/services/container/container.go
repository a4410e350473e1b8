package container

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
	"github.com/zYagamiBR/hoa-helper/internal/domain/services"
	"github.com/zYagamiBR/hoa-helper/internal/infrastructure/config"
)

// ResourceNames lists the REST collections in menu order
var ResourceNames = []string{
	"residents", "vendors", "associates", "payments", "invoices",
	"bills", "maintenance", "events", "violations",
}

// ServiceContainer owns every service of the application
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client
	log    *zap.Logger

	resources map[string]services.InterfaceResourceService

	redisService    services.InterfaceRedisService
	transferService services.InterfaceTransferService
	reportService   services.InterfaceReportService

	mu sync.RWMutex
}

// NewServiceContainer creates the container. redisClient may be nil.
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client, log *zap.Logger) *ServiceContainer {
	if db == nil {
		panic("container: database is nil")
	}
	if cfg == nil {
		panic("container: config is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, report cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	c := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
		log:    log,
	}
	c.initializeServices()
	return c
}

func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resources = map[string]services.InterfaceResourceService{
		"residents":   services.NewResourceService[models.Resident](c.db, "residents", "resident", c.log),
		"vendors":     services.NewResourceService[models.Vendor](c.db, "vendors", "vendor", c.log),
		"associates":  services.NewResourceService[models.Associate](c.db, "associates", "associate", c.log),
		"payments":    services.NewResourceService[models.Payment](c.db, "payments", "payment", c.log, "Resident"),
		"invoices":    services.NewResourceService[models.Invoice](c.db, "invoices", "invoice", c.log, "Vendor"),
		"bills":       services.NewResourceService[models.Bill](c.db, "bills", "bill", c.log),
		"maintenance": services.NewResourceService[models.MaintenanceRequest](c.db, "maintenance", "maintenance request", c.log),
		"events":      services.NewResourceService[models.Event](c.db, "events", "event", c.log),
		"violations":  services.NewResourceService[models.Violation](c.db, "violations", "violation", c.log, "Resident"),
	}

	if c.redis != nil {
		c.redisService = services.NewRedisService(c.redis, "hoa:")
	}
	c.transferService = services.NewTransferService(services.DefaultSchemas(), c.lookupResource, c.log)
	c.reportService = services.NewReportService(c.db, c.config.ReportsDir, c.redisService, c.log)
}

// lookupResource is used by services created inside initializeServices, so it must not lock
func (c *ServiceContainer) lookupResource(name string) (services.InterfaceResourceService, bool) {
	svc, ok := c.resources[name]
	return svc, ok
}

// Resource returns the CRUD service of a collection
func (c *ServiceContainer) Resource(name string) (services.InterfaceResourceService, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookupResource(name)
}

// GetService returns a service by name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "redis":
		return c.redisService
	case "transfer":
		return c.transferService
	case "report":
		return c.reportService
	default:
		if svc, ok := c.resources[name]; ok {
			return svc
		}
		return nil
	}
}

// GetDB returns the database handle
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Logger returns the container logger
func (c *ServiceContainer) Logger() *zap.Logger {
	return c.log
}
