package cmd

import (
	"errors"
	"fmt"

	"marketplace/internal/adapters/out/codec/record"
	"marketplace/internal/adapters/out/codec/tree"
	"marketplace/internal/adapters/out/filestore"
	postgressnapshots "marketplace/internal/adapters/out/postgres/snapshotrepo"
	"marketplace/internal/adapters/out/rabbitmq"
	redissnapshots "marketplace/internal/adapters/out/redis/snapshotrepo"
	"marketplace/internal/core/application/store"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg       Config
	logger    *zap.Logger
	store     *store.Store
	repo      ports.SnapshotRepository
	publisher ports.OrderEventPublisher
	closers   []func() error
}

// NewCompositionRoot connects the configured snapshot backend and, when
// AMQP_URL is set, the event broker.
func NewCompositionRoot(cfg Config, logger *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{cfg: cfg, logger: logger}

	codec, err := NewCodec(cfg.SnapshotFormat)
	if err != nil {
		return nil, err
	}

	if err := c.connectSnapshotRepository(codec); err != nil {
		_ = c.Close()
		return nil, err
	}

	storeOpts := []store.Option{store.WithLogger(logger)}
	if cfg.AMQPURL != "" {
		conn, ch, err := rabbitmq.SetupConn(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.closers = append(c.closers, ch.Close, conn.Close)
		c.publisher = rabbitmq.NewPublisher(ch, cfg.AMQPExchange, rabbitmq.WithLogger(logger))
		storeOpts = append(storeOpts, store.WithOutbox())
	}

	c.store = store.New(storeOpts...)
	return c, nil
}

// NewCodec returns the snapshot codec named format.
func NewCodec(format string) (ports.Codec, error) {
	switch format {
	case record.Name:
		return record.NewCodec(), nil
	case tree.Name:
		return tree.NewCodec(), nil
	}
	return nil, fmt.Errorf("SNAPSHOT_FORMAT %q is not one of %s, %s", format, record.Name, tree.Name)
}

func (c *CompositionRoot) connectSnapshotRepository(codec ports.Codec) error {
	switch c.cfg.SnapshotBackend {
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.cfg.RedisAddr,
			Password: c.cfg.RedisPassword,
			DB:       c.cfg.RedisDB,
		})
		c.closers = append(c.closers, client.Close)
		c.repo = redissnapshots.NewRepository(client, c.cfg.RedisKey, codec)

	case BackendPostgres:
		db, err := gorm.Open(postgresdriver.Open(c.cfg.PostgresDSN()), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		c.closers = append(c.closers, sqlDB.Close)
		if err := postgressnapshots.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate snapshot tables: %w", err)
		}
		c.repo = postgressnapshots.NewGormSnapshotRepository(db, postgressnapshots.WithRetention(c.cfg.SnapshotRetention))

	default:
		c.repo = filestore.NewRepository(c.cfg.SnapshotPath, codec)
	}
	return nil
}

func (c *CompositionRoot) Store() *store.Store {
	return c.store
}

func (c *CompositionRoot) SnapshotRepository() ports.SnapshotRepository {
	return c.repo
}

// CreateRelayJob returns nil when no broker is configured.
func (c *CompositionRoot) CreateRelayJob() *jobs.EventRelayJob {
	if c.publisher == nil {
		return nil
	}
	return jobs.NewEventRelayJob(c.store, c.publisher, c.cfg.RelaySchedule, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	all := []jobs.Job{
		jobs.NewOrderDispatchJob(c.store, c.cfg.DispatchSchedule, c.logger),
		jobs.NewSnapshotJob(c.store, c.repo, c.cfg.AutosaveSchedule, c.logger),
	}
	if relay := c.CreateRelayJob(); relay != nil {
		all = append(all, relay)
	}
	return jobs.NewJobManager(all...)
}

// Close releases connections in reverse order of opening.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}
