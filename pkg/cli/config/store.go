package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/repository/badger"
	"github.com/secmon-lab/themis/pkg/repository/firestore"
	"github.com/secmon-lab/themis/pkg/repository/gcs"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/repository/redis"
	"github.com/secmon-lab/themis/pkg/repository/s3"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Store backends
const (
	BackendMemory    = "memory"
	BackendBadger    = "badger"
	BackendFirestore = "firestore"
	BackendRedis     = "redis"
	BackendGCS       = "gcs"
	BackendS3        = "s3"
)

// Store holds CLI flags for the key-value store backend
type Store struct {
	backend string

	badgerPath string

	firestoreProjectID  string
	firestoreDatabaseID string
	firestorePrefix     string

	redisAddr     string
	redisDB       int
	redisPassword string
	redisPrefix   string

	gcsBucket   string
	gcsPrefix   string
	gcsEndpoint string

	s3Endpoint  string
	s3AccessKey string
	s3SecretKey string
	s3Bucket    string
	s3Prefix    string
	s3Insecure  bool
}

// Flags returns CLI flags for store configuration
func (x *Store) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "store-backend",
			Usage:       "Store backend (memory, badger, firestore, redis, gcs, s3)",
			Category:    "Store",
			Value:       BackendBadger,
			Sources:     cli.EnvVars("THEMIS_STORE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "badger-path",
			Usage:       "Directory of the badger database",
			Category:    "Store",
			Value:       ".themis",
			Sources:     cli.EnvVars("THEMIS_BADGER_PATH"),
			Destination: &x.badgerPath,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_FIRESTORE_PROJECT_ID"),
			Destination: &x.firestoreProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_FIRESTORE_DATABASE_ID"),
			Destination: &x.firestoreDatabaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix of the Firestore collection name",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &x.firestorePrefix,
		},
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address host:port (required when using redis backend)",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_REDIS_ADDR"),
			Destination: &x.redisAddr,
		},
		&cli.IntFlag{
			Name:        "redis-db",
			Usage:       "Redis database number",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_REDIS_DB"),
			Destination: &x.redisDB,
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis AUTH password",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_REDIS_PASSWORD"),
			Destination: &x.redisPassword,
		},
		&cli.StringFlag{
			Name:        "redis-key-prefix",
			Usage:       "Prefix of every Redis key",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_REDIS_KEY_PREFIX"),
			Destination: &x.redisPrefix,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket (required when using gcs backend)",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_GCS_BUCKET"),
			Destination: &x.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the Cloud Storage bucket",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_GCS_PREFIX"),
			Destination: &x.gcsPrefix,
		},
		&cli.StringFlag{
			Name:        "gcs-endpoint",
			Usage:       "Cloud Storage endpoint, for emulators",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_GCS_ENDPOINT"),
			Destination: &x.gcsEndpoint,
		},
		&cli.StringFlag{
			Name:        "s3-endpoint",
			Usage:       "S3 compatible endpoint host (required when using s3 backend)",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_S3_ENDPOINT"),
			Destination: &x.s3Endpoint,
		},
		&cli.StringFlag{
			Name:        "s3-access-key",
			Usage:       "S3 access key",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_S3_ACCESS_KEY"),
			Destination: &x.s3AccessKey,
		},
		&cli.StringFlag{
			Name:        "s3-secret-key",
			Usage:       "S3 secret key",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_S3_SECRET_KEY"),
			Destination: &x.s3SecretKey,
		},
		&cli.StringFlag{
			Name:        "s3-bucket",
			Usage:       "S3 bucket",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_S3_BUCKET"),
			Destination: &x.s3Bucket,
		},
		&cli.StringFlag{
			Name:        "s3-prefix",
			Usage:       "Object name prefix in the S3 bucket",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_S3_PREFIX"),
			Destination: &x.s3Prefix,
		},
		&cli.BoolFlag{
			Name:        "s3-insecure",
			Usage:       "Use plain HTTP for the S3 endpoint",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_S3_INSECURE"),
			Destination: &x.s3Insecure,
		},
	}
}

func (x Store) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("backend", x.backend)}
	switch x.backend {
	case BackendBadger:
		attrs = append(attrs, slog.String("path", x.badgerPath))
	case BackendFirestore:
		attrs = append(attrs,
			slog.String("project_id", x.firestoreProjectID),
			slog.String("database_id", x.firestoreDatabaseID))
	case BackendRedis:
		attrs = append(attrs,
			slog.String("addr", x.redisAddr),
			slog.Int("db", x.redisDB),
			slog.Int("password.len", len(x.redisPassword)))
	case BackendGCS:
		attrs = append(attrs, slog.String("bucket", x.gcsBucket), slog.String("prefix", x.gcsPrefix))
	case BackendS3:
		attrs = append(attrs,
			slog.String("endpoint", x.s3Endpoint),
			slog.String("bucket", x.s3Bucket),
			slog.Int("secret-key.len", len(x.s3SecretKey)))
	}
	return slog.GroupValue(attrs...)
}

func required(flag, value string) error {
	if value == "" {
		return goerr.Wrap(ErrMissingArgument, "option is required for the selected backend", goerr.V(FlagKey, flag))
	}
	return nil
}

// Configure opens the selected backend. The caller is responsible for calling Close() on it.
func (x *Store) Configure(ctx context.Context) (interfaces.KVStore, error) {
	logger := logging.Default()

	switch x.backend {
	case BackendMemory:
		logger.Info("Using in-memory store (data is lost on exit)")
		return memory.New(), nil

	case BackendBadger:
		if err := required("badger-path", x.badgerPath); err != nil {
			return nil, err
		}
		store, err := badger.New(x.badgerPath, badger.WithLogger(logger))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open badger store")
		}
		logger.Info("Using badger store", "path", x.badgerPath)
		return store, nil

	case BackendFirestore:
		if err := required("firestore-project-id", x.firestoreProjectID); err != nil {
			return nil, err
		}
		var opts []firestore.Option
		if x.firestorePrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(x.firestorePrefix))
		}
		store, err := firestore.New(ctx, x.firestoreProjectID, x.firestoreDatabaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore store")
		}
		logger.Info("Using Firestore store",
			"project_id", x.firestoreProjectID,
			"database_id", x.firestoreDatabaseID,
		)
		return store, nil

	case BackendRedis:
		if err := required("redis-addr", x.redisAddr); err != nil {
			return nil, err
		}
		var opts []redis.Option
		if x.redisPassword != "" {
			opts = append(opts, redis.WithPassword(x.redisPassword))
		}
		if x.redisPrefix != "" {
			opts = append(opts, redis.WithKeyPrefix(x.redisPrefix))
		}
		store, err := redis.New(ctx, x.redisAddr, x.redisDB, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize redis store")
		}
		logger.Info("Using Redis store", "addr", x.redisAddr, "db", x.redisDB)
		return store, nil

	case BackendGCS:
		if err := required("gcs-bucket", x.gcsBucket); err != nil {
			return nil, err
		}
		var opts []gcs.Option
		if x.gcsPrefix != "" {
			opts = append(opts, gcs.WithPrefix(x.gcsPrefix))
		}
		if x.gcsEndpoint != "" {
			opts = append(opts, gcs.WithEndpoint(x.gcsEndpoint))
		}
		store, err := gcs.New(ctx, x.gcsBucket, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize gcs store")
		}
		logger.Info("Using Cloud Storage store", "bucket", x.gcsBucket, "prefix", x.gcsPrefix)
		return store, nil

	case BackendS3:
		if err := required("s3-endpoint", x.s3Endpoint); err != nil {
			return nil, err
		}
		if err := required("s3-bucket", x.s3Bucket); err != nil {
			return nil, err
		}
		store, err := s3.New(s3.Config{
			Endpoint:  x.s3Endpoint,
			AccessKey: x.s3AccessKey,
			SecretKey: x.s3SecretKey,
			Bucket:    x.s3Bucket,
			Prefix:    x.s3Prefix,
			Secure:    !x.s3Insecure,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize s3 store")
		}
		logger.Info("Using S3 store", "endpoint", x.s3Endpoint, "bucket", x.s3Bucket)
		return store, nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown store backend", goerr.V(BackendKey, x.backend))
	}
}
