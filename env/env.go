package env

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Paging    PagingConfig
	Pingback  PingbackConfig
	LogLevel  string
	LogFormat string

	// IdentityMode selects the identity provider, see identity.NewProvider.
	IdentityMode string
}

type ServerConfig struct {
	Port int
}

type MongoDBConfig struct {
	URI string
	DB  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	CacheTTL         time.Duration
	SettingsCacheTTL time.Duration
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type PagingConfig struct {
	GalleryPageSize  int
	CommentsPageSize int
	LatestComments   int

	// CountCap is the most documents a listing will count. Page totals beyond it are approximate.
	CountCap int
}

type PingbackConfig struct {
	Retries int
	Timeout time.Duration
}

// Load reads the environment, after loading a .env file when one exists.
func Load(files ...string) (*Env, error) {

	if err := godotenv.Load(files...); err != nil {
		slog.Debug("No .env file loaded", slog.Any("error", err))
	}

	serverPort, err := getEnvAsInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}

	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	countCap, err := getEnvAsInt("COUNT_CAP", 1000)
	if err != nil {
		return nil, err
	}

	galleryPageSize, err := getEnvAsInt("GALLERY_PAGE_SIZE", 30)
	if err != nil {
		return nil, err
	}

	commentsPageSize, err := getEnvAsInt("COMMENTS_PAGE_SIZE", 5)
	if err != nil {
		return nil, err
	}

	latestComments, err := getEnvAsInt("LATEST_COMMENTS", 3)
	if err != nil {
		return nil, err
	}

	pingbackRetries, err := getEnvAsInt("PINGBACK_RETRIES", 5)
	if err != nil {
		return nil, err
	}

	return &Env{
		Server: ServerConfig{
			Port: serverPort,
		},
		MongoDB: MongoDBConfig{
			URI: getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DB:  getEnv("MONGODB_NAME", "sketchpatch"),
		},
		Redis: RedisConfig{
			Addr:             getEnv("REDIS_ADDR", ""),
			Password:         getEnv("REDIS_PASSWORD", ""),
			DB:               redisDB,
			CacheTTL:         getEnvAsDuration("CACHE_TTL", time.Hour),
			SettingsCacheTTL: getEnvAsDuration("SETTINGS_CACHE_TTL", 10*time.Hour),
		},
		Paging: PagingConfig{
			GalleryPageSize:  galleryPageSize,
			CommentsPageSize: commentsPageSize,
			LatestComments:   latestComments,
			CountCap:         countCap,
		},
		Pingback: PingbackConfig{
			Retries: pingbackRetries,
			Timeout: getEnvAsDuration("PINGBACK_TIMEOUT", 10*time.Second),
		},
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		IdentityMode: getEnv("IDENTITY_MODE", "header"),
	}, nil
}

func getEnv(key, defaultValue string) string {

	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {

	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}

	return strconv.Atoi(value)
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {

	if value, exists := os.LookupEnv(key); exists {

		if d, err := time.ParseDuration(value); err == nil {
			return d
		}

		slog.Warn("Invalid duration, using default", slog.String("key", key), slog.Duration("default", defaultValue))
	}

	return defaultValue
}
