package config

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig holds file and environment driven configuration values.
// Secrets have no defaults and must come from config/config.json or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	TokenTTLHours      int
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Database: DBDriver is mysql, postgres or memory
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis response cache and token blacklist; disabled when RedisHost is empty
	RedisHost       string
	RedisPort       int
	RedisDB         int
	RedisPassword   string
	CacheTTLSeconds int
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Image uploads: StorageDriver is local, s3 or none
	StorageDriver    string
	StorageDir       string
	StorageURLPrefix string
	S3Bucket         string
	S3Region         string
	S3AccessKey      string
	S3SecretKey      string
}

// settings maps viper keys (grouped as in config.json) to environment variables.
var settings = []struct {
	key string
	env string
	def interface{}
}{
	{"app.port", "APP_PORT", "8080"},
	{"app.jwtsecret", "JWT_SECRET", nil},
	{"app.tokenttlhours", "TOKEN_TTL_HOURS", 72},
	{"app.ratelimitperminute", "RATE_LIMIT_PER_MINUTE", 60},
	{"app.allowedorigins", "CORS_ALLOWED_ORIGINS", []string{"*"}},
	{"gin.mode", "GIN_MODE", "release"},
	{"gin.logpath", "GIN_PATH", ""},
	{"database.driver", "DB_DRIVER", "mysql"},
	{"database.uri", "DATABASE_URI", ""},
	{"database.host", "DB_HOST", "127.0.0.1"},
	{"database.port", "DB_PORT", ""},
	{"database.user", "DB_USER", "root"},
	{"database.password", "DB_PASSWORD", ""},
	{"database.name", "DB_NAME", "social_media"},
	{"redis.host", "REDIS_HOST", ""},
	{"redis.port", "REDIS_PORT", 6379},
	{"redis.db", "REDIS_DB", 0},
	{"redis.password", "REDIS_PASSWORD", ""},
	{"redis.cachettlseconds", "CACHE_TTL_SECONDS", 3600},
	{"log.level", "LOG_LEVEL", "info"},
	{"log.path", "LOG_PATH", ""},
	{"log.maxsizemb", "LOG_MAX_SIZE_MB", 100},
	{"log.maxbackups", "LOG_MAX_BACKUPS", 3},
	{"log.maxagedays", "LOG_MAX_AGE_DAYS", 7},
	{"log.compress", "LOG_COMPRESS", false},
	{"storage.driver", "STORAGE_DRIVER", "local"},
	{"storage.dir", "STORAGE_DIR", "./static"},
	{"storage.urlprefix", "STORAGE_URL_PREFIX", "/static"},
	{"storage.s3bucket", "S3_BUCKET", ""},
	{"storage.s3region", "S3_REGION", ""},
	{"storage.s3accesskey", "S3_ACCESS_KEY_ID", ""},
	{"storage.s3secretkey", "S3_SECRET_ACCESS_KEY", ""},
}

var cfg AppConfig
var loaded bool

// Load reads configuration once during boot and exits when it is unusable.
func Load() AppConfig {
	if loaded {
		return cfg
	}
	c, err := Read("config")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Read builds an AppConfig from dir/config.json (optional), defaults and
// environment overrides, in increasing order of precedence.
func Read(dir string) (AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dir)
	for _, s := range settings {
		if s.def != nil {
			v.SetDefault(s.key, s.def)
		}
		_ = v.BindEnv(s.key, s.env)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, err
		}
	}

	c := AppConfig{
		AppPort:            v.GetString("app.port"),
		JWTSecret:          v.GetString("app.jwtsecret"),
		TokenTTLHours:      v.GetInt("app.tokenttlhours"),
		RateLimitPerMinute: v.GetInt("app.ratelimitperminute"),
		AllowedOrigins:     readList(v, "app.allowedorigins"),
		GinMode:            v.GetString("gin.mode"),
		GinPath:            v.GetString("gin.logpath"),
		DBDriver:           strings.ToLower(v.GetString("database.driver")),
		DatabaseURI:        v.GetString("database.uri"),
		DBHost:             v.GetString("database.host"),
		DBPort:             v.GetString("database.port"),
		DBUser:             v.GetString("database.user"),
		DBPassword:         v.GetString("database.password"),
		DBName:             v.GetString("database.name"),
		RedisHost:          v.GetString("redis.host"),
		RedisPort:          v.GetInt("redis.port"),
		RedisDB:            v.GetInt("redis.db"),
		RedisPassword:      v.GetString("redis.password"),
		CacheTTLSeconds:    v.GetInt("redis.cachettlseconds"),
		LogLevel:           v.GetString("log.level"),
		LogPath:            v.GetString("log.path"),
		LogMaxSizeMB:       v.GetInt("log.maxsizemb"),
		LogMaxBackups:      v.GetInt("log.maxbackups"),
		LogMaxAgeDays:      v.GetInt("log.maxagedays"),
		LogCompress:        v.GetBool("log.compress"),
		StorageDriver:      strings.ToLower(v.GetString("storage.driver")),
		StorageDir:         v.GetString("storage.dir"),
		StorageURLPrefix:   v.GetString("storage.urlprefix"),
		S3Bucket:           v.GetString("storage.s3bucket"),
		S3Region:           v.GetString("storage.s3region"),
		S3AccessKey:        v.GetString("storage.s3accesskey"),
		S3SecretKey:        v.GetString("storage.s3secretkey"),
	}
	if c.DBPort == "" {
		c.DBPort = defaultPort(c.DBDriver)
	}

	if c.JWTSecret == "" {
		return AppConfig{}, errors.New("JWT_SECRET must be set")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "memory":
	default:
		return AppConfig{}, errors.New("unsupported DB_DRIVER " + c.DBDriver)
	}
	return c, nil
}

// readList accepts both JSON arrays and comma separated environment values.
func readList(v *viper.Viper, key string) []string {
	items := []string{}
	for _, raw := range v.GetStringSlice(key) {
		for _, item := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	}
	return items
}

func defaultPort(driver string) string {
	if driver == "postgres" {
		return "5432"
	}
	return "3306"
}
