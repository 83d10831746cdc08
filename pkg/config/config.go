package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Log     LogConfig
	Storage StorageConfig
	Metrics MetricsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig locates the three record files.
type StorageConfig struct {
	DataDir        string
	StudentsFile   string
	TeachersFile   string
	ClassroomsFile string
	SaveOnExit     bool
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		DataDir:        v.GetString("DATA_DIR"),
		StudentsFile:   v.GetString("STUDENTS_FILE"),
		TeachersFile:   v.GetString("TEACHERS_FILE"),
		ClassroomsFile: v.GetString("CLASSROOMS_FILE"),
		SaveOnExit:     v.GetBool("SAVE_ON_EXIT"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DATA_DIR", ".")
	v.SetDefault("STUDENTS_FILE", "students.txt")
	v.SetDefault("TEACHERS_FILE", "teachers.txt")
	v.SetDefault("CLASSROOMS_FILE", "classrooms.txt")
	v.SetDefault("SAVE_ON_EXIT", true)

	v.SetDefault("ENABLE_METRICS", true)
}

// DefaultStorage returns the storage settings used when nothing is configured.
func DefaultStorage() StorageConfig {
	v := viper.New()
	setDefaults(v)
	return fromViper(v).Storage
}

// isMissingFile covers viper returning the raw fs error for an explicit
// SetConfigFile path that does not exist.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
