package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Supported storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// StorageConfig selects and configures the persistence backend.
// Only the settings of the selected backend are required.
type StorageConfig struct {
	Backend        string `mapstructure:"backend" validate:"required,oneof=memory postgres mongo"`
	PostgresURL    string `mapstructure:"postgres_url" validate:"required_if=Backend postgres,omitempty,url"`
	MongoURI       string `mapstructure:"mongo_uri" validate:"required_if=Backend mongo,omitempty,url"`
	MongoDatabase  string `mapstructure:"mongo_database" validate:"required_if=Backend mongo"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}
