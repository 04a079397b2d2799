package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Optionale JSON-Dateien für Gewichtungs- und Standards-Tabellen.
	// Leer = kompilierte Default-Tabellen.
	WeightTablePath string `envconfig:"WEIGHT_TABLE_PATH"`
	StandardsPath   string `envconfig:"STANDARDS_PATH"`

	// Capability flag for the collaboration schema. When false, the
	// recommender and snapshot features return empty results instead of
	// touching tables that may not be provisioned yet.
	CollabEnabled bool `envconfig:"COLLAB_ENABLED" default:"true"`

	SnapshotCronSchedule string `envconfig:"SNAPSHOT_CRON_SCHEDULE" default:"0 3 * * *"`
	SnapshotOwnerDays    int    `envconfig:"SNAPSHOT_OWNER_DAYS" default:"30"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
