package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// GetEnvWithDefault returns the value of an environment variable or a default value if not set
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvIntWithDefault returns the value of an environment variable as int or a default value if not set
func GetEnvIntWithDefault(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConnectionFlags are the connection flags shared by commands that talk to a database.
type ConnectionFlags struct {
	Host            string
	Port            int
	DB              string
	User            string
	Password        string
	SSLMode         string
	ApplicationName string
}

// Register adds the connection flags to cmd.
func (f *ConnectionFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Host, "host", "localhost", "Database server host (env: PGHOST)")
	cmd.Flags().IntVar(&f.Port, "port", 5432, "Database server port (env: PGPORT)")
	cmd.Flags().StringVar(&f.DB, "db", "", "Database name (required) (env: PGDATABASE)")
	cmd.Flags().StringVar(&f.User, "user", "", "Database user name (required) (env: PGUSER)")
	cmd.Flags().StringVar(&f.Password, "password", "", "Database password (optional, can also use PGPASSWORD env var)")
	cmd.Flags().StringVar(&f.SSLMode, "sslmode", "prefer", "SSL mode (env: PGSSLMODE)")
	cmd.Flags().StringVar(&f.ApplicationName, "application-name", "pgenum", "Application name for database connection (env: PGAPPNAME)")
}

// PreRunE fills flags that were not set explicitly from the libpq environment
// variables and validates the required ones.
func (f *ConnectionFlags) PreRunE(cmd *cobra.Command, args []string) error {
	strs := []struct {
		flag, env string
		dst       *string
	}{
		{"host", "PGHOST", &f.Host},
		{"db", "PGDATABASE", &f.DB},
		{"user", "PGUSER", &f.User},
		{"password", "PGPASSWORD", &f.Password},
		{"sslmode", "PGSSLMODE", &f.SSLMode},
		{"application-name", "PGAPPNAME", &f.ApplicationName},
	}
	for _, s := range strs {
		if v := GetEnvWithDefault(s.env, ""); v != "" && !cmd.Flags().Changed(s.flag) {
			*s.dst = v
		}
	}
	if port := GetEnvIntWithDefault("PGPORT", 0); port != 0 && !cmd.Flags().Changed("port") {
		f.Port = port
	}

	if f.DB == "" {
		return fmt.Errorf("database name is required (use --db flag or PGDATABASE environment variable)")
	}
	if f.User == "" {
		return fmt.Errorf("database user is required (use --user flag or PGUSER environment variable)")
	}
	return nil
}

// Config converts the flags into a ConnectionConfig.
func (f *ConnectionFlags) Config() *ConnectionConfig {
	return &ConnectionConfig{
		Host:            f.Host,
		Port:            f.Port,
		Database:        f.DB,
		User:            f.User,
		Password:        f.Password,
		SSLMode:         f.SSLMode,
		ApplicationName: f.ApplicationName,
	}
}
