package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	JWTSecret            string
	JWTExpirationMinutes int
	Database             DatabaseConfig

	// ClinicTimezone is the single canonical operating timezone every
	// "is it within working hours now" check is evaluated in.
	ClinicTimezone string

	// Booking slot granularity and sweep windows, all in minutes.
	SlotIntervalMinutes   int
	ReminderLeadMinutes   int
	ReminderWindowMinutes int
	ArrivalWindowMinutes  int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "medconnect"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	jwtExpMinutes, err := getEnvInt("JWT_EXPIRATION_MINUTES", 60)
	if err != nil {
		return nil, err
	}

	slotInterval, err := getEnvInt("SLOT_INTERVAL_MINUTES", 30)
	if err != nil {
		return nil, err
	}

	reminderLead, err := getEnvInt("REMINDER_LEAD_MINUTES", 15)
	if err != nil {
		return nil, err
	}

	reminderWindow, err := getEnvInt("REMINDER_WINDOW_MINUTES", 5)
	if err != nil {
		return nil, err
	}

	arrivalWindow, err := getEnvInt("ARRIVAL_WINDOW_MINUTES", 5)
	if err != nil {
		return nil, err
	}

	// Return complete configuration
	return &Config{
		Port:                  getEnv("PORT", "3001"),
		Origin:                getEnv("ORIGIN", "http://localhost:4200"),
		Environment:           getEnv("APP_ENV", "development"),
		JWTSecret:             getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes:  jwtExpMinutes,
		Database:              dbConfig,
		ClinicTimezone:        getEnv("CLINIC_TIMEZONE", "Asia/Kolkata"),
		SlotIntervalMinutes:   slotInterval,
		ReminderLeadMinutes:   reminderLead,
		ReminderWindowMinutes: reminderWindow,
		ArrivalWindowMinutes:  arrivalWindow,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
