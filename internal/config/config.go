package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Engine   EngineConfig   `mapstructure:"engine"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// EngineConfig contains the numeric policy knobs of the mastery engine.
// Zero values mean "use the built-in default" for each knob.
type EngineConfig struct {
	// WeightsFile is an optional path to the chapter/point-type weight
	// tables. When set, the file is watched and reloaded on change without
	// a redeploy.
	WeightsFile string `mapstructure:"weights_file"`

	// CorrectGain and IncorrectRetention shape the mastery score update.
	CorrectGain        float64 `mapstructure:"correct_gain"        validate:"omitempty,gt=0,lte=1"`
	IncorrectRetention float64 `mapstructure:"incorrect_retention" validate:"omitempty,gt=0,lt=1"`

	// MasteryStreak is how many consecutive correct answers upgrade a point.
	MasteryStreak int `mapstructure:"mastery_streak" validate:"omitempty,gt=0"`

	// QuestionsPerAttempt caps how many questions a diagnostic attempt delivers.
	QuestionsPerAttempt int `mapstructure:"questions_per_attempt" validate:"omitempty,gt=0"`
}
