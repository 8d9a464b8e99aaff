package core

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string
		Debug        bool
		AppName      string
		Build        string
		RollbarToken string

		Database DatabaseConfig
		Log      LogConfig
		Term     TermConfig
		UI       UIConfig
	}

	DatabaseConfig struct {
		Engine       string `validate:"oneof=mysql postgres sqlite3"`
		Host         string
		Port         int `validate:"min=1,max=65535"`
		User         string
		Password     string
		Name         string `validate:"required"`
		DisableTLS   bool
		PingAttempts int `validate:"min=1"`
	}

	LogConfig struct {
		Level  string `validate:"oneof=debug info warn error fatal"`
		Pretty bool
		File   string
	}

	// TermConfig is the academic term the workflows write into.
	TermConfig struct {
		Year     int    `validate:"min=1900,max=9999"`
		Semester string `validate:"oneof=Even Odd"`
	}

	UIConfig struct {
		Pacing      time.Duration
		ClearScreen bool
	}
)

// Address returns the "host:port" of the database server.
func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks the loaded values before anything is opened with them.
func (c *Config) Validate() error {
	if err := Validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

func newViper() (*viper.Viper, string) {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", false)
	conf.SetDefault("appName", "acadmin")
	conf.SetDefault("build", "dev")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("database.engine", "mysql")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 3306)
	conf.SetDefault("database.user", "root")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.name", "academic_inst")
	conf.SetDefault("database.disableTLS", true)
	conf.SetDefault("database.pingAttempts", 5)

	conf.SetDefault("log.level", "warn")
	conf.SetDefault("log.pretty", true)
	conf.SetDefault("log.file", "")

	conf.SetDefault("term.year", 2006)
	conf.SetDefault("term.semester", "Even")

	conf.SetDefault("ui.pacing", 500*time.Millisecond)
	conf.SetDefault("ui.clearScreen", true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		conf.SetDefault("ui.pacing", time.Duration(0))
		conf.SetDefault("ui.clearScreen", false)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return conf, env
}

// LoadConfig reads defaults, the optional dotenv file of the current ENV and
// the environment, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	conf, env := newViper()

	// load .env if it exists (ignore if it does not)
	dir := os.Getenv("CONFIG_DIR")
	if dir == "" {
		dir = "config"
	}
	dotEnvPath := filepath.Join(dir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	var cfg Config
	if err := conf.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}
	cfg.Env = env
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
