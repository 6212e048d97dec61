package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Commercial   CommercialConfig
	SLA          SLAConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PZFRESH_APP_ENV" required:"true"`
	Port         string `envconfig:"PZFRESH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PZFRESH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PZFRESH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PZFRESH_DB_DSN"`
	Driver string `envconfig:"PZFRESH_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PZFRESH_DB_HOST"`
	Port     int    `envconfig:"PZFRESH_DB_PORT" default:"5432"`
	User     string `envconfig:"PZFRESH_DB_USER"`
	Password string `envconfig:"PZFRESH_DB_PASSWORD"`
	Name     string `envconfig:"PZFRESH_DB_NAME"`
	SSLMode  string `envconfig:"PZFRESH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PZFRESH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PZFRESH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PZFRESH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PZFRESH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PZFRESH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PZFRESH_REDIS_ADDR"`
	Password     string        `envconfig:"PZFRESH_REDIS_PASSWORD"`
	DB           int           `envconfig:"PZFRESH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PZFRESH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PZFRESH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PZFRESH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PZFRESH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PZFRESH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PZFRESH_AUTO_MIGRATE" default:"false"`
}

// CommercialConfig seeds the default terms attached to a customer won
// through negotiation.
type CommercialConfig struct {
	DefaultMarkup           string `envconfig:"PZFRESH_DEFAULT_MARKUP" default:"0.12"`
	DefaultPaymentTermsDays int    `envconfig:"PZFRESH_DEFAULT_PAYMENT_TERMS_DAYS" default:"30"`
}

// SLAConfig holds advisory policy windows. They are surfaced as metadata for
// external policy evaluation; no state machine enforces them.
type SLAConfig struct {
	IssueReportWindow   time.Duration `envconfig:"PZFRESH_SLA_ISSUE_REPORT_WINDOW" default:"48h"`
	QuoteResponseWindow time.Duration `envconfig:"PZFRESH_SLA_QUOTE_RESPONSE_WINDOW" default:"72h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
