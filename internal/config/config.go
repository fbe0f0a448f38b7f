package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Pipeline *pipelineConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"sqlite"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"learner.db"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string `envconfig:"LEARNER_ADDRESS" default:":8080"`
	MetricsAddress string `envconfig:"LEARNER_METRICS_ADDRESS" default:":8081"`
	BaseUrl        string `envconfig:"LEARNER_BASE_URL" default:"http://localhost:8080"`
	DataDir        string `envconfig:"LEARNER_DATA_DIR" default:"./data"`
	LogLevel       string `envconfig:"LEARNER_LOG_LEVEL" default:"info"`
}

type pipelineConfig struct {
	// URL of the external document processing service (convert, chunk,
	// vectorize, search).
	URL string `envconfig:"LEARNER_PIPELINE_URL" default:"http://localhost:8000"`
	// ProbeTimeout bounds the liveness probe; a timeout counts as
	// unreachable.
	ProbeTimeout time.Duration `envconfig:"LEARNER_PIPELINE_PROBE_TIMEOUT" default:"3s"`
	// StageTimeout bounds each stage call. Document conversion is heavy,
	// keep this generous.
	StageTimeout time.Duration `envconfig:"LEARNER_PIPELINE_STAGE_TIMEOUT" default:"15m"`
}

func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewDefault returns the configuration with every value at its default,
// ignoring the environment. Used by tests.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{Type: "sqlite", Name: ":memory:"},
		Service:  &svcConfig{Address: ":8080", MetricsAddress: ":8081", DataDir: "./data", LogLevel: "info"},
		Pipeline: &pipelineConfig{URL: "http://localhost:8000", ProbeTimeout: 3 * time.Second, StageTimeout: 15 * time.Minute},
	}
}
