package main

import (
	"io/ioutil"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type config struct {
	Http struct {
		Address string `yaml:"address"`
	} `yaml:"http"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"database"`

	// Settings service providing the locale, the static locale is used when
	// no url is configured.
	Settings struct {
		Url    string `yaml:"url"`
		ApiKey string `yaml:"apiKey"`
	} `yaml:"settings"`

	Locale struct {
		LanguageTag string `yaml:"locale"`
		TimeZoneId  string `yaml:"timezone"`
	} `yaml:"locale"`

	Barcode struct {
		Markers []string `yaml:"markers"`
	} `yaml:"barcode"`

	Workers int `yaml:"workers"`

	Mailgun struct {
		Domain  string `yaml:"domain"`
		ApiKey  string `yaml:"apiKey"`
		From    string `yaml:"from"`
		ReplyTo string `yaml:"replyTo"`
	} `yaml:"mailgun"`

	Ses struct {
		Region string `yaml:"region"`
		From   string `yaml:"from"`
	} `yaml:"ses"`

	Elks struct {
		From     string `yaml:"from"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"elks"`
}

func defaultConfig() *config {
	cfg := &config{}

	cfg.Http.Address = ":8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Workers = 5

	return cfg
}

// loadConfig reads the yaml file at path, expanding ${VAR} references, and
// applies the DB_* environment overrides on top. An empty path only applies
// defaults and environment.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}

		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *config) applyEnv() error {
	overrides := map[string]*string{
		"DB_HOST":     &cfg.Database.Host,
		"DB_USERNAME": &cfg.Database.Username,
		"DB_PASSWORD": &cfg.Database.Password,
		"DB_DATABASE": &cfg.Database.Database,
	}

	for name, target := range overrides {
		if value, ok := os.LookupEnv(name); ok {
			*target = value
		}
	}

	if value, ok := os.LookupEnv("DB_PORT"); ok {
		port, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "invalid DB_PORT %q", value)
		}

		cfg.Database.Port = port
	}

	return nil
}

func (cfg *config) logger() (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}
	logger.SetLevel(level)

	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger, nil
}
