// Package config loads the service configuration: process settings from the
// environment and everything else from config.yaml.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Namespace prefixes the environment variables read into Settings,
// e.g. VENDOR_WEB_HOST.
const Namespace = "VENDOR"

// Settings are the process level knobs.
type Settings struct {
	Web struct {
		Host            string        `conf:"default:0.0.0.0:8080"`
		ReadTimeout     time.Duration `conf:"default:15s"`
		WriteTimeout    time.Duration `conf:"default:60s"`
		ShutdownTimeout time.Duration `conf:"default:10s"`
	}
	ConfigFile string `conf:"default:config.yaml"`
	LogLevel   string `conf:"default:info"`
	LogPretty  bool   `conf:"default:false"`
}

func NewSettings() (Settings, error) {
	var s Settings
	if err := conf.Parse(nil, Namespace, &s); err != nil {
		return Settings{}, errors.Wrap(err, "parsing settings")
	}
	return s, nil
}

type Database struct {
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	Name         string `yaml:"name"`
	DisableTLS   bool   `yaml:"disable_tls"`
	Debug        bool   `yaml:"debug"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type Redis struct {
	URL string `yaml:"url"`
}

type JWT struct {
	Key        string        `yaml:"key"`
	AccessTTL  time.Duration `yaml:"access_ttl"`
	RefreshTTL time.Duration `yaml:"refresh_ttl"`
}

type Cloudinary struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

const (
	StorageLocal      = "local"
	StorageCloudinary = "cloudinary"
)

type Storage struct {
	Driver     string     `yaml:"driver"`
	MediaDir   string     `yaml:"media_dir"`
	BaseURL    string     `yaml:"base_url"`
	Cloudinary Cloudinary `yaml:"cloudinary"`
}

type Geofence struct {
	ThresholdMeters float64 `yaml:"threshold_meters"`
}

type Config struct {
	Database       Database `yaml:"database"`
	Redis          Redis    `yaml:"redis"`
	JWT            JWT      `yaml:"jwt"`
	Storage        Storage  `yaml:"storage"`
	Geofence       Geofence `yaml:"geofence"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func NewConfig(path string) (*Config, error) {
	var c Config

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	if err := yaml.Unmarshal(yamlFile, &c); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	if c.Database.User == "" || c.Database.Host == "" || c.Database.Name == "" {
		return nil, errors.New("missing required database configuration")
	}
	if c.JWT.Key == "" {
		return nil, errors.New("missing jwt key")
	}

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = StorageLocal
	case StorageLocal:
	case StorageCloudinary:
		cl := c.Storage.Cloudinary
		if cl.CloudName == "" || cl.APIKey == "" || cl.APISecret == "" {
			return nil, errors.New("missing cloudinary credentials")
		}
	default:
		return nil, errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.MediaDir == "" {
		c.Storage.MediaDir = "./media"
	}

	return &c, nil
}
