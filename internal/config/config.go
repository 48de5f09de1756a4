package config

import (
	"flag"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full runtime configuration. Every field reads from the
// environment and optionally from a YAML file named by --config or
// CONFIG_PATH; the zero setup (no file, no variables) yields a working
// local instance on an embedded SQLite database.
type Config struct {
	Env       string          `yaml:"env" env:"APP_ENV" env-default:"local"`
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Nominatim NominatimConfig `yaml:"nominatim"`
	Overpass  OverpassConfig  `yaml:"overpass"`
	Routing   RoutingConfig   `yaml:"routing"`
	Redis     RedisConfig     `yaml:"redis"`
	Meals     MealsConfig     `yaml:"meals"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// HTTPConfig shapes the server socket. The write timeout is generous
// because planning from bare names geocodes every stop against a rate
// limited upstream before the response can start.
type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            int           `yaml:"port" env:"PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DatabaseConfig selects the backing store: a PostgreSQL URL when set,
// otherwise the embedded SQLite file. SeedPath points at the scenario
// fixtures loaded at startup; empty disables seeding.
type DatabaseConfig struct {
	URL        string `yaml:"url" env:"DATABASE_URL"`
	SQLitePath string `yaml:"sqlite_path" env:"DB_PATH" env-default:"data/itineraries.db"`
	SeedPath   string `yaml:"seed_path" env:"SEED_PATH" env-default:"db/scenarios.json"`
}

type NominatimConfig struct {
	BaseURL   string        `yaml:"base_url" env:"NOMINATIM_BASE_URL" env-default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `yaml:"user_agent" env:"NOMINATIM_USER_AGENT" env-default:"itinerary-builder/1.0"`
	Timeout   time.Duration `yaml:"timeout" env:"NOMINATIM_TIMEOUT" env-default:"10s"`
}

type OverpassConfig struct {
	Instances []string      `yaml:"instances" env:"OVERPASS_INSTANCES" env-separator:"," env-default:"https://overpass-api.de/api/interpreter,https://overpass.kumi.systems/api/interpreter"`
	Timeout   time.Duration `yaml:"timeout" env:"OVERPASS_TIMEOUT" env-default:"6s"`
}

// RoutingConfig targets openrouteservice. An empty APIKey switches the
// service to straight-line travel estimates instead of matrix calls.
type RoutingConfig struct {
	BaseURL string        `yaml:"base_url" env:"ORS_BASE_URL" env-default:"https://api.openrouteservice.org"`
	APIKey  string        `yaml:"api_key" env:"ORS_API_KEY"`
	Profile string        `yaml:"profile" env:"ORS_PROFILE" env-default:"driving-car"`
	Timeout time.Duration `yaml:"timeout" env:"ORS_TIMEOUT" env-default:"15s"`
}

// RedisConfig enables the restaurant lookup cache when Addr is set; empty
// leaves lookups uncached.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"12h"`
}

// MealsConfig overrides the meal insertion defaults that deployments
// actually vary: lunch length and how far away a restaurant may be.
type MealsConfig struct {
	LunchDuration          int `yaml:"lunch_duration" env:"LUNCH_DURATION" env-default:"60"`
	RestaurantRadiusMeters int `yaml:"restaurant_radius_m" env:"RESTAURANT_RADIUS_M" env-default:"2000"`
}

// MustLoad reads configuration and panics on failure. A config file is
// optional; without one everything comes from the environment and the
// env-default tags.
func MustLoad() *Config {
	if path := fetchConfigPath(); path != "" {
		return MustLoadByPath(path)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("cannot read config from environment: " + err.Error())
	}
	return &cfg
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read the config: " + err.Error())
	}
	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	return res
}
