package config

import (
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Env        string `mapstructure:"ENV"`
	ServerPort string `mapstructure:"PORT"`

	DataFile     string `mapstructure:"DATA_FILE"`
	DataEncoding string `mapstructure:"DATA_ENCODING"`
	DataSheet    string `mapstructure:"DATA_SHEET"`
	DataComma    string `mapstructure:"DATA_COMMA"`

	TemplatesGlob string `mapstructure:"TEMPLATES_GLOB"`
	OutputDir     string `mapstructure:"OUTPUT_DIR"`

	SessionSecret     string `mapstructure:"SESSION_SECRET"`
	LoginUser         string `mapstructure:"LOGIN_USER"`
	LoginPasswordHash string `mapstructure:"LOGIN_PASSWORD_HASH"`

	MinRadiusKm     float64 `mapstructure:"MIN_RADIUS_KM"`
	MaxRadiusKm     float64 `mapstructure:"MAX_RADIUS_KM"`
	DefaultRadiusKm float64 `mapstructure:"DEFAULT_RADIUS_KM"`
	LimitChoicesRaw string  `mapstructure:"LIMIT_CHOICES"`
	DefaultLimit    int     `mapstructure:"DEFAULT_LIMIT"`

	MapSamplePerRole int `mapstructure:"MAP_SAMPLE_PER_ROLE"`

	LimitChoices []int `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "production")
	v.SetDefault("PORT", "9595")
	v.SetDefault("DATA_FILE", "magazalar.csv")
	v.SetDefault("DATA_ENCODING", "cp1254")
	v.SetDefault("DATA_SHEET", "")
	v.SetDefault("DATA_COMMA", ",")
	v.SetDefault("TEMPLATES_GLOB", "templates/*")
	v.SetDefault("OUTPUT_DIR", "output")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("LOGIN_USER", "user")
	v.SetDefault("LOGIN_PASSWORD_HASH", "")
	v.SetDefault("MIN_RADIUS_KM", 1)
	v.SetDefault("MAX_RADIUS_KM", 200)
	v.SetDefault("DEFAULT_RADIUS_KM", 30)
	v.SetDefault("LIMIT_CHOICES", "5,10,20,50")
	v.SetDefault("DEFAULT_LIMIT", 10)
	v.SetDefault("MAP_SAMPLE_PER_ROLE", 2000)
}

// Load reads .env (optional) and the environment; environment wins.
func Load() (Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// a missing .env is fine; every key has a default or comes from the environment
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "unmarshal config")
	}

	choices, err := parseChoices(cfg.LimitChoicesRaw)
	if err != nil {
		return cfg, err
	}
	cfg.LimitChoices = choices

	return cfg, cfg.Validate()
}

func parseChoices(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, errors.Errorf("invalid LIMIT_CHOICES entry %q", part)
		}
		out = append(out, n)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func (c Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.LoginPasswordHash == "" {
		return errors.New("LOGIN_PASSWORD_HASH is required")
	}
	if c.MinRadiusKm <= 0 || c.MaxRadiusKm < c.MinRadiusKm {
		return errors.Errorf("invalid radius bounds [%v, %v]", c.MinRadiusKm, c.MaxRadiusKm)
	}
	if c.DefaultRadiusKm < c.MinRadiusKm || c.DefaultRadiusKm > c.MaxRadiusKm {
		return errors.Errorf("DEFAULT_RADIUS_KM %v outside [%v, %v]", c.DefaultRadiusKm, c.MinRadiusKm, c.MaxRadiusKm)
	}
	if len(c.LimitChoices) == 0 {
		return errors.New("LIMIT_CHOICES is empty")
	}
	if !slices.Contains(c.LimitChoices, c.DefaultLimit) {
		return errors.Errorf("DEFAULT_LIMIT %d is not one of %v", c.DefaultLimit, c.LimitChoices)
	}
	if c.MapSamplePerRole <= 0 {
		return errors.Errorf("MAP_SAMPLE_PER_ROLE must be positive, got %d", c.MapSamplePerRole)
	}
	if len([]rune(c.DataComma)) != 1 {
		return errors.Errorf("DATA_COMMA must be a single character, got %q", c.DataComma)
	}
	return nil
}

func (c Config) Comma() rune {
	return []rune(c.DataComma)[0]
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}
