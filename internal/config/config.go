package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultSiteConfigPath is read when no site config path is named.
const DefaultSiteConfigPath = "config.yaml"

// AppConfig holds infrastructure config from env vars (SCOUT_ prefix).
type AppConfig struct {
	ConfigPath string        `mapstructure:"config_path"` // Path to the YAML site config, empty for the default
	Log        LogConfig     `mapstructure:"log"`
	Sheets     SheetsConfig  `mapstructure:"sheets"`
	Server     ServerConfig  `mapstructure:"server"`
	Browser    BrowserConfig `mapstructure:"browser"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SheetsConfig points at the service-account key and the default target sheet.
// CredentialsJSON is the raw key as injected by a hosting environment and
// takes precedence over CredentialsFile.
type SheetsConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	CredentialsJSON string `mapstructure:"credentials_json"`
	SheetURL        string `mapstructure:"sheet_url"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type BrowserConfig struct {
	Headless bool   `mapstructure:"headless"`
	Bin      string `mapstructure:"bin"`
}

// SiteConfig holds all target-site specific settings (from YAML)
type SiteConfig struct {
	BaseURL           string        `yaml:"base_url"`
	PathTemplate      string        `yaml:"path_template"`
	Locators          Locators      `yaml:"locators"`
	ReadyTimeout      time.Duration `yaml:"ready_timeout"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	Pagination        Pagination    `yaml:"pagination"`
}

// Locators are the CSS selectors for the four parallel element lists.
// Name doubles as the readiness selector.
type Locators struct {
	Name   string `yaml:"name"`
	City   string `yaml:"city"`
	Email  string `yaml:"email"`
	Course string `yaml:"course"`
}

const (
	PaginationScroll = "scroll"
	PaginationNone   = "none"
)

// Pagination controls lazy-load handling after the readiness gate.
// In scroll mode the page is scrolled until its height stops changing
// (at most MaxScrolls times, sleeping Pause between). In none mode the
// loader waits Settle once.
type Pagination struct {
	Mode       string        `yaml:"mode"`
	Pause      time.Duration `yaml:"pause"`
	MaxScrolls int           `yaml:"max_scrolls"`
	Settle     time.Duration `yaml:"settle"`
}

// GetAppConfig reads infrastructure settings from environment variables.
func GetAppConfig() (AppConfig, error) {
	v := viper.New()

	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("config_path", "SCOUT_CONFIG_PATH")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.credentials_json", "")
	v.SetDefault("sheets.sheet_url", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.bin", "")

	// Common names used by hosting platforms for the same secrets.
	_ = v.BindEnv("sheets.credentials_file", "SCOUT_SHEETS_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS")
	_ = v.BindEnv("sheets.credentials_json", "SCOUT_SHEETS_CREDENTIALS_JSON", "GCP_SERVICE_ACCOUNT")

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, eris.Wrap(err, "config: unmarshal")
	}
	return cfg, nil
}

// SiteConfigPath returns the site config file to read and whether it was
// named explicitly. Only an explicit file is required to exist.
func (c AppConfig) SiteConfigPath() (string, bool) {
	if c.ConfigPath == "" {
		return DefaultSiteConfigPath, false
	}
	return c.ConfigPath, true
}

// DefaultSiteConfig returns the settings for the collegedunia listing layout.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		BaseURL:      "https://collegedunia.com",
		PathTemplate: "/{stream}/{city}-colleges",
		Locators: Locators{
			Name:   "a[class*='college_name']",
			City:   "span[class*='location']",
			Email:  "a[href^='mailto:']",
			Course: "span[class*='fee-shorm-form']",
		},
		ReadyTimeout:      10 * time.Second,
		NavigationTimeout: 60 * time.Second,
		Pagination: Pagination{
			Mode:       PaginationScroll,
			Pause:      2 * time.Second,
			MaxScrolls: 20,
			Settle:     5 * time.Second,
		},
	}
}

// LoadSiteConfig reads the YAML file over the defaults and validates it.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read site config at '%s'", path)
	}
	cfg := DefaultSiteConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrap(err, "config: parse YAML site config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadSiteConfigOrDefault is LoadSiteConfig, except that a missing file
// yields the built-in defaults.
func LoadSiteConfigOrDefault(path string) (*SiteConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		zap.L().Info("no site config file, using built-in defaults", zap.String("path", path))
		cfg := DefaultSiteConfig()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return LoadSiteConfig(path)
}

// Validate checks the URL pieces and compiles every locator, so a typo in a
// selector fails here instead of silently matching nothing.
func (c SiteConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return eris.Errorf("config: base_url %q is not an absolute URL", c.BaseURL)
	}
	if !strings.Contains(c.PathTemplate, "{stream}") || !strings.Contains(c.PathTemplate, "{city}") {
		return eris.Errorf("config: path_template %q must contain {stream} and {city}", c.PathTemplate)
	}
	if c.Locators.Name == "" {
		return eris.New("config: locators.name is required")
	}
	for field, sel := range c.Locators.byField() {
		if sel == "" {
			continue
		}
		if _, err := cascadia.Compile(sel); err != nil {
			return eris.Wrapf(err, "config: locators.%s %q", field, sel)
		}
	}
	if c.ReadyTimeout <= 0 {
		return eris.New("config: ready_timeout must be positive")
	}
	if c.NavigationTimeout <= 0 {
		return eris.New("config: navigation_timeout must be positive")
	}
	switch c.Pagination.Mode {
	case PaginationScroll:
		if c.Pagination.MaxScrolls < 0 {
			return eris.New("config: pagination.max_scrolls must not be negative")
		}
	case PaginationNone:
	default:
		return eris.Errorf("config: unknown pagination.mode %q", c.Pagination.Mode)
	}
	return nil
}

func (l Locators) byField() map[string]string {
	return map[string]string{
		"name":   l.Name,
		"city":   l.City,
		"email":  l.Email,
		"course": l.Course,
	}
}

// InitLogger installs the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
