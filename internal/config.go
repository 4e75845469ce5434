package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Persistence modes.
const (
	PersistenceSQLite = "sqlite"
	PersistenceMemory = "memory"
)

// Config represents the application configuration.
type Config struct {
	App         ApplicationConfig `yaml:"app"`
	Board       BoardConfig       `yaml:"board"`
	Uploads     UploadsConfig     `yaml:"uploads"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Auth        AuthConfig        `yaml:"auth"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Board.Validate(); err != nil {
		return err
	}
	if err := c.Uploads.Validate(); err != nil {
		return err
	}
	if err := c.Persistence.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// BoardConfig holds the class-code enumeration and listing page size.
type BoardConfig struct {
	Classes  []string `yaml:"classes"`
	PageSize int      `yaml:"page_size"`
}

// Validate validates the board configuration.
func (c *BoardConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Classes, validation.Required),
		validation.Field(&c.PageSize, validation.Required, validation.Min(1)),
	)
}

// UploadsConfig holds attachment storage configuration.
type UploadsConfig struct {
	Path              string   `yaml:"path"`
	MaxBytes          int64    `yaml:"max_bytes"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// Validate validates the uploads configuration.
func (c *UploadsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.MaxBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.AllowedExtensions, validation.Required),
	)
}

// PersistenceConfig selects the repository backend.
//
// Mode is either "sqlite" (default) or "memory"; the in-memory backend
// keeps everything in the process and is meant for local experiments.
type PersistenceConfig struct {
	Mode       string `yaml:"mode"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Validate validates the persistence configuration.
func (c *PersistenceConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = PersistenceSQLite
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(PersistenceSQLite, PersistenceMemory)),
	); err != nil {
		return err
	}
	if c.Mode == PersistenceSQLite && c.SQLitePath == "" {
		return fmt.Errorf("persistence: mode is %q but sqlite_path is empty", PersistenceSQLite)
	}
	return nil
}

// TokenPrincipal describes the principal a bearer token resolves to.
// ID defaults to Name when omitted.
type TokenPrincipal struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Admin bool   `yaml:"admin"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how requests are authenticated:
//   - "disabled" (default): every request runs as the anonymous principal.
//   - "token": Bearer tokens are resolved against Tokens; unknown tokens
//     are rejected.
type AuthConfig struct {
	Mode   string                    `yaml:"mode"`
	Tokens map[string]TokenPrincipal `yaml:"tokens"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && len(c.Tokens) == 0 {
		return fmt.Errorf("auth: mode is %q but no tokens are configured", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// SummarizerConfig overrides the summarizer word lists. Empty fields keep
// the built-in defaults.
type SummarizerConfig struct {
	Keywords      []string `yaml:"keywords"`
	Boilerplate   []string `yaml:"boilerplate"`
	Junk          []string `yaml:"junk"`
	Abbreviations []string `yaml:"abbreviations"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Board: BoardConfig{
			Classes: []string{
				"CS124", "CS128", "CS173", "MATH221", "MATH231",
				"ENG100", "CS100", "RHET105", "PHY211", "PHY212",
			},
			PageSize: 5,
		},
		Uploads: UploadsConfig{
			Path:     "./uploads",
			MaxBytes: 16 << 20,
			AllowedExtensions: []string{
				"pdf", "png", "jpg", "jpeg", "gif",
				"doc", "docx", "txt", "ppt", "pptx",
			},
		},
		Persistence: PersistenceConfig{
			Mode:       PersistenceSQLite,
			SQLitePath: "./noteboard.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
