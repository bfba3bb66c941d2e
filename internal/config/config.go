package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultAdminPassword is written by `scs config init`. Change it before going live.
const DefaultAdminPassword = "s3cr3t-admin-pass"

// Config represents the main configuration for scs.
type Config struct {
	HostID     string           `toml:"host_id"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	DataDir    string           `toml:"data_dir"`   // durable files for the privileged context
	ExportDir  string           `toml:"export_dir"` // where `export` writes collection files
	Admin      AdminConfig      `toml:"admin"`
	Source     SourceConfig     `toml:"source"`
	Cache      CacheConfig      `toml:"cache"`
	Notify     NotifyConfig     `toml:"notify"`
	Remote     RemoteConfig     `toml:"remote"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// AdminConfig holds the shared operator secret. It is compared in plain text.
type AdminConfig struct {
	Password string `toml:"password"`
}

// SourceConfig represents the canonical copy the console reads from.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type SourceConfig struct {
	Type    string   `toml:"type"` // "http", "s3", "filesystem" or "none"
	Timeout Duration `toml:"timeout,omitempty"`

	// HTTP-specific fields (only used when Type == "http")
	BaseURL string `toml:"base_url,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3 S3Config `toml:"s3,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`
}

// CacheConfig represents configuration for the local cache.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type CacheConfig struct {
	Type    string `toml:"type"`               // "memory", "sqlite", "redis" or "filesystem"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite and type=filesystem

	// Redis-specific fields (only used when Type == "redis")
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
}

// NotifyConfig configures the best-effort side effects of the privileged context.
type NotifyConfig struct {
	QueueSize       int         `toml:"queue_size"`
	MaxAttempts     int         `toml:"max_attempts"`
	InitialInterval Duration    `toml:"initial_interval"`
	Email           EmailConfig `toml:"email"`
	Git             GitConfig   `toml:"git"`
}

// EmailConfig holds the SMTP settings for follow-up notifications.
type EmailConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host,omitempty"`
	Port     int    `toml:"port,omitempty"`
	Username string `toml:"username,omitempty"`
	Password string `toml:"password,omitempty"`
	From     string `toml:"from,omitempty"`
	To       string `toml:"to,omitempty"`
}

// GitConfig holds the settings for pushing data files with the git client.
type GitConfig struct {
	Enabled   bool   `toml:"enabled"`
	RepoDir   string `toml:"repo_dir,omitempty"`
	Remote    string `toml:"remote,omitempty"`
	Branch    string `toml:"branch,omitempty"`
	UserName  string `toml:"user_name,omitempty"`
	UserEmail string `toml:"user_email,omitempty"`
}

// RemoteConfig represents the target of `scs commit`.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type RemoteConfig struct {
	Type string `toml:"type"` // "github" or "s3"

	// GitHub-specific fields (only used when Type == "github")
	Owner   string `toml:"owner,omitempty"`
	Repo    string `toml:"repo,omitempty"`
	Branch  string `toml:"branch,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3 S3Config `toml:"s3,omitempty"`
}

// S3Config locates a bucket. Endpoint is only set for S3-compatible services;
// static keys are optional and fall back to the default AWS credential chain.
type S3Config struct {
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix,omitempty"`
	Region          string `toml:"region,omitempty"`
	Endpoint        string `toml:"endpoint,omitempty"`
	AccessKeyID     string `toml:"access_key_id,omitempty"`
	SecretAccessKey string `toml:"secret_access_key,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for encrypted exports.
type EncryptionConfig struct {
	Type           string `toml:"type,omitempty"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// Duration is a time.Duration that reads and writes TOML strings like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// NewConfig creates a new Config with the provided values and default paths.
func NewConfig(hostID, baseDir string) *Config {
	return &Config{
		HostID:    hostID,
		BaseDir:   baseDir,
		LogDir:    filepath.Join(baseDir, "log"),
		DataDir:   filepath.Join(baseDir, "DATA"),
		ExportDir: filepath.Join(baseDir, "exports"),
		Admin:     AdminConfig{Password: DefaultAdminPassword},
		Source: SourceConfig{
			Type:    "none",
			Timeout: Duration{10 * time.Second},
		},
		Cache: CacheConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "cache"),
		},
		Notify: NotifyConfig{
			QueueSize:       16,
			MaxAttempts:     3,
			InitialInterval: Duration{500 * time.Millisecond},
			Git: GitConfig{
				Remote:    "origin",
				Branch:    "main",
				UserName:  "GitHub Action",
				UserEmail: "actions@github.com",
			},
		},
		Remote: RemoteConfig{
			Type:   "github",
			Branch: "main",
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "scs.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "scs.key"),
		},
	}
}

// Masked returns a copy of cfg with every secret replaced by asterisks.
func (c *Config) Masked() *Config {
	masked := *c
	masked.Admin.Password = mask(c.Admin.Password)
	masked.Cache.RedisPassword = mask(c.Cache.RedisPassword)
	masked.Notify.Email.Password = mask(c.Notify.Email.Password)
	masked.Source.S3.SecretAccessKey = mask(c.Source.S3.SecretAccessKey)
	masked.Remote.S3.SecretAccessKey = mask(c.Remote.S3.SecretAccessKey)
	return &masked
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// The file holds the admin secret, so it is created owner-only.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
