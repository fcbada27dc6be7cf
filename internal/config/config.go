package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arsenal-toolkit/pkg/utils"
)

// Config represents the launcher configuration
type Config struct {
	// General settings
	LogLevel  string `yaml:"log_level" default:"info"`
	LogFormat string `yaml:"log_format" default:"text"`
	LogFile   string `yaml:"log_file" default:"~/.arsenal/arsenal.log"`
	DataDir   string `yaml:"data_dir" default:"~/.arsenal"`

	// Tool management
	ToolsDir    string `yaml:"tools_dir" default:"~/.arsenal/tools"`
	CatalogPath string `yaml:"catalog_path" default:"./configs/tools.json"`

	// Python environment
	VenvDir          string `yaml:"venv_dir" default:"~/.arsenal/venv"`
	RequirementsFile string `yaml:"requirements_file" default:"./requirements.txt"`

	// Bootstrap settings
	Bootstrap BootstrapConfig `yaml:"bootstrap"`

	// Network settings
	Network NetworkConfig `yaml:"network"`
}

type BootstrapConfig struct {
	// ExtraPackages are appended to the core package list, one package
	// name each, no fallbacks
	ExtraPackages []string `yaml:"extra_packages"`
}

type NetworkConfig struct {
	Proxy        string `yaml:"proxy"`
	UseTor       bool   `yaml:"use_tor"`
	Timeout      int    `yaml:"timeout" default:"30"`
	MaxRedirects int    `yaml:"max_redirects" default:"10"`
	VerifySSL    bool   `yaml:"verify_ssl" default:"true"`
	UserAgent    string `yaml:"user_agent" default:"arsenal/1.0"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	return loadWithPaths(defaultConfigPaths())
}

// LoadFrom loads configuration from an explicit file instead of the
// default search paths. Unlike the defaults, the named file must exist.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		return Load()
	}

	expanded := utils.ExpandPath(path)
	if _, err := os.Stat(expanded); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	return loadWithPaths([]string{expanded})
}

func defaultConfigPaths() []string {
	return []string{
		"./configs/default.yaml",
		utils.ExpandPath("~/.arsenal.yaml"),
		"/etc/arsenal/config.yaml",
	}
}

func loadWithPaths(paths []string) (*Config, error) {
	config := &Config{}

	// Set defaults
	setDefaults(config)

	// Load from config file
	if err := loadFromFile(config, paths); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Validate configuration
	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.LogLevel = "info"
	config.LogFormat = "text"
	config.LogFile = utils.ExpandPath("~/.arsenal/arsenal.log")
	config.DataDir = utils.ExpandPath("~/.arsenal")
	config.ToolsDir = utils.ExpandPath("~/.arsenal/tools")
	config.CatalogPath = "./configs/tools.json"
	config.VenvDir = utils.ExpandPath("~/.arsenal/venv")
	config.RequirementsFile = "./requirements.txt"

	config.Network = NetworkConfig{
		Timeout:      30,
		MaxRedirects: 10,
		VerifySSL:    true,
		UserAgent:    "arsenal/1.0",
	}
}

func loadFromFile(config *Config, paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}

			if err := yaml.Unmarshal(data, config); err != nil {
				return fmt.Errorf("failed to parse config file %s: %w", path, err)
			}

			return nil
		}
	}

	// No config file found, use defaults
	return nil
}

func loadFromEnv(config *Config) error {
	if level := os.Getenv("ARSENAL_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
	if file := os.Getenv("ARSENAL_LOG_FILE"); file != "" {
		config.LogFile = file
	}
	if dir := os.Getenv("ARSENAL_TOOLS_DIR"); dir != "" {
		config.ToolsDir = dir
	}
	if path := os.Getenv("ARSENAL_CATALOG"); path != "" {
		config.CatalogPath = path
	}
	if dir := os.Getenv("ARSENAL_VENV_DIR"); dir != "" {
		config.VenvDir = dir
	}
	if file := os.Getenv("ARSENAL_REQUIREMENTS"); file != "" {
		config.RequirementsFile = file
	}

	// Proxy can come from the launcher's own variable or the common ones
	if proxy := os.Getenv("ARSENAL_PROXY"); proxy != "" {
		config.Network.Proxy = proxy
	} else if proxy := os.Getenv("HTTPS_PROXY"); proxy != "" {
		config.Network.Proxy = proxy
	} else if proxy := os.Getenv("HTTP_PROXY"); proxy != "" {
		config.Network.Proxy = proxy
	}

	return nil
}

func validate(config *Config) error {
	// Normalize paths that may come from a config file or the
	// environment with a leading tilde
	config.LogFile = utils.ExpandPath(config.LogFile)
	config.DataDir = utils.ExpandPath(config.DataDir)
	config.ToolsDir = utils.ExpandPath(config.ToolsDir)
	config.CatalogPath = utils.ExpandPath(config.CatalogPath)
	config.VenvDir = utils.ExpandPath(config.VenvDir)
	config.RequirementsFile = utils.ExpandPath(config.RequirementsFile)

	// Create required directories
	dirs := []string{config.DataDir, config.ToolsDir, filepath.Dir(config.LogFile)}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Validate network settings
	if config.Network.Timeout < 1 || config.Network.Timeout > 300 {
		return fmt.Errorf("invalid network timeout: must be between 1 and 300 seconds")
	}

	if config.Network.MaxRedirects < 0 || config.Network.MaxRedirects > 20 {
		return fmt.Errorf("invalid max_redirects: must be between 0 and 20")
	}

	return nil
}
