package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Stumpwiz/lmacfy/pkg/atomicfile"
)

// FileName is the project configuration file looked up from the working
// directory towards the filesystem root.
const FileName = ".lmacfy.yaml"

// Config represents the .lmacfy.yaml configuration file. All fields are
// optional; absent ones fall back to built-in defaults during resolution.
type Config struct {
	// AWS region holding the registry and the App Runner service
	Region string `yaml:"region,omitempty"`

	// ECR repository name the image is pushed to
	Repository string `yaml:"repository,omitempty"`

	// Target platform for the image build
	Platform string `yaml:"platform,omitempty"`

	// App Runner service to roll out after a push
	ServiceARN string `yaml:"service_arn,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Region:     "us-east-1",
		Repository: "lmacfy",
		Platform:   "linux/amd64",
	}
}

var (
	repositoryPattern = regexp.MustCompile(`^[a-z0-9]+([._-][a-z0-9]+)*(/[a-z0-9]+([._-][a-z0-9]+)*)*$`)
	platformPattern   = regexp.MustCompile(`^[a-z0-9]+/[a-z0-9]+(/[a-z0-9]+)?$`)
)

// Load reads and parses a .lmacfy.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &config, nil
}

// Save writes the config atomically so an interrupted write never leaves a
// half-written file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the values that are present. Absent fields are fine;
// resolution fills them from defaults.
func (c *Config) Validate() error {
	if c.Repository != "" && !repositoryPattern.MatchString(c.Repository) {
		return fmt.Errorf("repository %q is not a valid ECR repository name", c.Repository)
	}
	if c.Platform != "" && !platformPattern.MatchString(c.Platform) {
		return fmt.Errorf("platform %q must look like os/arch", c.Platform)
	}
	if c.ServiceARN != "" && !strings.HasPrefix(c.ServiceARN, "arn:") {
		return fmt.Errorf("service_arn %q is not an ARN", c.ServiceARN)
	}
	return nil
}

// Locate walks up from dir looking for the config file. Returns the empty
// string when no config exists anywhere above dir.
func Locate(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
