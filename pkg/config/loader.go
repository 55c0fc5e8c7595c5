// Package config loads pool configuration from YAML files. Values of the
// form ${VAR_NAME} are substituted from the environment before parsing,
// which keeps credentials and per-deployment sizing out of checked-in files.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/repool/pkg/pool"
)

// Duration is a time.Duration that unmarshals from YAML strings such as
// "500ms" or "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// PoolConfig is the YAML-facing shape of a pool configuration.
//
// Example:
//
//	name: billing-db
//	max_size: 16
//	queue_mode: fifo
//	timeouts:
//	  wait: 5s
//	  create: 3s
//	  recycle: 500ms
type PoolConfig struct {
	// Name identifies the pool in logs and metric labels.
	Name string `yaml:"name"`
	// MaxSize is the pool capacity; 0 means the library default.
	MaxSize int `yaml:"max_size"`
	// QueueMode is "fifo" (default) or "lifo".
	QueueMode string `yaml:"queue_mode"`
	// Timeouts are the pool-wide deadline defaults; omitted fields mean
	// no deadline.
	Timeouts TimeoutsConfig `yaml:"timeouts"`
}

// TimeoutsConfig mirrors pool.Timeouts for YAML.
type TimeoutsConfig struct {
	Wait    *Duration `yaml:"wait,omitempty"`
	Create  *Duration `yaml:"create,omitempty"`
	Recycle *Duration `yaml:"recycle,omitempty"`
}

// PoolSettings converts the YAML shape into a validated pool.Config.
func (c PoolConfig) PoolSettings() (pool.Config, error) {
	mode, err := pool.ParseQueueMode(c.QueueMode)
	if err != nil {
		return pool.Config{}, err
	}
	out := pool.Config{
		MaxSize:   c.MaxSize,
		QueueMode: mode,
		Timeouts: pool.Timeouts{
			Wait:    durationPtr(c.Timeouts.Wait),
			Create:  durationPtr(c.Timeouts.Create),
			Recycle: durationPtr(c.Timeouts.Recycle),
		},
	}
	if out.MaxSize == 0 {
		out.MaxSize = pool.DefaultMaxSize()
	}
	if err := out.Validate(); err != nil {
		return pool.Config{}, err
	}
	return out, nil
}

func durationPtr(d *Duration) *time.Duration {
	if d == nil {
		return nil
	}
	v := time.Duration(*d)
	return &v
}

// Load reads a YAML file into config, substituting ${VAR} references from
// the environment first.
func Load(filePath string, config interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := substituteEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(content), config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// Save writes a configuration to a YAML file.
func Save(filePath string, config interface{}) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}
