package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/turtacn/Uni-Dock/pkg/errors"
)

// envPrefix is the environment variable prefix for integration settings.
const envPrefix = "UNIDOCK"

// integrationSections are the top-level option-file sections that do not
// name docking flags.
var integrationSections = map[string]bool{
	"log":     true,
	"engine":  true,
	"metrics": true,
	"minio":   true,
	"kafka":   true,
	"redis":   true,
}

// integrationKeys are bound to UNIDOCK_<SECTION>_<FIELD> variables so that
// Unmarshal sees them even when no option file mentions them.
var integrationKeys = []string{
	"log.level", "log.format", "log.output_paths", "log.error_output_paths",
	"engine.binary", "engine.gpu_binary", "engine.work_dir",
	"metrics.textfile_path", "metrics.push_url", "metrics.job",
	"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket", "minio.prefix", "minio.use_ssl", "minio.retention_days",
	"kafka.brokers", "kafka.topic",
	"redis.addr", "redis.password", "redis.db", "redis.key_prefix", "redis.lease_ttl_seconds",
}

// newViper builds a Viper instance with the UNIDOCK_ env prefix and a "." → "_"
// key replacer, so "minio.endpoint" resolves to UNIDOCK_MINIO_ENDPOINT.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range integrationKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// OptionFile is a parsed --config file.
type OptionFile struct {
	// Flags maps docking flag names to their values.  Multi-valued flags
	// (ligand lists) carry one entry per path.
	Flags map[string][]string

	v *viper.Viper
}

// Names returns the flag names present in the file, sorted.
func (f *OptionFile) Names() []string {
	names := make([]string, 0, len(f.Flags))
	for n := range f.Flags {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ReadOptionFile parses the option file at path.  YAML, JSON, TOML and the
// other formats Viper knows are selected by extension; anything else (such as
// a Vina-style conf.txt) is read as "key = value" lines.  Top-level keys must
// be accepted by isFlag or name an integration section.
func ReadOptionFile(path string, isFlag func(name string) bool) (*OptionFile, error) {
	v := newViper()
	v.SetConfigFile(path)
	if !knownExtension(path) {
		v.SetConfigType("properties")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, errors.FileAccess(path, true, err)
		}
		if _, statErr := (OSFileSystem{}).ReadFile(path); statErr != nil {
			return nil, errors.FileAccess(path, true, statErr)
		}
		return nil, errors.ParseFailure("configuration file", err)
	}

	of := &OptionFile{Flags: make(map[string][]string), v: v}
	for _, key := range v.AllKeys() {
		top := strings.SplitN(key, ".", 2)[0]
		if integrationSections[top] && strings.Contains(key, ".") {
			continue
		}
		if !isFlag(key) {
			return nil, errors.ParseFailure("configuration file", fmt.Errorf("unrecognised option '%s'", key))
		}
		of.Flags[key] = optionValues(key, v.Get(key))
	}
	return of, nil
}

// Integrations unmarshals the integration sections merged with UNIDOCK_*
// environment overrides, applies defaults and validates the result.
func (f *OptionFile) Integrations() (*IntegrationConfig, error) {
	return unmarshalAndFinalize(f.v)
}

// LoadIntegrationsFromEnv builds the integration settings from UNIDOCK_*
// variables only.
func LoadIntegrationsFromEnv() (*IntegrationConfig, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*IntegrationConfig, error) {
	cfg := &IntegrationConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.ParseFailure("configuration file", fmt.Errorf("config: failed to unmarshal integrations: %w", err))
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "invalid integration settings")
	}
	return cfg, nil
}

// optionValues flattens an option-file value into flag arguments.  List flags
// accept YAML/JSON arrays or whitespace-separated paths.
func optionValues(key string, val interface{}) []string {
	if items, ok := val.([]interface{}); ok {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, fmt.Sprint(it))
		}
		return out
	}
	s := fmt.Sprint(val)
	if multiValued[key] {
		return strings.Fields(s)
	}
	return []string{strings.TrimSpace(s)}
}

var multiValued = map[string]bool{
	FlagLigand:   true,
	FlagBatch:    true,
	FlagGPUBatch: true,
}

func knownExtension(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	for _, e := range viper.SupportedExts {
		if e == ext {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
