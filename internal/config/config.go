package config

import (
	"fmt"
	"strings"

	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/types/docking"
)

// ─────────────────────────────────────────────────────────────────────────────
// Ligand sources
// ─────────────────────────────────────────────────────────────────────────────

// SourceKind tells the dispatcher which execution path a ligand list takes.
type SourceKind int

const (
	// SingleSet ligands run on the CPU path with one output each.
	SingleSet SourceKind = iota
	// CpuBatch ligands run on the CPU path into a shared output directory.
	CpuBatch
	// GpuBatch ligands run through the memory-bounded batch scheduler.
	GpuBatch
)

func (k SourceKind) String() string {
	switch k {
	case CpuBatch:
		return "batch"
	case GpuBatch:
		return "gpu_batch"
	default:
		return "ligand"
	}
}

// LigandSource is an ordered ligand path list bound to one execution path.
type LigandSource struct {
	Kind  SourceKind
	Paths []string
}

// ─────────────────────────────────────────────────────────────────────────────
// RunConfiguration
// ─────────────────────────────────────────────────────────────────────────────

// RunConfiguration is the validated run description.  It is built once by
// Validate and only read afterwards.
type RunConfiguration struct {
	Scoring  docking.ScoringFunction
	Receptor string
	Flex     string
	Maps     string

	// Box is meaningful when HasBox is set.  With Autobox the box is derived
	// from ligand extents plus AutoboxBuffer at map time.
	Box             docking.Box
	HasBox          bool
	Autobox         bool
	AutoboxBuffer   float64
	Spacing         float64
	ForceEvenVoxels bool
	WriteMaps       string

	Mode     docking.Mode
	Search   docking.SearchParams
	Weights  docking.Weights
	NoRefine bool

	CPU             int
	MaxGPUMemoryMiB int
	Verbosity       int

	// Out is the explicit or derived output name for SingleSet runs.
	Out string
	// Dir is the shared output directory of batch sources.
	Dir string

	Sources []LigandSource

	// Warnings are non-fatal notes produced during validation.
	Warnings []string
}

// HasReceptor reports whether a rigid receptor or flexible side chains were given.
func (c *RunConfiguration) HasReceptor() bool {
	return c.Receptor != "" || c.Flex != ""
}

// UsesMaps reports whether precomputed affinity maps are authoritative.
func (c *RunConfiguration) UsesMaps() bool {
	return c.Maps != ""
}

// Source returns the first source of the given kind.
func (c *RunConfiguration) Source(kind SourceKind) (LigandSource, bool) {
	for _, s := range c.Sources {
		if s.Kind == kind {
			return s, true
		}
	}
	return LigandSource{}, false
}

// LigandCount is the total number of ligand paths across sources.
func (c *RunConfiguration) LigandCount() int {
	n := 0
	for _, s := range c.Sources {
		n += len(s.Paths)
	}
	return n
}

// Summary renders the configuration summary printed when verbosity > 0.
func (c *RunConfiguration) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scoring function : %s\n", c.Scoring)
	if c.Receptor != "" {
		fmt.Fprintf(&sb, "Rigid receptor: %s\n", c.Receptor)
	}
	if c.Flex != "" {
		fmt.Fprintf(&sb, "Flex receptor: %s\n", c.Flex)
	}
	for _, s := range c.Sources {
		switch {
		case s.Kind == SingleSet && len(s.Paths) == 1:
			fmt.Fprintf(&sb, "Ligand: %s\n", s.Paths[0])
		case s.Kind == SingleSet:
			sb.WriteString("Ligands:\n")
			for _, p := range s.Paths {
				fmt.Fprintf(&sb, "  - %s\n", p)
			}
		default:
			fmt.Fprintf(&sb, "Ligands (%s mode): %d molecules\n", s.Kind, len(s.Paths))
		}
	}
	switch {
	case c.Autobox && !c.HasBox:
		sb.WriteString("Grid center: ligand center (autobox)\n")
		fmt.Fprintf(&sb, "Grid size  : ligand size + %g A in each dimension (autobox)\n", c.AutoboxBuffer)
		fmt.Fprintf(&sb, "Grid space : %g\n", c.Spacing)
	case c.HasBox:
		fmt.Fprintf(&sb, "Grid center: X %g Y %g Z %g\n", c.Box.Center.X, c.Box.Center.Y, c.Box.Center.Z)
		fmt.Fprintf(&sb, "Grid size  : X %g Y %g Z %g\n", c.Box.Size.X, c.Box.Size.Y, c.Box.Size.Z)
		fmt.Fprintf(&sb, "Grid space : %g\n", c.Spacing)
	}
	fmt.Fprintf(&sb, "Exhaustiveness: %d\n", c.Search.Exhaustiveness)
	fmt.Fprintf(&sb, "CPU: %d\n", c.CPU)
	fmt.Fprintf(&sb, "Seed: %d\n", c.Search.Seed)
	fmt.Fprintf(&sb, "Verbosity: %d\n", c.Verbosity)
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// IntegrationConfig
// ─────────────────────────────────────────────────────────────────────────────

// IntegrationConfig holds settings for everything around docking: logging,
// engine binaries, metrics export, pose upload, batch events and the shared
// device lease.  Each optional integration is disabled while its address
// field is empty.
type IntegrationConfig struct {
	Log     logging.LogConfig `mapstructure:"log"`
	Engine  EngineConfig      `mapstructure:"engine"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
	MinIO   MinIOConfig       `mapstructure:"minio"`
	Kafka   KafkaConfig       `mapstructure:"kafka"`
	Redis   RedisConfig       `mapstructure:"redis"`
}

// EngineConfig names the external docking executables.
type EngineConfig struct {
	Binary    string `mapstructure:"binary"`
	GPUBinary string `mapstructure:"gpu_binary"`
	WorkDir   string `mapstructure:"work_dir"`
}

// MetricsConfig controls batch metric export.
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
	PushURL      string `mapstructure:"push_url"`
	Job          string `mapstructure:"job"`
}

// MinIOConfig controls pose upload.
type MinIOConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	Prefix        string `mapstructure:"prefix"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// KafkaConfig controls batch event publishing.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// RedisConfig controls the shared GPU device lease.
type RedisConfig struct {
	Addr            string `mapstructure:"addr"`
	Password        string `mapstructure:"password"`
	DB              int    `mapstructure:"db"`
	KeyPrefix       string `mapstructure:"key_prefix"`
	LeaseTTLSeconds int    `mapstructure:"lease_ttl_seconds"`
}

// Validate checks that each enabled integration is complete.
func (c *IntegrationConfig) Validate() error {
	if c.MinIO.Endpoint != "" && c.MinIO.Bucket == "" {
		return fmt.Errorf("config: minio.bucket is required when minio.endpoint is set")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("config: kafka.topic is required when kafka.brokers is set")
	}
	if c.MinIO.RetentionDays < 0 {
		return fmt.Errorf("config: minio.retention_days must be >= 0")
	}
	if c.Redis.LeaseTTLSeconds < 0 {
		return fmt.Errorf("config: redis.lease_ttl_seconds must be >= 0")
	}
	if c.Metrics.PushURL != "" && c.Metrics.Job == "" {
		return fmt.Errorf("config: metrics.job is required when metrics.push_url is set")
	}
	return nil
}

//Personal.AI order the ending
