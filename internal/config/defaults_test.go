package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRawOptions_Defaults(t *testing.T) {
	o := NewRawOptions()
	assert.Equal(t, "vina", o.Scoring)
	assert.Equal(t, 8, o.Exhaustiveness)
	assert.Equal(t, 9, o.NumModes)
	assert.Equal(t, 1.0, o.MinRMSD)
	assert.Equal(t, 3.0, o.EnergyRange)
	assert.Equal(t, 0.375, o.Spacing)
	assert.Equal(t, 1, o.Verbosity)
	assert.Equal(t, 50.0, o.WeightGlue)
	assert.Equal(t, -0.587439, o.WeightHydrogen)
	assert.Equal(t, 0.2983, o.WeightAD4Rot)
	assert.False(t, o.Has(FlagScoring), "defaults never count as provided")
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &IntegrationConfig{}
	cfg.Kafka.Topic = "custom"
	ApplyDefaults(cfg)
	ApplyDefaults(nil)

	assert.Equal(t, "custom", cfg.Kafka.Topic)
	assert.Equal(t, DefaultEngineBinary, cfg.Engine.Binary)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultLeaseKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, DefaultMetricsJob, cfg.Metrics.Job)
}

func TestSearchPresets(t *testing.T) {
	assert.Len(t, SearchPresets, 3)
	assert.Equal(t, SearchPreset{Exhaustiveness: 256, MaxStep: 15}, SearchPresets["fast"])
}

//Personal.AI order the ending
