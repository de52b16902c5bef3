package ldamodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig(10)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsZeroK(t *testing.T) {
	cfg := DefaultConfig(0)
	err := cfg.Validate()
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "K", cfgErr.Field)
}

func TestValidateRejectsZeroW(t *testing.T) {
	cfg := DefaultConfig(4)
	cfg.W = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroMinibatch(t *testing.T) {
	cfg := DefaultConfig(4)
	cfg.Minibatch = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveEpsilon(t *testing.T) {
	cfg := DefaultConfig(4)
	cfg.Epsilon = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateClampsHighLearningRate(t *testing.T) {
	cfg := DefaultConfig(4)
	cfg.Eta0 = 5
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, float32(1), cfg.Eta0)
}
