package model_test

import (
	"testing"

	"github.com/on-the-ground/impure_go/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNewScopeConfig_Defaults(t *testing.T) {
	assert.Equal(t, model.ScopeConfig{BufferSize: 1, NumWorkers: 1}, model.NewScopeConfig(0, -3))
	assert.Equal(t, model.ScopeConfig{BufferSize: 8, NumWorkers: 4}, model.NewScopeConfig(8, 4))
}
