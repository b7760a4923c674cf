package llmprovider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaizhanov/mengram/pkg/config"
)

func TestNewFromConfigUnknownProvider(t *testing.T) {
	_, err := NewFromConfig(config.LLM{Provider: "carrier-pigeon", Model: "m"}, 0.6, 3)
	require.Error(t, err)
}

func TestBuildProviderAnyllmSplitsVendorFromModel(t *testing.T) {
	provider, err := buildProvider(config.LLM{Provider: "anyllm", Model: "anthropic/claude-3-opus"})
	require.NoError(t, err)
	assert.NotNil(t, provider)
}

func TestBuildProviderAnyllmDefaultsVendorToOpenAI(t *testing.T) {
	provider, err := buildProvider(config.LLM{Provider: "anyllm", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.NotNil(t, provider)
}
