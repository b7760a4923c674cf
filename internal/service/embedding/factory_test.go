package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaizhanov/mengram/pkg/config"
)

func TestNewFromConfigUnknownProvider(t *testing.T) {
	_, err := NewFromConfig(config.Embeddings{Provider: "carrier-pigeon"}, 0.6, 3)
	require.Error(t, err)
}

func TestBuildProviderMockDefaultsDimensions(t *testing.T) {
	provider, err := buildProvider(config.Embeddings{Provider: "mock"})
	require.NoError(t, err)
	assert.Equal(t, 1536, provider.Dimensions())
}

func TestBuildProviderMockRespectsConfiguredDimensions(t *testing.T) {
	provider, err := buildProvider(config.Embeddings{Provider: "mock", Dimensions: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, provider.Dimensions())
}
