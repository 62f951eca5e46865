package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogResolvesKnownColors(t *testing.T) {
	holder, err := NewCatalogHolder()
	require.NoError(t, err)

	code, ok := holder.ColorCode("Pink")
	assert.True(t, ok)
	assert.Equal(t, "#ff69b4", code)

	code, ok = holder.ColorCode("Chartreuse")
	assert.False(t, ok)
	assert.Empty(t, code)
}

func TestValidateCatalogConfig(t *testing.T) {
	assert.NoError(t, validateCatalogConfig(DefaultCatalogConfig()))

	assert.Error(t, validateCatalogConfig(CatalogConfig{}))
	assert.Error(t, validateCatalogConfig(CatalogConfig{
		Palette: map[string]string{"Pink": "  "},
	}))
	assert.Error(t, validateCatalogConfig(CatalogConfig{
		Palette: map[string]string{" ": "#ffffff"},
	}))
}

func TestGatewayConfigured(t *testing.T) {
	assert.False(t, Config{}.GatewayConfigured())
	assert.True(t, Config{StripeSecretKey: "sk_test"}.GatewayConfigured())
}
