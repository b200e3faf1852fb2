package sync

import (
	"fmt"

	"github.com/vitalstack/healthsync/internal/config"
	"github.com/vitalstack/healthsync/internal/provider"
	"github.com/vitalstack/healthsync/internal/provider/healthbridge"
	"github.com/vitalstack/healthsync/internal/provider/mock"
)

// ProviderType defines supported health-data provider types
type ProviderType string

const (
	// ProviderTypeHealthBridge reads from the on-device health bridge (production)
	ProviderTypeHealthBridge ProviderType = "healthbridge"
	// ProviderTypeMock generates deterministic data (dev/test)
	ProviderTypeMock ProviderType = "mock"
)

// NewHealthProvider creates a HealthProvider instance based on configuration
//
// Environment variables:
//   - PROVIDER_TYPE: "healthbridge" or "mock" (default: "mock")
//   - BRIDGE_URL: health bridge API URL (default: "http://localhost:8090")
func NewHealthProvider(cfg *config.Config) (provider.HealthProvider, error) {
	providerType := ProviderType(cfg.ProviderType)

	switch providerType {
	case ProviderTypeHealthBridge:
		bridgeConfig := healthbridge.DefaultConfig()
		if cfg.BridgeURL != "" {
			bridgeConfig.BaseURL = cfg.BridgeURL
		}
		return healthbridge.NewClient(bridgeConfig), nil

	case ProviderTypeMock, "":
		// Default to the mock provider for dev/test environments
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s)",
			cfg.ProviderType, ProviderTypeHealthBridge, ProviderTypeMock)
	}
}
