package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type NetworkConfig struct {
	ChainId  int64  `yaml:"chain_id"`
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Explorer string `yaml:"explorer"`
}

type NetworksConfig struct {
	Networks []NetworkConfig `yaml:"networks"`
}

// LoadNetworkConfig reads the supported-network registry used to label
// connected wallet accounts. Paths are resolved relative to the working
// directory unless absolute.
func LoadNetworkConfig(networksFile string) ([]NetworkConfig, error) {
	var networksPath string
	if filepath.IsAbs(networksFile) {
		networksPath = networksFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		networksPath = filepath.Join(wd, networksFile)
	}

	data, err := os.ReadFile(networksPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", networksFile, err)
	}

	var config NetworksConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", networksFile, err)
	}

	for i, network := range config.Networks {
		if network.ChainId == 0 {
			return nil, fmt.Errorf("network at index %d missing chain_id", i)
		}
		if network.Name == "" {
			return nil, fmt.Errorf("network at index %d missing name", i)
		}
	}

	return config.Networks, nil
}

// NetworkRegistry resolves chain ids to network metadata.
type NetworkRegistry struct {
	byChainId map[int64]NetworkConfig
}

func NewNetworkRegistry(networks []NetworkConfig) *NetworkRegistry {
	byChainId := make(map[int64]NetworkConfig, len(networks))
	for _, n := range networks {
		byChainId[n.ChainId] = n
	}
	return &NetworkRegistry{byChainId: byChainId}
}

// Lookup returns the registered network for a chain id, or false when the
// chain is not in the registry.
func (r *NetworkRegistry) Lookup(chainId int64) (NetworkConfig, bool) {
	n, ok := r.byChainId[chainId]
	return n, ok
}
