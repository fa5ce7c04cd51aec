// Package config loads builder configuration external to the core packages:
// endpoint kind and location, tree structure parameters, and worker
// count. This is the out-of-scope "external collaborator" spec.md §1 leaves
// to the caller; the core packages (structure, chunk, climber, endpoint)
// never import it.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pierotofy/entwine/structure"
)

// EndpointKind names a supported storage backend.
type EndpointKind string

const (
	EndpointMemory EndpointKind = "memory"
	EndpointAzure  EndpointKind = "azure"
)

// Config is the builder-process configuration, populated from environment
// variables (prefix ENTWINE_) and an optional config file.
type Config struct {
	Endpoint EndpointKind
	Azure    AzureConfig

	Dimensions        uint8
	NominalChunkDepth uint32
	ColdDepthBegin    uint32
	SparseDepthBegin  uint32
	BaseChunkPoints   uint64

	Workers int
}

// AzureConfig holds the account URL and container of the azure endpoint. It
// carries no credentials.
type AzureConfig struct {
	AccountURL string
	Container  string
}

// Load reads configuration from the environment (and configPath, if
// non-empty) using viper, applying defaults for anything unset.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("entwine")
	v.AutomaticEnv()

	v.SetDefault("endpoint", string(EndpointMemory))
	v.SetDefault("dimensions", 3)
	v.SetDefault("nominalchunkdepth", 6)
	v.SetDefault("colddepthbegin", 8)
	v.SetDefault("sparsedepthbegin", 0)
	v.SetDefault("basechunkpoints", uint64(4096))
	v.SetDefault("workers", 1)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}

	cfg := Config{
		Endpoint:          EndpointKind(v.GetString("endpoint")),
		Dimensions:        uint8(v.GetUint("dimensions")),
		NominalChunkDepth: uint32(v.GetUint("nominalchunkdepth")),
		ColdDepthBegin:    uint32(v.GetUint("colddepthbegin")),
		SparseDepthBegin:  uint32(v.GetUint("sparsedepthbegin")),
		BaseChunkPoints:   v.GetUint64("basechunkpoints"),
		Workers:           v.GetInt("workers"),
		Azure: AzureConfig{
			AccountURL: v.GetString("azure.accounturl"),
			Container:  v.GetString("azure.container"),
		},
	}
	return cfg, nil
}

// Structure builds a structure.Structure from the loaded configuration.
func (c Config) Structure() (structure.Structure, error) {
	return structure.New(c.Dimensions, c.NominalChunkDepth, c.ColdDepthBegin, c.SparseDepthBegin, c.BaseChunkPoints)
}
