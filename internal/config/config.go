// Package config loads nxfd's configuration from a TOML file, environment
// overrides, and built-in defaults, mirroring the layered loader the
// teacher repo uses for its own server configuration.
package config

import "time"

// Config is the complete, immutable configuration for one node process. It
// is loaded once at startup and passed by value into the components that
// need it; nothing mutates it afterward.
type Config struct {
	Server   ServerConfig   `toml:"server" mapstructure:"server"`
	P2P      P2PConfig      `toml:"p2p" mapstructure:"p2p"`
	Storage  StorageConfig  `toml:"storage" mapstructure:"storage"`
	Consensus ConsensusConfig `toml:"consensus" mapstructure:"consensus"`
	Staking  StakingConfig  `toml:"staking" mapstructure:"staking"`
	Logging  LoggingConfig  `toml:"logging" mapstructure:"logging"`
	Metrics  MetricsConfig  `toml:"metrics" mapstructure:"metrics"`

	configPath string `toml:"-" mapstructure:"-"`
}

// ServerConfig controls the node's identity and genesis parameters.
type ServerConfig struct {
	NodeID        string `toml:"node_id" mapstructure:"node_id"`
	DataDir       string `toml:"data_dir" mapstructure:"data_dir"`
	GenesisFile   string `toml:"genesis_file" mapstructure:"genesis_file"`
	InitialSupply int64  `toml:"initial_supply" mapstructure:"initial_supply"`
}

// P2PConfig controls the gossip listener, seed peers, and sync tuning.
type P2PConfig struct {
	ListenAddr      string        `toml:"listen_addr" mapstructure:"listen_addr"`
	Seeds           []string      `toml:"seeds" mapstructure:"seeds"`
	MaxPeers        int           `toml:"max_peers" mapstructure:"max_peers"`
	DeltaThreshold  uint32        `toml:"delta_threshold" mapstructure:"delta_threshold"`
	SyncCooldown    time.Duration `toml:"sync_cooldown" mapstructure:"sync_cooldown"`
	DialTimeout     time.Duration `toml:"dial_timeout" mapstructure:"dial_timeout"`
}

// StorageConfig controls the embedded key-value store and relational
// snapshot store paths.
type StorageConfig struct {
	KVPath       string `toml:"kv_path" mapstructure:"kv_path"`
	SnapshotPath string `toml:"snapshot_path" mapstructure:"snapshot_path"`
}

// ConsensusConfig controls the validator round timing and the node's UNL
// (spec.md §4.4).
type ConsensusConfig struct {
	ValidatorSeed  string        `toml:"validator_seed" mapstructure:"validator_seed"`
	RoundInterval  time.Duration `toml:"round_interval" mapstructure:"round_interval"`
	QuorumFraction float64       `toml:"quorum_fraction" mapstructure:"quorum_fraction"`
	MaxRounds      int           `toml:"max_rounds" mapstructure:"max_rounds"`

	// UNL lists the node ids of trusted validators, excluding self.
	UNL []string `toml:"unl" mapstructure:"unl"`
	// ValidatorPublicKeys maps a UNL validator id to its hex compressed
	// secp256k1 public key. A validator absent from this map has its
	// proposals accepted unsigned (spec.md §4.4).
	ValidatorPublicKeys map[string]string `toml:"validator_public_keys" mapstructure:"validator_public_keys"`
}

// StakingConfig holds staking settings. TargetStakeRatio is checked by
// Validate but is not passed to the ledger: the dynamic APY curve uses the
// fixed staking.TargetStakeRatio.
type StakingConfig struct {
	TargetStakeRatio float64 `toml:"target_stake_ratio" mapstructure:"target_stake_ratio"`
}

// LoggingConfig controls the logrus setup.
type LoggingConfig struct {
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"` // "text" or "json"
}

// MetricsConfig controls the prometheus exporter.
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" mapstructure:"enabled"`
	ListenAddr  string `toml:"listen_addr" mapstructure:"listen_addr"`
}

// Path returns the file the config was loaded from, empty if loaded purely
// from defaults/env (as in tests).
func (c *Config) Path() string { return c.configPath }
