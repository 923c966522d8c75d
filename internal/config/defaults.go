package config

import "github.com/spf13/viper"

// setDefaults mirrors the teacher's rippled-style default table: every
// field gets a conservative single-node default so a bare `nxfd server`
// with no config file still starts.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.node_id", "")
	v.SetDefault("server.data_dir", "./data")
	v.SetDefault("server.genesis_file", "")
	v.SetDefault("server.initial_supply", int64(100_000_000_000_000)) // 1,000,000 NXF in drops

	v.SetDefault("p2p.listen_addr", "0.0.0.0:2625")
	v.SetDefault("p2p.seeds", []string{})
	v.SetDefault("p2p.max_peers", 64)
	v.SetDefault("p2p.delta_threshold", 50)
	v.SetDefault("p2p.sync_cooldown", "15s")
	v.SetDefault("p2p.dial_timeout", "5s")

	v.SetDefault("storage.kv_path", "./data/kv")
	v.SetDefault("storage.snapshot_path", "./data/snapshot.db")

	v.SetDefault("consensus.validator_seed", "")
	v.SetDefault("consensus.round_interval", "10s")
	v.SetDefault("consensus.quorum_fraction", 0.8)
	v.SetDefault("consensus.max_rounds", 4)
	v.SetDefault("consensus.unl", []string{})
	v.SetDefault("consensus.validator_public_keys", map[string]string{})

	v.SetDefault("staking.target_stake_ratio", 0.5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen_addr", "127.0.0.1:9090")
}
