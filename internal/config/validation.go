package config

import "fmt"

// Validate sanity-checks a loaded Config. It never mutates its argument.
func Validate(c *Config) error {
	if c.Server.DataDir == "" {
		return fmt.Errorf("server.data_dir must not be empty")
	}
	if c.Server.InitialSupply < 0 {
		return fmt.Errorf("server.initial_supply must be non-negative")
	}
	if c.P2P.MaxPeers <= 0 {
		return fmt.Errorf("p2p.max_peers must be positive")
	}
	if c.P2P.DeltaThreshold == 0 {
		return fmt.Errorf("p2p.delta_threshold must be positive")
	}
	if c.Consensus.QuorumFraction <= 0 || c.Consensus.QuorumFraction > 1 {
		return fmt.Errorf("consensus.quorum_fraction must be in (0, 1]")
	}
	if c.Consensus.RoundInterval <= 0 {
		return fmt.Errorf("consensus.round_interval must be positive")
	}
	if c.Staking.TargetStakeRatio <= 0 {
		return fmt.Errorf("staking.target_stake_ratio must be positive")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
