package config

import (
	"fmt"
	"strings"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/krazyTry/swapio-clmm-go/clmm"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	LogLevel         string
	Snapshot         string
	Pool             solanago.PublicKey
	Epoch            uint64
	SlippageBps      uint16
	NeighborhoodSize int
}

// Options turns the pool settings into manager options.
func (c Config) Options() []clmm.Option {
	return []clmm.Option{
		clmm.WithEpoch(c.Epoch),
		clmm.WithSlippageBps(c.SlippageBps),
		clmm.WithNeighborhoodSize(c.NeighborhoodSize),
	}
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SWAPIO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	v.SetDefault("snapshot", "./snapshot.json")
	v.SetDefault("epoch", uint64(0))
	v.SetDefault("slippage-bps", 0)
	v.SetDefault("neighborhood-size", clmm.NeighborhoodSize)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("swapio")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		LogLevel:         v.GetString("log-level"),
		Snapshot:         strings.TrimSpace(v.GetString("snapshot")),
		Epoch:            v.GetUint64("epoch"),
		NeighborhoodSize: v.GetInt("neighborhood-size"),
	}

	slippage := v.GetInt("slippage-bps")
	if slippage < 0 || slippage > 10_000 {
		return Config{}, fmt.Errorf("slippage-bps must be within [0, 10000], got %d", slippage)
	}
	cfg.SlippageBps = uint16(slippage)

	if cfg.NeighborhoodSize <= 0 {
		return Config{}, fmt.Errorf("neighborhood-size must be positive, got %d", cfg.NeighborhoodSize)
	}
	if cfg.Snapshot == "" {
		return Config{}, fmt.Errorf("snapshot path is required")
	}

	pool := strings.TrimSpace(v.GetString("pool"))
	if pool == "" {
		return Config{}, fmt.Errorf("pool address is required")
	}
	key, err := solanago.PublicKeyFromBase58(pool)
	if err != nil {
		return Config{}, fmt.Errorf("invalid pool address %q: %w", pool, err)
	}
	cfg.Pool = key

	return cfg, nil
}
