// Command cn25519 exposes the cn25519 key, signature and derivation
// operations on the command line. Keys, hashes and signatures are read and
// written as hex.
package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"cn25519.mleku.dev"
)

// CmdRoot is the prefix of environment variables read by the command
const CmdRoot = "CN25519"

// Configuration keys
const (
	hashKey     = "hash"
	logLevelKey = "log-level"
	configKey   = "config"
)

// cli carries the state shared by all subcommands once the root command
// has parsed its configuration
type cli struct {
	v      *viper.Viper
	logger *zap.SugaredLogger
	ctx    *cn25519.Context
}

// newHasher maps a configured hash name to its Hasher
func newHasher(name string) (cn25519.Hasher, error) {
	switch strings.ToLower(name) {
	case "", "keccak", "keccak256":
		return cn25519.Keccak256Hasher, nil
	case "sha256":
		return cn25519.SHA256Hasher, nil
	default:
		return nil, errors.Errorf("unknown hash %q, expected keccak or sha256", name)
	}
}

// setup reads the optional config file and builds the logger and context
func (c *cli) setup() error {
	if path := c.v.GetString(configKey); path != "" {
		c.v.SetConfigFile(path)
		if err := c.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config file %s", path)
		}
	}

	logger, err := NewLogger(LogConfig{Level: c.v.GetString(logLevelKey)})
	if err != nil {
		return err
	}
	c.logger = logger

	h, err := newHasher(c.v.GetString(hashKey))
	if err != nil {
		return err
	}
	c.ctx = cn25519.NewContext(cn25519.WithHasher(h))

	c.logger.Debugw("configuration loaded",
		"hash", c.v.GetString(hashKey),
		"config", c.v.ConfigFileUsed(),
	)
	return nil
}

// newMainCmd assembles the command tree around v
func newMainCmd(v *viper.Viper) *cobra.Command {
	c := &cli{v: v}

	mainCmd := &cobra.Command{
		Use:          "cn25519",
		Short:        "CryptoNote-style Ed25519 keys, signatures and derivations",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	// For environment variables.
	v.SetEnvPrefix(CmdRoot)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.SetDefault(hashKey, "keccak")

	mainFlags := mainCmd.PersistentFlags()
	mainFlags.String(hashKey, "keccak", "hash function: keccak or sha256")
	mainFlags.String(logLevelKey, "", "log level: debug, info, warn or error")
	mainFlags.String(configKey, "", "optional configuration file")
	v.BindPFlag(hashKey, mainFlags.Lookup(hashKey))
	v.BindPFlag(logLevelKey, mainFlags.Lookup(logLevelKey))
	v.BindPFlag(configKey, mainFlags.Lookup(configKey))

	mainCmd.AddCommand(c.keygenCmd())
	mainCmd.AddCommand(c.pubkeyCmd())
	mainCmd.AddCommand(c.signCmd())
	mainCmd.AddCommand(c.verifyCmd())
	mainCmd.AddCommand(c.deriveCmd())
	mainCmd.AddCommand(c.keyimageCmd())
	mainCmd.AddCommand(c.hashCmd())

	return mainCmd
}

func main() {
	// On failure Cobra prints the error string, so we only need to exit
	// with a non-0 status
	if newMainCmd(viper.New()).Execute() != nil {
		os.Exit(1)
	}
}
