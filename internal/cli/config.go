package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/voicechunk/internal/config"
)

// configKeyHelp describes each configuration key for help output.
var configKeyHelp = map[string]string{
	config.KeyOutputDir:    "Parent directory for <input>_chunks",
	config.KeySampleRate:   "Working sample rate in Hz",
	config.KeyFrameMs:      "Frame duration in milliseconds",
	config.KeyMinChunk:     "Minimum chunk duration in seconds",
	config.KeySilenceDB:    "Energy split threshold below peak in dB",
	config.KeySensitivity:  "Classifier sensitivity 0-3",
	config.KeyStrategy:     "frame or segment",
	config.KeyClassifier:   "webrtc or energy",
	config.KeyDenoiseModel: "RNNoise model used with --denoise",
	config.KeySileroModel:  "Silero VAD ONNX model for the segment strategy",
}

// configKeysHelp renders the supported keys with their env fallbacks.
func configKeysHelp() string {
	var b strings.Builder
	for _, key := range config.Keys() {
		fmt.Fprintf(&b, "  %-14s %s (env: %s)\n", key, configKeyHelp[key], config.EnvVar(key))
	}
	return b.String()
}

// pathKeys are stored with ~ expanded.
var pathKeys = []string{config.KeyOutputDir, config.KeyDenoiseModel, config.KeySileroModel}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/voicechunk/config.
Environment variables apply when a key is not in the file; flags override both.

Supported settings:
` + configKeysHelp(),
		Example: `  voicechunk config set output-dir ~/Recordings/chunks
  voicechunk config set min-chunk 20
  voicechunk config get strategy
  voicechunk config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Values are checked against the key's type. The output-dir directory is
created if it doesn't exist.`,
		Example: `  voicechunk config set output-dir ~/Recordings/chunks
  voicechunk config set sensitivity 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  voicechunk config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable fallbacks.`,
		Example: `  voicechunk config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if slices.Contains(pathKeys, key) {
		value = config.ExpandPath(value)
	}
	if err := config.ValidateValue(key, value); err != nil {
		return err
	}

	if key == config.KeyOutputDir {
		if err := config.ValidOutputDir(value); err != nil {
			return fmt.Errorf("%w: output-dir: %w", config.ErrInvalidValue, err)
		}
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if !isValidConfigKey(key) {
		return fmt.Errorf("%w: %q (valid keys: %s)", config.ErrUnknownKey, key, strings.Join(config.Keys(), ", "))
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	// Environment variable fallback.
	if value == "" {
		value = env.Getenv(config.EnvVar(key))
	}

	if value != "" {
		_, _ = fmt.Fprintln(env.Stdout, value)
	}
	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	for _, key := range config.Keys() {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(config.EnvVar(key)); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	if len(data) == 0 {
		_, _ = fmt.Fprintln(env.Stdout, "No configuration set.")
		_, _ = fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		_, _ = fmt.Fprint(env.Stdout, configKeysHelp())
		return nil
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		_, _ = fmt.Fprintf(env.Stdout, "%s=%s\n", key, data[key])
	}
	return nil
}

// isValidConfigKey checks if a key is a valid configuration key.
func isValidConfigKey(key string) bool {
	return config.EnvVar(key) != ""
}
