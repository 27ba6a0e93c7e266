package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// appDir is the directory name under the user config root.
const appDir = "voicechunk"

// Config keys.
const (
	KeyOutputDir    = "output-dir"
	KeySampleRate   = "sample-rate"
	KeyFrameMs      = "frame-ms"
	KeyMinChunk     = "min-chunk"
	KeySilenceDB    = "silence-db"
	KeySensitivity  = "sensitivity"
	KeyStrategy     = "strategy"
	KeyClassifier   = "classifier"
	KeyDenoiseModel = "denoise-model"
	KeySileroModel  = "silero-model"
)

// Environment variable fallbacks, indexed by key.
var envKeys = map[string]string{
	KeyOutputDir:    "VOICECHUNK_OUTPUT_DIR",
	KeySampleRate:   "VOICECHUNK_SAMPLE_RATE",
	KeyFrameMs:      "VOICECHUNK_FRAME_MS",
	KeyMinChunk:     "VOICECHUNK_MIN_CHUNK",
	KeySilenceDB:    "VOICECHUNK_SILENCE_DB",
	KeySensitivity:  "VOICECHUNK_SENSITIVITY",
	KeyStrategy:     "VOICECHUNK_STRATEGY",
	KeyClassifier:   "VOICECHUNK_CLASSIFIER",
	KeyDenoiseModel: "VOICECHUNK_DENOISE_MODEL",
	KeySileroModel:  "VOICECHUNK_SILERO_MODEL",
}

// ErrUnknownKey indicates a key that is not a recognized setting.
var ErrUnknownKey = errors.New("unknown config key")

// ErrInvalidValue indicates a value that does not parse for its key.
var ErrInvalidValue = errors.New("invalid config value")

// Config holds user settings from ~/.config/voicechunk/config and the
// environment. Zero values mean "not set"; callers apply their own defaults.
type Config struct {
	OutputDir    string
	SampleRate   int
	FrameMs      int
	MinChunk     float64 // Seconds.
	SilenceDB    float64
	Sensitivity  *int // nil when unset; 0 is a valid sensitivity.
	Strategy     string
	Classifier   string
	DenoiseModel string
	SileroModel  string
}

// Keys returns all recognized keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(envKeys))
	for k := range envKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// EnvVar returns the environment variable read as fallback for key.
func EnvVar(key string) string {
	return envKeys[key]
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/voicechunk.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// Returns an empty Config if the file doesn't exist (not an error).
// Unknown keys in the file are ignored; malformed values are errors.
func Load() (Config, error) {
	p, err := path()
	if err != nil {
		return Config{}, err
	}

	raw := make(map[string]string)
	if data, err := parseFile(p); err == nil {
		raw = data
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Environment variable fallback (only if not set in config).
	for key, env := range envKeys {
		if raw[key] == "" {
			if v := os.Getenv(env); v != "" {
				raw[key] = v
			}
		}
	}

	return fromMap(raw)
}

// fromMap converts raw values into a typed Config.
func fromMap(raw map[string]string) (Config, error) {
	cfg := Config{
		OutputDir:    raw[KeyOutputDir],
		Strategy:     raw[KeyStrategy],
		Classifier:   raw[KeyClassifier],
		DenoiseModel: raw[KeyDenoiseModel],
		SileroModel:  raw[KeySileroModel],
	}

	var err error
	if cfg.SampleRate, err = parseInt(raw, KeySampleRate); err != nil {
		return Config{}, err
	}
	if cfg.FrameMs, err = parseInt(raw, KeyFrameMs); err != nil {
		return Config{}, err
	}
	if cfg.MinChunk, err = parseFloat(raw, KeyMinChunk); err != nil {
		return Config{}, err
	}
	if cfg.SilenceDB, err = parseFloat(raw, KeySilenceDB); err != nil {
		return Config{}, err
	}
	if v := raw[KeySensitivity]; v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q: not an integer", ErrInvalidValue, KeySensitivity, v)
		}
		cfg.Sensitivity = &s
	}
	return cfg, nil
}

func parseInt(raw map[string]string, key string) (int, error) {
	v := raw[key]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: not an integer", ErrInvalidValue, key, v)
	}
	return n, nil
}

func parseFloat(raw map[string]string, key string) (float64, error) {
	v := raw[key]
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: not a number", ErrInvalidValue, key, v)
	}
	return f, nil
}

// ValidateValue checks value against the type of key.
// Path-valued keys are only checked for emptiness.
func ValidateValue(key, value string) error {
	if _, ok := envKeys[key]; !ok {
		return fmt.Errorf("%w: %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	if value == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalidValue, key)
	}
	_, err := fromMap(map[string]string{key: value})
	return err
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	p, err := path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map to a file, one sorted key per line.
func writeFile(p string, data map[string]string) error {
	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, data[key]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	data, err := List()
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// List returns all config file values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	return data, nil
}

// ResolveOutputPath resolves the final output path using the following precedence:
//  1. If output is absolute, use it as-is
//  2. If output is relative and outputDir is set, join them
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir)
func ResolveOutputPath(output, outputDir, defaultName string) string {
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}

	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}

	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// ValidOutputDir checks that d exists (creating it if needed) and is a
// writable directory.
func ValidOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output-dir cannot be empty")
	}
	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(d, 0o750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", d)
	}

	f, err := os.CreateTemp(d, ".voicechunk-write-test-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name) // Best effort cleanup, ignore error
	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

// Dir returns the configuration directory path (exported for testing).
func Dir() (string, error) {
	return dir()
}

// ParseFile reads a key=value config file (exported for testing).
func ParseFile(p string) (map[string]string, error) {
	return parseFile(p)
}
