package cli

// Export internal functions for testing.

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// IsValidConfigKey exports isValidConfigKey for testing.
var IsValidConfigKey = isValidConfigKey

// ConfigKeysHelp exports configKeysHelp for testing.
var ConfigKeysHelp = configKeysHelp

// ClampParallel exports clampParallel for testing.
var ClampParallel = clampParallel

// DefaultChunkDir exports defaultChunkDir for testing.
var DefaultChunkDir = defaultChunkDir

// ApplyConfig exports applyConfig for testing.
var ApplyConfig = applyConfig

// SplitOptions exports splitOptions for testing.
type SplitOptions = splitOptions

// CheckOutputFile exports checkOutputFile for testing.
var CheckOutputFile = checkOutputFile

// NewLogger exports newLogger for testing.
var NewLogger = newLogger

// PrintSplitSummary exports printSplitSummary for testing.
var PrintSplitSummary = printSplitSummary
