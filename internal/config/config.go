// Package config provides the configuration management for the eigencalc
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments and environment variables, and
// performs validation on the configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/eigencalc/internal/eigen"
	apperrors "github.com/agbru/eigencalc/internal/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables used by
	// eigencalc. Environment variables provide an alternative to CLI flags,
	// following the 12-Factor App methodology.
	EnvPrefix = "EIGENCALC_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultDiag is the spectrum of the built-in demonstration matrix.
	DefaultDiag = "1,-0.75,0.6,-0.4,0"
	// DefaultSpread is the half-width of the random strictly-upper entries
	// of the generated demonstration matrix.
	DefaultSpread = 0.25
	// DefaultSeed makes the generated demonstration matrix reproducible.
	DefaultSeed int64 = 1
	// DefaultTimeout is the default computation timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultAlgo is the default algorithm selection.
	DefaultAlgo = "all"
	// DefaultShift is the default spectral shift for the shifted methods.
	DefaultShift = 0.55
)

// AppConfig aggregates the application's configuration parameters, parsed
// from command-line flags and environment variables. It encapsulates all
// settings that control an execution, from the input matrix to the iteration
// controls of the algorithms.
type AppConfig struct {
	// Diag specifies the spectrum of the generated demonstration matrix as a
	// comma-separated list of eigenvalues. Ignored when MatrixFile is set.
	Diag string
	// MatrixFile is the path of a CSV file holding a dense square matrix to
	// analyse instead of the generated demonstration matrix.
	MatrixFile string
	// Spread is the half-width of the random strictly-upper entries of the
	// generated matrix.
	Spread float64
	// Seed is the RNG seed for the generated matrix.
	Seed int64
	// Algo specifies the algorithm to use ("all", "power", "inverse",
	// "dynamic").
	Algo string
	// Shift is the spectral shift for the inverse and dynamic methods.
	Shift float64
	// Tol is the convergence tolerance; zero disables the early exit of the
	// fixed-shift methods.
	Tol float64
	// MaxIter caps the number of iterations per algorithm.
	MaxIter int
	// Timeout sets the maximum duration for the whole computation.
	Timeout time.Duration
	// Verbose, if true, prints the full estimate history of each run.
	Verbose bool
	// JSONOutput, if true, outputs the results in JSON format.
	JSONOutput bool
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// PlotFile, if set, saves a convergence plot of the estimate histories
	// to this PNG path.
	PlotFile string
	// Quiet mode - minimal output for scripting purposes. Suppresses the
	// spinner and informational messages.
	Quiet bool
}

// ToComputeOptions converts the application configuration into eigen.Options
// for use by the iterators.
func (c AppConfig) ToComputeOptions() eigen.Options {
	return eigen.Options{
		Shift:   c.Shift,
		Tol:     c.Tol,
		MaxIter: c.MaxIter,
	}
}

// Validate checks the semantic consistency of the configuration parameters.
// It ensures that numerical values are within valid ranges and that the
// chosen algorithm is supported.
//
// Parameters:
//   - availableAlgos: A slice of strings listing the valid algorithm names
//     (e.g., ["power", "inverse", "dynamic"]).
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.MaxIter <= 0 {
		return apperrors.NewConfigError("iteration budget must be strictly positive: %d", c.MaxIter)
	}
	if c.Tol < 0 {
		return apperrors.NewConfigError("tolerance cannot be negative: %g", c.Tol)
	}
	if c.Spread < 0 {
		return apperrors.NewConfigError("spread cannot be negative: %g", c.Spread)
	}
	if c.MatrixFile == "" && c.Diag == "" {
		return apperrors.NewConfigError("either a diagonal spectrum or a matrix file must be provided")
	}
	isAlgoAvailable := false
	for _, a := range availableAlgos {
		if a == c.Algo {
			isAlgoAvailable = true
			break
		}
	}
	if c.Algo != "all" && !isAlgoAvailable {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, sets their default values,
// and handles the parsing process. After parsing, it applies environment
// variable overrides and performs validation on the resulting configuration.
//
// The function is designed to be testable by allowing the input arguments
// and output writer to be specified.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//   - availableAlgos: A slice of valid algorithm names for validation.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'all' (default) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.StringVar(&config.Diag, "diag", DefaultDiag, "Comma-separated eigenvalues of the generated demonstration matrix.")
	fs.StringVar(&config.MatrixFile, "matrix", "", "Path to a CSV file holding a dense square matrix.")
	fs.Float64Var(&config.Spread, "spread", DefaultSpread, "Half-width of the random strictly-upper entries of the generated matrix.")
	fs.Int64Var(&config.Seed, "seed", DefaultSeed, "RNG seed for the generated matrix.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.Float64Var(&config.Shift, "shift", DefaultShift, "Spectral shift for the inverse and dynamic methods.")
	fs.Float64Var(&config.Tol, "tol", 0, "Convergence tolerance (0 disables early exit for fixed-shift methods).")
	fs.IntVar(&config.MaxIter, "maxiter", eigen.DefaultMaxIter, "Maximum number of iterations per algorithm.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the computation.")
	fs.BoolVar(&config.Verbose, "v", false, "Display the full estimate history of each run.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.PlotFile, "plot", "", "Save a PNG convergence plot of the estimate histories to this path.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs)

	config.Algo = strings.ToLower(config.Algo)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
