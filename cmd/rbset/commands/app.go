// Package commands implements CLI command handlers for rbset.
package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/exp/constraints"

	"github.com/Sumatoshi-tech/rbset/pkg/config"
	"github.com/Sumatoshi-tech/rbset/pkg/observability"
	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

// Key types accepted by --type.
const (
	KeyTypeInt    = "int"
	KeyTypeString = "string"
)

const (
	stdinPath       = "-"
	defaultMaxInput = "64MiB"
	outputStdout    = "stdout"
	outputStderr    = "stderr"
	logFileMode     = 0o600
)

var (
	// ErrUnknownKeyType is returned for a --type other than int or string.
	ErrUnknownKeyType = errors.New("unknown key type")
	// ErrBadKey is returned when an input token cannot be parsed as a key.
	ErrBadKey = errors.New("malformed key")
	// ErrInputTooLarge is returned when the input exceeds --max-input.
	ErrInputTooLarge = errors.New("input exceeds --max-input")
)

// App holds the state shared by all the sub-commands of one invocation.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	keyType    string
	maxInput   string
	verbose    bool
	quiet      bool

	logFile *os.File
}

// NewApp creates an App bound to the given standard streams.
func NewApp(stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{
		Config: config.Default(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

func (app *App) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "config file (default: ./.rbset.yaml or ~/.rbset.yaml)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&app.quiet, "quiet", "q", false, "suppress output")
	flags.StringVar(&app.keyType, "type", KeyTypeInt, "key type: int or string")
	flags.StringVar(&app.maxInput, "max-input", defaultMaxInput, "maximum input size, e.g. 512KiB or 10MB")
}

// setup loads the configuration and builds the logger. It runs before every sub-command.
func (app *App) setup(mode observability.AppMode) error {
	cfg, err := config.LoadConfig(app.configPath)
	if err != nil {
		return err
	}

	app.Config = cfg

	obsCfg := observability.DefaultConfig()
	obsCfg.Mode = mode
	obsCfg.LogJSON = cfg.Logging.Format == config.FormatJSON

	obsCfg.LogLevel, err = observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	switch {
	case app.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case app.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	out, err := app.logOutput(cfg.Logging.Output)
	if err != nil {
		return err
	}

	app.Logger = observability.NewLogger(obsCfg, out)

	return nil
}

func (app *App) logOutput(output string) (io.Writer, error) {
	switch output {
	case outputStderr, "":
		return app.stderr, nil
	case outputStdout:
		return app.stdout, nil
	}

	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFileMode)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	app.logFile = file

	return file, nil
}

func (app *App) teardown() error {
	if app.logFile == nil {
		return nil
	}

	err := app.logFile.Close()
	app.logFile = nil

	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}

	return nil
}

// readTokens returns the whitespace separated words of path, "-" being standard input.
func (app *App) readTokens(path string) ([]string, error) {
	limit, err := humanize.ParseBytes(app.maxInput)
	if err != nil {
		return nil, fmt.Errorf("--max-input: %w", err)
	}

	var reader io.Reader

	if path == stdinPath {
		reader = app.stdin
	} else {
		file, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("open input: %w", openErr)
		}
		defer file.Close()

		reader = file
	}

	// One byte past the limit is enough to tell that the input is too large.
	readLimit := int64(math.MaxInt64)
	if limit < math.MaxInt64 {
		readLimit = int64(limit) + 1
	}

	maxToken := math.MaxInt
	if readLimit < int64(math.MaxInt) {
		maxToken = max(int(readLimit)+1, bufio.MaxScanTokenSize)
	}

	counter := &countingReader{inner: io.LimitReader(reader, readLimit)}
	scanner := bufio.NewScanner(counter)
	scanner.Buffer(make([]byte, 0, min(maxToken, bufio.MaxScanTokenSize)), maxToken)
	scanner.Split(bufio.ScanWords)

	var tokens []string

	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}

	err = scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		return nil, fmt.Errorf("%w: a single key is longer than %s", ErrInputTooLarge, humanize.IBytes(limit))
	}

	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if counter.read > limit {
		return nil, fmt.Errorf("%w: more than %s", ErrInputTooLarge, humanize.IBytes(limit))
	}

	app.Logger.Debug("input read", "path", path, "tokens", len(tokens), "bytes", humanize.IBytes(counter.read))

	return tokens, nil
}

type countingReader struct {
	inner io.Reader
	read  uint64
}

func (cr *countingReader) Read(buf []byte) (int, error) {
	n, err := cr.inner.Read(buf)
	cr.read += uint64(n)

	return n, err //nolint:wrapcheck // io.EOF must reach the scanner untouched.
}

// keyHandlers runs the variant matching --type. Each variant gets a freshly built set.
type keyHandlers struct {
	ints    func(set *rbtree.OrderedKeySet[int]) error
	strings func(set *rbtree.OrderedKeySet[string]) error
}

func (app *App) withKeys(tokens []string, handlers keyHandlers) error {
	switch app.keyType {
	case KeyTypeInt:
		set, err := buildSet(app, tokens, strconv.Atoi)
		if err != nil {
			return err
		}

		return handlers.ints(set)
	case KeyTypeString:
		set, err := buildSet(app, tokens, parseString)
		if err != nil {
			return err
		}

		return handlers.strings(set)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKeyType, app.keyType)
	}
}

func buildSet[K constraints.Ordered](app *App, tokens []string, parse func(string) (K, error)) (*rbtree.OrderedKeySet[K], error) {
	keys, err := parseKeys(tokens, parse)
	if err != nil {
		return nil, err
	}

	allocator := rbtree.NewAllocator[K]()
	allocator.HibernationThreshold = app.Config.Arena.HibernationThreshold
	set := rbtree.NewWithAllocator(allocator)

	duplicates := 0

	for _, key := range keys {
		if !set.Insert(key) {
			duplicates++
		}
	}

	app.Logger.Info("set built", "keys", set.Len(), "duplicates", duplicates)

	return set, nil
}

func parseString(token string) (string, error) {
	return token, nil
}

func parseKeys[K constraints.Ordered](tokens []string, parse func(string) (K, error)) ([]K, error) {
	keys := make([]K, 0, len(tokens))

	for idx, token := range tokens {
		key, err := parse(token)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d %q", ErrBadKey, idx+1, token)
		}

		keys = append(keys, key)
	}

	return keys, nil
}

// withOutput calls fn with the file at path, or with standard output when path is empty.
func (app *App) withOutput(path string, fn func(writer io.Writer) error) error {
	if path == "" {
		return fn(app.stdout)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	writeErr := fn(file)
	closeErr := file.Close()

	if writeErr != nil {
		return writeErr
	}

	if closeErr != nil {
		return fmt.Errorf("close output: %w", closeErr)
	}

	app.Logger.Info("output written", "path", path)

	return nil
}
