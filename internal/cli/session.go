package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/oak/internal/configloader"
	"github.com/yaklabco/oak/internal/logging"
	"github.com/yaklabco/oak/internal/ui/pretty"
	"github.com/yaklabco/oak/pkg/config"
	"github.com/yaklabco/oak/pkg/engine"
	"github.com/yaklabco/oak/pkg/fsutil"
	"github.com/yaklabco/oak/pkg/registry"
	"github.com/yaklabco/oak/pkg/text"
)

// stdinPath is the argument that selects standard input.
const stdinPath = "-"

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	language   string
	format     string
	color      string
	logLevel   string
	debug      bool
}

// session is the resolved state a command runs with.
type session struct {
	ctx    context.Context
	cfg    *config.Config
	logger *log.Logger
	styles *pretty.Styles
	out    io.Writer
	errOut io.Writer
	in     io.Reader
}

// cliConfig converts explicitly set global flags into a config overlay.
func (f *globalFlags) cliConfig() *config.Config {
	return &config.Config{
		LogLevel: f.logLevel,
		Color:    config.ColorMode(f.color),
		Format:   config.OutputFormat(f.format),
		Language: f.language,
	}
}

// newSession loads configuration and sets up logging and styles.
func newSession(cmd *cobra.Command, flags *globalFlags) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: flags.configPath,
		CLIConfig:    flags.cliConfig(),
	})
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	cfg := result.Config

	level := cfg.LogLevel
	if flags.debug {
		level = "debug"
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, result.LoadedFrom)
	}

	ctx = logging.WithLogger(ctx, logger)
	cmd.SetContext(ctx)

	out := cmd.OutOrStdout()
	return &session{
		ctx:    ctx,
		cfg:    cfg,
		logger: logger,
		styles: pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), out)),
		out:    out,
		errOut: cmd.ErrOrStderr(),
		in:     cmd.InOrStdin(),
	}, nil
}

// document is one input together with the front end chosen for it.
type document struct {
	path     string
	src      *text.Source
	frontend engine.Frontend
	language string

	// file is nil for stdin.
	file *fsutil.FileInfo
}

// openDocument reads path (or stdin for "-") and picks its language.
func (s *session) openDocument(path string) (*document, error) {
	content, file, err := s.readInput(path)
	if err != nil {
		return nil, err
	}

	detected, err := registry.Default.Detect(detectionPath(path), content, s.cfg)
	if err != nil {
		return nil, usageError(fmt.Errorf("%w (use --lang to choose one of: %v)", err, registry.Default.Names()))
	}

	s.logger.Debug("language selected",
		logging.FieldPath, path,
		logging.FieldLanguage, detected.Entry.Name,
		logging.FieldDetected, detected.Method,
	)

	settings := registry.SettingsFromConfig(s.cfg, s.logger)
	return &document{
		path:     path,
		src:      text.NewSource(string(content), s.cfg.SourceOptions(path)...),
		frontend: detected.Entry.Frontend(settings),
		language: detected.Entry.Name,
		file:     file,
	}, nil
}

func (s *session) readInput(path string) ([]byte, *fsutil.FileInfo, error) {
	if path == stdinPath {
		content, err := io.ReadAll(s.in)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, nil, nil
	}

	content, file, err := fsutil.ReadFile(s.ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}
	return content, file, nil
}

func detectionPath(path string) string {
	if path == stdinPath {
		return "stdin"
	}
	return filepath.Clean(path)
}

// jsonOutput reports whether the resolved format is JSON.
func (s *session) jsonOutput() bool {
	return s.cfg.Format == config.FormatJSON
}
