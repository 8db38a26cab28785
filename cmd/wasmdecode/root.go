package main

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	wasmdecode "github.com/wippyai/wasm-decode"
	"github.com/wippyai/wasm-decode/engine"
	"github.com/wippyai/wasm-decode/errors"
	"github.com/wippyai/wasm-decode/inspect"
	"github.com/wippyai/wasm-decode/inspect/browse"
	"github.com/wippyai/wasm-decode/wasm"
)

// globalState is everything the commands touch outside the process.
type globalState struct {
	fs        afero.Fs
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)
	isTTY     func() bool
}

type rootCommand struct {
	gs    *globalState
	flags Config
}

func newRootCommand(gs *globalState) *cobra.Command {
	c := &rootCommand{gs: gs, flags: defaultConfig()}

	root := &cobra.Command{
		Use:           "wasmdecode",
		Short:         "Decode WebAssembly binaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(gs.stdout)
	root.SetErr(gs.stderr)
	root.PersistentFlags().AddFlagSet(rootFlagSet(&c.flags))
	root.AddCommand(c.decodeCmd(), c.summaryCmd(), c.browseCmd())
	return root
}

func (c *rootCommand) decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Print the decoded module",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runDecode,
	}
	cmd.Flags().AddFlagSet(decodeFlagSet(&c.flags))
	return cmd
}

func (c *rootCommand) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <file>",
		Short: "Print section and entry counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, _, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			_, err = inspect.Summary(m).WriteTo(c.gs.stdout)
			return err
		},
	}
}

func (c *rootCommand) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>",
		Short: "Browse the module sections interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.gs.isTTY() {
				return errors.InvalidInput(errors.PhaseLoad, "browse needs a terminal")
			}
			m, _, _, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			return browse.Run(args[0], m)
		},
	}
}

func (c *rootCommand) runDecode(cmd *cobra.Command, args []string) error {
	m, data, cfg, err := c.load(cmd, args[0])
	if err != nil {
		return err
	}

	if cfg.Validate {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
	}
	if cfg.Verify {
		if err := engine.Verify(cmd.Context(), data, m, engine.WithLogger(cfg.logger)); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
	}

	if cfg.Format == formatYAML {
		return inspect.YAML(c.gs.stdout, m)
	}
	var opts []inspect.TextOption
	if c.gs.isTTY() {
		opts = append(opts, inspect.WithStyles(inspect.DefaultStyles()))
	}
	return inspect.Text(c.gs.stdout, m, opts...)
}

type runConfig struct {
	Config
	logger *zap.Logger
}

// load consolidates the configuration, reads the named file and decodes it.
func (c *rootCommand) load(cmd *cobra.Command, path string) (*wasm.Module, []byte, runConfig, error) {
	cfg, err := consolidateConfig(cmd.Flags(), c.flags, c.gs.lookupEnv)
	if err != nil {
		return nil, nil, runConfig{}, err
	}
	logger, err := newLogger(cfg.LogLevel, c.gs.stderr)
	if err != nil {
		return nil, nil, runConfig{}, err
	}
	rc := runConfig{Config: cfg, logger: logger}

	data, err := wasmdecode.FileSource{Fs: c.gs.fs, Path: path}.Bytes()
	if err != nil {
		return nil, nil, rc, err
	}

	opts := []wasm.Option{wasm.WithLogger(logger.With(zap.String("file", path)))}
	if cfg.StrictBodies {
		opts = append(opts, wasm.WithStrictBodies())
	}
	m, err := wasmdecode.Load(wasmdecode.BytesSource(data), opts...)
	if err != nil {
		return nil, nil, rc, fmt.Errorf("%s: %w", path, err)
	}
	return m, data, rc, nil
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
