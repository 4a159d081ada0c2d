package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

// version is set via ldflags.
var version = "dev"

// cliOptions holds the flags that are not layered through the config file.
type cliOptions struct {
	configPath       string
	fromClipboard    bool
	copyContent      bool
	printFlag        bool
	copyFlag         bool
	sshCopyFlag      bool
	setDefaultOutput string
	noIgnoreFile     bool
	debug            bool

	settings *settings
}

// app carries the process-level collaborators so tests can replace them.
type app struct {
	stdout    io.Writer
	stderr    io.Writer
	terminal  *os.File
	clipboard clipboardIO
	provider  func(s *settings, log logger) (StatsProvider, error)
}

func newApp() *app {
	return &app{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		terminal:  os.Stdout,
		clipboard: systemClipboard{},
		provider:  newToolProvider,
	}
}

func newToolProvider(s *settings, log logger) (StatsProvider, error) {
	estimator, err := newTokenEstimator(s.Tokenizer, s.Model)
	if err != nil {
		return nil, err
	}
	return newYekProvider(s.Tool, estimator, log), nil
}

func newRootCmd(a *app) *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "flatstat [PATH]",
		Short: "Flatstat reports where the tokens of a codebase are",
		Long: heredoc.Doc(`
			Flatstat runs yek on a directory and summarizes its output: the total
			estimated token count, the largest directories and the largest files.
			Files above the line-count threshold are highlighted. The report (or,
			with --copy-content, the concatenated file contents) is then copied to
			the clipboard.

			Defaults can be stored in ~/.flatstat (YAML) and overridden with
			FLATSTAT_* environment variables, for example FLATSTAT_TOP_FILE_COUNT=20
			or FLATSTAT_EXCLUDE="docs/**,vendor/**".
		`),
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.fromClipboard && len(args) > 0 {
				return errors.New("PATH cannot be combined with --from-clipboard")
			}
			path := opts.configPath
			if path == "" {
				path, _ = defaultConfigPath()
			}
			s, err := loadSettings(path, cmd.Flags())
			if err != nil {
				return err
			}
			opts.settings = s
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return a.run(cmd.Context(), &opts, args)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	// Settings-backed flags are read back through viper in loadSettings.
	flags.Int("top-file-count", defaultTopFileCount, "Number of top files to display")
	flags.Int("top-dir-count", defaultTopDirCount, "Number of top directories to display")
	flags.Int("warn-large-files-by-line-count", defaultWarnLargeFilesByLineCount, "Highlight files with more lines than this")
	flags.BoolVar(&opts.fromClipboard, "from-clipboard", false, "Read the target directory from the clipboard")
	flags.BoolVar(&opts.copyContent, "copy-content", false, "Copy the concatenated file contents instead of the report")
	flags.BoolVar(&opts.printFlag, "print", false, "Only print the report, do not touch the clipboard")
	flags.BoolVar(&opts.copyFlag, "copy", false, "Copy to the system clipboard")
	flags.BoolVar(&opts.sshCopyFlag, "ssh-copy", false, "Copy through the terminal with an OSC 52 sequence")
	flags.StringVar(&opts.setDefaultOutput, "set-default-output", "", "Persist the default output mode (print, copy, ssh-copy) and exit")
	flags.String("format", formatText, "Report format: text or json")
	flags.String("color", colorAuto, "Highlight colours: auto, always or never")
	flags.String("tool", defaultTool, "Statistics tool to run")
	flags.String("tokenizer", tokenizerChars, "Token estimator: chars or tiktoken")
	flags.String("model", defaultTiktokenModel, "Model whose encoding the tiktoken estimator uses")
	flags.StringSlice("exclude", nil, "Glob of paths to leave out of the report (repeatable, supports **)")
	flags.BoolVar(&opts.noIgnoreFile, "no-ignore-file", false, "Ignore the "+ignoreFileName+" file in the target directory")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/"+configFileName+")")
	flags.BoolVar(&opts.debug, "debug", false, "Print debug output to stderr")
	flags.BoolP("version", "V", false, "Print version information")
	cmd.SetVersionTemplate("flatstat {{.Version}}\n")

	return cmd
}

func (a *app) run(ctx context.Context, opts *cliOptions, args []string) error {
	s := opts.settings
	log := logger{enabled: opts.debug, w: a.stderr}

	if opts.setDefaultOutput != "" {
		path := opts.configPath
		if path == "" {
			var err error
			if path, err = defaultConfigPath(); err != nil {
				return fmt.Errorf("failed to locate home directory: %w", err)
			}
		}
		if err := writeDefaultOutputModeToFile(path, opts.setDefaultOutput); err != nil {
			return err
		}
		mode, _ := normalizeOutputMode(opts.setDefaultOutput)
		fmt.Fprintf(a.stdout, "Default output mode set to %s in %s\n", mode, path)
		return nil
	}

	mode, err := resolveOutputMode(s.Output, opts.printFlag, opts.copyFlag, opts.sshCopyFlag)
	if err != nil {
		return err
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	if opts.fromClipboard {
		if root, err = pathFromClipboard(a.clipboard); err != nil {
			return err
		}
		log.printf("[debug]: target directory from clipboard: %s\n", root)
	}
	if info, err := os.Stat(root); err != nil {
		return fmt.Errorf("accessing path %q: %w", root, err)
	} else if !info.IsDir() {
		return fmt.Errorf("path %q is not a directory", root)
	}

	provider, err := a.provider(s, log)
	if err != nil {
		return err
	}
	filter, err := NewRecordFilter(root, s.Exclude, opts.noIgnoreFile)
	if err != nil {
		return err
	}

	builder := &ReportBuilder{Provider: provider, Filter: filter, Config: s.Report, log: log}
	report, files, err := builder.Build(ctx, root)
	if err != nil {
		return err
	}

	var printed, payload string
	switch s.Format {
	case formatJSON:
		if printed, err = renderJSON(report); err != nil {
			return err
		}
		payload = printed
	default:
		color := a.terminal != nil && useColor(s.Color, a.terminal)
		printed = newTextRenderer(a.stdout, color).Render(report)
		payload = newTextRenderer(io.Discard, false).Render(report)
	}
	if opts.copyContent {
		payload = renderContent(files)
	}
	fmt.Fprint(a.stdout, printed)

	// Keep stdout a clean JSON document; the OSC 52 sequence goes to stderr.
	terminal := a.stdout
	if s.Format == formatJSON {
		terminal = a.stderr
	}
	copyErr := deliver(mode, a.clipboard, terminal, payload)
	if copyErr != nil {
		log.printf("[debug]: %v\n", copyErr)
	}
	if s.Format == formatText {
		fmt.Fprintf(a.stdout, "\n%s\n", statusLine(mode, copyErr))
	} else {
		fmt.Fprintln(a.stderr, statusLine(mode, copyErr))
	}
	return nil
}

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
