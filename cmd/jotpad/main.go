package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cornish/jotpad/clipboard"
	"github.com/cornish/jotpad/config"
	"github.com/cornish/jotpad/editor"
	"github.com/cornish/jotpad/printing"
	"github.com/cornish/jotpad/ui"
)

const version = "0.3.0"

// options are the parsed command line.
type options struct {
	help     bool
	version  bool
	ascii    bool
	logFile  string
	logLevel string
	filename string
}

// parseArgs reads flags and the optional file argument. Flag values may be
// given as --flag value or --flag=value.
func parseArgs(args []string) (options, error) {
	var o options
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", name)
			}
			i++
			return args[i], nil
		}

		var err error
		switch name {
		case "--version", "-v":
			o.version = true
		case "--help", "-h":
			o.help = true
		case "--ascii":
			o.ascii = true
		case "--log-file":
			o.logFile, err = takeValue()
		case "--log-level":
			o.logLevel, err = takeValue()
		default:
			switch {
			case isFlag(arg):
				err = fmt.Errorf("unknown option: %s", arg)
			case o.filename == "":
				o.filename = arg
			default:
				err = fmt.Errorf("only one file may be given")
			}
		}
		if err != nil {
			return o, err
		}
	}
	return o, nil
}

func isFlag(s string) bool {
	return len(s) > 1 && s[0] == '-'
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run starts the editor and returns the process exit code: 0 on a normal
// exit, 1 when the terminal program fails and 2 for bad arguments.
func run(args []string) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jotpad: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try 'jotpad --help' for more information.")
		return 2
	}
	if opts.version {
		fmt.Printf("jotpad %s\n", version)
		return 0
	}
	if opts.help {
		printHelp()
		return 0
	}

	cfg, configErr := config.Load()

	logger, logFile, err := newLogger(opts.logFile, opts.logLevel, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jotpad: %v\n", err)
		return 2
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.Info("starting", "version", version)

	kb, kbErr := config.LoadKeybindings()
	if kbErr != nil {
		logger.Warn("keybindings", "error", kbErr)
	}
	for key, actions := range kb.FindConflicts() {
		logger.Warn("key bound to several actions", "key", key, "actions", actions)
	}

	caps := config.GetCapabilities()
	ui.UseTrueColor = caps.ShouldUseTrueColor(cfg.Editor.TrueColor)

	printer := printing.NewCommandPrinter(cfg.Print.Command, cfg.Print.Args)
	printer.Logger = logger

	e := editor.New(editor.Options{
		Config:      cfg,
		Keybindings: kb,
		Clipboard:   clipboard.New(os.Stdout),
		Printer:     printer,
		Logger:      logger,
		ASCII:       opts.ascii || caps.ShouldUseASCII(cfg.Editor.AsciiMode),
		Version:     version,
		SaveConfig:  (*config.Config).Save,
	})

	switch {
	case configErr != nil:
		e.ShowConfigError(configErr)
	case kbErr != nil:
		e.ShowConfigError(kbErr)
	}

	if opts.filename != "" {
		openInitial(e, opts.filename)
	}

	p := tea.NewProgram(e, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		logger.Error("editor stopped", "error", err)
		fmt.Fprintf(os.Stderr, "Error running editor: %v\n", err)
		return 1
	}
	logger.Info("exiting")
	return 0
}

// openInitial loads the file named on the command line. A file that does
// not exist yet names the blank window; any other failure is shown in a
// dialog over the blank window.
func openInitial(e *editor.Editor, path string) {
	err := e.Open(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		e.StartNew(path)
	default:
		e.ShowOpenError(err)
	}
}

func printHelp() {
	fmt.Println("jotpad - a small notepad for the terminal")
	fmt.Println()
	fmt.Println("Usage: jotpad [options] [file]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help            Show this help message")
	fmt.Println("  -v, --version         Show version information")
	fmt.Println("  --ascii               Use ASCII characters for dialogs")
	fmt.Println("  --log-file PATH       Write a diagnostic log to PATH")
	fmt.Println("  --log-level LEVEL     debug, info, warn or error (default info)")
	fmt.Println()
	fmt.Println("Keyboard Shortcuts:")
	kb := config.DefaultKeybindings()
	for _, action := range config.AllActions() {
		b, ok := kb[action]
		if !ok || b.Primary == "" {
			continue
		}
		fmt.Printf("  %-20s %s\n", b.DisplayString(), config.ActionNames[action])
	}
	fmt.Println("  Alt+F/E/O/V/H        Open a menu")
	fmt.Println("  Shift+Arrows         Select text")
	fmt.Println()
	fmt.Println("Mouse:")
	fmt.Println("  Click          Position cursor")
	fmt.Println("  Drag           Select text")
	fmt.Println("  Scroll         Scroll viewport")
}
