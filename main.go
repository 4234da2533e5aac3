package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jcgregorio/logger"
	"github.com/peterh/liner"
	"github.com/takoeight0821/lox/config"
	"github.com/takoeight0821/lox/driver"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "lox",
		Usage:     "evaluate lox expressions",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "input file path, or - for stdin; starts a REPL when omitted",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file path (default: $XDG_CONFIG_HOME/" + config.RelPath + ")",
			},
			&cli.BoolFlag{
				Name:  "tokens",
				Usage: "print tokens instead of evaluating; not combinable with --ast",
			},
			&cli.BoolFlag{
				Name:  "ast",
				Usage: "print the expression tree instead of evaluating",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log each pipeline stage to stderr",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type mode int

const (
	modeEval mode = iota
	modeTokens
	modeAST
)

type session struct {
	cfg    config.Config
	mode   mode
	runner *driver.Runner
	out    io.Writer
	errOut io.Writer
}

func run(c *cli.Context) error {
	m, err := selectMode(c.Bool("tokens"), c.Bool("ast"))
	if err != nil {
		return err
	}

	var cfg config.Config
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Find()
	}
	if err != nil {
		return err
	}
	if !cfg.Color {
		color.NoColor = true
	}

	log := logger.NewFromOptions(&logger.Options{
		SyncWriter:   os.Stderr,
		IncludeDebug: c.Bool("verbose"),
	})

	s := &session{
		cfg:    cfg,
		mode:   m,
		runner: driver.NewRunner(log),
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	switch input := c.String("input"); input {
	case "":
		return s.RunPrompt()
	case "-":
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		return exitOnDiagnostic(s.RunSource(source))
	default:
		return exitOnDiagnostic(s.RunFile(input))
	}
}

func selectMode(tokens, ast bool) (mode, error) {
	switch {
	case tokens && ast:
		return modeEval, cli.Exit("--tokens and --ast cannot be used together", 2)
	case tokens:
		return modeTokens, nil
	case ast:
		return modeAST, nil
	default:
		return modeEval, nil
	}
}

// exitOnDiagnostic turns an already reported diagnostic into a silent exit
// status of 65, the conventional data-format error code.
func exitOnDiagnostic(err error) error {
	var derr *driver.Error
	if errors.As(err, &derr) {
		return cli.Exit("", 65)
	}
	return err
}

func (s *session) RunPrompt() error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer func() {
		s.saveHistory(line)
		line.Close()
	}()

	if s.cfg.History != "" {
		if f, err := os.Open(s.cfg.History); err == nil {
			if _, err := line.ReadHistory(f); err != nil {
				fmt.Fprintln(s.errOut, err)
			}
			f.Close()
		}
	}

	for {
		input, err := line.Prompt(s.cfg.Prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		// Errors are already reported; the REPL keeps going.
		_ = s.RunSource([]byte(input))
	}
}

func (s *session) saveHistory(line *liner.State) {
	if s.cfg.History == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.cfg.History), os.ModePerm); err != nil {
		fmt.Fprintln(s.errOut, err)
		return
	}
	f, err := os.Create(s.cfg.History)
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		fmt.Fprintln(s.errOut, err)
	}
}

func (s *session) RunFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return s.RunSource(source)
}

// RunSource runs one source unit and prints its result. Diagnostics are
// printed to errOut and the first one is returned.
func (s *session) RunSource(source []byte) error {
	var err error
	switch s.mode {
	case modeTokens:
		tokens, lexErr := s.runner.Tokens(source)
		for _, tok := range tokens {
			fmt.Fprintln(s.out, tok)
		}
		err = lexErr
	case modeAST:
		expr, parseErr := s.runner.Parse(source)
		if parseErr == nil {
			fmt.Fprintln(s.out, expr)
		}
		err = parseErr
	default:
		value, evalErr := s.runner.Run(source)
		if evalErr == nil {
			fmt.Fprintln(s.out, value)
		}
		err = evalErr
	}

	if err != nil {
		s.report(err)
	}
	return err
}

func (s *session) report(err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	var derr *driver.Error
	if !errors.As(err, &derr) {
		fmt.Fprintf(s.errOut, "%s %v\n", red("Error:"), err)
		return
	}
	for _, e := range derr.Errors() {
		fmt.Fprintf(s.errOut, "%s [%s] %v\n", red("Error:"), derr.Stage, e)
	}
}
