// bcs encodes, decodes, hashes and frames Binary Canonical Serialization data from the
// command line.
//
// Usage:
//
//	bcs encode  --schema types.yaml --type Tx [value.yaml]
//	bcs decode  --schema types.yaml --type Tx [--output yaml|cbor|hex] [hex]
//	bcs digest  --schema types.yaml --type Tx [--intent 0,0,0 | --domain name] [value.yaml]
//	bcs verify  golden.yaml...
//	bcs pack    [--compression none|zstd|s2|lz4] [--out frame.bin] [payload]
//	bcs unpack  [--out payload.bin] [frame]
//
// Inputs default to stdin when the positional argument is absent or "-". Decode
// failures print the failing error kind and byte offset and exit with status 1.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit statuses.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type command struct {
	summary string
	run     func(a *app, args []string) error
}

var commands = map[string]command{
	"encode": {"encode a YAML value to canonical hex", runEncode},
	"decode": {"decode hex into YAML, CBOR or canonical hex", runDecode},
	"digest": {"hash the canonical encoding of a YAML value", runDigest},
	"verify": {"check golden vector files", runVerify},
	"pack":   {"seal a payload into a compressed envelope", runPack},
	"unpack": {"open an envelope and write its payload", runUnpack},
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, logger: zap.NewNop()}
	defer func() { _ = a.logger.Sync() }()

	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stderr)
		if len(args) == 0 {
			return exitUsage
		}

		return exitOK
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "bcs: unknown command %q\n\n", args[0])
		printUsage(stderr)

		return exitUsage
	}

	err := cmd.run(a, args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, pflag.ErrHelp):
		return exitOK
	}

	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(stderr, "bcs %s: %v\n", args[0], err)

		return exitUsage
	}

	a.logger.Debug("command failed", zap.String("command", args[0]), zap.Error(err))
	fmt.Fprintf(stderr, "bcs %s: %v\n", args[0], err)

	return exitFailure
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Usage: bcs <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
}

// newFlagSet creates a flag set for a subcommand with the shared --verbose flag.
func (a *app) newFlagSet(name string) (*pflag.FlagSet, *bool) {
	fs := pflag.NewFlagSet("bcs "+name, pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.BoolP("verbose", "v", false, "log progress to stderr")

	return fs, verbose
}

// parse parses args into fs and switches to a development logger when verbose is
// set.
func (a *app) parse(fs *pflag.FlagSet, verbose *bool, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}

		return usagef("%v", err)
	}

	if *verbose {
		a.logger = newDevelopmentLogger(a.stderr)
	}

	return nil
}

func newDevelopmentLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zap.DebugLevel,
	)

	return zap.New(core, zap.Development())
}

// readInput returns the contents of the file named by the first positional argument,
// or stdin when there is none or it is "-".
func (a *app) readInput(args []string) ([]byte, string, error) {
	if len(args) > 1 {
		return nil, "", usagef("unexpected argument %q", args[1])
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(a.stdin)

		return data, "stdin", err
	}

	data, err := os.ReadFile(args[0])

	return data, args[0], err
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func (a *app) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := a.stdout.Write(data)

		return err
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec
}

func requireFlag(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return usagef("--%s is required", name)
	}

	return nil
}
