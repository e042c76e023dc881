// codeccheck decodes a document as a set, map, bimap, list map or key list
// map and reports what survived together with the diagnostics of everything
// that did not.
//
// The report is a JSON object with the decode status, the decoded value
// re-encoded as JSON and the error message, if any. The exit code is 0 when
// the document decoded cleanly, 1 when it decoded with non-fatal problems,
// 2 when decoding failed and 3 on usage or I/O errors.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/pwnedgod/codecable"
	slogger "github.com/pwnedgod/codecable/logger/slog"
	"github.com/pwnedgod/codecable/ops"
	"github.com/pwnedgod/codecable/ops/cbor"
	"github.com/pwnedgod/codecable/ops/json"
	"github.com/pwnedgod/codecable/ops/msgpack"
	"github.com/pwnedgod/codecable/ops/yaml"
)

const (
	exitOK      = 0
	exitPartial = 1
	exitFailure = 2
	exitUsage   = 3
)

type options struct {
	format             string
	shape              string
	typ                string
	failOnDuplicate    bool
	stopOnFirstFailure bool
	checkDuplicateKeys bool
	verbose            bool
}

type report struct {
	status codecable.Status
	value  any
	err    error
}

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options

	flagSet := pflag.NewFlagSet("codeccheck", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.format, "format", "json", "input format: json, yaml, cbor or msgpack")
	flagSet.StringVar(&opts.shape, "shape", "set", "collection shape: set, map, bimap, listmap or keylistmap")
	flagSet.StringVar(&opts.typ, "type", "string", "element type: string or int")
	flagSet.BoolVar(&opts.failOnDuplicate, "fail-on-duplicate", false, "treat duplicate elements, values or keys as failures")
	flagSet.BoolVar(&opts.stopOnFirstFailure, "stop-on-first-failure", false, "stop decoding at the first failed entry")
	flagSet.BoolVar(&opts.checkDuplicateKeys, "check-duplicate-keys", false, "report map entries whose keys repeat")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log decode details to stderr")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	var in io.Reader = stdin
	switch rest := flagSet.Args(); len(rest) {
	case 0:
	case 1:
		f, err := os.Open(rest[0])
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
		defer f.Close()
		in = f
	default:
		fmt.Fprintf(stderr, "error: unexpected argument: %s\n", rest[1])
		return exitUsage
	}

	data, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(stderr, "error: reading input: %v\n", err)
		return exitUsage
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	rep, err := check(opts, logger, data)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	out, err := render(rep)
	if err != nil {
		fmt.Fprintf(stderr, "error: rendering report: %v\n", err)
		return exitUsage
	}
	fmt.Fprintln(stdout, string(out))

	switch rep.status {
	case codecable.StatusSuccess:
		return exitOK
	case codecable.StatusPartial:
		return exitPartial
	}
	return exitFailure
}

func check(opts options, logger *slog.Logger, data []byte) (report, error) {
	switch opts.format {
	case "json":
		return checkFormat(json.New(), opts, logger, data)
	case "yaml":
		return checkFormat(yaml.New(), opts, logger, data)
	case "cbor":
		return checkFormat(cbor.New(), opts, logger, data)
	case "msgpack":
		return checkFormat(msgpack.New(), opts, logger, data)
	}
	return report{}, fmt.Errorf("%w: unknown format %q", errUsage, opts.format)
}

func checkFormat[T any](f ops.Format[T], opts options, logger *slog.Logger, data []byte) (report, error) {
	native, err := f.Unmarshal(data)
	if err != nil {
		return report{}, fmt.Errorf("parsing %s input: %w", opts.format, err)
	}

	codecOpts := []codecable.Option{
		codecable.WithFailOnDuplicate(opts.failOnDuplicate),
		codecable.WithStopOnFirstFailure(opts.stopOnFirstFailure),
		codecable.WithDuplicateKeyCheck(opts.checkDuplicateKeys),
		codecable.WithLogger(slogger.NewLogger(logger)),
	}

	switch opts.typ {
	case "string":
		return checkShape(f, opts.shape, codecable.String[T](), codecOpts, native)
	case "int":
		return checkShape(f, opts.shape, codecable.Int[T](), codecOpts, native)
	}
	return report{}, fmt.Errorf("%w: unknown type %q", errUsage, opts.typ)
}

func checkShape[E comparable, T any](f ops.Format[T], shape string, element codecable.Codec[E, T], codecOpts []codecable.Option, native T) (report, error) {
	switch shape {
	case "set":
		return checkWith[codecable.Set[E], T](f, codecable.SetOf(element, codecOpts...), native)
	case "map":
		return checkWith[map[string]E, T](f, codecable.UnboundedMapOf(codecable.String[T](), element, codecOpts...), native)
	case "bimap":
		return checkWith[*codecable.BiMap[string, E], T](f, codecable.UnboundedBiMapOf(codecable.String[T](), element, codecOpts...), native)
	case "listmap":
		return checkWith[map[E]E, T](f, codecable.ListMapOf(element, element, codecOpts...), native)
	case "keylistmap":
		return checkWith[map[E]E, T](f, codecable.KeyListMapOf(element, element, codecOpts...), native)
	}
	return report{}, fmt.Errorf("%w: unknown shape %q", errUsage, shape)
}

// checkWith decodes native and re-encodes whatever was accepted as JSON.
func checkWith[A, T any](f ops.Format[T], c codecable.Codec[A, T], native T) (report, error) {
	r := c.Decode(f, native)
	rep := report{status: r.Status(), err: r.Err()}

	partial, ok := r.Partial()
	if !ok {
		return rep, nil
	}

	encoded, err := codecable.EncodeStart[A, T](c, partial, f).Get()
	if err != nil {
		return rep, fmt.Errorf("re-encoding decoded value: %w", err)
	}

	rep.value, err = ops.Convert[T, any](f, json.New(), encoded)
	if err != nil {
		return rep, fmt.Errorf("converting decoded value: %w", err)
	}
	return rep, nil
}

func render(rep report) ([]byte, error) {
	var msg any
	if rep.err != nil {
		msg = rep.err.Error()
	}

	return json.New().Marshal(json.NewObject(
		"status", rep.status.String(),
		"value", rep.value,
		"error", msg,
	))
}
