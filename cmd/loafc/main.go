// loafc compiles and runs a single source file through the full
// pipeline: lex, parse, lift to IR, eliminate dead lambdas, generate
// bytecode, and execute it on the VM.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/loaf/internal/config"
	"github.com/chazu/loaf/internal/diag"
	"github.com/chazu/loaf/pkg/codegen"
	"github.com/chazu/loaf/pkg/ir"
	"github.com/chazu/loaf/pkg/lexer"
	"github.com/chazu/loaf/pkg/parser"
	"github.com/chazu/loaf/pkg/passes"
	"github.com/chazu/loaf/pkg/vm"
)

func main() {
	trace := flag.Bool("trace", false, "Log every dispatched instruction")
	dump := flag.Bool("dump", false, "Print the generated bytecode and exit without running it")
	configPath := flag.String("c", "", "Path to a loaf.toml config file (default: search upward from .)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: loafc [options] [file.loaf]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  loafc ./fact.loaf               # compile and run\n")
		fmt.Fprintf(os.Stderr, "  cat fact.loaf | loafc           # read source from stdin\n")
		fmt.Fprintf(os.Stderr, "  loafc -c ./other.toml ./fact.loaf # load config from a specific file\n")
		fmt.Fprintf(os.Stderr, "  loafc --trace ./fact.loaf       # run with per-instruction tracing\n")
		fmt.Fprintf(os.Stderr, "  loafc --dump ./fact.loaf        # print bytecode, don't run\n")
	}
	flag.Parse()

	args := flag.Args()
	if len(args) > 1 {
		flag.Usage()
		os.Exit(1)
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	if err := run(path, *configPath, *trace, *dump); err != nil {
		fmt.Fprintln(os.Stderr, report(err))
		os.Exit(1)
	}
}

func run(path, configPath string, trace, dump bool) error {
	src, err := readSource(path)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	tokens, err := lexer.Tokenize(string(src))
	if err != nil {
		return err
	}

	tree, err := parser.Parse(tokens)
	if err != nil {
		return err
	}

	prog := ir.Lift(tree, cfg.VM.LambdaPtrLen)
	prog = passes.DeadLambdaElimination(prog)

	codes, err := codegen.Generate(prog)
	if err != nil {
		return err
	}

	if dump {
		for _, c := range codes {
			fmt.Println(c.String())
		}
		return nil
	}

	m := vm.NewMachine(codes)
	m.MaxFrames = cfg.VM.MaxFrames
	m.Trace = trace || cfg.VM.TraceOnStart
	_, err = m.Run()
	return err
}

// readSource reads the given file, or stdin when path is empty.
func readSource(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// loadConfig loads configPath directly when given, otherwise searches
// upward from "." the way FindAndLoad always has.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return config.FindAndLoad(".")
	}
	return config.LoadFile(configPath)
}

// report renders err the same way a Located or runtime error would
// print itself, via the one shared diag helper, falling back to
// err.Error() for anything with no associated position.
func report(err error) string {
	if d, ok := diag.Describe(err); ok {
		return d.String()
	}
	return err.Error()
}
