/*
Pegi starts an interactive REPL over a grammar and a dialect.

It reads a grammar source file, builds a parser for it with the chosen
dialect, and then reads input lines from stdin (or runs commands given on
the command line) and prints the parse result -- or a caret-annotated
failure -- for each.

Usage:

	pegi [flags]

The flags are:

	-v, --version
		Give the current version of pegboot and then exit.

	-g, --grammar FILE
		Read the grammar to parse input against from FILE. Required.

	-y, --dialect NAME
		Parse the grammar file with the named dialect: "surface" (the
		default) or "alt".

	-d, --direct
		Force reading directly from stdin instead of GNU readline, even
		when launched in a tty.

	-c, --command INPUT
		Immediately parse the given input(s) and exit, instead of starting
		an interactive session. Multiple inputs may be separated by ";".

Since pegi has no way to know what real side effects a grammar's authors
intended its actions to have, every action call a loaded grammar makes is
answered with a generic node recording the call's name and arguments
rather than a real function (see store.RawCaptureNamespace) -- the
printed result is always that raw capture tree. A grammar whose top rule
yields no value (one without actions, which includes every "alt" dialect
grammar) reports an unpack failure even for input it matches.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/pegboot/action"
	"github.com/dekarrin/pegboot/dialect/altpeg"
	"github.com/dekarrin/pegboot/dialect/surface"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/internal/input"
	"github.com/dekarrin/pegboot/internal/version"
	"github.com/dekarrin/pegboot/peg"
	"github.com/dekarrin/pegboot/store"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitInitError
	ExitParseError
)

var (
	returnCode   = ExitSuccess
	flagVersion  = pflag.BoolP("version", "v", false, "Gives the version info")
	flagGrammar  = pflag.StringP("grammar", "g", "", "The grammar file to parse input against")
	flagDialect  = pflag.StringP("dialect", "y", store.DialectSurface, `The dialect to parse the grammar file with: "surface" or "alt"`)
	flagDirect   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of GNU readline where possible")
	flagCommands = pflag.StringP("command", "c", "", "Immediately parse the given input(s), separated by \";\", and exit")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *flagGrammar == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -g/--grammar is required")
		returnCode = ExitInitError
		return
	}

	parser, err := buildParser(*flagGrammar, *flagDialect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	var inputs []string
	if *flagCommands != "" {
		inputs = strings.Split(*flagCommands, ";")
	}
	if len(inputs) > 0 {
		for _, in := range inputs {
			runOne(parser, in)
		}
		return
	}

	if err := repl(parser, *flagDirect); err != nil && err != io.EOF {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
	}
}

func buildParser(grammarFile, dialectName string) (*peg.Parser[domain.Text], error) {
	source, err := os.ReadFile(grammarFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", grammarFile, err)
	}

	var raw peg.RawGrammar
	switch dialectName {
	case store.DialectSurface:
		d, _, err := surface.Bootstrap()
		if err != nil {
			return nil, fmt.Errorf("bootstrapping surface dialect: %w", err)
		}
		r, err := d.Parse(string(source))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", grammarFile, err)
		}
		raw = *r
	case store.DialectAlt:
		d, err := altpeg.New()
		if err != nil {
			return nil, fmt.Errorf("building alternate dialect: %w", err)
		}
		raw, err = d.Parse(domain.NewText(string(source)))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", grammarFile, err)
		}
	default:
		return nil, fmt.Errorf("unknown dialect %q", dialectName)
	}

	ns, err := store.RawCaptureNamespace(raw)
	if err != nil {
		return nil, fmt.Errorf("building action namespace: %w", err)
	}
	binder := action.NewBinder(ns)
	return peg.NewParser[domain.Text](raw, binder)
}

func repl(parser *peg.Parser[domain.Text], forceDirect bool) error {
	useReadline := !forceDirect && termAttached()

	var reader input.LineReader
	if useReadline {
		ir, err := input.NewInteractiveReader("pegi> ")
		if err != nil {
			return err
		}
		reader = ir
	} else {
		reader = input.NewDirectReader(os.Stdin)
	}
	defer reader.Close()

	for {
		line, err := reader.ReadLine()
		if err != nil {
			return err
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		runOne(parser, line)
	}
}

func runOne(parser *peg.Parser[domain.Text], in string) {
	result, err := parser.Parse(domain.NewText(in))
	if err != nil {
		fmt.Printf("ERROR: %s\n", err.Error())
		return
	}
	fmt.Printf("%v\n", result)
}

func termAttached() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
