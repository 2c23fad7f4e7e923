/*
File    : yqlang/cmd/yqlang/main.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)

Package main is the one-shot CLI entry point for yqlang (spec.md §6): it
reads a program from standard input, runs it once through the full
lex->parse->codegen->execute pipeline, and reports elapsed time. The
chat-bot host surface (persistence, command dispatch, nickname lookup)
is deliberately out of the core's scope (spec.md §2) and lives entirely
behind runtime.Effects in whatever process embeds this pipeline.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/akashmaji946/yqlang/codegen"
	"github.com/akashmaji946/yqlang/console"
	"github.com/akashmaji946/yqlang/lexer"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/parser"
	"github.com/akashmaji946/yqlang/runtime"
	"github.com/akashmaji946/yqlang/vm"
)

// VERSION is the interpreter's version banner.
var VERSION = "v1.0.0"

// AUTHOR contains the contact information of the interpreter's author.
var AUTHOR = "akashmaji(@iisc.ac.in)"

// LICENSE specifies the software license.
var LICENSE = "MIT"

// PROMPT is the command prompt shown in console mode.
var PROMPT = "yqlang >>> "

// BANNER is the ASCII art logo shown at startup.
var BANNER = `
 ▄▄▄▄▄  ▄▄▄▄▄  ▄        ▄▄▄▄   ▄▄▄▄
   ▀█▄   ▀█▄   █          █   █
  ▄▄▀█   ▄▄▀█  █  ▄▄▄▄▄   █   █  ▄▄▄
 █  ▄█   ▄█    █       █  █   █ █   █
 ▀▀▀▀   ▀▀▀▀   ▀▀▀▀▀▀▀▀▀▀▀▀▀▀  ▀▀▀▀▀
`

// LINE is a separator line used for visual formatting.
var LINE = "----------------------------------------------------------------"

var (
	redColor   = color.New(color.FgRed)
	cyanColor  = color.New(color.FgCyan)
	greenColor = color.New(color.FgGreen)
)

// simpleEffects drives the one-shot CLI's effect calls straight to
// stdout, with no buffering host sitting between the VM and the
// terminal (there is no bot here, only a developer running a script).
type simpleEffects struct{}

func (simpleEffects) Say(text string)                     { fmt.Println(text) }
func (simpleEffects) Nudge(userID int64)                  { fmt.Printf("[nudge %d]\n", userID) }
func (simpleEffects) Picsave(picID string)                { fmt.Printf("[picsave %s]\n", picID) }
func (simpleEffects) Picsend(picID string)                { fmt.Printf("[picsend %s]\n", picID) }
func (simpleEffects) Nickname(userID int64) (string, error) { return "", nil }
func (simpleEffects) Sleep(ms int64) error                { time.Sleep(time.Duration(ms) * time.Millisecond); return nil }
func (simpleEffects) FirstRun() bool                      { return true }

var _ runtime.Effects = simpleEffects{}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			showHelp()
			return
		case "--version", "-v":
			showVersion()
			return
		case "console":
			c := console.New(BANNER, VERSION, AUTHOR, LINE, LICENSE, PROMPT)
			c.Start(os.Stdin, os.Stdout)
			return
		}
	}
	runPipeline(os.Stdin, os.Stdout)
}

func showHelp() {
	cyanColor.Println("yqlang - a bytecode interpreter for chat-bot event handlers")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	cyanColor.Println("  yqlang              Read a program from stdin and run it once")
	cyanColor.Println("  yqlang console      Start an interactive dev console")
	cyanColor.Println("  yqlang --help       Display this help message")
	cyanColor.Println("  yqlang --version    Display version information")
}

func showVersion() {
	cyanColor.Println("yqlang")
	cyanColor.Printf("Version: %s\n", VERSION)
	cyanColor.Printf("License: %s\n", LICENSE)
	cyanColor.Printf("Author : %s\n", AUTHOR)
}

// runPipeline reads a whole program from r and drives it through every
// stage named in spec.md §6: Lex, Parse, Codegen, Execute, printing a
// banner for each and "Done!" plus elapsed time on completion.
func runPipeline(r io.Reader, w io.Writer) {
	start := time.Now()

	source, err := readAll(r)
	if err != nil {
		redColor.Fprintf(w, "[INPUT ERROR] %v\n", err)
		os.Exit(1)
	}

	cyanColor.Fprintf(w, "%s\n", "[Lex]")
	toks, err := lexer.Tokenize(source)
	if err != nil {
		redColor.Fprintf(w, "[LEX ERROR] %v\n", err)
		os.Exit(1)
	}

	cyanColor.Fprintf(w, "%s\n", "[Parse]")
	prog, err := parser.New(toks).ParseProgram()
	if err != nil {
		redColor.Fprintf(w, "[PARSE ERROR] %v\n", err)
		os.Exit(1)
	}

	cyanColor.Fprintf(w, "%s\n", "[Codegen]")
	mem := memory.New()
	bc, err := codegen.Compile(prog, mem)
	if err != nil {
		redColor.Fprintf(w, "[COMPILE ERROR] %v\n", err)
		os.Exit(1)
	}

	cyanColor.Fprintf(w, "%s\n", "[Execute]")
	machine := vm.New(bc, mem, simpleEffects{})
	if err := machine.Run(); err != nil {
		redColor.Fprintf(w, "[RUNTIME ERROR] %v\n", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)
	greenColor.Fprintf(w, "Done! (%.3fms)\n", float64(elapsed.Microseconds())/1000.0)
}

// readAll reads every line from r until EOF and joins them back with
// newlines (spec.md §6: "Reads source from standard input line by line
// until EOF").
func readAll(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var src string
	for scanner.Scan() {
		src += scanner.Text() + "\n"
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return src, nil
}
