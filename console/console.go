/*
File    : yqlang/console/console.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package console implements an interactive dev shell over yqlang's
// lex->parse->codegen->execute pipeline (SPEC_FULL's ambient-stack
// addition: a local `yqlang console` for development, distinct from the
// actual chat-bot host spec.md's core deliberately excludes).
package console

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/akashmaji946/yqlang/codegen"
	"github.com/akashmaji946/yqlang/memory"
	"github.com/akashmaji946/yqlang/parser"
	"github.com/akashmaji946/yqlang/runtime"
	"github.com/akashmaji946/yqlang/vm"
)

// Color definitions: blue separators, yellow results, red errors, green
// banner, cyan info.
var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// consoleEffects is a minimal Effects implementation for the dev console:
// say/nudge/picsave/picsend print directly instead of buffering for a host
// to drain, since there is no host here, and every line is treated as a
// first run (the console keeps its Memory, not a serialized image, across
// lines in one session).
type consoleEffects struct {
	writer io.Writer
}

func (e *consoleEffects) Say(text string)    { yellowColor.Fprintf(e.writer, "%s\n", text) }
func (e *consoleEffects) Nudge(userID int64) { cyanColor.Fprintf(e.writer, "[nudge %d]\n", userID) }
func (e *consoleEffects) Picsave(picID string) {
	cyanColor.Fprintf(e.writer, "[picsave %s]\n", picID)
}
func (e *consoleEffects) Picsend(picID string) {
	cyanColor.Fprintf(e.writer, "[picsend %s]\n", picID)
}
func (e *consoleEffects) Nickname(userID int64) (string, error) { return "", nil }
func (e *consoleEffects) Sleep(ms int64) error                  { return nil }
func (e *consoleEffects) FirstRun() bool                        { return true }

var _ runtime.Effects = (*consoleEffects)(nil)

// Console is an interactive session: one Memory persists across lines,
// exactly like one yqlang program's globals persist across activations
// (spec.md §4.4), so a variable assigned on one line is visible on the
// next.
type Console struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string

	mem *memory.Memory
}

// New builds a Console instance with its own persistent Memory, ready for
// Start to drive.
func New(banner, version, author, line, license, prompt string) *Console {
	return &Console{
		Banner: banner, Version: version, Author: author,
		Line: line, License: license, Prompt: prompt,
		mem: memory.New(),
	}
}

// PrintBannerInfo displays the welcome banner and usage instructions.
func (c *Console) PrintBannerInfo(w io.Writer) {
	blueColor.Fprintf(w, "%s\n", c.Line)
	greenColor.Fprintf(w, "%s\n", c.Banner)
	blueColor.Fprintf(w, "%s\n", c.Line)
	yellowColor.Fprintln(w, "Version: "+c.Version+" | Author: "+c.Author+" | License: "+c.License)
	blueColor.Fprintf(w, "%s\n", c.Line)
	cyanColor.Fprintf(w, "%s\n", "Welcome to the yqlang dev console!")
	cyanColor.Fprintf(w, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(w, "%s\n", "Type '.exit' to quit")
	cyanColor.Fprintf(w, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(w, "%s\n", c.Line)
}

// Start begins the console's main loop: one line at a time, each fully
// lexed, parsed, compiled, and executed against the session's shared
// Memory, until '.exit' or EOF.
func (c *Console) Start(reader io.Reader, writer io.Writer) {
	c.PrintBannerInfo(writer)

	rl, err := readline.New(c.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	effects := &consoleEffects{writer: writer}

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			break
		}
		line = strings.Trim(line, " \n\t\r")
		if line == "" {
			continue
		}
		if line == ".exit" {
			writer.Write([]byte("Good Bye!\n"))
			break
		}
		rl.SaveHistory(line)
		c.executeWithRecovery(writer, line, effects)
	}
}

// executeWithRecovery runs one line through the full pipeline, recovering
// from any panic so the console keeps running after a bad line instead of
// exiting.
func (c *Console) executeWithRecovery(writer io.Writer, line string, effects runtime.Effects) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[RUNTIME ERROR] %v\n", recovered)
		}
	}()

	prog, err := parser.Parse(line)
	if err != nil {
		redColor.Fprintf(writer, "[PARSE ERROR] %s\n", err)
		return
	}

	bc, err := codegen.Compile(prog, c.mem)
	if err != nil {
		redColor.Fprintf(writer, "[COMPILE ERROR] %s\n", err)
		return
	}

	v := vm.New(bc, c.mem, effects)
	if err := v.Run(); err != nil {
		redColor.Fprintf(writer, "[RUNTIME ERROR] %s\n", err)
	}
}
