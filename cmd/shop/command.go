package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Command is one shop subcommand.
type Command struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Run         func(args []string) error
}

// PrintUsage prints the command's usage block.
func (c *Command) PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "%s\n\n", c.Description)
	fmt.Fprintf(w, "USAGE:\n    %s\n\n", c.Usage)
	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "EXAMPLES:\n")
		for _, example := range c.Examples {
			fmt.Fprintf(w, "    %s\n", example)
		}
	}
}

// CommandRegistry dispatches argv to registered commands.
type CommandRegistry struct {
	commands map[string]*Command
	order    []string
	out      io.Writer
}

func NewCommandRegistry(out io.Writer) *CommandRegistry {
	return &CommandRegistry{commands: make(map[string]*Command), out: out}
}

func (r *CommandRegistry) Register(cmd *Command) {
	if _, ok := r.commands[cmd.Name]; !ok {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
}

// NewFlagSet returns a flag set for a registered command that reports
// parse errors instead of exiting.
func (r *CommandRegistry) NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.out)
	if cmd, ok := r.commands[name]; ok {
		fs.Usage = func() {
			cmd.PrintUsage(r.out)
			fmt.Fprintln(r.out, "\nFLAGS:")
			fs.PrintDefaults()
		}
	}
	return fs
}

func (r *CommandRegistry) Execute(args []string) error {
	if len(args) < 1 {
		r.PrintHelp(r.out)
		return fmt.Errorf("no command specified")
	}

	switch args[0] {
	case "help", "-h", "--help":
		if len(args) > 1 {
			if cmd, ok := r.commands[args[1]]; ok {
				cmd.PrintUsage(r.out)
				return nil
			}
		}
		r.PrintHelp(r.out)
		return nil
	}

	cmd, ok := r.commands[args[0]]
	if !ok {
		r.PrintHelp(r.out)
		return fmt.Errorf("unknown command: %s", args[0])
	}
	return cmd.Run(args[1:])
}

func (r *CommandRegistry) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "shop - browse the catalog, keep a cart and check out")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "    shop <command> [arguments]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "COMMANDS:")
	for _, name := range r.order {
		fmt.Fprintf(w, "    %-10s %s\n", name, r.commands[name].Description)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'shop help <command>' for more information on a command.")
}

// TableWriter renders rows as a bordered table.
type TableWriter struct {
	headers []string
	rows    [][]string
	widths  []int
}

func NewTableWriter(headers ...string) *TableWriter {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	return &TableWriter{headers: headers, widths: widths}
}

func (t *TableWriter) AddRow(row ...string) {
	t.rows = append(t.rows, row)
	for i, cell := range row {
		if n := len([]rune(cell)); i < len(t.widths) && n > t.widths[i] {
			t.widths[i] = n
		}
	}
}

func (t *TableWriter) Print(w io.Writer) {
	t.separator(w, "┌", "┬", "┐")
	t.row(w, t.headers)
	t.separator(w, "├", "┼", "┤")
	for _, row := range t.rows {
		t.row(w, row)
	}
	t.separator(w, "└", "┴", "┘")
}

func (t *TableWriter) separator(w io.Writer, left, mid, right string) {
	fmt.Fprint(w, left)
	for i, width := range t.widths {
		fmt.Fprint(w, strings.Repeat("─", width+2))
		if i < len(t.widths)-1 {
			fmt.Fprint(w, mid)
		}
	}
	fmt.Fprintln(w, right)
}

func (t *TableWriter) row(w io.Writer, row []string) {
	fmt.Fprint(w, "│")
	for i, cell := range row {
		if i < len(t.widths) {
			pad := t.widths[i] - len([]rune(cell))
			fmt.Fprintf(w, " %s%s │", cell, strings.Repeat(" ", pad))
		}
	}
	fmt.Fprintln(w)
}
