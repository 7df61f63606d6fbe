package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/tabby-lang/tabby/pkgs/parser"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Long: `Start an interactive session that parses each entered statement and prints
its syntax tree. A line ending in ':' opens a block; finish the block with
an empty line.`,
	Args: cobra.NoArgs,
	RunE: replCommand,
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tabby_history")
}

func replCommand(cmd *cobra.Command, args []string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	history := historyPath()
	if history != "" {
		if f, err := os.Open(history); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println(headingStyle.Render("tabby " + Version))
	fmt.Println("Enter statements; finish an open block with an empty line. Ctrl-D exits.")

	for {
		source, quit := readInput(line)
		if quit {
			break
		}
		if strings.TrimSpace(source) == "" {
			continue
		}

		line.AppendHistory(strings.ReplaceAll(source, "\n", " "))

		program, err := parser.Parse(source)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}
		if rendered := program.String(); rendered != "" {
			fmt.Println(rendered)
		}
	}

	if history != "" {
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
	return nil
}

// readInput collects one top-level statement. Block headers keep the prompt
// open for continuation lines until an empty line closes the input.
func readInput(line *liner.State) (source string, quit bool) {
	first, err := line.Prompt(">> ")
	if err != nil {
		// Ctrl-D or Ctrl-C ends the session.
		return "", true
	}

	lines := []string{first}
	if strings.HasSuffix(strings.TrimSpace(first), ":") {
		for {
			next, err := line.Prompt(".. ")
			if err != nil {
				return "", true
			}
			if strings.TrimSpace(next) == "" {
				break
			}
			lines = append(lines, next)
		}
	}

	return strings.Join(lines, "\n") + "\n", false
}
