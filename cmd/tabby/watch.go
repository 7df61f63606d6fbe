package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tabby-lang/tabby/pkgs/parser"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Reparse a source file whenever it changes",
	Long: `Watch a Tabby source file and reparse it on every change, printing the
syntax tree or the first syntax error. Useful while editing.`,
	Args: cobra.ExactArgs(1),
	RunE: watchCommand,
}

func watchCommand(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that write via
	// rename-and-replace would otherwise detach the watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("error watching %s: %w", filepath.Dir(path), err)
	}

	reparse(path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				reparse(path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, errorStyle.Render("watch error: "+err.Error()))
		}
	}
}

func reparse(path string) {
	fmt.Println(headingStyle.Render("== " + filepath.Base(path)))

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return
	}

	program, err := parser.Parse(string(content))
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}
	if rendered := program.String(); rendered != "" {
		fmt.Println(rendered)
	}
}
