package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tabby-lang/tabby/pkgs/codegen"
	"github.com/tabby-lang/tabby/pkgs/lexer"
	"github.com/tabby-lang/tabby/pkgs/parser"
)

// Build-time variables - can be set via ldflags
var (
	Version   string = "dev"
	BuildTime string = "unknown"
	GitCommit string = "unknown"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tabby",
	Short: "Parse and compile Tabby source files",
	Long: `tabby is the front end for the Tabby language: a small indentation-structured
language with if/elif/else, while loops, and expression statements.
It parses source files, prints syntax trees, and compiles to stack-machine bytecode.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a source file and print its syntax tree",
	Long: `Parse a Tabby source file and print the canonical rendering of its syntax
tree. Reads from stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseCommand,
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Tokenize a source file and print the token stream",
	Long: `Scan a Tabby source file and print one token per line, with its type,
position, and literal text. Reads from stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: tokensCommand,
}

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a source file to bytecode and print a disassembly",
	Long: `Parse a Tabby source file, lower it to stack-machine bytecode, and print
the disassembled instruction stream. Reads from stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: compileCommand,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display version, build time, and git commit information for tabby.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tabby %s\n", Version)
		fmt.Printf("Built: %s\n", BuildTime)
		fmt.Printf("Commit: %s\n", GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)
}

// readSource reads the named file, or stdin when args is empty.
func readSource(args []string) (string, error) {
	if len(args) == 0 {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(content), nil
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("error reading file %s: %w", args[0], err)
	}
	return string(content), nil
}

func parseCommand(cmd *cobra.Command, args []string) error {
	source, err := readSource(args)
	if err != nil {
		return err
	}

	program, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return err
	}

	if rendered := program.String(); rendered != "" {
		fmt.Println(rendered)
	}
	return nil
}

func tokensCommand(cmd *cobra.Command, args []string) error {
	source, err := readSource(args)
	if err != nil {
		return err
	}

	src := parser.CleanSource(source)
	lex := lexer.New(src)
	for {
		tok := lex.NextToken()
		line, col := lexer.LineCol(src, tok.Offset)
		fmt.Printf("%d:%d\t%s\t%q\n", line, col, tok.Type, tok.Value)
		if tok.Type == lexer.EOF {
			return nil
		}
		if tok.Type == lexer.ERROR {
			return fmt.Errorf("(%d:%d) %s", line, col, tok.Value)
		}
	}
}

func compileCommand(cmd *cobra.Command, args []string) error {
	source, err := readSource(args)
	if err != nil {
		return err
	}

	program, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return err
	}

	bytecode, err := codegen.NewEmitter().Emit(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return err
	}

	fmt.Print(codegen.Disassemble(bytecode))
	return nil
}
