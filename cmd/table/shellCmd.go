package table

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"
)

var (
	shellCmd = &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell for the table",
		Long:  "Start an interactive shell operating on a single in-process table. The table lives as long as the shell session.",
		RunE:  runShell,
	}

	shellCommands = []string{
		"put", "get", "del", "delete",
		"walk", "ls", "list",
		"len", "count", "info", "verify",
		"bulk", "clear", "cls",
		"help", "exit", "quit", "q",
	}
)

// historyFile returns the path of the shell history file
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rhmap_history")
}

func runShell(_ *cobra.Command, _ []string) error {
	// Set up liner for readline-style input
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		var completions []string
		lower := strings.ToLower(input)
		for _, cmd := range shellCommands {
			if strings.HasPrefix(cmd, lower) {
				completions = append(completions, cmd)
			}
		}
		return completions
	})

	// Load history
	if f, err := os.Open(historyFile()); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	info := tbl.GetInfo()
	fmt.Printf("rhmap shell (%s, %d buckets)\n", info.TableType, info.Capacity)
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		input, err := line.Prompt("rhmap> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		// Add to history
		line.AppendHistory(input)

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			saveHistory(line)
			return nil

		case "help", "?":
			printShellHelp()

		case "put":
			shellPut(args)

		case "get":
			shellGet(args)

		case "del", "delete":
			shellDelete(args)

		case "walk", "ls", "list":
			shellWalk(args)

		case "len", "count":
			fmt.Printf("%d keys\n", tbl.GetInfo().Count)

		case "info":
			shellInfo()

		case "verify":
			if err := tbl.Verify(); err != nil {
				fmt.Printf("verify failed: %v\n", err)
			} else {
				fmt.Println("table verified, no invariant violations")
			}

		case "bulk":
			shellBulk(args)

		case "clear", "cls":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	saveHistory(line)
	return nil
}

// saveHistory persists command history to disk
func saveHistory(line *liner.State) {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
}

func printShellHelp() {
	fmt.Println("Commands:")
	fmt.Println("  put <key> <value>    Insert or keep an entry (duplicates keep the resident value)")
	fmt.Println("  get <key>            Retrieve an entry by key")
	fmt.Println("  del <key>            Delete an entry")
	fmt.Println("  walk [limit]         List entries in table order")
	fmt.Println("  len                  Count entries")
	fmt.Println("  info                 Show table metadata")
	fmt.Println("  verify               Check the probing invariants")
	fmt.Println("  bulk <count> [pre]   Insert N generated entries")
	fmt.Println("  clear                Clear the screen")
	fmt.Println("  help                 Show this help")
	fmt.Println("  exit / quit / q      Exit")
}

func shellPut(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: put <key> <value>")
		return
	}
	stored, err := tbl.Put([]byte(args[0]), []byte(args[1]))
	if err != nil {
		fmt.Printf("put failed: %v\n", err)
		return
	}
	if string(stored) != args[1] {
		fmt.Printf("key exists, kept resident value %q\n", stored)
		return
	}
	fmt.Println("put successfully")
}

func shellGet(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: get <key>")
		return
	}
	value, found := tbl.Get([]byte(args[0]))
	fmt.Printf("key=%s, found=%v, value=%s\n", args[0], found, value)
}

func shellDelete(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: del <key>")
		return
	}
	if _, found := tbl.Delete([]byte(args[0])); !found {
		fmt.Println("key not found")
		return
	}
	fmt.Println("delete successfully")
}

func shellWalk(args []string) {
	limit := -1
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("usage: walk [limit]")
			return
		}
		limit = n
	}

	printed := 0
	cursor := uint64(0)
	for limit < 0 || printed < limit {
		key, value, found := tbl.Walk(&cursor)
		if !found {
			break
		}
		fmt.Printf("%s=%s\n", key, value)
		printed++
	}
	fmt.Printf("(%d entries)\n", printed)
}

func shellInfo() {
	out, err := sonnet.MarshalIndent(tbl.GetInfo(), "", "  ")
	if err != nil {
		fmt.Printf("info failed: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func shellBulk(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Println("usage: bulk <count> [prefix]")
		return
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		fmt.Println("count must be a positive number")
		return
	}
	prefix := "bulk"
	if len(args) == 2 {
		prefix = args[1]
	}

	for i := 0; i < count; i++ {
		key := fmt.Sprintf("%s-%d", prefix, i)
		value := strconv.FormatUint(rand.Uint64(), 16)
		if _, err := tbl.Put([]byte(key), []byte(value)); err != nil {
			fmt.Printf("bulk insert failed at %d: %v\n", i, err)
			return
		}
	}
	fmt.Printf("inserted %d entries, table holds %d keys\n", count, tbl.GetInfo().Count)
}
