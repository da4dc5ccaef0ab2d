package table

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"
)

var (
	loadCmd = &cobra.Command{
		Use:   "load [file]",
		Short: "Loads key=value lines into the table and reports the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := loadFile(args[0])
			if err != nil {
				return err
			}
			info := tbl.GetInfo()
			fmt.Printf("loaded %d lines: %d keys in %d buckets (load factor %.2f)\n",
				lines, info.Count, info.Capacity, info.LoadFactor)
			return nil
		},
	}
	walkCmd = &cobra.Command{
		Use:   "walk [file]",
		Short: "Loads key=value lines into the table and prints every entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadFile(args[0]); err != nil {
				return err
			}
			cursor := uint64(0)
			for {
				key, value, found := tbl.Walk(&cursor)
				if !found {
					break
				}
				fmt.Printf("%s=%s\n", key, value)
			}
			return nil
		},
	}
	verifyCmd = &cobra.Command{
		Use:   "verify [file]",
		Short: "Loads key=value lines into the table and checks the probing invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadFile(args[0]); err != nil {
				return err
			}
			if err := tbl.Verify(); err != nil {
				return err
			}
			info := tbl.GetInfo()
			fmt.Printf("table verified: %d keys in %d buckets, no invariant violations\n",
				info.Count, info.Capacity)
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info [file]",
		Short: "Prints table metadata, optionally after loading key=value lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if _, err := loadFile(args[0]); err != nil {
					return err
				}
			}
			out, err := sonnet.MarshalIndent(tbl.GetInfo(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
)

// loadFile reads key=value lines from the given path ("-" for stdin) and
// puts each pair into the table. Empty lines and lines starting with '#'
// are skipped, a line without '=' is treated as a key with an empty value.
func loadFile(path string) (int, error) {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		in = f
	}

	lines := 0
	lineNo := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, _ := strings.Cut(line, "=")
		if key == "" {
			return lines, fmt.Errorf("line %d: empty key", lineNo)
		}

		if _, err := tbl.Put([]byte(key), []byte(value)); err != nil {
			return lines, fmt.Errorf("line %d: %w", lineNo, err)
		}
		lines++
	}

	return lines, scanner.Err()
}
