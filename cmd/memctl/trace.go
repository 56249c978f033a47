package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okatz/memsim/mem"
)

var traceCapacity int

func init() {
	cmd := newTraceCmd()
	cmd.Flags().IntVar(&traceCapacity, "capacity", 4096, "Capacity of the simulated space in words")
	rootCmd.AddCommand(cmd)
}

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <script>",
		Short: "Execute an allocation trace script",
		Long: `The trace command executes a line-oriented script of allocator
operations against a fresh memory space and echoes each result. Use "-" to
read the script from stdin.

Script operations (one per line, "#" starts a comment):
  malloc <length>   allocate, prints the returned address
  free <address>    release a previously returned address
  defrag            coalesce adjacent free blocks
  dump              print the free and allocated lists
  stats             print occupancy and fragmentation

Example:
  memctl trace workload.txt --capacity 1024
  echo "malloc 100" | memctl trace -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(args)
		},
	}
	return cmd
}

func runTrace(args []string) error {
	var in io.Reader
	if args[0] == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	sp, err := mem.NewSpace(traceCapacity)
	if err != nil {
		return fmt.Errorf("failed to create space: %w", err)
	}

	printVerbose("Tracing against a %d-word space\n", traceCapacity)

	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := execTraceLine(sp, scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	return nil
}

// execTraceLine parses and runs a single script line. Blank lines and
// comments are skipped.
func execTraceLine(sp *mem.Space, line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	op := strings.ToLower(fields[0])
	switch op {
	case "malloc":
		length, err := traceArg(fields, "malloc <length>")
		if err != nil {
			return err
		}
		addr := sp.Malloc(length)
		if addr == mem.AllocFailed {
			printInfo("malloc %d -> failed\n", length)
		} else {
			printInfo("malloc %d -> %d\n", length, addr)
		}

	case "free":
		addr, err := traceArg(fields, "free <address>")
		if err != nil {
			return err
		}
		if err := sp.Free(addr); err != nil {
			return err
		}
		printInfo("free %d -> ok\n", addr)

	case "defrag":
		if len(fields) != 1 {
			return fmt.Errorf("defrag takes no arguments")
		}
		before := sp.FreeBlocks()
		sp.Defrag()
		printInfo("defrag -> %d blocks merged\n", before-sp.FreeBlocks())

	case "dump":
		if len(fields) != 1 {
			return fmt.Errorf("dump takes no arguments")
		}
		printInfo("%s\n", sp)

	case "stats":
		if len(fields) != 1 {
			return fmt.Errorf("stats takes no arguments")
		}
		printInfo("allocated %d words in %d blocks, free %d words in %d blocks, fragmentation %.1f%%\n",
			sp.AllocatedWords(), sp.AllocatedBlocks(),
			sp.FreeWords(), sp.FreeBlocks(), sp.Fragmentation()*100)

	default:
		return fmt.Errorf("unknown operation %q", op)
	}

	return nil
}

func traceArg(fields []string, usage string) (int, error) {
	if len(fields) != 2 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	return n, nil
}
