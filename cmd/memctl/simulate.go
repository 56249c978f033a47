package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/okatz/memsim/mem"
)

var (
	simCapacity    int
	simOps         int
	simSeed        int64
	simMaxRequest  int
	simFreeRatio   float64
	simDefragEvery int
)

func init() {
	cmd := newSimulateCmd()
	cmd.Flags().IntVar(&simCapacity, "capacity", 4096, "Capacity of the simulated space in words")
	cmd.Flags().IntVar(&simOps, "ops", 1000, "Number of operations to run")
	cmd.Flags().Int64Var(&simSeed, "seed", 1, "Seed for the workload generator")
	cmd.Flags().IntVar(&simMaxRequest, "max-request", 256, "Largest malloc request to generate")
	cmd.Flags().Float64Var(&simFreeRatio, "free-ratio", 0.4, "Fraction of operations that free a live block")
	cmd.Flags().IntVar(&simDefragEvery, "defrag-every", 0, "Run defrag every N operations (0 disables)")
	rootCmd.AddCommand(cmd)
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a random malloc/free workload and report statistics",
		Long: `The simulate command drives a memory space with a seeded random
workload of malloc and free operations, optionally defragmenting at a fixed
interval, and reports occupancy, fragmentation, and operation counters.

The same seed always produces the same workload.

Example:
  memctl simulate --capacity 8192 --ops 5000 --seed 7
  memctl simulate --defrag-every 100 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate()
		},
	}
	return cmd
}

// SimReport is the simulate command's result, for text or JSON output.
type SimReport struct {
	Capacity        int     `json:"capacity"`
	Ops             int     `json:"ops"`
	Seed            int64   `json:"seed"`
	LiveBlocks      int     `json:"live_blocks"`
	AllocatedWords  int     `json:"allocated_words"`
	FreeWords       int     `json:"free_words"`
	FreeBlocks      int     `json:"free_blocks"`
	LargestFree     int     `json:"largest_free"`
	Fragmentation   float64 `json:"fragmentation"`
	MallocCalls     int     `json:"malloc_calls"`
	MallocFailures  int     `json:"malloc_failures"`
	FreeCalls       int     `json:"free_calls"`
	DefragCalls     int     `json:"defrag_calls"`
	Splits          int     `json:"splits"`
	Merges          int     `json:"merges"`
	WordsAllocated  int64   `json:"words_allocated"`
	WordsFreed      int64   `json:"words_freed"`
	InvariantsError string  `json:"invariants_error,omitempty"`
}

func runSimulate() error {
	if simMaxRequest <= 0 || simMaxRequest > simCapacity {
		return fmt.Errorf("max-request must be in [1, capacity], got %d", simMaxRequest)
	}
	if simFreeRatio < 0 || simFreeRatio > 1 {
		return fmt.Errorf("free-ratio must be in [0, 1], got %f", simFreeRatio)
	}

	sp, err := mem.NewSpace(simCapacity)
	if err != nil {
		return fmt.Errorf("failed to create space: %w", err)
	}

	printVerbose("Simulating %d ops over %d words (seed %d)\n", simOps, simCapacity, simSeed)

	rng := rand.New(rand.NewSource(simSeed))
	live := make([]int, 0, 128)

	for i := 1; i <= simOps; i++ {
		if len(live) > 0 && rng.Float64() < simFreeRatio {
			j := rng.Intn(len(live))
			if err := sp.Free(live[j]); err != nil {
				return fmt.Errorf("op %d: %w", i, err)
			}
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
		} else {
			length := 1 + rng.Intn(simMaxRequest)
			if addr := sp.Malloc(length); addr != mem.AllocFailed {
				live = append(live, addr)
			} else {
				printVerbose("op %d: malloc(%d) failed, largest free %d\n", i, length, sp.LargestFree())
			}
		}

		if simDefragEvery > 0 && i%simDefragEvery == 0 {
			sp.Defrag()
		}
	}

	report := SimReport{
		Capacity:       sp.Capacity(),
		Ops:            simOps,
		Seed:           simSeed,
		LiveBlocks:     sp.AllocatedBlocks(),
		AllocatedWords: sp.AllocatedWords(),
		FreeWords:      sp.FreeWords(),
		FreeBlocks:     sp.FreeBlocks(),
		LargestFree:    sp.LargestFree(),
		Fragmentation:  sp.Fragmentation(),
	}
	st := sp.Stats()
	report.MallocCalls = st.MallocCalls
	report.MallocFailures = st.MallocFailures
	report.FreeCalls = st.FreeCalls
	report.DefragCalls = st.DefragCalls
	report.Splits = st.SplitCount
	report.Merges = st.MergeCount
	report.WordsAllocated = st.WordsAllocated
	report.WordsFreed = st.WordsFreed

	if err := sp.Verify(); err != nil {
		report.InvariantsError = err.Error()
	}

	if jsonOut {
		return printJSON(report)
	}

	printInfo("Simulated %d ops over %d words (seed %d)\n\n", report.Ops, report.Capacity, report.Seed)
	printInfo("Occupancy:\n")
	printInfo("  Allocated: %d words in %d blocks\n", report.AllocatedWords, report.LiveBlocks)
	printInfo("  Free:      %d words in %d blocks (largest %d)\n",
		report.FreeWords, report.FreeBlocks, report.LargestFree)
	printInfo("  Fragmentation: %.1f%%\n", report.Fragmentation*100)
	printInfo("\nTraffic:\n")
	printInfo("  malloc: %d calls, %d failures, %d splits\n",
		report.MallocCalls, report.MallocFailures, report.Splits)
	printInfo("  free:   %d calls\n", report.FreeCalls)
	printInfo("  defrag: %d calls, %d merges\n", report.DefragCalls, report.Merges)

	if report.InvariantsError != "" {
		printInfo("\nINVARIANT VIOLATION: %s\n", report.InvariantsError)
		return fmt.Errorf("invariant violation: %s", report.InvariantsError)
	}
	printVerbose("\nInvariants verified\n")

	return nil
}
