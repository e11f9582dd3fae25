package main

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/objkit/collection"
	"github.com/chazu/objkit/rt"
	"github.com/chazu/objkit/value"
)

var (
	stressGoroutines int
	stressIterations int
	stressShared     int
)

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Stress reference counting and autorelease pools",
		Long: `The stress command runs many goroutines that each push autorelease
pools, create and autorelease instances, and retain and release a set of
instances shared by all of them. Afterwards it checks that every instance
created was destroyed exactly once and that no pool was left behind.

Example:
  objkit stress
  objkit stress --goroutines 64 --iterations 100000 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(cmd)
		},
	}
	cmd.Flags().IntVarP(&stressGoroutines, "goroutines", "g", runtime.GOMAXPROCS(0)*2, "Number of concurrent goroutines")
	cmd.Flags().IntVarP(&stressIterations, "iterations", "n", 10000, "Pool iterations per goroutine")
	cmd.Flags().IntVar(&stressShared, "shared", 8, "Instances shared by all goroutines")
	return cmd
}

// stressItem is the instance type churned by the stress workers.
type stressItem struct {
	rt.Header
	n int
}

var stressItemClass = &rt.Class{Name: "StressItem"}

// StressResult summarizes a stress run.
type StressResult struct {
	Goroutines int           `json:"goroutines"`
	Iterations int           `json:"iterations"`
	Created    uint64        `json:"created"`
	Destroyed  uint64        `json:"destroyed"`
	Released   int64         `json:"autoreleased"`
	Elapsed    time.Duration `json:"elapsed"`
}

func runStress(cmd *cobra.Command) error {
	if stressGoroutines < 1 || stressIterations < 1 || stressShared < 1 {
		return fmt.Errorf("--goroutines, --iterations and --shared must be positive")
	}

	id := rt.Register(stressItemClass)
	createdBefore := stressItemClass.Created()
	destroyedBefore := stressItemClass.Destroyed()
	poolsBefore := rt.ActivePools()

	shared := make([]*stressItem, stressShared)
	for i := range shared {
		shared[i] = rt.New[stressItem](id, rt.Mutable)
		shared[i].n = i
	}

	log.Infof("stress: %d goroutines x %d iterations over %d shared instances",
		stressGoroutines, stressIterations, stressShared)

	start := time.Now()
	counts := make([]int64, stressGoroutines)
	g, ctx := errgroup.WithContext(cmd.Context())
	for w := 0; w < stressGoroutines; w++ {
		g.Go(func() error {
			n, err := stressWorker(ctx, id, shared, stressIterations)
			counts[w] = n
			return err
		})
	}
	err := g.Wait()
	elapsed := time.Since(start)

	for _, s := range shared {
		rt.Release(s)
	}
	if err != nil {
		return err
	}

	res := StressResult{
		Goroutines: stressGoroutines,
		Iterations: stressIterations,
		Created:    stressItemClass.Created() - createdBefore,
		Destroyed:  stressItemClass.Destroyed() - destroyedBefore,
		Elapsed:    elapsed,
	}
	for _, n := range counts {
		res.Released += n
	}

	if res.Created != res.Destroyed {
		return fmt.Errorf("stress: %d instances created but %d destroyed", res.Created, res.Destroyed)
	}
	if pools := rt.ActivePools(); pools != poolsBefore {
		return fmt.Errorf("stress: %d autorelease pools left active", pools-poolsBefore)
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), res)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "goroutines:   %d\n", res.Goroutines)
	fmt.Fprintf(out, "iterations:   %d\n", res.Iterations)
	fmt.Fprintf(out, "created:      %d\n", res.Created)
	fmt.Fprintf(out, "destroyed:    %d\n", res.Destroyed)
	fmt.Fprintf(out, "autoreleased: %d\n", res.Released)
	fmt.Fprintf(out, "elapsed:      %s\n", res.Elapsed.Round(time.Millisecond))
	return nil
}

// stressWorker runs iterations pool cycles on the calling goroutine and
// returns the number of releases its pools performed. A contract violation
// is turned into an error.
func stressWorker(ctx context.Context, id rt.RuntimeID, shared []*stressItem, iterations int) (released int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			cv, ok := r.(*rt.ContractViolation)
			if !ok {
				panic(r)
			}
			err = cv
		}
	}()

	for i := 0; i < iterations; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return released, err
			}
		}

		pool := rt.PushPool()
		s := shared[i%len(shared)]
		rt.Autorelease(rt.Retain(s))

		item := rt.New[stressItem](id, rt.Mutable)
		item.n = i
		weak := rt.NewWeakRef(item)

		arr := collection.NewMutableArray(3)
		arr.Append(rt.AutoreleaseT(item))
		arr.Append(s)
		arr.Append(value.StringWith(strconv.Itoa(i)))
		rt.Autorelease(arr)

		released += int64(pool.Pop())
		if weak.IsAlive() {
			return released, fmt.Errorf("stress: instance %d survived its pool", i)
		}
	}
	return released, nil
}
