// bench-hibernation measures heap memory before and after Hibernate() calls
// while a large integer set grows and shrinks in rounds.
//
// Usage:
//
//	go run ./scripts/bench-hibernation --keys 5000000 --rounds 4 \
//	  --profile-dir docs/profiles/hibernation
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
	"github.com/Sumatoshi-tech/rbset/pkg/safeconv"
)

type heapSnapshot struct {
	label     string
	heapInUse uint64
	heapSys   uint64
}

func main() {
	keys := flag.Int("keys", 1_000_000, "Keys inserted per round")
	rounds := flag.Int("rounds", 3, "Number of grow/shrink rounds")
	removeRatio := flag.Float64("remove-ratio", 0.3, "Share of the keys removed after each round")
	seed := flag.Int64("seed", 0, "Random seed")
	profileDir := flag.String("profile-dir", "", "Directory to write heap profiles (optional)")

	flag.Parse()

	if *profileDir != "" {
		if err := os.MkdirAll(*profileDir, 0o755); err != nil {
			log.Fatalf("mkdir profile-dir: %v", err)
		}
	}

	var snapshots []heapSnapshot

	takeSnapshot := func(label string) {
		runtime.GC()
		runtime.GC()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		snapshots = append(snapshots, heapSnapshot{label: label, heapInUse: m.HeapInuse, heapSys: m.HeapSys})
		log.Printf("  [heap] %-32s inuse=%10s  sys=%10s", label, humanize.IBytes(m.HeapInuse), humanize.IBytes(m.HeapSys))
	}

	writeHeapProfile := func(name string) {
		if *profileDir == "" {
			return
		}

		runtime.GC()

		path := filepath.Join(*profileDir, name)

		f, ferr := os.Create(path)
		if ferr != nil {
			log.Printf("warning: create heap profile %s: %v", path, ferr)

			return
		}
		defer f.Close()

		if perr := pprof.WriteHeapProfile(f); perr != nil {
			log.Printf("warning: write heap profile %s: %v", path, perr)
		}
	}

	rng := rand.New(rand.NewSource(*seed))
	set := rbtree.New[int]()
	allocator := set.Allocator()

	takeSnapshot("before_insert")

	for round := 1; round <= *rounds; round++ {
		for range *keys {
			set.Insert(rng.Int())
		}

		// Collect first: the set must not change while it is being walked.
		quota := int(float64(set.Len()) * *removeRatio)
		victims := make([]int, 0, quota)

		for key := range set.All() {
			if len(victims) == quota {
				break
			}

			if rng.Intn(2) == 0 {
				victims = append(victims, key)
			}
		}

		for _, key := range victims {
			set.Remove(key)
		}

		log.Printf("round %d: %s keys, arena %s slots", round,
			humanize.Comma(int64(set.Len())), humanize.Comma(int64(allocator.Size())))

		takeSnapshot(fmt.Sprintf("round_%d_before_hibernate", round))
		writeHeapProfile(fmt.Sprintf("heap_round_%d_before_hibernate.prof", round))

		if err := allocator.Hibernate(); err != nil {
			log.Fatalf("hibernate: %v", err)
		}

		takeSnapshot(fmt.Sprintf("round_%d_after_hibernate", round))
		writeHeapProfile(fmt.Sprintf("heap_round_%d_after_hibernate.prof", round))
		log.Printf("round %d: compressed columns %s", round, humanize.IBytes(safeconv.MustIntToUint64(allocator.HibernatedBytes())))

		if err := allocator.Boot(); err != nil {
			log.Fatalf("boot: %v", err)
		}

		takeSnapshot(fmt.Sprintf("round_%d_after_boot", round))

		if err := set.Validate(); err != nil {
			log.Fatalf("round %d: %v", round, err)
		}
	}

	fmt.Println()
	fmt.Println("=== Heap Memory Timeline ===")
	fmt.Printf("%-34s %12s %12s\n", "Phase", "InUse", "Sys")

	for _, s := range snapshots {
		fmt.Printf("%-34s %12s %12s\n", s.label, humanize.IBytes(s.heapInUse), humanize.IBytes(s.heapSys))
	}
}
