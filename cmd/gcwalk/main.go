// Command gcwalk is a tiny driver that allocates a short Cons chain,
// anchors the middle of it, collects, and prints the resulting
// metadata. It is not part of the collector's core and exists only to
// demonstrate the embedding contract end to end.
package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lynzrand/ike-gc/examples/cons"
	"github.com/lynzrand/ike-gc/gc"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	c, err := gc.New(gc.Config{HalfSize: 64 * 1024, Logger: logger})
	if err != nil {
		logger.Fatal("failed to create collector", zap.Error(err))
	}
	defer c.Close()

	printMeta(c, "initial")

	alloc1, err := cons.New(c, nil, nil)
	if err != nil {
		logger.Fatal("allocate alloc1 failed", zap.Error(err))
	}
	alloc2, err := cons.New(c, alloc1, nil)
	if err != nil {
		logger.Fatal("allocate alloc2 failed", zap.Error(err))
	}
	alloc3, err := cons.New(c, alloc2, nil)
	if err != nil {
		logger.Fatal("allocate alloc3 failed", zap.Error(err))
	}

	printMeta(c, "after 3 allocations")

	_, err = cons.New(c, alloc3, nil)
	if err != nil {
		logger.Fatal("allocate alloc4 failed", zap.Error(err))
	}
	handle3 := c.AcquireHandle(alloc3.Load())

	c.Collect()

	printMeta(c, "after collection")

	survivorAddr, ok := c.GetHandle(handle3)
	if !ok {
		logger.Fatal("handle3 unexpectedly released")
	}
	fmt.Printf("alloc3 survived at %p\n", survivorAddr)
}

func printMeta(c *gc.Collector, label string) {
	fmt.Printf("%s: cursor=%d total_alloc=%d high_water=%d gc_count=%d\n",
		label, c.Cursor(), c.TotalAllocatedBytes(), c.HighWaterMarkBytes(), c.CollectionCount())
}
