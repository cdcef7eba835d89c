package hippostomp

import (
	"context"
	"image"
	"sync"
)

// Result is the outcome of decoding one record. A per-record failure is
// delivered here rather than aborting the batch; Image is nil when Err is
// set.
type Result struct {
	Index int
	Image image.Image
	Err   error
}

func (c *Collection) findRecords(ctx context.Context) <-chan int {
	out := make(chan int)
	go func() {
		defer close(out)
		for i := range c.Records {
			// The first record of a collection is always a placeholder.
			if i == 0 {
				continue
			}
			select {
			case out <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Extract decodes every record in the collection across the given number of
// workers, each using its own read handle on the pixel file. Results arrive
// in no particular order and the channel closes once all records have been
// attempted. Decode failures are logged and reported per record so that one
// malformed record does not block extraction of the rest.
func (c *Collection) Extract(ctx context.Context, workers int) <-chan Result {
	if workers < 1 {
		workers = 1
	}

	in := c.findRecords(ctx)
	out := make(chan Result)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range in {
				m, err := c.Image(i)
				if err != nil {
					c.logger.Printf("record %d: %v\n", i, err)
				}
				select {
				case out <- Result{Index: i, Image: m, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
