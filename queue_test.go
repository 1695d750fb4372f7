package readterm

import (
	"sync"
	"testing"
)

func TestQueueDrainPreservesOrder(t *testing.T) {
	var q outputQueue
	q.push(rawOutput{data: []byte("a")})
	q.push(rawOutput{data: []byte("b")})
	q.push(sessionEnded{})

	items := q.drain()
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if string(items[0].(rawOutput).data) != "a" {
		t.Errorf("item 0 = %#v", items[0])
	}
	if string(items[1].(rawOutput).data) != "b" {
		t.Errorf("item 1 = %#v", items[1])
	}
	if _, ok := items[2].(sessionEnded); !ok {
		t.Errorf("item 2 = %#v, want end marker", items[2])
	}
}

func TestQueueDrainEmptiesQueue(t *testing.T) {
	var q outputQueue
	q.push(rawOutput{data: []byte("a")})

	if items := q.drain(); len(items) != 1 {
		t.Fatalf("first drain returned %d items", len(items))
	}
	if items := q.drain(); items != nil {
		t.Errorf("second drain returned %#v, want nil", items)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	var q outputQueue
	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.push(rawOutput{data: []byte{byte(j)}})
			}
		}()
	}
	wg.Wait()

	if items := q.drain(); len(items) != producers*perProducer {
		t.Errorf("drained %d items, want %d", len(items), producers*perProducer)
	}
}
