// README: Concurrency tests for the compare-and-swap acceptance path.
package pickup

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"reloop/internal/types"
)

// TestConcurrentAcceptSamePickup races several drivers for one pending
// pickup; the status_version CAS must let exactly one through.
func TestConcurrentAcceptSamePickup(t *testing.T) {
	store := setupTestStore(t)
	svc := NewService(store, nil, nil, nil, testCfg)
	ctx := context.Background()

	p := mustCreatePickup(t, svc, "r_race")

	const drivers = 8
	start := make(chan struct{})
	results := make(chan error, drivers)

	var wg sync.WaitGroup
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start
			_, err := svc.Accept(ctx, AcceptCommand{
				PickupID: p.ID,
				DriverID: types.ID(fmt.Sprintf("d%d", n)),
			})
			results <- err
		}(i)
	}

	close(start)
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch err {
		case nil:
			wins++
		case ErrAlreadyAccepted:
			losses++
		default:
			t.Fatalf("unexpected error from racing accept: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly 1 winning accept, got %d", wins)
	}
	if losses != drivers-1 {
		t.Fatalf("expected %d losing accepts, got %d", drivers-1, losses)
	}

	final, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if final.Status != StatusAccepted || final.DriverID == nil {
		t.Fatalf("expected accepted with a driver assigned, got %+v", final)
	}
}

// TestConcurrentAcceptVsCancel races an accept against the requester's
// cancel. Every interleaving must end in a consistent terminal or accepted
// row, with errors matching what each caller observed.
func TestConcurrentAcceptVsCancel(t *testing.T) {
	store := setupTestStore(t)
	svc := NewService(store, nil, nil, nil, testCfg)
	ctx := context.Background()

	p := mustCreatePickup(t, svc, "r_race_cancel")

	start := make(chan struct{})
	acceptErr := make(chan error, 1)
	cancelErr := make(chan error, 1)

	go func() {
		<-start
		_, err := svc.Accept(ctx, AcceptCommand{PickupID: p.ID, DriverID: "d_race"})
		acceptErr <- err
	}()
	go func() {
		<-start
		_, err := svc.Cancel(ctx, CancelCommand{
			PickupID: p.ID,
			ActorID:  "r_race_cancel",
		})
		cancelErr <- err
	}()

	close(start)
	aErr := <-acceptErr
	cErr := <-cancelErr

	final, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	switch final.Status {
	case StatusAccepted:
		// Accept won; cancel lost its CAS or read a stale row.
		if aErr != nil {
			t.Fatalf("pickup is accepted but accept returned %v", aErr)
		}
		if cErr != ErrConflict {
			t.Fatalf("expected cancel to lose with ErrConflict, got %v", cErr)
		}
	case StatusCancelled:
		if cErr != nil {
			t.Fatalf("pickup is cancelled but cancel returned %v", cErr)
		}
		// Accept either lost outright, or won first and was then cancelled
		// by the requester while still in accepted. Both are consistent.
		switch aErr {
		case nil, ErrAlreadyAccepted, ErrInvalidState:
		default:
			t.Fatalf("unexpected accept error with cancelled pickup: %v", aErr)
		}
	default:
		t.Fatalf("expected accepted or cancelled, got %s", final.Status)
	}
}
