package shared

import (
	"sync"
	"testing"
)

func TestTitleCase(t *testing.T) {
	if got := TitleCase("mumbai central"); got != "Mumbai Central" {
		t.Fatalf("TitleCase = %q", got)
	}
}

// Normalization runs on every create/update request, so it must hold
// up under the race detector when hit from parallel handlers.
func TestTitleCaseConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if got := TitleCase("spare parts"); got != "Spare Parts" {
					t.Errorf("TitleCase = %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
