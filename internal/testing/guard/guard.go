package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("SHIPDECK_TEST_MODE") == "" {
			_ = os.Setenv("SHIPDECK_TEST_MODE", "1")
		}
	})
}
