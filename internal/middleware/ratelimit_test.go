package middleware

import (
	"sync"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
)

func TestHitCountsSequentially(t *testing.T) {
	counters := cache.New(time.Minute, time.Minute)

	for want := 1; want <= 3; want++ {
		if got := hit(counters, "rate:a"); got != want {
			t.Errorf("第 %d 次请求计数 = %d", want, got)
		}
	}
	// 不同键独立计数
	if got := hit(counters, "rate:b"); got != 1 {
		t.Errorf("新键应从 1 开始，实际 %d", got)
	}
}

func TestHitConcurrentFirstRequests(t *testing.T) {
	counters := cache.New(time.Minute, time.Minute)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hit(counters, "rate:burst")
		}()
	}
	wg.Wait()

	// 并发首批请求不能互相覆盖计数
	if got := hit(counters, "rate:burst"); got != n+1 {
		t.Errorf("并发 %d 次后计数应为 %d，实际 %d", n, n+1, got)
	}
}
