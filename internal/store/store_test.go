package store

import (
	"sync"
	"testing"
	"time"

	"FXDashboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestStore_LoadReplace(t *testing.T) {
	s := New()
	assert.Nil(t, s.Load())

	first := &model.Dataset{Primary: "usdjpy", FetchedAt: time.Unix(1, 0)}
	s.Replace(first)
	assert.Same(t, first, s.Load())

	second := &model.Dataset{Primary: "usdjpy", FetchedAt: time.Unix(2, 0)}
	s.Replace(second)
	assert.Same(t, second, s.Load())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace(&model.Dataset{FetchedAt: time.Unix(int64(i), 0)})
		}()
		go func() {
			defer wg.Done()
			_ = s.Load()
		}()
	}
	wg.Wait()
	assert.NotNil(t, s.Load())
}
