package counter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_ConcurrentAdd(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() { defer wg.Done(); s.Add(3) }()
		go func() { defer wg.Done(); s.Add(-1) }()
	}
	wg.Wait()
	require.Equal(t, 100, s.Get())
}

func TestStore_AddReturnsNewValue(t *testing.T) {
	s := NewStore()
	require.Equal(t, 5, s.Add(5))
	require.Equal(t, 3, s.Add(-2))
	require.Equal(t, 3, s.Get())
}
