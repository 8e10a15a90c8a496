package ticket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "ticketd/internal/domain/ticket/valueobjects"
)

type mockCodeChecker struct {
	ExistsFunc func(ctx context.Context, productID uint, code string) (bool, error)
	calls      int
}

func (m *mockCodeChecker) ExistsByProductAndCode(ctx context.Context, productID uint, code string) (bool, error) {
	m.calls++
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, productID, code)
	}
	return false, nil
}

// sequenceDraw returns the given codes in order.
func sequenceDraw(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func TestUUIDCodeGenerator_Generate(t *testing.T) {
	gen := NewUUIDCodeGenerator(&mockCodeChecker{}, 0)

	code, err := gen.Generate(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, vo.IsCanonicalCode(code), "code %q is not canonical", code)
}

func TestUUIDCodeGenerator_RedrawsOnCollision(t *testing.T) {
	taken := map[string]bool{testCode: true}
	checker := &mockCodeChecker{
		ExistsFunc: func(ctx context.Context, productID uint, code string) (bool, error) {
			assert.Equal(t, uint(7), productID)
			return taken[code], nil
		},
	}
	gen := newCodeGenerator(checker, 5, sequenceDraw(testCode, testCode, testOtherCode))

	code, err := gen.Generate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, testOtherCode, code)
	assert.Equal(t, 3, checker.calls)
}

func TestUUIDCodeGenerator_ExhaustsAttempts(t *testing.T) {
	checker := &mockCodeChecker{
		ExistsFunc: func(ctx context.Context, productID uint, code string) (bool, error) {
			return true, nil
		},
	}
	gen := newCodeGenerator(checker, 4, sequenceDraw(testCode))

	_, err := gen.Generate(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCodeSpaceExhausted))
	assert.Equal(t, 4, checker.calls)
}

func TestUUIDCodeGenerator_SurfacesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	checker := &mockCodeChecker{
		ExistsFunc: func(ctx context.Context, productID uint, code string) (bool, error) {
			return false, storeErr
		},
	}
	gen := NewUUIDCodeGenerator(checker, 3)

	_, err := gen.Generate(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storeErr))
}

func TestUUIDCodeGenerator_DrawError(t *testing.T) {
	gen := newCodeGenerator(&mockCodeChecker{}, 3, func() (string, error) {
		return "", fmt.Errorf("entropy unavailable")
	})

	_, err := gen.Generate(context.Background(), 7)
	assert.Error(t, err)
}

// productCodeSet is an insert-if-absent store keyed by (product, code).
type productCodeSet struct {
	mu    sync.Mutex
	codes map[uint]map[string]struct{}
}

func (s *productCodeSet) ExistsByProductAndCode(ctx context.Context, productID uint, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.codes[productID][code]
	return ok, nil
}

func (s *productCodeSet) insert(productID uint, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes[productID] == nil {
		s.codes[productID] = make(map[string]struct{})
	}
	if _, ok := s.codes[productID][code]; ok {
		return false
	}
	s.codes[productID][code] = struct{}{}
	return true
}

func TestUUIDCodeGenerator_ConcurrentUniqueness(t *testing.T) {
	store := &productCodeSet{codes: make(map[uint]map[string]struct{})}
	gen := NewUUIDCodeGenerator(store, DefaultCodeMaxAttempts)

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				code, err := gen.Generate(context.Background(), 1)
				if !assert.NoError(t, err) {
					return
				}
				assert.True(t, store.insert(1, code), "code %s issued twice", code)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, store.codes[1], workers*perWorker)
}
