package gate

import (
	"sync"
	"testing"

	"gatebot/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_SetGet(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get())

	first := new(testutil.MockOracle)
	second := new(testutil.MockOracle)

	r.Set(first)
	assert.Same(t, first, r.Get())

	r.Set(second)
	assert.Same(t, second, r.Get())

	r.Set(nil)
	assert.Nil(t, r.Get())
}

func TestRegistry_TypedNilClears(t *testing.T) {
	r := NewRegistry()
	r.Set(new(testutil.MockOracle))

	var typed *testutil.MockOracle
	r.Set(typed)

	assert.Nil(t, r.Get())

	d := Evaluate(r.Get(), Identity{UserID: 42})
	assert.Equal(t, VerdictDeny, d.Verdict)
	assert.ErrorIs(t, d.Err, ErrGateNotInstalled)
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	r := NewRegistry()
	oracle := new(testutil.MockOracle)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if o := r.Get(); o != nil {
					assert.Same(t, oracle, o)
				}
			}
		}()
	}

	r.Set(oracle)
	wg.Wait()

	assert.Same(t, oracle, r.Get())
}

func TestInstall(t *testing.T) {
	defer Install(nil)

	oracle := new(testutil.MockOracle)
	Install(oracle)

	assert.Same(t, oracle, Default().Get())
}
