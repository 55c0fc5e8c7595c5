package pool_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/repool/pkg/pool"
	"github.com/ajitpratap0/repool/pkg/runtime"
)

func TestBuildDefaults(t *testing.T) {
	p, err := pool.NewBuilder[int](&counterManager{}).Build()
	require.NoError(t, err)
	st := p.Status()
	assert.Equal(t, pool.DefaultMaxSize(), st.MaxSize)
	assert.Equal(t, 0, st.Size)
	assert.Equal(t, "pool", p.Name())
}

func TestBuildTimeoutWithoutRuntimeFails(t *testing.T) {
	wait := time.Second
	_, err := pool.NewBuilder[int](&counterManager{}).
		MaxSize(2).
		WaitTimeout(&wait).
		Build()
	require.ErrorIs(t, err, pool.ErrNoRuntime)

	// Supplying the runtime fixes it.
	p, err := pool.NewBuilder[int](&counterManager{}).
		MaxSize(2).
		WaitTimeout(&wait).
		Runtime(runtime.Standard()).
		Build()
	require.NoError(t, err)
	assert.Equal(t, 2, p.Status().MaxSize)
}

func TestBuildRejectsNegativeMaxSize(t *testing.T) {
	_, err := pool.NewBuilder[int](&counterManager{}).MaxSize(-1).Build()
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	neg := -time.Second
	cases := []struct {
		name    string
		config  pool.Config
		wantErr bool
	}{
		{"defaults", pool.Config{MaxSize: pool.DefaultMaxSize()}, false},
		{"zero max", pool.Config{}, false},
		{"negative max", pool.Config{MaxSize: -4}, true},
		{"negative timeout", pool.Config{MaxSize: 1, Timeouts: pool.Timeouts{Create: &neg}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseQueueMode(t *testing.T) {
	m, err := pool.ParseQueueMode("fifo")
	require.NoError(t, err)
	assert.Equal(t, pool.FIFO, m)

	m, err = pool.ParseQueueMode("lifo")
	require.NoError(t, err)
	assert.Equal(t, pool.LIFO, m)

	m, err = pool.ParseQueueMode("")
	require.NoError(t, err)
	assert.Equal(t, pool.FIFO, m)

	_, err = pool.ParseQueueMode("random")
	assert.Error(t, err)
}

func TestBuilderFromConfig(t *testing.T) {
	cfg := pool.Config{MaxSize: 5, QueueMode: pool.LIFO}
	p, err := pool.NewBuilder[int](&counterManager{}).Config(cfg).Build()
	require.NoError(t, err)
	assert.Equal(t, 5, p.Status().MaxSize)
}

func TestManagerAccessor(t *testing.T) {
	mgr := &counterManager{}
	p, err := pool.NewBuilder[int](mgr).MaxSize(1).Build()
	require.NoError(t, err)
	assert.Same(t, pool.Manager[int](mgr), p.Manager())
}
