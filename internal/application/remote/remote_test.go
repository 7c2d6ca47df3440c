package remote_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturapro/internal/application/remote"
)

func TestResource_CargaExitosa(t *testing.T) {
	scope := remote.NewScope(context.Background())
	defer scope.Close()

	var r remote.Resource[[]string]
	assert.Equal(t, remote.Idle, r.Status())

	err := r.Load(scope, func(context.Context) ([]string, error) { return []string{"a", "b"}, nil })

	require.NoError(t, err)
	snap := r.Get()
	assert.Equal(t, remote.Success, snap.Status)
	assert.Equal(t, []string{"a", "b"}, snap.Data)
	assert.NoError(t, snap.Err)
}

func TestResource_FallaConservaDatosAnteriores(t *testing.T) {
	scope := remote.NewScope(context.Background())
	defer scope.Close()
	var r remote.Resource[int]
	require.NoError(t, r.Load(scope, func(context.Context) (int, error) { return 7, nil }))

	boom := errors.New("boom")
	err := r.Load(scope, func(context.Context) (int, error) { return 0, boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, remote.Failure, r.Status())
	assert.ErrorIs(t, r.Err(), boom)
	assert.Equal(t, 7, r.Data())
}

func TestResource_ResultadoTardioSeIgnoraTrasCerrarAlcance(t *testing.T) {
	scope := remote.NewScope(context.Background())
	var r remote.Resource[string]

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- r.Load(scope, func(context.Context) (string, error) {
			close(started)
			<-release
			return "tarde", nil
		})
	}()

	<-started
	assert.Equal(t, remote.Loading, r.Status())
	scope.Close()
	close(release)

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, r.Data())
	assert.NotEqual(t, remote.Success, r.Status())
}

func TestResource_CierreCancelaContexto(t *testing.T) {
	scope := remote.NewScope(context.Background())
	var r remote.Resource[int]

	go func() {
		time.Sleep(20 * time.Millisecond)
		scope.Close()
	}()
	err := r.Load(scope, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, scope.Closed())
}

func TestResource_CargaMasNuevaGana(t *testing.T) {
	scope := remote.NewScope(context.Background())
	defer scope.Close()
	var r remote.Resource[string]

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = r.Load(scope, func(context.Context) (string, error) {
			close(started)
			<-release
			return "vieja", nil
		})
		close(done)
	}()
	<-started
	require.NoError(t, r.Load(scope, func(context.Context) (string, error) { return "nueva", nil }))
	close(release)
	<-done

	assert.Equal(t, "nueva", r.Data())
}

func TestResource_Reset(t *testing.T) {
	scope := remote.NewScope(context.Background())
	defer scope.Close()
	var r remote.Resource[int]
	require.NoError(t, r.Load(scope, func(context.Context) (int, error) { return 1, nil }))

	r.Reset()

	assert.Equal(t, remote.Idle, r.Status())
	assert.Zero(t, r.Data())
}

func TestLoadAll_UnaFallaNoCancelaLasDemas(t *testing.T) {
	scope := remote.NewScope(context.Background())
	defer scope.Close()

	var clientes remote.Resource[[]string]
	var productos remote.Resource[[]string]
	var finished atomic.Int32
	boom := errors.New("clientes caído")

	err := remote.LoadAll(
		func() error {
			return clientes.Load(scope, func(context.Context) ([]string, error) {
				finished.Add(1)
				return nil, boom
			})
		},
		func() error {
			return productos.Load(scope, func(ctx context.Context) ([]string, error) {
				time.Sleep(30 * time.Millisecond)
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				finished.Add(1)
				return []string{"Laptop"}, nil
			})
		},
	)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), finished.Load())
	assert.Equal(t, remote.Failure, clientes.Status())
	assert.Equal(t, remote.Success, productos.Status())
	assert.Equal(t, []string{"Laptop"}, productos.Data())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", remote.Idle.String())
	assert.Equal(t, "loading", remote.Loading.String())
	assert.Equal(t, "success", remote.Success.String())
	assert.Equal(t, "failure", remote.Failure.String())
}
