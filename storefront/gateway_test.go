package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCheckout struct {
	loadCalls int
	loadErr   error
}

func (f *failingCheckout) Load(ctx context.Context) error {
	f.loadCalls++
	return f.loadErr
}

func (f *failingCheckout) Open(ctx context.Context, opts CheckoutOptions) (*CheckoutPayment, error) {
	return nil, errors.New("open must not be reached")
}

func TestGatewayScriptLoadFailure(t *testing.T) {
	// The base URL is never dialed: a failed script load stops the
	// flow before any payment order is created.
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	require.NoError(t, err)

	hosted := &failingCheckout{loadErr: errors.New("cdn unreachable")}
	notifier := &recordingNotifier{}
	gateway := NewGateway(client, hosted, notifier)

	require.ErrorIs(t, gateway.EnsureLoaded(context.Background()), ErrScriptLoad)

	result, err := gateway.Pay(context.Background(), uuid.New(), 10000, CheckoutOptions{})
	require.ErrorIs(t, err, ErrScriptLoad)
	assert.Nil(t, result)
	assert.Positive(t, notifier.errorCount())
}

func TestGatewayLoadsScriptOnce(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	require.NoError(t, err)

	hosted := &failingCheckout{}
	gateway := NewGateway(client, hosted, nil)

	require.NoError(t, gateway.EnsureLoaded(context.Background()))
	require.NoError(t, gateway.EnsureLoaded(context.Background()))
	assert.Equal(t, 1, hosted.loadCalls)
}
