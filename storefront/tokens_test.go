package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	store := NewFileTokenStore(t.TempDir(), TokenNamespaceCustomer)

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token, "missing file reads as signed out")

	require.NoError(t, store.Set("abc.def.ghi"))
	token, err = store.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing twice must not fail")
	token, err = store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileTokenStoreNamespacesAreIsolated(t *testing.T) {
	dir := t.TempDir()
	customer := NewFileTokenStore(dir, TokenNamespaceCustomer)
	admin := NewFileTokenStore(dir, TokenNamespaceAdmin)

	require.NoError(t, customer.Set("customer-token"))
	require.NoError(t, admin.Set("admin-token"))

	token, err := customer.Token()
	require.NoError(t, err)
	assert.Equal(t, "customer-token", token)

	require.NoError(t, customer.Clear())
	token, err = admin.Token()
	require.NoError(t, err)
	assert.Equal(t, "admin-token", token, "clearing one namespace must not touch the other")
}
