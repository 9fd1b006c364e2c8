package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "hemotrace/pkg/domain-errors"
)

func TestParseIdentity(t *testing.T) {
	t.Run("accepts any non-empty value", func(t *testing.T) {
		identity, err := ParseIdentity("donor-1")
		require.NoError(t, err)
		assert.Equal(t, "donor-1", identity.String())
		assert.False(t, identity.IsNil())
	})

	t.Run("rejects empty value", func(t *testing.T) {
		_, err := ParseIdentity("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestKeyOf(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, KeyOf("donor-1"), KeyOf("donor-1"))
	})

	t.Run("distinct identities give distinct keys", func(t *testing.T) {
		assert.NotEqual(t, KeyOf("donor-1"), KeyOf("donor-2"))
	})

	t.Run("key is 64 hex characters", func(t *testing.T) {
		key := KeyOf("donor-1").String()
		assert.Len(t, key, 64)
		assert.NotContains(t, key, "donor", "key must not leak the identity")
	})
}
