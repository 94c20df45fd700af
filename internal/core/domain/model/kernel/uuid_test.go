package kernel_test

import (
	"testing"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create a valid random UUID", func(t *testing.T) {
		id := kernel.NewUUID()

		require.NoError(t, id.Validate())
		assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, id.String())
	})

	t.Run("should create unique UUIDs", func(t *testing.T) {
		assert.False(t, kernel.NewUUID().IsEqual(kernel.NewUUID()))
	})
}

func TestUUIDFromString(t *testing.T) {
	const valid = "550e8400-e29b-41d4-a716-446655440000"

	t.Run("should accept the textual forms of a UUID", func(t *testing.T) {
		for _, input := range []string{
			valid,
			"{550e8400-e29b-41d4-a716-446655440000}",
			"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
			"550e8400e29b41d4a716446655440000",
		} {
			id, err := kernel.UUIDFromString(input)

			require.NoError(t, err, input)
			assert.Equal(t, valid, id.String())
		}
	})

	t.Run("should reject malformed input as invalid value", func(t *testing.T) {
		for _, input := range []string{"", "not-a-uuid", "550e8400-e29b-41d4-a716", "packageEntity-12"} {
			_, err := kernel.UUIDFromString(input)

			require.Error(t, err, input)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})

	t.Run("should reject the nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestRestoreUUID(t *testing.T) {
	raw := uuid.New()

	id, err := kernel.RestoreUUID(raw)

	require.NoError(t, err)
	assert.Equal(t, raw, id.Raw())

	_, err = kernel.RestoreUUID(uuid.Nil)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID

	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, zero.Validate())
	assert.True(t, zero.IsEqual(kernel.UUID{}))
	assert.False(t, zero.IsEqual(kernel.NewUUID()))
}

func TestUUID_RawIsACopy(t *testing.T) {
	original := kernel.NewUUID()
	text := original.String()

	raw := original.Raw()
	for i := range raw {
		raw[i] = 0xFF
	}

	assert.Equal(t, text, original.String())
}
