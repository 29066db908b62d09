package postgres

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderAuditLog_PayloadRoundTrip(t *testing.T) {
	log, err := NewOrderAuditLog(nil)
	require.NoError(t, err)
	defer log.Close()

	t.Run("small payload stays raw", func(t *testing.T) {
		payload := json.RawMessage(`{"bill_no":"20240305-0007","total":"95.00"}`)

		var entry OrderAuditEntry
		log.encodePayload(&entry, payload)

		assert.Equal(t, CompressionNone, entry.CompressionAlgo)
		assert.Equal(t, payload, entry.Payload)
		assert.Nil(t, entry.PayloadCompressed)

		decoded, err := log.DecodePayload(&entry)
		require.NoError(t, err)
		assert.Equal(t, payload, decoded)
	})

	t.Run("large payload compresses and decodes back", func(t *testing.T) {
		big := map[string]any{
			"bill_no": "20240305-0008",
			"note":    strings.Repeat("order payload filler ", 2048),
		}
		payload, err := json.Marshal(big)
		require.NoError(t, err)
		require.Greater(t, len(payload), log.compressThreshold)

		var entry OrderAuditEntry
		log.encodePayload(&entry, payload)

		assert.Equal(t, CompressionZstd, entry.CompressionAlgo)
		assert.Nil(t, entry.Payload)
		require.NotEmpty(t, entry.PayloadCompressed)
		assert.Less(t, len(entry.PayloadCompressed), len(payload))

		decoded, err := log.DecodePayload(&entry)
		require.NoError(t, err)
		assert.Equal(t, json.RawMessage(payload), decoded)
	})

	t.Run("corrupt compressed payload errors", func(t *testing.T) {
		entry := OrderAuditEntry{
			CompressionAlgo:   CompressionZstd,
			PayloadCompressed: []byte("not zstd"),
		}

		_, err := log.DecodePayload(&entry)
		assert.Error(t, err)
	})
}
