package payload_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pushkit/pkg/payload"
)

func TestClassify(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		p := payload.Classify("hello {world}")
		assert.Equal(t, payload.KindScalar, p.Kind)
		assert.Equal(t, "hello {world}", p.Raw)
	})

	t.Run("array is scalar", func(t *testing.T) {
		assert.Equal(t, payload.KindScalar, payload.Classify(`["a"]`).Kind)
	})

	t.Run("object keeps numbers exact", func(t *testing.T) {
		p := payload.Classify(`{"notification_id": 9007199254740993, "ok": true}`)
		require.Equal(t, payload.KindObject, p.Kind)
		assert.Equal(t, json.Number("9007199254740993"), p.Object["notification_id"])
		assert.Equal(t, true, p.Object["ok"])
	})

	t.Run("malformed", func(t *testing.T) {
		p := payload.Classify(`{"alert": "unterminated`)
		assert.Equal(t, payload.KindParseFailure, p.Kind)
		assert.ErrorIs(t, p.Err, payload.ErrMalformedJSON)
	})

	t.Run("trailing data", func(t *testing.T) {
		p := payload.Classify(`{"a":1} {"b":2}`)
		assert.Equal(t, payload.KindParseFailure, p.Kind)
		assert.ErrorIs(t, p.Err, payload.ErrTrailingData)
	})

	assert.Equal(t, "parse_failure", payload.KindParseFailure.String())
}
