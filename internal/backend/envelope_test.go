package backend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemStrings(t *testing.T, data []json.RawMessage) []string {
	t.Helper()
	out := make([]string, 0, len(data))
	for _, raw := range data {
		var s string
		require.NoError(t, json.Unmarshal(raw, &s))
		out = append(out, s)
	}
	return out
}

func TestNormalizeListShapesAreEquivalent(t *testing.T) {
	bodies := map[string]string{
		"bare array":     `["a","b","c"]`,
		"results object": `{"results":["a","b","c"]}`,
		"integer keys":   `{"1":"b","0":"a","2":"c"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			env := normalize(200, []byte(body))
			assert.True(t, env.OK)
			assert.Equal(t, 200, env.Status)
			assert.Equal(t, []string{"a", "b", "c"}, itemStrings(t, env.Data))
		})
	}
}

func TestNormalizePlainObjectKeepsFields(t *testing.T) {
	env := normalize(200, []byte(`{"subscription_status":"active","draft_id":"d-7"}`))

	assert.True(t, env.OK)
	assert.Nil(t, env.Data)
	assert.Equal(t, "active", env.StringField("subscription_status"))
	assert.Equal(t, "d-7", env.StringField("draft_id"))
	assert.Equal(t, "", env.StringField("missing"))
}

func TestNormalizeMixedKeysAreNotAList(t *testing.T) {
	env := normalize(200, []byte(`{"0":"a","status":"ok"}`))
	assert.True(t, env.OK)
	assert.Nil(t, env.Data, "non-integer key disqualifies list reconstruction")
}

func TestNormalizeNonJSONFailsSoft(t *testing.T) {
	env := normalize(200, []byte("<html>Bad Gateway</html>"))
	assert.False(t, env.OK)
	assert.Equal(t, 200, env.Status)
	assert.Empty(t, env.Data)
}

func TestNormalizeErrorStatus(t *testing.T) {
	env := normalize(503, []byte(`{"error":"unavailable"}`))
	assert.False(t, env.OK)
	assert.Equal(t, 503, env.Status)
	assert.Equal(t, "unavailable", env.StringField("error"))
}

func TestNormalizeEmptyBody(t *testing.T) {
	env := normalize(204, nil)
	assert.True(t, env.OK)
	assert.Empty(t, env.Fields)
}
