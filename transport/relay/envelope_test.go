package relay

import (
	"testing"

	"github.com/layer-3/rangda/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToHostEnvelope(t *testing.T) {
	raw := []byte(`{"kind":"to-host","id":"req-1","method":"connect","payload":{"dapp":{"name":"Example","url":"https://app.example.com"},"silent":true}}`)

	env, err := ParseToHostEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, KindToHost, env.Kind)
	assert.Equal(t, "req-1", env.ID)
	assert.Equal(t, MethodConnect, env.Method)
	assert.NotEmpty(t, env.Payload)
}

func TestParseToHostEnvelopeRejectsWrongKind(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"to-client kind", `{"kind":"to-client","id":"req-1","method":"connect"}`},
		{"missing kind", `{"id":"req-1","method":"connect"}`},
		{"made-up kind", `{"kind":"sideways","id":"req-1","method":"connect"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToHostEnvelope([]byte(tt.raw))
			assert.ErrorIs(t, err, core.ErrUnknownEnvelope)
		})
	}
}

func TestParseToHostEnvelopeRejectsUnknownMethod(t *testing.T) {
	raw := []byte(`{"kind":"to-host","id":"req-1","method":"rm_rf"}`)

	env, err := ParseToHostEnvelope(raw)
	assert.ErrorIs(t, err, core.ErrUnknownMethod)
	// The id survives so the relay can still address an error reply
	assert.Equal(t, "req-1", env.ID)
}

func TestParseToHostEnvelopeRejectsGarbage(t *testing.T) {
	_, err := ParseToHostEnvelope([]byte("not json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrUnknownEnvelope)
}
