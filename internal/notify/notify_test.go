package notify

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegisterMessage(t *testing.T) {
	msg, err := parseRegisterMessage([]byte(`{"type":"register","user_id":"u1"}`))
	require.NoError(t, err)
	assert.Equal(t, RegisterMessageType, msg.Type)
	assert.Equal(t, "u1", msg.UserID)

	_, err = parseRegisterMessage([]byte(`{"type":"register"}`))
	assert.Error(t, err, "user_id is required")

	_, err = parseRegisterMessage([]byte(`not json`))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}

	r.Register("u1", addr)
	r.Register("", addr)
	r.Register("u2", nil)

	clients := r.Snapshot()
	require.Len(t, clients, 1)
	assert.Equal(t, "u1", clients[0].UserID)

	r.Remove("u1")
	assert.Empty(t, r.Snapshot())
}
