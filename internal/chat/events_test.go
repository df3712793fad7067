package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Inbound
		wantErr error
	}{
		{
			name: "join",
			raw:  `{"type":"join","username":"alice","room":"lobby"}`,
			want: Inbound{Type: TypeJoin, Username: "alice", Room: "lobby"},
		},
		{
			name: "send with re-supplied room",
			raw:  `{"type":"send","message":"hi","room":"lobby","username":"alice"}`,
			want: Inbound{Type: TypeSend, Message: "hi", Room: "lobby", Username: "alice"},
		},
		{
			name: "leave without payload",
			raw:  `{"type":"leave"}`,
			want: Inbound{Type: TypeLeave},
		},
		{name: "not json", raw: `hello`, wantErr: ErrMalformedFrame},
		{name: "missing type", raw: `{"message":"hi"}`, wantErr: ErrMalformedFrame},
		{name: "join without room", raw: `{"type":"join","username":"alice"}`, wantErr: ErrMalformedFrame},
		{name: "join without username", raw: `{"type":"join","room":"lobby"}`, wantErr: ErrMalformedFrame},
		{name: "unknown type", raw: `{"type":"kick"}`, wantErr: ErrUnknownEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInbound([]byte(tt.raw))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRosterEventAlwaysEncodesList(t *testing.T) {
	raw, err := json.Marshal(RosterEvent(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"roster","usernames":[]}`, string(raw))

	raw, err = json.Marshal(RosterEvent([]string{"alice"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"roster","usernames":["alice"]}`, string(raw))
}

func TestMessageEventEncoding(t *testing.T) {
	raw, err := json.Marshal(MessageEvent("hi", "alice"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"message","message":"hi","from":"alice"}`, string(raw))
}

func TestMessageEventKeepsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(MessageEvent("", "alice"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"message","message":"","from":"alice"}`, string(raw))
}
