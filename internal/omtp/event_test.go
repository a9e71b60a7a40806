package omtp_test

import (
	"encoding/json"
	"testing"

	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Type(t *testing.T) {
	tests := []struct {
		event   omtp.Event
		typ     omtp.EventType
		success bool
	}{
		{omtp.ConfigRequestStatusSuccess, omtp.TypeConfiguration, true},
		{omtp.ConfigStatusSmsTimeOut, omtp.TypeConfiguration, false},
		{omtp.DataImapOperationCompleted, omtp.TypeDataChannel, true},
		{omtp.DataSslException, omtp.TypeDataChannel, false},
		{omtp.NotificationInService, omtp.TypeNotificationChannel, true},
		{omtp.NotificationServiceLost, omtp.TypeNotificationChannel, false},
		{omtp.OtherSourceRemoved, omtp.TypeOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.event.Type())
			assert.Equal(t, tt.success, tt.event.IsSuccess())
		})
	}
}

func TestAllEvents(t *testing.T) {
	all := omtp.AllEvents()
	assert.Len(t, all, 32)

	seen := map[string]bool{}
	for _, e := range all {
		require.True(t, e.Valid(), e.String())
		assert.False(t, seen[e.String()], "duplicate name %s", e)
		seen[e.String()] = true

		parsed, err := omtp.ParseEvent(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, parsed)
	}
}

func TestParseEvent_Unknown(t *testing.T) {
	_, err := omtp.ParseEvent("CONFIG_SOMETHING_ELSE")
	assert.ErrorIs(t, err, omtp.ErrUnknownEvent)
	assert.False(t, omtp.Event(0).Valid())
	assert.Panics(t, func() { omtp.Event(0).Type() })
}

func TestEvent_JSON(t *testing.T) {
	var payload struct {
		Event omtp.Event `json:"event"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"event":"DATA_NO_CONNECTION"}`), &payload))
	assert.Equal(t, omtp.DataNoConnection, payload.Event)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"DATA_NO_CONNECTION"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"event":"NOPE"}`), &payload))
}
