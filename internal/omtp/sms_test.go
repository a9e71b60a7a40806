package omtp_test

import (
	"testing"

	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		msg, err := omtp.ParseMessage("//VVM", "//VVM:STATUS:st=R;rc=0;srv=imap.example.com;ipt=143;u=alice;pw=secret")
		require.NoError(t, err)
		assert.Equal(t, omtp.MessageTypeStatus, msg.Type)

		status := omtp.NewStatusMessage(msg.Fields)
		assert.True(t, status.IsReady())
		assert.True(t, status.IsSuccess())
		assert.Equal(t, "imap.example.com", status.ServerAddress)
		assert.Equal(t, "143", status.IMAPPort)
		assert.Equal(t, "alice", status.IMAPUserName)
		assert.Equal(t, "secret", status.IMAPPassword)
		assert.True(t, status.Valid())
	})

	t.Run("sync", func(t *testing.T) {
		msg, err := omtp.ParseMessage("//VVM", "//VVM:SYNC:ev=NM;id=3446456;c=1;t=v;s=01234567898;dt=02/08/2008 12:53 +0200;l=30")
		require.NoError(t, err)
		assert.Equal(t, omtp.MessageTypeSync, msg.Type)

		sync := omtp.NewSyncMessage(msg.Fields)
		assert.Equal(t, omtp.SyncEventNewMessage, sync.Event)
		assert.Equal(t, "3446456", sync.MessageID)
		assert.Equal(t, 1, sync.MessageCount)
		assert.Equal(t, 30, sync.MessageLength)
		assert.Equal(t, "02/08/2008 12:53 +0200", sync.Timestamp)
	})

	t.Run("default prefix", func(t *testing.T) {
		msg, err := omtp.ParseMessage("", "//VVM:STATUS:st=N;rc=0")
		require.NoError(t, err)
		assert.True(t, omtp.NewStatusMessage(msg.Fields).IsNew())
	})

	t.Run("custom prefix", func(t *testing.T) {
		_, err := omtp.ParseMessage("//VZWVVM", "//VVM:STATUS:st=R;rc=0")
		assert.ErrorIs(t, err, omtp.ErrNotVisualVoicemail)

		msg, err := omtp.ParseMessage("//VZWVVM", "//VZWVVM:STATUS:st=B;rc=0")
		require.NoError(t, err)
		assert.Equal(t, omtp.ProvisioningBlocked, omtp.NewStatusMessage(msg.Fields).ProvisioningStatus)
	})

	t.Run("plain sms", func(t *testing.T) {
		_, err := omtp.ParseMessage("//VVM", "see you at 5")
		assert.ErrorIs(t, err, omtp.ErrNotVisualVoicemail)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, payload := range []string{"//VVM:STATUS", "//VVM::st=R", "//VVM:STATUS:st=R;garbage", "//VVM:STATUS:=R"} {
			_, err := omtp.ParseMessage("//VVM", payload)
			assert.ErrorIs(t, err, omtp.ErrMalformedMessage, payload)
		}
	})

	t.Run("empty value and trailing separator", func(t *testing.T) {
		msg, err := omtp.ParseMessage("//VVM", "//VVM:STATUS:st=R;rc=0;pw=;")
		require.NoError(t, err)
		assert.Equal(t, "", msg.Fields["pw"])
		assert.Len(t, msg.Fields, 3)
	})
}

func TestStatusMessage_Valid(t *testing.T) {
	assert.True(t, omtp.NewStatusMessage(map[string]string{"st": "U"}).Valid())
	assert.False(t, omtp.NewStatusMessage(map[string]string{"rc": "0"}).Valid())
	assert.False(t, omtp.NewStatusMessage(map[string]string{}).Valid())
}
