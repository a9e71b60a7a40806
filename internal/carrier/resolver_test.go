package carrier_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Behyna/vvm-service/internal/carrier"
	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	source := carrier.MemorySource{
		"omtp": {
			carrier.KeyVVMType:           omtp.VVMTypeOMTP,
			carrier.KeyDestinationNumber: "122",
			carrier.KeyPortNumber:        1808,
			carrier.KeyProtocolVersion:   "13",
			carrier.KeySSLEnabled:        true,
		},
		"cvvm": {
			carrier.KeyVVMType:           omtp.VVMTypeCVVM,
			carrier.KeyDestinationNumber: "94183567",
			carrier.KeyPortNumber:        "5499",
		},
		"vvm3": {
			carrier.KeyVVMType:           omtp.VVMTypeVVM3,
			carrier.KeyDestinationNumber: "900080006200",
			carrier.KeyClientPrefix:      "//VZWVVM",
		},
		"unknown-type": {
			carrier.KeyVVMType:           "vvm_type_imap_only",
			carrier.KeyDestinationNumber: "122",
		},
		"no-type": {
			carrier.KeyDestinationNumber: "122",
		},
		"no-destination": {
			carrier.KeyVVMType: omtp.VVMTypeOMTP,
		},
	}
	resolver := carrier.NewResolver(source)
	ctx := context.Background()

	t.Run("omtp", func(t *testing.T) {
		p, err := resolver.Resolve(ctx, "omtp")
		require.NoError(t, err)
		assert.Equal(t, omtp.VVMTypeOMTP, p.Protocol.Name())
		assert.Equal(t, "122", p.Destination)
		assert.Equal(t, 1808, p.Port)
		assert.Equal(t, "13", p.ProtocolVersion)
		assert.Equal(t, omtp.DefaultClientPrefix, p.ClientPrefix)
		assert.True(t, p.SSLEnabled)
		assert.True(t, p.Prefetch)
	})

	t.Run("cvvm with string port", func(t *testing.T) {
		p, err := resolver.Resolve(ctx, "cvvm")
		require.NoError(t, err)
		assert.Equal(t, 5499, p.Port)
		assert.Equal(t, omtp.ProtocolVersion11, p.ProtocolVersion)
		assert.False(t, p.Protocol.SupportsProvisioning())
	})

	t.Run("vvm3", func(t *testing.T) {
		p, err := resolver.Resolve(ctx, "vvm3")
		require.NoError(t, err)
		assert.Equal(t, "//VZWVVM", p.ClientPrefix)
		assert.True(t, p.Protocol.SupportsProvisioning())
	})

	for _, id := range []string{"unknown-type", "no-type", "no-destination", "missing"} {
		t.Run("unsupported "+id, func(t *testing.T) {
			_, err := resolver.Resolve(ctx, id)
			assert.ErrorIs(t, err, carrier.ErrUnsupported)
		})
	}
}

func TestProfile_MessageSender(t *testing.T) {
	p, err := carrier.NewResolver(carrier.MemorySource{"s": {
		carrier.KeyVVMType:           omtp.VVMTypeOMTP,
		carrier.KeyDestinationNumber: "122",
		carrier.KeyPortNumber:        1808,
		carrier.KeyProtocolVersion:   "12",
	}}).Resolve(context.Background(), "s")
	require.NoError(t, err)

	sms := &captureSMS{}
	require.NoError(t, p.MessageSender(sms, "vvm.client").RequestStatus(context.Background()))
	assert.Equal(t, "Status:pv=12;ct=vvm.client;pt=1808;//VVM", sms.last.Text)
	assert.Equal(t, "s", sms.last.SubscriptionID)
}

type captureSMS struct{ last omtp.OutboundSMS }

func (c *captureSMS) SendSMS(_ context.Context, sms omtp.OutboundSMS) error {
	c.last = sms
	return nil
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carriers.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
subscriptions:
  "310260-1":
    vvm_type_string: "vvm_type_omtp"
    vvm_destination_number_string: "122"
    vvm_port_number_int: 1808
    vvm_prefetch_bool: false
`), 0o600))

	source := carrier.NewFileSource(path)

	t.Run("found", func(t *testing.T) {
		p, err := carrier.NewResolver(source).Resolve(context.Background(), "310260-1")
		require.NoError(t, err)
		assert.Equal(t, 1808, p.Port)
		assert.False(t, p.Prefetch)
	})

	t.Run("not found is unsupported", func(t *testing.T) {
		_, err := carrier.NewResolver(source).Resolve(context.Background(), "999999-1")
		assert.ErrorIs(t, err, carrier.ErrUnsupported)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := carrier.NewFileSource(filepath.Join(t.TempDir(), "none.yml")).Bundle(context.Background(), "x")
		require.Error(t, err)
		assert.NotErrorIs(t, err, carrier.ErrBundleNotFound)
	})
}
