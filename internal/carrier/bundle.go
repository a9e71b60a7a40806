package carrier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Carrier config keys.
const (
	KeyVVMType              = "vvm_type_string"
	KeyDestinationNumber    = "vvm_destination_number_string"
	KeyPortNumber           = "vvm_port_number_int"
	KeyClientPrefix         = "vvm_client_prefix_string"
	KeyProtocolVersion      = "vvm_protocol_version_string"
	KeySSLEnabled           = "vvm_ssl_enabled_bool"
	KeyCellularDataRequired = "vvm_cellular_data_required_bool"
	KeyPrefetch             = "vvm_prefetch_bool"
)

var ErrBundleNotFound = errors.New("CARRIER_BUNDLE_NOT_FOUND")

// Bundle is the opaque carrier configuration of one subscription.
type Bundle map[string]interface{}

func (b Bundle) String(key string) string {
	return cast.ToString(b[key])
}

func (b Bundle) Int(key string) int {
	return cast.ToInt(b[key])
}

func (b Bundle) Bool(key string, def bool) bool {
	v, ok := b[key]
	if !ok {
		return def
	}
	return cast.ToBool(v)
}

type ConfigSource interface {
	Bundle(ctx context.Context, subscriptionID string) (Bundle, error)
}

type fileSource struct {
	path string
	mu   sync.Mutex
}

// NewFileSource reads bundles from a YAML file of the form
// subscriptions.<subscriptionID>.<key>. The file is read on every lookup so
// edits apply to the next activation attempt.
func NewFileSource(path string) ConfigSource {
	return &fileSource{path: path}
}

func (f *fileSource) Bundle(_ context.Context, subscriptionID string) (Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := viper.New()
	v.SetConfigFile(f.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read carrier config: %w", err)
	}

	raw := v.GetStringMap("subscriptions." + strings.ToLower(subscriptionID))
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrBundleNotFound, subscriptionID)
	}

	return Bundle(raw), nil
}

// MemorySource serves fixed bundles.
type MemorySource map[string]Bundle

func (m MemorySource) Bundle(_ context.Context, subscriptionID string) (Bundle, error) {
	b, ok := m[subscriptionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBundleNotFound, subscriptionID)
	}
	return b, nil
}
