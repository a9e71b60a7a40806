package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Behyna/vvm-service/pkg/mq"
	"github.com/Behyna/vvm-service/pkg/mysql"
	"github.com/Behyna/vvm-service/pkg/smsprovider"
	"github.com/spf13/viper"
)

type Config struct {
	API         API                `mapstructure:"api"`
	Database    mysql.Config       `mapstructure:"database"`
	RabbitMQ    RabbitMQ           `mapstructure:"rabbitmq"`
	SMSProvider smsprovider.Config `mapstructure:"sms_provider"`
	Activation  Activation         `mapstructure:"activation"`
	Device      Device             `mapstructure:"device"`
	Carriers    Carriers           `mapstructure:"carriers"`
	Metrics     Metrics            `mapstructure:"metrics"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type RabbitMQ struct {
	mq.Config `mapstructure:",squash"`
	Prefetch  int    `mapstructure:"prefetch"`
	Workers   int    `mapstructure:"workers"`
	Queues    Queues `mapstructure:"queues"`
}

type Queues struct {
	Activation    string `mapstructure:"activation"`
	InboundSMS    string `mapstructure:"inbound_sms"`
	Device        string `mapstructure:"device"`
	SourceRemoved string `mapstructure:"source_removed"`
	SyncResult    string `mapstructure:"sync_result"`
	SyncRequest   string `mapstructure:"sync_request"`
	StatusEvent   string `mapstructure:"status_event"`
	MessageWait   string `mapstructure:"message_waiting"`
}

// All returns every queue the services declare.
func (q Queues) All() []string {
	return []string{q.Activation, q.InboundSMS, q.Device, q.SourceRemoved, q.SyncResult,
		q.SyncRequest, q.StatusEvent, q.MessageWait}
}

type Activation struct {
	StatusSMSTimeout time.Duration `mapstructure:"status_sms_timeout"`
	MaxRetries       int           `mapstructure:"max_retries"`
	RetryInterval    time.Duration `mapstructure:"retry_interval"`
	ClientType       string        `mapstructure:"client_type"`
}

type Device struct {
	// Provisioned is the initial device-setup state until a provisioning event arrives.
	Provisioned bool `mapstructure:"provisioned"`
}

type Carriers struct {
	Path string `mapstructure:"path"`
}

type Metrics struct {
	// Port serves /metrics and /health for processes without an API.
	Port             string        `mapstructure:"port"`
	StateInterval    time.Duration `mapstructure:"state_interval"`
	DatabaseInterval time.Duration `mapstructure:"database_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", ":8080")
	v.SetDefault("rabbitmq.heartbeat", 10*time.Second)
	v.SetDefault("rabbitmq.prefetch", 10)
	v.SetDefault("rabbitmq.workers", 4)
	v.SetDefault("rabbitmq.queues.activation", "vvm.activation")
	v.SetDefault("rabbitmq.queues.inbound_sms", "vvm.sms.inbound")
	v.SetDefault("rabbitmq.queues.device", "vvm.device")
	v.SetDefault("rabbitmq.queues.source_removed", "vvm.source.removed")
	v.SetDefault("rabbitmq.queues.sync_result", "vvm.sync.result")
	v.SetDefault("rabbitmq.queues.sync_request", "vvm.sync.request")
	v.SetDefault("rabbitmq.queues.status_event", "vvm.status.event")
	v.SetDefault("rabbitmq.queues.message_waiting", "vvm.mwi.clear")
	v.SetDefault("sms_provider.timeout", 10*time.Second)
	v.SetDefault("activation.status_sms_timeout", 60*time.Second)
	v.SetDefault("activation.max_retries", 4)
	v.SetDefault("activation.retry_interval", 5*time.Second)
	v.SetDefault("activation.client_type", "vvm.client")
	v.SetDefault("device.provisioned", true)
	v.SetDefault("carriers.path", "./config/carriers.yml")
	v.SetDefault("metrics.port", ":9102")
	v.SetDefault("metrics.state_interval", 15*time.Second)
	v.SetDefault("metrics.database_interval", 30*time.Second)
}

func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom reads config.yml from dir. VVM_ prefixed env vars override file values.
func LoadFrom(dir string) (cfg *Config, err error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("VVM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	err = v.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Activation.MaxRetries < 0 {
		return fmt.Errorf("activation.max_retries must not be negative")
	}
	if c.Activation.StatusSMSTimeout <= 0 {
		return fmt.Errorf("activation.status_sms_timeout must be positive")
	}
	return nil
}
