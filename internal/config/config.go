package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"marketplace-dashboard/internal/modal"
)

const (
	EngineLocal    = "local"
	EngineTemporal = "temporal"
)

var ErrUnknownEngine = errors.New("unknown engine")

const (
	keyConfigFile        = "config"
	keyHTTPAddr          = "http_addr"
	keyEngine            = "engine"
	keyTemporalHostPort  = "temporal.host_port"
	keyTemporalNamespace = "temporal.namespace"
	keyTemporalTaskQueue = "temporal.task_queue"
	keyVerifyAfter       = "timing.verify_after"
	keyConfirmAfter      = "timing.confirm_after"
	keyRemoveAfter       = "timing.remove_after"
	keyExplorerURL       = "explorer_url"
	keyLogLevel          = "log.level"
	keyLogFormat         = "log.format"
)

type Temporal struct {
	HostPort  string
	Namespace string
	TaskQueue string
}

type Config struct {
	HTTPAddr    string
	Engine      string
	Temporal    Temporal
	Timing      modal.Timing
	ExplorerURL string
	LogLevel    string
	LogFormat   string
}

// New returns a viper instance with defaults and MARKET_* environment
// variables wired, e.g. MARKET_TIMING_VERIFY_AFTER=2s.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyHTTPAddr, ":8090")
	v.SetDefault(keyEngine, EngineLocal)
	v.SetDefault(keyTemporalHostPort, "localhost:7233")
	v.SetDefault(keyTemporalNamespace, "default")
	v.SetDefault(keyTemporalTaskQueue, "MARKETPLACE_PURCHASE_TASK_QUEUE")
	v.SetDefault(keyVerifyAfter, "1500ms")
	v.SetDefault(keyConfirmAfter, "3000ms")
	v.SetDefault(keyRemoveAfter, "5000ms")
	v.SetDefault(keyExplorerURL, "https://suiscan.xyz/mainnet")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "json")

	v.SetEnvPrefix("MARKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Flags registers the command line flags that override config keys.
func Flags(fs *pflag.FlagSet) {
	fs.String(keyConfigFile, "", "path to a YAML config file")
	fs.String(keyHTTPAddr, ":8090", "dashboard listen address")
	fs.String(keyEngine, EngineLocal, "transaction engine: local or temporal")
	fs.String(keyLogLevel, "info", "log level: debug, info, warn, error")
}

// BindFlags binds fs into v and reads the config file named by --config.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{keyConfigFile, keyHTTPAddr, keyEngine, keyLogLevel} {
		if f := fs.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", key, err)
			}
		}
	}
	if path := strings.TrimSpace(v.GetString(keyConfigFile)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return nil
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPAddr: strings.TrimSpace(v.GetString(keyHTTPAddr)),
		Engine:   strings.ToLower(strings.TrimSpace(v.GetString(keyEngine))),
		Temporal: Temporal{
			HostPort:  strings.TrimSpace(v.GetString(keyTemporalHostPort)),
			Namespace: strings.TrimSpace(v.GetString(keyTemporalNamespace)),
			TaskQueue: strings.TrimSpace(v.GetString(keyTemporalTaskQueue)),
		},
		Timing: modal.Timing{
			VerifyAfter:  v.GetDuration(keyVerifyAfter),
			ConfirmAfter: v.GetDuration(keyConfirmAfter),
			RemoveAfter:  v.GetDuration(keyRemoveAfter),
		},
		ExplorerURL: strings.TrimRight(strings.TrimSpace(v.GetString(keyExplorerURL)), "/"),
		LogLevel:    v.GetString(keyLogLevel),
		LogFormat:   v.GetString(keyLogFormat),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http_addr is required")
	}
	switch c.Engine {
	case EngineLocal:
	case EngineTemporal:
		if c.Temporal.HostPort == "" || c.Temporal.TaskQueue == "" {
			return errors.New("temporal.host_port and temporal.task_queue are required for the temporal engine")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEngine, c.Engine)
	}
	return c.Timing.Validate()
}
