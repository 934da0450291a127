package config

import "time"

// Config is the configuration for the devkit CLI.
type Config struct {
	Log     LogSection     `koanf:"log" json:"log" yaml:"log"`
	Metrics MetricsSection `koanf:"metrics" json:"metrics" yaml:"metrics"`
	Watch   WatchSection   `koanf:"watch" json:"watch" yaml:"watch"`
	Cache   CacheSection   `koanf:"cache" json:"cache" yaml:"cache"`

	// Decoder selects how config files are decoded: document, koanf or raw.
	Decoder string `koanf:"decoder" json:"decoder" yaml:"decoder" validate:"oneof=document koanf raw"`

	// Groups is the path table. An empty label makes an unlabeled entry.
	Groups []Group `koanf:"groups" json:"groups" yaml:"groups" validate:"dive"`
}

// Group is one path table entry.
type Group struct {
	Label string   `koanf:"label" json:"label" yaml:"label"`
	Files []string `koanf:"files" json:"files" yaml:"files" validate:"required,min=1,dive,required"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" json:"format" yaml:"format" validate:"oneof=json text"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	// ListenAddr enables /metrics during watch when set.
	ListenAddr string `koanf:"listen_addr" json:"listen_addr" yaml:"listen_addr" validate:"omitempty,hostname_port"`
	// TLSCert and TLSKey serve the endpoint over TLS. Both or neither.
	TLSCert string `koanf:"tls_cert" json:"tls_cert" yaml:"tls_cert" validate:"required_with=TLSKey"`
	TLSKey  string `koanf:"tls_key" json:"tls_key" yaml:"tls_key" validate:"required_with=TLSCert"`
	// ClientCA requires scrapers to present a certificate it signed.
	ClientCA string `koanf:"client_ca" json:"client_ca" yaml:"client_ca" validate:"excluded_without=TLSCert"`
}

// WatchSection configures the watch command.
type WatchSection struct {
	// MinInterval is the minimum gap between reloads.
	MinInterval time.Duration `koanf:"min_interval" json:"min_interval" yaml:"min_interval" validate:"gte=0"`
}

// CacheSection configures the snapshot cache.
type CacheSection struct {
	// Dir is the Badger directory for persisted snapshots. Empty keeps
	// snapshots in memory for the life of the process.
	Dir string `koanf:"dir" json:"dir" yaml:"dir"`
	// TTL bounds snapshot lifetime. Zero keeps them until overwritten.
	TTL time.Duration `koanf:"ttl" json:"ttl" yaml:"ttl" validate:"gte=0"`
}
