package config

type MeterAPIConfig struct {
	SerialDevice        string `toml:"serial_device"`
	ListenAddress       string `toml:"listen_address"`
	ListenPort          int    `toml:"listen_port"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
}

type MeterWatchConfig struct {
	MeterAPIHost string `toml:"meter_api_host"`
	TLSEnabled   bool   `toml:"tls_enabled"`
}
