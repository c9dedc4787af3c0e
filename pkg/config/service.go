package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/NotCoffee418/iec62056_reader/pkg/pathing"
)

var (
	ActiveMeterAPIConfig   *MeterAPIConfig
	ActiveMeterWatchConfig *MeterWatchConfig
)

func LoadMeterAPIConfig() error {
	configPath := filepath.Join(pathing.GetConfigDir(), "meter_api.toml")

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &MeterAPIConfig{
			SerialDevice:        "/dev/ttyUSB0",
			ListenAddress:       "0.0.0.0",
			ListenPort:          9046,
			PollIntervalSeconds: 30,
		}
		// Create file
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return err
		}
		defer cfgFile.Close()
		toml.NewEncoder(cfgFile).Encode(cfg)
		ActiveMeterAPIConfig = cfg
		return nil
	}

	// Load existing config
	var config MeterAPIConfig
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return err
	}
	ActiveMeterAPIConfig = &config
	return nil
}

func LoadMeterWatchConfig() error {
	configPath := filepath.Join(pathing.GetConfigDir(), "meter_watch.toml")

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &MeterWatchConfig{
			MeterAPIHost: "localhost:9046",
			TLSEnabled:   false,
		}
		// Create file
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return err
		}
		defer cfgFile.Close()
		toml.NewEncoder(cfgFile).Encode(cfg)
		ActiveMeterWatchConfig = cfg
		return nil
	}

	// Load existing config
	var config MeterWatchConfig
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return err
	}
	ActiveMeterWatchConfig = &config
	return nil
}
