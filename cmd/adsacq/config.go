// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/GermanBionicSystems/adsacq/ads1115"
	"github.com/GermanBionicSystems/adsacq/modbusout"
	"gopkg.in/yaml.v3"
)

// Config is the content of the YAML file given with --config.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Monitor MonitorConfig `yaml:"monitor"`
	Modbus  *ModbusConfig `yaml:"modbus"`
}

type DeviceConfig struct {
	// Bus is the i2creg name; empty selects the first bus.
	Bus      string `yaml:"bus"`
	Address  uint16 `yaml:"address"`
	Channel  uint8  `yaml:"channel"`
	Gain     string `yaml:"gain"`
	DataRate int    `yaml:"data_rate"`
	TickUs   int    `yaml:"tick_us"`
	// CheckReadAck aborts a cycle on a read phase nack.
	CheckReadAck bool `yaml:"check_read_ack"`
}

type MonitorConfig struct {
	IntervalMs int `yaml:"interval_ms"`
	BarWidth   int `yaml:"bar_width"`
}

type ModbusConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Address   uint16 `yaml:"address"`
}

func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Address:  ads1115.DefaultAddress,
			Gain:     "4.096V",
			DataRate: 128,
			TickUs:   100,
		},
		Monitor: MonitorConfig{
			IntervalMs: 500,
			BarWidth:   40,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

var gains = map[string]ads1115.Gain{
	"6.144V": ads1115.Gain6V144,
	"4.096V": ads1115.Gain4V096,
	"2.048V": ads1115.Gain2V048,
	"1.024V": ads1115.Gain1V024,
	"0.512V": ads1115.Gain0V512,
	"0.256V": ads1115.Gain0V256,
}

var dataRates = map[int]ads1115.DataRate{
	8:   ads1115.Rate8,
	16:  ads1115.Rate16,
	32:  ads1115.Rate32,
	64:  ads1115.Rate64,
	128: ads1115.Rate128,
	250: ads1115.Rate250,
	475: ads1115.Rate475,
	860: ads1115.Rate860,
}

// Validate checks cfg and returns every problem found.
func Validate(cfg *Config) error {
	var errs []error
	d := cfg.Device
	if d.Address > 0x7f {
		errs = append(errs, fmt.Errorf("device.address %#x is not a 7-bit address", d.Address))
	}
	if !ads1115.Channel(d.Channel).Valid() {
		errs = append(errs, fmt.Errorf("device.channel %d out of range 0..3", d.Channel))
	}
	if _, ok := gains[d.Gain]; !ok {
		errs = append(errs, fmt.Errorf("device.gain %q unknown", d.Gain))
	}
	if _, ok := dataRates[d.DataRate]; !ok {
		errs = append(errs, fmt.Errorf("device.data_rate %d unknown", d.DataRate))
	}
	if d.TickUs <= 0 {
		errs = append(errs, errors.New("device.tick_us must be positive"))
	}
	if cfg.Monitor.IntervalMs <= 0 {
		errs = append(errs, errors.New("monitor.interval_ms must be positive"))
	}
	if m := cfg.Modbus; m != nil {
		if m.Endpoint == "" {
			errs = append(errs, errors.New("modbus.endpoint required"))
		}
		if m.TimeoutMs < 0 {
			errs = append(errs, errors.New("modbus.timeout_ms must not be negative"))
		}
	}
	return errors.Join(errs...)
}

// Opts converts the device section. cfg must be valid.
func (d DeviceConfig) Opts() *ads1115.Opts {
	return &ads1115.Opts{
		Policy: ads1115.Policy{
			Gain:         gains[d.Gain],
			DataRate:     dataRates[d.DataRate],
			CheckReadAck: d.CheckReadAck,
		},
		Tick: time.Duration(d.TickUs) * time.Microsecond,
	}
}

func (m ModbusConfig) modbusout() modbusout.Config {
	return modbusout.Config{
		Endpoint: m.Endpoint,
		UnitID:   m.UnitID,
		Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
		Address:  m.Address,
	}
}
