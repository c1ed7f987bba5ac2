// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// adsacq reads an ADS1115 analog to digital converter.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/GermanBionicSystems/adsacq/ads1115"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var rootCmd = &cobra.Command{
	Use:   "adsacq",
	Short: "adsacq reads an ADS1115 analog to digital converter",
	Long:  "adsacq runs single-shot acquisition cycles on an ADS1115 over I²C and shows or publishes the results",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !rootOpts.Verbose {
			log.SetOutput(io.Discard)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var rootOpts = struct {
	Config  string
	Verbose bool
}{}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.Config, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "log to stderr")
	log.SetFlags(log.Lmicroseconds)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads path, applies the channel override when ch is not
// negative, then validates the result.
func loadConfig(path string, ch int) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if ch >= 0 {
		if ch > int(ads1115.Channel3) {
			return nil, fmt.Errorf("channel %d out of range 0..3", ch)
		}
		cfg.Device.Channel = uint8(ch)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openDev initializes the host and opens the device. The caller must close
// the returned bus.
func openDev(d DeviceConfig) (*ads1115.Dev, i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	bus, err := i2creg.Open(d.Bus)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("using %s", bus)
	dev, err := ads1115.NewI2C(bus, d.Address, d.Opts())
	if err != nil {
		bus.Close()
		return nil, nil, err
	}
	return dev, bus, nil
}
