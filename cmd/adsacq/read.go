// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/GermanBionicSystems/adsacq/ads1115"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/analog"
)

func init() {
	readCmd.Flags().IntVarP(&readOpts.Channel, "channel", "C", -1, "input channel 0..3, overrides the configuration")
	readCmd.Flags().IntVarP(&readOpts.Count, "count", "n", 1, "number of samples")
	rootCmd.AddCommand(readCmd)
}

var (
	readCmd = &cobra.Command{
		Use:   "read [flags]",
		Short: "Read samples from one channel",
		Long:  `Run acquisition cycles on one channel and print each sample with its raw count.`,
		Args:  cobra.NoArgs,
		RunE:  read,
	}
	readOpts = struct {
		Channel int
		Count   int
	}{}
)

func read(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(rootOpts.Config, readOpts.Channel)
	if err != nil {
		return err
	}
	dev, bus, err := openDev(cfg.Device)
	if err != nil {
		return err
	}
	defer bus.Close()
	defer dev.Halt()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ch := ads1115.Channel(cfg.Device.Channel)
	interval := time.Duration(cfg.Monitor.IntervalMs) * time.Millisecond
	for i := 0; i < readOpts.Count; i++ {
		if i != 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(interval):
			}
		}
		s, err := dev.ReadContext(ctx, ch)
		if err != nil {
			return err
		}
		fmt.Println(formatSample(ch, s))
	}
	return nil
}

func formatSample(ch ads1115.Channel, s analog.Sample) string {
	return fmt.Sprintf("%s: %s (%d)", ch, s.V, s.Raw)
}
