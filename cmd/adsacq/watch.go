// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/GermanBionicSystems/adsacq/ads1115"
	"github.com/GermanBionicSystems/adsacq/modbusout"
	"github.com/GermanBionicSystems/adsacq/monitor"
	"github.com/spf13/cobra"
)

func init() {
	watchCmd.Flags().IntVarP(&watchOpts.Channel, "channel", "C", -1, "input channel 0..3, overrides the configuration")
	watchCmd.Flags().BoolVar(&watchOpts.NoBar, "no-bar", false, "don't draw the terminal gauge")
	rootCmd.AddCommand(watchCmd)
}

var (
	watchCmd = &cobra.Command{
		Use:   "watch [flags]",
		Short: "Continuously sample one channel",
		Long: `Run an acquisition cycle on one channel every monitor.interval_ms and
render each result as a terminal gauge and, when a modbus section is
configured, into the holding registers of a Modbus TCP server.`,
		Args: cobra.NoArgs,
		RunE: watch,
	}
	watchOpts = struct {
		Channel int
		NoBar   bool
	}{}
)

func watch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(rootOpts.Config, watchOpts.Channel)
	if err != nil {
		return err
	}
	dev, bus, err := openDev(cfg.Device)
	if err != nil {
		return err
	}
	defer bus.Close()
	defer dev.Halt()

	var rs monitor.Renderers
	if !watchOpts.NoBar {
		_, highest := dev.Range()
		rs = append(rs, monitor.NewBar(&monitor.BarOpts{
			Width:     cfg.Monitor.BarWidth,
			FullScale: highest.V,
		}))
	}
	if cfg.Modbus != nil {
		p, err := modbusout.Dial(cfg.Modbus.modbusout())
		if err != nil {
			return err
		}
		defer p.Close()
		log.Printf("publishing to %s", cfg.Modbus.Endpoint)
		rs = append(rs, p)
	}
	if len(rs) == 0 {
		return errors.New("nothing to render to")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- monitor.Watch(ctx, dev.Register(), rs)
	}()

	ch := ads1115.Channel(cfg.Device.Channel)
	t := time.NewTicker(time.Duration(cfg.Monitor.IntervalMs) * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case err := <-watchErr:
			return err
		case <-t.C:
			if _, err := dev.ReadContext(ctx, ch); err != nil && ctx.Err() == nil {
				log.Printf("%s: %v", ch, err)
			}
		}
	}
}
