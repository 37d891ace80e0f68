// Copyright 2026 Ferry ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Command ferry reports library and device-bridge status.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ferry-ml/ferry/bridge/webgpu"
	"github.com/ferry-ml/ferry/tensor"
)

const version = "v0.1.0"

func main() {
	root := &cobra.Command{
		Use:           "ferry",
		Short:         "Cross-runtime tensor exchange for Go",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), probeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ferry %s\n", version)
		},
	}
}

func probeCmd() *cobra.Command {
	var roundtrip bool
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe device-bridge availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !webgpu.IsAvailable() {
				fmt.Println("webgpu: not available (host-only operation)")
				return nil
			}
			fmt.Println("webgpu: available")
			if !roundtrip {
				return nil
			}

			bridge, err := webgpu.New()
			if err != nil {
				return err
			}
			defer bridge.Release()

			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			tensor.Configure(tensor.WithBridge(bridge), tensor.WithLogger(logger))

			t, err := tensor.FromAny([]float32{1, 2, 3, 4})
			if err != nil {
				return err
			}
			onDevice, err := t.ToDevice("gpu")
			if err != nil {
				return err
			}
			back, err := onDevice.ToHost()
			if err != nil {
				return err
			}
			values, err := back.Float32s()
			if err != nil {
				return err
			}
			fmt.Printf("roundtrip: %v\n", values)
			return nil
		},
	}
	cmd.Flags().BoolVar(&roundtrip, "roundtrip", false, "upload and download a small tensor")
	return cmd
}
