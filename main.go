/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Spanlist Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/google/spanlist/config"
	"github.com/google/spanlist/core/rendering"
	"github.com/google/spanlist/core/server"
	"github.com/google/spanlist/datasources"
	"github.com/google/spanlist/demo"
)

type rootParams struct {
	configPath string
}

type listParams struct {
	name   string
	offset int
}

func (p *listParams) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&p.name, "name", "n", "", "name of the configured list")
	fs.IntVar(&p.offset, "offset", 0, "scroll offset in pixels")
}

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	params := &rootParams{}

	root := &cobra.Command{
		Use:          "spanlist",
		Short:        "Windowed lists with merged cells",
		Long:         "Serve and inspect windowed lists whose adjacent equal cells are merged into taller blocks.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&params.configPath, "config", "c", "", "YAML configuration file (built-in demo lists when empty)")
	root.SetOut(stdout)

	root.AddCommand(
		newServeCommand(params),
		newDumpCommand(params, stdout),
		newSpansCommand(params, stdout),
	)
	return root
}

func newServeCommand(params *rootParams) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured lists over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(params.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			srv, err := server.NewServer(cfg, newManager())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d lists on http://%s\n", len(srv.ListNames()), cfg.Server.Addr)
			return srv.Run(ctx, cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	return cmd
}

func newDumpCommand(params *rootParams, stdout io.Writer) *cobra.Command {
	lp := &listParams{}
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the cell fragments of one window as a table",
		RunE: func(_ *cobra.Command, _ []string) error {
			return dump(params, lp, stdout)
		},
	}
	lp.addFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSpansCommand(params *rootParams, stdout io.Writer) *cobra.Command {
	lp := &listParams{}
	cmd := &cobra.Command{
		Use:   "spans",
		Short: "Print the span map of one list",
		RunE: func(_ *cobra.Command, _ []string) error {
			return dumpSpans(params, lp, stdout)
		},
	}
	lp.addFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func dump(params *rootParams, lp *listParams, stdout io.Writer) error {
	srv, err := singleListServer(params.configPath, lp.name)
	if err != nil {
		return err
	}
	list, _ := srv.List(lp.name)
	w, err := list.Window(lp.offset)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: rows %d-%d of %d, offset %d\n", lp.name, w.Start, w.Stop, list.Len(), w.ScrollOffset)
	rendering.DumpWindow(stdout, w)
	return nil
}

func dumpSpans(params *rootParams, lp *listParams, stdout io.Writer) error {
	srv, err := singleListServer(params.configPath, lp.name)
	if err != nil {
		return err
	}
	list, _ := srv.List(lp.name)
	rendering.DumpSpans(stdout, list.Spans(), list.Len(), list.MergeKeys())
	return nil
}

// singleListServer loads only the named list.
func singleListServer(configPath, name string) (*server.Server, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	for _, l := range cfg.Lists {
		if l.Name == name {
			cfg.Lists = []config.ListConfig{l}
			return server.NewServer(cfg, newManager())
		}
	}
	return nil, fmt.Errorf("list %q not found", name)
}

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	if path == "" {
		cfg = demo.Config()
	} else {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Log.Configure(logrus.StandardLogger()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newManager() *datasources.Manager {
	manager := datasources.NewManager()
	manager.RegisterLoader(demo.NewLoader())
	return manager
}
