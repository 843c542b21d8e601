package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pbanos/c45/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

type serveCmdConfig struct {
	*rootCmdConfig
	storeConfig
	addr  string
	grace time.Duration
}

func serveCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &serveCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve classifications with a tree over HTTP",
		Long:  `Serve classifications with a tree over HTTP, along with the rendered tree, a health check and prometheus metrics`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exit(1, err)
			}
			ctx := config.Context()
			defer config.ContextCancelFunc()()
			t, err := config.loadTree(ctx, config.logger)
			if err != nil {
				exit(2, err)
			}
			if !config.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			err = server.New(t, config.logger, reg).Run(ctx, config.addr, config.grace)
			if err != nil {
				exit(3, err)
			}
		},
	}
	config.storeConfig.addFlags(cmd, "path to a file from which the tree to serve will be read and parsed as JSON")
	cmd.PersistentFlags().StringVar(&(config.addr), "addr", ":8045", "address to listen on")
	cmd.PersistentFlags().DurationVar(&(config.grace), "grace", 5*time.Second, "time to wait for pending requests on shutdown")
	return cmd
}

func (scc *serveCmdConfig) Validate() error {
	if scc.addr == "" {
		return fmt.Errorf("required addr flag was not set")
	}
	return scc.storeConfig.Validate()
}
