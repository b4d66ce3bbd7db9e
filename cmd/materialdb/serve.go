package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dukaforge/materialdb/internal/rest"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the store over HTTP",
	Long:  `Serve the material store on the configured listen address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := config.GetString(cfgKeyListen)
		server := rest.NewServer(store, logger)

		logger.Info().Str("addr", addr).Msg("serving")
		return http.ListenAndServe(addr, server.Router())
	},
}
