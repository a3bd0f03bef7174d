package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/glyphsvg"
	"github.com/gogpu/glyphsvg/server"
)

func newServeCmd(e *env) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render form over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" {
				e.cfg.Listen = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cat, err := e.fetchCatalog(ctx)
			if err != nil {
				return err
			}
			shaper, err := e.shaper()
			if err != nil {
				return err
			}

			srv := server.New(cat, e.fontLoader(),
				server.WithShaper(shaper),
				server.WithCopyFeedback(time.Duration(e.cfg.CopyFeedback)),
			)
			glyphsvg.Logger().Info("serving render form", "addr", e.cfg.Listen, "families", cat.Len())
			return srv.ListenAndServe(ctx, e.cfg.Listen)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address, overriding the config")
	return cmd
}
