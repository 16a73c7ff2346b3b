package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"tweakdeck/internal/simengine"
)

// demo: run the console against a simulated engine.
func demoCmd(a *app) *cobra.Command {
	var (
		listen    string
		serveOnly bool
	)
	cmd := &cobra.Command{
		Use:         "demo",
		Short:       "Open the console against a built-in simulated engine",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationTUI: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}
			engine := simengine.New(simengine.DefaultModules())
			srv := &http.Server{Handler: engine.Handler(), ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					a.logger.Error("simulated engine stopped", slog.Any("error", err))
				}
			}()
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()

			a.cfg.URL = "http://" + ln.Addr().String()
			a.logger.Info("simulated engine listening", slog.String("url", a.cfg.URL))
			if serveOnly {
				fmt.Fprintf(cmd.OutOrStdout(), "simulated engine at %s\n", a.cfg.URL)
				<-cmd.Context().Done()
				return nil
			}
			return a.runTUI(cmd)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:0", "address for the simulated engine")
	cmd.Flags().BoolVar(&serveOnly, "serve", false, "only serve the simulated engine until interrupted")
	return cmd
}
