package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rv-sl/upbot/internal/logutil"
)

func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Run the standalone liveness endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			bind := strings.TrimSpace(flagOrViperString(cmd, "health-bind", "health.bind"))
			if bind == "" {
				bind = "0.0.0.0"
			}
			port := flagOrViperInt(cmd, "health-port", "health.port")
			if port <= 0 {
				port = 8000
			}

			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			addr := bind + ":" + strconv.Itoa(port)
			srv := &http.Server{
				Addr:              addr,
				Handler:           healthMux(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			logger.Info("health_start", "addr", addr)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().String("health-bind", "0.0.0.0", "Bind address.")
	cmd.Flags().Int("health-port", 8000, "HTTP port to listen on.")

	return cmd
}

func healthMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})
	return mux
}
