package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/validatehq/idea-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start webhook server for analysis requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pipeline, st, err := buildPipeline(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("POST /webhook/analyze", func(w http.ResponseWriter, r *http.Request) {
			var idea model.Idea
			if err := json.NewDecoder(r.Body).Decode(&idea); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
			if idea.Description == "" && idea.Context.IsEmpty() && len(idea.Answers) == 0 {
				http.Error(w, `{"error":"description, context, or answers required"}`, http.StatusBadRequest)
				return
			}
			if idea.ID == "" {
				idea.ID = uuid.New().String()
			}

			// Run the analysis asynchronously; progress lands in the run record.
			go func() {
				result, err := pipeline.Run(ctx, &idea)
				if err != nil {
					zap.L().Error("webhook analysis failed",
						zap.String("idea_id", idea.ID),
						zap.Error(err),
					)
					return
				}
				zap.L().Info("webhook analysis complete",
					zap.String("idea_id", idea.ID),
					zap.Int("score", result.Score),
					zap.Float64("risk_score", result.RiskScore),
				)
			}()

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{
				"status":  "accepted",
				"idea_id": idea.ID,
			})
		})

		mux.HandleFunc("GET /results/{ideaID}", func(w http.ResponseWriter, r *http.Request) {
			result, err := st.GetResult(r.Context(), r.PathValue("ideaID"))
			if err != nil {
				zap.L().Error("results lookup failed", zap.Error(err))
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			if result == nil {
				http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(result)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
