package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	xhttp "github.com/redeployer/redeployer/internal/http"
	"github.com/redeployer/redeployer/internal/logging"
	"github.com/redeployer/redeployer/internal/redeploy"
)

type server struct {
	cfg        ServerConfig
	redeployer *redeploy.Redeployer
}

// Server receives image events over HTTP and triggers redeployments.
type Server interface {
	Serve(ctx context.Context, l net.Listener) error
}

func NewServer(cfg ServerConfig, r *redeploy.Redeployer) Server {
	return &server{
		cfg:        cfg,
		redeployer: r,
	}
}

func (s *server) Serve(ctx context.Context, l net.Listener) error {
	logger := logging.LoggerFromContext(ctx)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/events", s.handleEvent)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: time.Minute,
		BaseContext: func(net.Listener) context.Context {
			return logging.ContextWithLogger(context.Background(), logger)
		},
	}

	errCh := make(chan error)
	go func() {
		if s.cfg.TLSConfig != nil {
			errCh <- srv.ServeTLS(
				l,
				s.cfg.TLSConfig.CertPath,
				s.cfg.TLSConfig.KeyPath,
			)
		} else {
			errCh <- srv.Serve(l)
		}
	}()

	logger.Info(
		"Server is listening",
		"tls", s.cfg.TLSConfig != nil,
		"address", l.Addr().String(),
	)

	select {
	case <-ctx.Done():
		logger.Info("Gracefully stopping server...")
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			s.cfg.GracefulShutdownTimeout,
		)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	xhttp.WriteResponseJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *server) handleEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.LoggerFromContext(ctx).WithValues(
		"path", r.URL.Path,
		"requestID", uuid.NewString(),
	)
	ctx = logging.ContextWithLogger(ctx, logger)

	if s.cfg.Token != "" {
		if subtle.ConstantTimeCompare(
			[]byte(r.Header.Get("Authorization")),
			[]byte(s.cfg.Token),
		) != 1 {
			logger.Debug("rejecting event delivery with missing or invalid token")
			xhttp.WriteErrorJSON(
				w,
				xhttp.ErrorStr("missing or invalid token", http.StatusUnauthorized),
			)
			return
		}
	}

	body, err := xhttp.ReadBody(r, s.cfg.MaxBodyBytes)
	if err != nil {
		xhttp.WriteErrorJSON(
			w,
			xhttp.Error(
				fmt.Errorf("failed to read request body: %w", err),
				http.StatusRequestEntityTooLarge,
			),
		)
		return
	}

	var event redeploy.Event
	if err = json.Unmarshal(body, &event); err != nil {
		logger.Error(err, "failed to unmarshal request body")
		xhttp.WriteErrorJSON(
			w,
			xhttp.ErrorStr("invalid request body", http.StatusBadRequest),
		)
		return
	}

	res, err := s.redeployer.Trigger(ctx, event)
	if err != nil {
		xhttp.WriteErrorJSON(w, err)
		return
	}

	xhttp.WriteResponseJSON(w, http.StatusOK, res)
}
