// serve.go implements "journeyd serve", running the HTTP, gRPC and observability servers.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/nainya/journeylens/internal/metrics"
	"github.com/nainya/journeylens/internal/server"
)

const (
	shutdownTimeout = 10 * time.Second
	uptimeInterval  = 15 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the journey browser, dashboard and APIs",
		Long: `Serve the journey browser and analytics dashboard over HTTP, the
JourneyService over gRPC, and /metrics, /health, /ready and pprof on the
observability address. Listeners with an empty address or port 0 are
disabled. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	a.log.LogServerStart(a.cfg.HTTP.Addr, a.cfg.DataDir)

	data, err := a.loadDataset()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	svc := server.NewService(data, a.decisions(), server.Options{
		Year:    a.cfg.ReferenceYear,
		Logger:  a.log.Component("service"),
		Metrics: m,
	})

	var (
		httpSrv *server.HTTPServer
		grpcSrv *grpc.Server
		obsSrv  *server.ObservabilityServer
		ready   atomic.Bool
	)

	// Bind every listener before serving so a bad address fails fast.
	var httpLn, grpcLn, obsLn net.Listener
	var listeners []net.Listener
	closeAll := func() {
		for _, l := range listeners {
			l.Close()
		}
	}
	listen := func(kind, addr string) (net.Listener, error) {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("%s listen: %w", kind, err)
		}
		listeners = append(listeners, ln)
		return ln, nil
	}

	if a.cfg.HTTP.Addr != "" {
		if httpSrv, err = server.NewHTTPServer(a.cfg.HTTP.Addr, svc, a.log, m); err != nil {
			return err
		}
		if httpLn, err = listen("http", a.cfg.HTTP.Addr); err != nil {
			return err
		}
	}
	if a.cfg.Grpc.Port > 0 {
		if grpcLn, err = listen("grpc", fmt.Sprintf(":%d", a.cfg.Grpc.Port)); err != nil {
			return err
		}
		grpcSrv = server.NewGrpcServer(svc, a.log, m)
	}
	if a.cfg.Metrics.Addr != "" {
		if obsLn, err = listen("observability", a.cfg.Metrics.Addr); err != nil {
			return err
		}
		obsSrv = server.NewObservabilityServer(a.cfg.Metrics.Addr, reg, ready.Load, a.log.Component("observability"))
	}

	g, gctx := errgroup.WithContext(ctx)

	if httpSrv != nil {
		g.Go(func() error { return httpSrv.Serve(httpLn) })
	}
	if grpcSrv != nil {
		g.Go(func() error {
			a.log.LogServerReady("grpc", grpcLn.Addr().String())
			if err := grpcSrv.Serve(grpcLn); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server failed: %w", err)
			}
			return nil
		})
	}
	if obsSrv != nil {
		g.Go(func() error { return obsSrv.Serve(obsLn) })
	}

	g.Go(func() error {
		m.RunUptime(gctx, uptimeInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		ready.Store(false)
		a.log.LogServerShutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if httpSrv != nil {
			errs = append(errs, httpSrv.Shutdown(shutdownCtx))
		}
		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		if obsSrv != nil {
			errs = append(errs, obsSrv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	ready.Store(true)
	return g.Wait()
}
