package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/packlist/internal/common"
)

// RequestIDHeader is read from incoming metadata; a fresh ID is generated
// when absent.
const RequestIDHeader = "x-request-id"

// NewGRPCServer registers svc together with the health and reflection
// services. maxRecv bounds request size; zero keeps the gRPC default.
func NewGRPCServer(svc PackingListServer, maxRecv int, logger *slog.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(loggingInterceptor(logger))}
	if maxRecv > 0 {
		// base64 inflates uploads by a third
		opts = append(opts, grpc.MaxRecvMsgSize(maxRecv*4/3+4096))
	}
	gs := grpc.NewServer(opts...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(gs)

	gs.RegisterService(&ServiceDesc, svc)
	return gs, hs
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		rid := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDHeader); len(v) > 0 {
				rid = v[0]
			}
		}
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx = common.WithRequestID(ctx, rid)
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc.request",
			"method", info.FullMethod,
			"request_id", rid,
			"code", status.Code(err).String(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}

// Serve listens on addr and serves gs until ctx is done, then stops
// gracefully.
func Serve(ctx context.Context, gs *grpc.Server, hs *health.Server, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("grpc.listen.failed", "addr", addr, "error", err)
		return err
	}
	logger.Info("grpc.serving", "addr", lis.Addr().String())

	serveErr := make(chan error, 1)
	go func() { serveErr <- gs.Serve(lis) }()

	select {
	case <-ctx.Done():
		logger.Info("grpc.shutdown")
		if hs != nil {
			hs.Shutdown()
		}
		gs.GracefulStop()
		return nil
	case err := <-serveErr:
		return err
	}
}
