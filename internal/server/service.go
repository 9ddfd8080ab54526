// Package server exposes the parsing pipeline over gRPC. Messages are
// google.protobuf.Struct values so no generated stubs are needed.
package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/export"
	"github.com/joseph-ayodele/packlist/internal/pipeline"
)

const ServiceName = "packlist.v1.PackingListService"

// Full method names.
const (
	MethodParseFile     = "/" + ServiceName + "/ParseFile"
	MethodExportFile    = "/" + ServiceName + "/ExportFile"
	MethodListInventory = "/" + ServiceName + "/ListInventory"
)

// PackingListServer is the server side of packlist.v1.PackingListService.
type PackingListServer interface {
	ParseFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ExportFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListInventory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// Parser is the orchestrator entry point the service calls.
type Parser interface {
	ParseFile(ctx context.Context, data []byte, filename string, opts pipeline.Options) (*pipeline.Result, error)
}

// Catalog lists the known inventory identifiers.
type Catalog interface {
	Entries() []entity.InventoryEntry
}

// PackingListService implements PackingListServer.
type PackingListService struct {
	parser    Parser
	catalog   Catalog
	exporter  *export.Service
	maxUpload int
	timeout   time.Duration
	logger    *slog.Logger
}

// NewPackingListService accepts a nil catalog; ListInventory then returns
// an empty list.
func NewPackingListService(parser Parser, catalog Catalog, maxUpload int, timeout time.Duration, logger *slog.Logger) *PackingListService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PackingListService{
		parser:    parser,
		catalog:   catalog,
		exporter:  export.NewService(logger),
		maxUpload: maxUpload,
		timeout:   timeout,
		logger:    logger,
	}
}

var _ PackingListServer = (*PackingListService)(nil)

// ServiceDesc is registered with grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PackingListServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ParseFile", Handler: unary(MethodParseFile, PackingListServer.ParseFile)},
		{MethodName: "ExportFile", Handler: unary(MethodExportFile, PackingListServer.ExportFile)},
		{MethodName: "ListInventory", Handler: unary(MethodListInventory, PackingListServer.ListInventory)},
	},
	Streams: []grpc.StreamDesc{},
}

func unary(fullMethod string, call func(PackingListServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PackingListServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PackingListServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
