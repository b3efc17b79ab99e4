package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/service"
	"github.com/MKhiriev/go-salon-sync/internal/utils"
	"github.com/MKhiriev/go-salon-sync/models"
)

// Handler is the root gRPC transport handler. It implements
// [CollectionStoreServer] on top of the service layer.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	// hashKey enables the integrity check of Set payloads when not empty.
	hashKey string

	// logger is used for request-scoped and diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container,
// integrity key and logger.
func NewHandler(services *service.Services, hashKey string, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services: services,
		hashKey:  hashKey,
		logger:   logger,
	}
}

// Get implements [CollectionStoreServer].
func (h *Handler) Get(ctx context.Context, req *models.GetCollectionRequest) (*models.CollectionEntry, error) {
	entry, err := h.services.CollectionService.Get(ctx, req.Key)
	if err != nil {
		return nil, statusFromError(err)
	}
	return &entry, nil
}

// Set implements [CollectionStoreServer]. Payloads whose hash does not match
// are rejected with DataLoss.
func (h *Handler) Set(ctx context.Context, req *models.PutCollectionRequest) (*models.CollectionEntry, error) {
	if h.hashKey != "" {
		if !utils.VerifyValue(req.Value, req.Hash) {
			logger.FromContext(ctx).Error().Str("func", "*Handler.Set").Str("key", req.Key).Msg("hashes are not equal")
			return nil, status.Error(codes.DataLoss, "integrity check failed")
		}
	}

	entry, err := h.services.CollectionService.Set(ctx, req.Key, req.Value)
	if err != nil {
		return nil, statusFromError(err)
	}
	return &entry, nil
}

// Watch implements [CollectionStoreServer].
func (h *Handler) Watch(req *models.WatchRequest, stream grpc.ServerStream) error {
	ctx := stream.Context()
	since := req.Version

	for {
		entry, err := h.services.CollectionService.Watch(ctx, req.Key, since)
		if err != nil {
			if ctx.Err() != nil {
				return status.FromContextError(ctx.Err()).Err()
			}
			return statusFromError(err)
		}
		if err = stream.SendMsg(&entry); err != nil {
			return err
		}
		since = entry.Version
	}
}

// unaryLogging attaches a trace id logger to ctx and logs every unary call
// with its status code and duration.
func (h *Handler) unaryLogging(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	start := time.Now()

	traceID := traceIDFromMetadata(ctx)
	l := h.logger.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", traceID)
	})
	ctx = l.WithContext(utils.WithTraceID(ctx, traceID))

	resp, err := next(ctx, req)

	l.Info().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}

// TraceIDMetadataKey carries the caller's trace id in request metadata.
const TraceIDMetadataKey = "x-trace-id"

const maxTraceIDLength = 64

var traceIDs = utils.NewUUIDGenerator()

func traceIDFromMetadata(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(TraceIDMetadataKey); len(v) > 0 && v[0] != "" && len(v[0]) <= maxTraceIDLength {
			return v[0]
		}
	}
	return traceIDs.Generate()
}

// streamLogging logs the end of every stream.
func (h *Handler) streamLogging(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, next grpc.StreamHandler) error {
	start := time.Now()

	err := next(srv, ss)

	h.logger.Info().
		Str("trace_id", traceIDFromMetadata(ss.Context())).
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Send()

	return err
}

// ServerOptions returns the options the gRPC server needs to serve this
// handler: the JSON codec and the logging interceptors.
func (h *Handler) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ForceServerCodec(Codec()),
		grpc.ChainUnaryInterceptor(h.unaryLogging),
		grpc.ChainStreamInterceptor(h.streamLogging),
	}
}

// Register registers the collection store on server.
func (h *Handler) Register(server *grpc.Server) {
	server.RegisterService(&ServiceDesc, h)
}

func statusFromError(err error) error {
	switch {
	case errors.Is(err, service.ErrCollectionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrInvalidDataProvided):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
