// Package grpcserver implements the JobSearch gRPC server.
//
// It delegates all business logic to the jobs service and handles only the
// gRPC transport concerns: error mapping and conversion between the domain
// model and Struct messages.
package grpcserver

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	domainerrors "jobverse/internal/errors"
	"jobverse/internal/filter"
	"jobverse/internal/model"
	"jobverse/internal/query"
)

// JobService is the subset of the application layer exposed over gRPC.
type JobService interface {
	Search(ctx context.Context, c filter.Criteria, page, pageSize int) (query.Page, error)
	GetJob(ctx context.Context, id string) (model.JobRecord, error)
}

// Server implements JobSearchServer.
type Server struct {
	svc JobService
}

// NewServer constructs a gRPC Server backed by the given service.
func NewServer(svc JobService) *Server {
	return &Server{svc: svc}
}

// New returns a grpc.Server with JobSearch and the standard health service
// registered.
func New(svc JobService, logger *zap.Logger) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		loggingInterceptor(logger),
		recoveryInterceptor(logger),
	))
	s.RegisterService(&JobSearchServiceDesc, NewServer(svc))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return s, hs
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// Search accepts the REST criteria keys plus page and pageSize.
func (s *Server) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw, err := protojson.Marshal(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	var crit filter.Criteria
	if err := json.Unmarshal(raw, &crit); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid criteria: %v", err)
	}
	var paging struct {
		Page     *int `json:"page"`
		PageSize int  `json:"pageSize"`
	}
	if err := json.Unmarshal(raw, &paging); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid paging: %v", err)
	}
	page := 1
	if paging.Page != nil {
		page = *paging.Page
	}

	res, err := s.svc.Search(ctx, crit, page, paging.PageSize)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(res)
}

// GetJob expects {"id": "<job id>"}.
func (s *Server) GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := req.GetFields()["id"].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	job, err := s.svc.GetJob(ctx, id)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(job)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	switch domainerrors.TypeOf(err) {
	case domainerrors.ErrTypeNotFound:
		return status.Error(codes.NotFound, domainerrors.MessageOf(err))
	case domainerrors.ErrTypeInvalidInput:
		return status.Error(codes.InvalidArgument, domainerrors.MessageOf(err))
	case domainerrors.ErrTypeConflict:
		return status.Error(codes.FailedPrecondition, domainerrors.MessageOf(err))
	case domainerrors.ErrTypeForbidden:
		return status.Error(codes.PermissionDenied, domainerrors.MessageOf(err))
	case domainerrors.ErrTypeUnauthorized:
		return status.Error(codes.Unauthenticated, domainerrors.MessageOf(err))
	case domainerrors.ErrTypeUnavailable:
		return status.Error(codes.Unavailable, "service unavailable")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return out, nil
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("latency", time.Since(start)),
		}
		switch code {
		case codes.OK, codes.NotFound, codes.InvalidArgument:
			logger.Info("rpc processed", fields...)
		default:
			logger.Error("rpc failed", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}

// recoveryInterceptor turns a handler panic into codes.Internal so one bad
// request cannot take the process down.
func recoveryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("rpc panic recovered",
					zap.String("method", info.FullMethod),
					zap.Any("panic", r),
					zap.Stack("stack"))
				resp, err = nil, status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}
