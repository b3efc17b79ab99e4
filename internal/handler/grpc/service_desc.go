// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/MKhiriev/go-salon-sync/models"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "salonsync.CollectionStore"

// Full method names used by clients.
const (
	MethodGet   = "/" + ServiceName + "/Get"
	MethodSet   = "/" + ServiceName + "/Set"
	MethodWatch = "/" + ServiceName + "/Watch"
)

// CollectionStoreServer is the server API of the collection store.
type CollectionStoreServer interface {
	Get(ctx context.Context, req *models.GetCollectionRequest) (*models.CollectionEntry, error)
	Set(ctx context.Context, req *models.PutCollectionRequest) (*models.CollectionEntry, error)
	// Watch sends the entry every time its version passes the last one sent,
	// starting from req.Version, until the client goes away.
	Watch(req *models.WatchRequest, stream grpc.ServerStream) error
}

// ServiceDesc describes the collection store for [grpc.Server.RegisterService].
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CollectionStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: getHandler},
		{MethodName: "Set", Handler: setHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "salonsync/collection_store",
}

// WatchStreamDesc is the stream descriptor clients pass to NewStream.
var WatchStreamDesc = &ServiceDesc.Streams[0]

func getHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.GetCollectionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CollectionStoreServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGet}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CollectionStoreServer).Get(ctx, req.(*models.GetCollectionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func setHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.PutCollectionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CollectionStoreServer).Set(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodSet}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CollectionStoreServer).Set(ctx, req.(*models.PutCollectionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(models.WatchRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(CollectionStoreServer).Watch(in, stream)
}
