// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-salon-sync/internal/config"
	myGRPC "github.com/MKhiriev/go-salon-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/utils"
	"github.com/MKhiriev/go-salon-sync/models"
)

type grpcRemoteStore struct {
	conn *grpc.ClientConn

	hashKey        string
	requestTimeout time.Duration

	subs   *subscriptions
	logger *logger.Logger
}

// NewGRPCRemoteStore constructs the gRPC implementation of [RemoteStore]
// against the salonsync.CollectionStore service at adapterCfg.GRPCAddress.
// The connection is established lazily by the first call.
func NewGRPCRemoteStore(adapterCfg config.Adapter, appCfg config.App, logger *logger.Logger) (RemoteStore, error) {
	if adapterCfg.GRPCAddress == "" {
		return nil, fmt.Errorf("invalid adapter grpc address: empty address")
	}

	conn, err := grpc.NewClient(adapterCfg.GRPCAddress,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(myGRPC.Codec())),
	)
	if err != nil {
		return nil, fmt.Errorf("create grpc client: %w", err)
	}

	if appCfg.HashKey != "" {
		utils.InitHasherPool(appCfg.HashKey)
	}

	return &grpcRemoteStore{
		conn:           conn,
		hashKey:        appCfg.HashKey,
		requestTimeout: adapterCfg.RequestTimeout,
		subs:           newSubscriptions(logger),
		logger:         logger,
	}, nil
}

func (g *grpcRemoteStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if traceID, ok := utils.GetTraceIDFromContext(ctx); ok {
		ctx = metadata.AppendToOutgoingContext(ctx, myGRPC.TraceIDMetadataKey, traceID)
	}
	if g.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.requestTimeout)
}

// Get implements [RemoteStore]. NotFound means the key was never written.
func (g *grpcRemoteStore) Get(ctx context.Context, key string) (string, bool, error) {
	if g.subs.closed() {
		return "", false, ErrClosed
	}

	callCtx, cancel := g.withTimeout(ctx)
	defer cancel()

	var entry models.CollectionEntry
	err := g.conn.Invoke(callCtx, myGRPC.MethodGet, &models.GetCollectionRequest{Key: key}, &entry)
	if status.Code(err) == codes.NotFound {
		return "", false, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", false, fmt.Errorf("get %s: %w", key, ctx.Err())
		}
		return "", false, mapGRPCError(err)
	}

	return entry.Value, true, nil
}

// Set implements [RemoteStore].
func (g *grpcRemoteStore) Set(ctx context.Context, key, text string) error {
	if g.subs.closed() {
		return ErrClosed
	}

	req := &models.PutCollectionRequest{Key: key, Value: text}
	if g.hashKey != "" {
		req.Hash = utils.HashValue(text)
	}

	callCtx, cancel := g.withTimeout(ctx)
	defer cancel()

	var entry models.CollectionEntry
	if err := g.conn.Invoke(callCtx, myGRPC.MethodSet, req, &entry); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("set %s: %w", key, ctx.Err())
		}
		return mapGRPCError(err)
	}

	return nil
}

// Subscribe implements [RemoteStore] with one Watch stream per subscription,
// reopened with backoff whenever it breaks.
func (g *grpcRemoteStore) Subscribe(key string, onChange func()) (func(), error) {
	return g.subs.subscribe(key, g.watch, onChange)
}

func (g *grpcRemoteStore) watch(ctx context.Context, key string, since int64, seen func(int64)) error {
	stream, err := g.conn.NewStream(ctx, myGRPC.WatchStreamDesc, myGRPC.MethodWatch)
	if err != nil {
		return mapGRPCError(err)
	}
	if err = stream.SendMsg(&models.WatchRequest{Key: key, Version: since}); err != nil {
		return mapGRPCError(err)
	}
	if err = stream.CloseSend(); err != nil {
		return mapGRPCError(err)
	}

	for {
		var entry models.CollectionEntry
		err = stream.RecvMsg(&entry)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return mapGRPCError(err)
		}
		seen(entry.Version)
	}
}

// Close implements [RemoteStore]. It ends every subscription and closes the
// connection.
func (g *grpcRemoteStore) Close() error {
	g.subs.close()
	return g.conn.Close()
}
