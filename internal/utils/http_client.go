package utils

import (
	"github.com/go-resty/resty/v2"
)

// TraceIDHeader carries the trace id between remote store clients and the
// server.
const TraceIDHeader = "X-Trace-ID"

const userAgent = "salon-sync-client"

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an independent client that identifies itself as the
// salon sync client and forwards the trace id found in a request's context
// in the X-Trace-ID header.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().
//	    SetContext(utils.WithTraceID(ctx, id)).
//	    Get("http://localhost:8080/api/collections")
func NewHTTPClient() *HTTPClient {
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		OnBeforeRequest(forwardTraceID)

	return &HTTPClient{Client: client}
}

func forwardTraceID(_ *resty.Client, r *resty.Request) error {
	if traceID, ok := GetTraceIDFromContext(r.Context()); ok {
		r.SetHeader(TraceIDHeader, traceID)
	}
	return nil
}
