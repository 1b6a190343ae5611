package suggest

import (
	"context"
	"fmt"
	"time"

	"dipnego/strategy"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client asks a remote suggestion server what deals to build. It satisfies
// strategy.Source.
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

var _ strategy.Source = (*Client)(nil)

// Dial creates a client for addr. The connection is established lazily.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to suggestion server: %w", err)
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

func (c *Client) Suggest(ctx context.Context, sc strategy.Context) (strategy.Suggestion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := RequestFor(sc).toStruct()
	if err != nil {
		return strategy.Suggestion{}, err
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, suggestMethod, req, resp); err != nil {
		return strategy.Suggestion{}, fmt.Errorf("suggest rpc: %w", err)
	}
	return suggestionFromStruct(resp), nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Local runs a Policy in process as a strategy.Source.
type Local Policy

func (l Local) Suggest(ctx context.Context, sc strategy.Context) (strategy.Suggestion, error) {
	return l(ctx, RequestFor(sc))
}
