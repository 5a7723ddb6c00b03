package middleware

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/tabie/pkg/api"
)

// ValidationInterceptor rejects request messages that fail their validate
// tags with CodeInvalidArgument.
type ValidationInterceptor struct{}

func NewValidationInterceptor() *ValidationInterceptor {
	return &ValidationInterceptor{}
}

func (ValidationInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if err := api.Validate(req.Any()); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return next(ctx, req)
	}
}

func (ValidationInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (ValidationInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		return next(ctx, &validatingConn{StreamingHandlerConn: conn})
	}
}

type validatingConn struct {
	connect.StreamingHandlerConn
}

func (c *validatingConn) Receive(msg any) error {
	if err := c.StreamingHandlerConn.Receive(msg); err != nil {
		return err
	}
	if err := api.Validate(msg); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return nil
}
