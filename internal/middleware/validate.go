package middleware

import (
	"context"

	"connectrpc.com/connect"
)

type validator interface {
	Validate() error
}

// ValidationInterceptor rejects requests whose message fails its own
// Validate method with CodeInvalidArgument, before the handler runs.
func ValidationInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if v, ok := req.Any().(validator); ok {
				if err := v.Validate(); err != nil {
					return nil, connect.NewError(connect.CodeInvalidArgument, err)
				}
			}
			return next(ctx, req)
		}
	}
}
