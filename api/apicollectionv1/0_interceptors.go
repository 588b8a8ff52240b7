package apicollectionv1

import (
	"context"

	"github.com/mjunaidi/kagodb/service"
)

const ContextServicerKey = "7c2a9c52-2da8-4b40-b670-191b9c26fc3a"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer)
}
