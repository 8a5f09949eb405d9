package logx

import (
	"context"
	"log"
	"strings"
)

type ctxKey struct{}

// WithRequestID guarda o request id no ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Event escreve uma linha "[MODULE] action=... request_id=... msg=...".
func Event(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}

// EventCtx é Event com o request id tirado do ctx.
func EventCtx(ctx context.Context, module, action, message string) {
	Event(RequestID(ctx), module, action, message)
}
