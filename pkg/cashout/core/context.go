package core

type ctxKey string

const (
	CtxKeyRequestID ctxKey = ctxKey("requestId")
)
