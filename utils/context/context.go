package context

import (
	"context"
	"time"

	"github.com/muhammadheryan/reliefbridge/constant"
)

func GetUserID(ctx context.Context) (string, bool) {
	v := ctx.Value(constant.UserIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func GetTokenID(ctx context.Context) (string, bool) {
	v := ctx.Value(constant.TokenIDKey)
	if v == nil {
		return "", false
	}
	jti, ok := v.(string)
	return jti, ok && jti != ""
}

func GetTokenExpiry(ctx context.Context) (time.Time, bool) {
	v := ctx.Value(constant.TokenExpKey)
	if v == nil {
		return time.Time{}, false
	}
	exp, ok := v.(time.Time)
	return exp, ok
}

// WithSession embeds the verified token identity into ctx.
func WithSession(ctx context.Context, userID, tokenID string, expiresAt time.Time) context.Context {
	ctx = context.WithValue(ctx, constant.UserIDKey, userID)
	ctx = context.WithValue(ctx, constant.TokenIDKey, tokenID)
	return context.WithValue(ctx, constant.TokenExpKey, expiresAt)
}
