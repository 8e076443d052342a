package constant

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	TokenIDKey  contextKey = "token_id"
	TokenExpKey contextKey = "token_exp"
)
