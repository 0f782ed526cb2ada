package ctxutil

import (
	"context"
	"time"
)

// приватные ключи, чтобы исключить коллизии
type key int

const (
	keyOpName key = iota
	keyJudgeID
)

// WithOp /Op — имя операции (для логов)
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	v := ctx.Value(keyOpName)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// WithJudgeID /JudgeID — судья, от имени которого идёт операция
func WithJudgeID(ctx context.Context, judgeID int64) context.Context {
	return context.WithValue(ctx, keyJudgeID, judgeID)
}

func JudgeID(ctx context.Context) (int64, bool) {
	v := ctx.Value(keyJudgeID)
	if v == nil {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// DefaultDBTimeout — стандартный таймаут обращений к базе.
var DefaultDBTimeout = 5 * time.Second

// WithDBTimeout — таймаут для БД с учётом остатка дедлайна родителя.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		if remain := time.Until(dl); remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
