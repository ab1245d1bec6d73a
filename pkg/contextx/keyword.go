package contextx

import (
	"context"
	"fmt"
)

// Keyword is the search term a scan cycle is currently working on.
type Keyword string

type contextKeyKeyword struct{}

func (k Keyword) String() string {
	return string(k)
}

func WithKeyword(ctx context.Context, keyword Keyword) context.Context {
	return context.WithValue(ctx, contextKeyKeyword{}, keyword)
}

func KeywordFromContext(ctx context.Context) (Keyword, error) {
	keyword, ok := ctx.Value(contextKeyKeyword{}).(Keyword)
	if !ok {
		return "", fmt.Errorf("keyword: %w", ErrNoValue)
	}

	return keyword, nil
}
