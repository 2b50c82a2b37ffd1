package main

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/kroksys/restbatch/internal/logger"
	"github.com/kroksys/restbatch/resource"
	"go.uber.org/zap"
)

// Tokens is an in-memory resource whose batch create reports ids only.
type Tokens struct {
	mu    sync.Mutex
	names map[string]bool
}

func NewTokens() *Tokens {
	return &Tokens{names: make(map[string]bool)}
}

// BatchCreate registers token names. A name may only be created once.
func (t *Tokens) BatchCreate(ctx context.Context, names []string) (*resource.BatchCreateResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	results := make([]*resource.CreateResponse, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		switch {
		case name == "":
			results = append(results, resource.NewCreateError(nil,
				resource.NewServiceError(http.StatusBadRequest, "token name is required")))
		case t.names[name]:
			logger.FromContext(ctx).Debug("duplicate token", zap.String("token", name))
			results = append(results, resource.NewCreateError(name,
				resource.NewServiceError(http.StatusConflict, "token already exists")))
		default:
			t.names[name] = true
			results = append(results, resource.NewCreated(name))
		}
	}
	return &resource.BatchCreateResult{Results: results}, nil
}
