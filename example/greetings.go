package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/kroksys/restbatch/internal/logger"
	"github.com/kroksys/restbatch/resource"
	"github.com/kroksys/restbatch/spec"
	"go.uber.org/zap"
)

var tones = map[string]bool{"": true, "friendly": true, "formal": true, "sincere": true}

// Greetings is an in-memory resource whose batch create reports the
// created entities.
type Greetings struct {
	mu    sync.Mutex
	next  int64
	items map[int64]Greeting
}

func NewGreetings() *Greetings {
	return &Greetings{items: make(map[int64]Greeting)}
}

// BatchCreate stores every valid greeting. Invalid ones fail on their own
// without affecting the rest of the batch.
func (g *Greetings) BatchCreate(ctx context.Context, greetings []Greeting) (resource.BatchCreateOutcome, error) {
	log := logger.FromContext(ctx)
	results := make([]*resource.CreateKVResponse, 0, len(greetings))
	for i, greeting := range greetings {
		if greeting.Message == "" {
			log.Debug("greeting rejected", zap.Int("index", i), zap.String("reason", "missing message"))
			results = append(results, resource.NewCreateKVError(nil,
				resource.NewServiceError(http.StatusBadRequest, "message is required").WithCode("MISSING_MESSAGE")))
			continue
		}
		if !tones[greeting.Tone] {
			log.Debug("greeting rejected", zap.Int("index", i), zap.String("tone", greeting.Tone))
			results = append(results, resource.NewCreateKVError(nil,
				resource.NewServiceError(http.StatusUnprocessableEntity, fmt.Sprintf("unknown tone %q", greeting.Tone)).
					WithCode("UNKNOWN_TONE").
					WithDetails(spec.DataMap{"tone": greeting.Tone})))
			continue
		}
		entity, err := spec.ToDataMap(greeting)
		if err != nil {
			return nil, resource.WrapServiceError(http.StatusInternalServerError, "greeting encoding failed", err)
		}
		results = append(results, resource.NewCreatedKV(g.store(greeting), entity))
	}
	resource.SetResponseHeader(ctx, "X-Greetings-Total", strconv.Itoa(g.Count()))
	return &resource.BatchCreateKVResult{Results: results}, nil
}

// Count returns the number of stored greetings.
func (g *Greetings) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.items)
}

func (g *Greetings) store(greeting Greeting) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	g.items[g.next] = greeting
	return g.next
}

// greetingSlug is the alternate key of greetings.
func greetingSlug(canonical interface{}) interface{} {
	return fmt.Sprintf("greeting-%v", canonical)
}
