// Package graphql serves the catalog over a schema-first GraphQL endpoint.
//
// Resolvers call the same catalog and auth services as the REST
// controllers. Errors carry extensions.code so clients can branch on the
// failure kind without parsing messages.
package graphql

import (
	"context"
	_ "embed"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"

	"github.com/mrlokans/catalog/internal/logger"
)

//go:embed schema.graphql
var schemaSDL string

// DefaultMaxDepth applies when no positive depth is configured.
const DefaultMaxDepth = 10

// NewSchema parses the embedded schema against the resolver.
func NewSchema(resolver *Resolver, maxDepth int) (*graphql.Schema, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	schema, err := graphql.ParseSchema(schemaSDL, resolver,
		graphql.MaxDepth(maxDepth),
		graphql.Logger(panicLogger{logger: logger.Component("graphql")}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphql schema: %w", err)
	}
	return schema, nil
}

// panicLogger routes resolver panics to zerolog.
type panicLogger struct {
	logger zerolog.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.logger.Error().Interface("panic", value).Msg("graphql resolver panicked")
}
