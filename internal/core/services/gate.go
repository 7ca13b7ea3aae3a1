package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
	"github.com/salafifatawa/fatawa-cli/internal/logger"
)

const tracerName = "github.com/salafifatawa/fatawa-cli/internal/core/services"

// gate runs remote calls behind the session guard.
type gate struct {
	guard    driving.SessionGuard
	recorder driven.OutcomeRecorder
}

// authorized obtains a fresh token and passes it to call. No request is
// made without a token. Whatever call returns is folded into an Outcome.
func authorized[T any](
	ctx context.Context, g gate, operation string,
	call func(ctx context.Context, token string) (T, error),
) domain.Outcome[T] {
	return authorizedAs(ctx, g, operation, func(ctx context.Context, cred domain.Credential) (T, error) {
		return call(ctx, cred.Token.String())
	})
}

// authorizedAs is authorized for calls that also need the identity the
// token was issued for.
func authorizedAs[T any](
	ctx context.Context, g gate, operation string,
	call func(ctx context.Context, cred domain.Credential) (T, error),
) domain.Outcome[T] {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "fatawa."+operation)
	defer span.End()

	start := time.Now()
	finish := func(out domain.Outcome[T]) domain.Outcome[T] {
		kind := ""
		if err := out.Err(); err != nil {
			kind = err.Kind.String()
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("fatawa.error_kind", kind))
			logger.Debug("%s failed after %s: %v", operation, time.Since(start), err)
		} else {
			logger.Debug("%s succeeded in %s", operation, time.Since(start))
		}
		if g.recorder != nil {
			g.recorder.RecordOutcome(operation, kind, time.Since(start))
		}
		return out
	}

	cred := g.guard.Credential(ctx)
	if !cred.Ok() {
		return finish(domain.Failure[T](cred.Err()))
	}

	value, err := call(ctx, cred.Value())
	if err != nil {
		return finish(domain.Failure[T](asDocumentError(err)))
	}
	return finish(domain.Success(value))
}

// asDocumentError classifies an adapter error. Anything unclassified
// happened before a response was read, so it is a transport failure.
func asDocumentError(err error) *domain.DocumentError {
	var docErr *domain.DocumentError
	if errors.As(err, &docErr) {
		return docErr
	}
	return domain.NewTransportError(0, err)
}
