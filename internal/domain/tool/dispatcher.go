package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"webscout-server/utils/platformerrors"
)

// Dispatcher routes named invocations through schema validation to their
// handlers and wraps every outcome in an Envelope. It performs exactly one
// attempt per call; retry policy belongs to the handlers' own clients.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over an already-built registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Registry exposes the dispatcher's registry for discovery listings.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch looks up toolName, validates rawArgs against its schema, invokes
// the handler and normalizes the outcome. Unknown names, validation
// failures and handler errors all come back as failure envelopes; the
// serving process never sees them as errors.
func (d *Dispatcher) Dispatch(ctx context.Context, toolName string, rawArgs map[string]any) Envelope {
	data, err := d.Call(ctx, toolName, rawArgs)
	return EnvelopeFor(data, err)
}

// Call runs the dispatch pipeline and returns the raw outcome. Transports
// that need the error's classification (for HTTP status mapping) use Call
// and wrap the outcome themselves via EnvelopeFor.
func (d *Dispatcher) Call(ctx context.Context, toolName string, rawArgs map[string]any) (any, error) {
	desc, ok := d.registry.Lookup(toolName)
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, fmt.Sprintf("unknown tool: %s", toolName), nil, "")
	}

	args, err := ValidateArguments(desc.Schema, rawArgs)
	if err != nil {
		log.Debug().Str("tool", toolName).Err(err).Msg("argument validation failed")
		return nil, err
	}

	data, err := d.invoke(ctx, desc, args)
	if err != nil {
		log.Warn().Str("tool", toolName).Err(err).Msg("tool invocation failed")
		return nil, err
	}
	if data == nil {
		log.Error().Str("tool", toolName).Msg("tool returned no data")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, fmt.Sprintf("tool %s returned no data", toolName), nil, "")
	}

	return data, nil
}

// invoke runs the handler with panic recovery so a single bad invocation
// can never take the serving process down.
func (d *Dispatcher) invoke(ctx context.Context, desc *Descriptor, args Arguments) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("tool", desc.Name).Interface("panic", r).Msg("tool handler panicked")
			data = nil
			err = platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeInternal, fmt.Sprintf("internal error in tool %s", desc.Name), nil, "")
		}
	}()
	return desc.Handler(ctx, args)
}

// EnvelopeFor wraps a dispatch outcome. A nil error with non-nil data is a
// success; everything else is a failure carrying a human-readable message.
func EnvelopeFor(data any, err error) Envelope {
	if err != nil {
		return FailureEnvelope(ErrorMessage(err))
	}
	if data == nil {
		return FailureEnvelope("tool returned no data")
	}
	return SuccessEnvelope(data)
}

// ErrorMessage converts a handler failure into the human-readable string
// carried by envelopes and per-item results. Platform errors contribute
// their message only, never the internal layer/uuid formatting, and never a
// stack trace.
func ErrorMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}

	var pe *platformerrors.PlatformError
	if errors.As(err, &pe) {
		cause := pe.Unwrap()
		if cause == nil {
			return pe.Message
		}
		var inner *platformerrors.PlatformError
		if errors.As(cause, &inner) {
			// Chained platform errors already compose their messages.
			return pe.Message
		}
		return fmt.Sprintf("%s: %v", pe.Message, cause)
	}

	return err.Error()
}
