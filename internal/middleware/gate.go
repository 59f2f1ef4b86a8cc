package middleware

import (
	"errors"

	"gatebot/internal/domain"
	"gatebot/internal/gate"
	"gatebot/internal/metrics"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Gate wraps handlers so the membership check runs before them
type Gate struct {
	registry       *gate.Registry
	metrics        *metrics.Metrics
	logger         *zap.Logger
	editOnCallback bool
}

// GateOption configures a Gate
type GateOption func(*Gate)

// WithMetrics records every decision and failed reply
func WithMetrics(m *metrics.Metrics) GateOption {
	return func(g *Gate) {
		g.metrics = m
	}
}

// WithCallbackEdit also edits the triggering message on callback challenges
func WithCallbackEdit(enabled bool) GateOption {
	return func(g *Gate) {
		g.editOnCallback = enabled
	}
}

// NewGate creates a gate reading its oracle from registry on every call
func NewGate(registry *gate.Registry, logger *zap.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		registry: registry,
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// RequireStart gates command and text handlers
func (g *Gate) RequireStart() tele.MiddlewareFunc {
	return g.Require(domain.KindCommand)
}

// RequireStartCallback gates inline button handlers
func (g *Gate) RequireStartCallback() tele.MiddlewareFunc {
	return g.Require(domain.KindCallback)
}

// RequireStartInline gates inline query handlers
func (g *Gate) RequireStartInline() tele.MiddlewareFunc {
	return g.Require(domain.KindInline)
}

// Require gates handlers for a single update kind. Updates of another kind
// are dropped like malformed ones.
func (g *Gate) Require(kind domain.UpdateKind) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			return g.run(c, kind, next)
		}
	}
}

// Any gates every supported update kind, replying in the shape it arrived in
func (g *Gate) Any() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			return g.run(c, "", next)
		}
	}
}

func (g *Gate) run(c tele.Context, kind domain.UpdateKind, next tele.HandlerFunc) error {
	id, err := gate.Extract(c)
	if err != nil {
		g.logger.Debug("Dropping update without addressable user", zap.Error(err))
		return nil
	}
	if kind != "" && id.Kind != kind {
		g.logger.Warn("Dropping update of unexpected kind",
			zap.Int64("user_id", id.UserID),
			zap.String("expected", string(kind)),
			zap.String("kind", string(id.Kind)),
		)
		return nil
	}

	d := gate.Evaluate(g.registry.Get(), id)
	g.metrics.IncrementDecision(string(id.Kind), string(d.Verdict))

	if d.Allowed() {
		return next(c)
	}

	g.logDecision(id, d)

	if err := g.reply(c, id.Kind, d); err != nil {
		g.metrics.IncrementReplyFailure(string(id.Kind))
		g.logger.Warn("Failed to send gate reply",
			zap.Int64("user_id", id.UserID),
			zap.String("kind", string(id.Kind)),
			zap.Error(err),
		)
	}
	return nil
}

func (g *Gate) logDecision(id gate.Identity, d gate.Decision) {
	fields := []zap.Field{
		zap.Int64("user_id", id.UserID),
		zap.String("kind", string(id.Kind)),
		zap.String("verdict", string(d.Verdict)),
		zap.String("reason", d.Reason),
	}

	switch {
	case errors.Is(d.Err, gate.ErrOracleUnavailable):
		g.logger.Error("Gate oracle unavailable", append(fields, zap.Error(d.Err))...)
	case errors.Is(d.Err, gate.ErrGateNotInstalled):
		g.logger.Warn("Gate not installed", fields...)
	default:
		g.logger.Debug("Gate challenged user", fields...)
	}
}

func (g *Gate) reply(c tele.Context, kind domain.UpdateKind, d gate.Decision) error {
	switch kind {
	case domain.KindCallback:
		return g.replyCallback(c, d)
	case domain.KindInline:
		return replyInline(c, d)
	default:
		return replyCommand(c, d)
	}
}
