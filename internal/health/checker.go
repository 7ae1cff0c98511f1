// Package health aggregates readiness probes over the bot's backing
// services.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kenpo-reserve/kenpo-bot/internal/kenpo"
)

const checkTimeout = 2 * time.Second

// Checkable is one named dependency probe.
type Checkable interface {
	Name() string
	Check(ctx context.Context) error
}

// Checker runs every registered probe for the readiness endpoint.
// Liveness stays unconditional so a degraded dependency never gets the
// process restarted.
type Checker struct {
	checks []Checkable
	log    *slog.Logger
}

// NewChecker builds a Checker over the given probes.
func NewChecker(log *slog.Logger, checks ...Checkable) *Checker {
	if log == nil {
		log = slog.Default()
	}

	return &Checker{checks: checks, log: log}
}

// Liveness always reports success.
func (c *Checker) Liveness(ctx context.Context) error {
	return nil
}

// Readiness runs all probes and joins their failures.
func (c *Checker) Readiness(ctx context.Context) error {
	var errs []error
	for _, check := range c.checks {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := check.Check(checkCtx)
		cancel()

		if err != nil {
			c.log.Warn("readiness probe failed",
				slog.String("check", check.Name()),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", check.Name(), err))
		}
	}

	return errors.Join(errs...)
}

// RedisChecker probes the session store connection.
type RedisChecker struct {
	client *redis.Client
}

func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GatewayChecker probes the reservation backend by listing categories.
type GatewayChecker struct {
	gateway kenpo.Gateway
}

func NewGatewayChecker(gateway kenpo.Gateway) *GatewayChecker {
	return &GatewayChecker{gateway: gateway}
}

func (c *GatewayChecker) Name() string { return "kenpo_gateway" }

func (c *GatewayChecker) Check(ctx context.Context) error {
	_, err := c.gateway.Categories(ctx)
	return err
}
