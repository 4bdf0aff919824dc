// Package retry reexecuta leituras idempotentes com backoff exponencial.
// Escritas nunca devem passar por aqui.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
)

const MaxRetries = 3

type Policy struct {
	InitialInterval time.Duration
	MaxElapsed      time.Duration
	MaxRetries      uint64
}

var Default = Policy{
	InitialInterval: 100 * time.Millisecond,
	MaxElapsed:      2 * time.Second,
	MaxRetries:      MaxRetries,
}

// Read executa fn até dar certo ou esgotar a política. Registro inexistente,
// erro de negócio e cancelamento do contexto não são repetidos.
func Read(ctx context.Context, p Policy, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxElapsedTime = p.MaxElapsed

	op := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx))
}

func isPermanent(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	_, business := httperr.BusinessCode(err)
	return business
}
