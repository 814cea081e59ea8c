// Package service holds the business operations of the temple visitor
// services: the darshan booking transaction and its inverse, visitor
// resolution, donations, virtual pujas, prasadam orders and the admin
// functions.  Services own transaction boundaries; repositories only
// run statements inside them.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/temple-visitor-services/internal/queue"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	publishTimeout = 3 * time.Second
)

// Clock returns the current time.  Services take one so tests can pin
// "today".
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func (c Clock) today() string { return c.now().Format(dateLayout) }

// publish sends ev after a commit.  Failures are logged and swallowed so
// the committed write stands, and the request context is detached so a
// client disconnect does not drop the event.
func publish(ctx context.Context, pub queue.Publisher, clock Clock, ev queue.ActivityEvent) {
	if pub == nil {
		return
	}
	if ev.OccurredAt == "" {
		ev.OccurredAt = clock.now().UTC().Format(time.RFC3339)
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := pub.Publish(pctx, ev); err != nil {
		log.Printf("service: publish %s %d failed: %v", ev.Kind, ev.RecordID, err)
	}
}

// requirePhone normalizes the phone a caller presents to read visitor
// data.
func requirePhone(phone string) (string, error) {
	phone = NormalizeMobile(phone)
	if phone == "" {
		return "", repository.Invalid("phone", "is required")
	}
	return phone, nil
}

// matchPhone checks that phone is the mobile number on record for the
// visitor behind resource id.  A wrong number reads as not found, the
// same as an unknown id.
func matchPhone(onRecord, phone, resource string, id uint64) error {
	if phone != NormalizeMobile(onRecord) {
		return &repository.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

// withTx runs fn inside a transaction on db, committing when fn returns
// nil and rolling back otherwise.  Begin and commit failures are
// reported as storage errors.
func withTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return repository.Storage("begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return repository.Storage("commit transaction", err)
	}
	committed = true
	return nil
}

func isNotFound(err error) bool { return errors.Is(err, repository.ErrNotFound) }

// offered checks that a catalog type is active and belongs to the
// temple being served.
func offered(field string, templeID, typeTempleID uint64, active bool) error {
	if typeTempleID != templeID {
		return repository.Invalid(field, "is not offered by temple %d", templeID)
	}
	if !active {
		return repository.Invalid(field, "is no longer offered")
	}
	return nil
}
