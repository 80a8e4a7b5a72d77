package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"trxmine/internal/domain"
	"trxmine/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mutator runs every money-moving operation as one atomic unit: a
// serialized, row-locked database transaction that either commits the
// ledger change together with its audit record(s) or leaves no trace.
//
// Serialization is per account: a keyed mutex linearizes mutations against
// the same ledger while different accounts proceed in parallel. Inside the
// database transaction the ledger row is additionally locked FOR UPDATE so
// out-of-process writers cannot interleave.
type Mutator struct {
	db         *gorm.DB
	timeout    time.Duration
	maxRetries int

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewMutator(db *gorm.DB, timeout time.Duration, maxRetries int) *Mutator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxRetries < 1 {
		maxRetries = 3
	}
	return &Mutator{
		db:         db,
		timeout:    timeout,
		maxRetries: maxRetries,
		locks:      make(map[uint]*sync.Mutex),
	}
}

// DB exposes the underlying handle for reads outside a mutation.
func (m *Mutator) DB() *gorm.DB { return m.db }

// Tx is the view a mutation closure operates on. Ledger is the locked row;
// DB is scoped to the open transaction for dependent domain writes
// (positions, contracts, catalog stock, user rows).
type Tx struct {
	DB     *gorm.DB
	Ledger *models.Ledger

	now     time.Time
	records []*models.TransactionRecord
	updates []*models.TransactionRecord
}

// Now is the single consistently-read timestamp for the whole mutation.
// Accrual math must not re-sample the clock mid-operation.
func (t *Tx) Now() time.Time { return t.now }

// Debit removes amount from available and total.
func (t *Tx) Debit(amountMicro int64) error {
	if amountMicro <= 0 {
		return fmt.Errorf("%w: debit amount must be positive", ErrValidation)
	}
	if t.Ledger.AvailableMicro < amountMicro {
		return fmt.Errorf("%w: have %s TRX, need %s TRX",
			ErrInsufficientFunds, FormatTRX(t.Ledger.AvailableMicro), FormatTRX(amountMicro))
	}
	t.Ledger.AvailableMicro -= amountMicro
	t.Ledger.TotalMicro -= amountMicro
	return nil
}

// Credit adds amount to available and total.
func (t *Tx) Credit(amountMicro int64) error {
	if amountMicro <= 0 {
		return fmt.Errorf("%w: credit amount must be positive", ErrValidation)
	}
	t.Ledger.AvailableMicro += amountMicro
	t.Ledger.TotalMicro += amountMicro
	return nil
}

// CreditEarned credits available/total and bumps the cumulative earned
// counter (mining settlements, investment payouts, referral bonuses).
func (t *Tx) CreditEarned(amountMicro int64) error {
	if err := t.Credit(amountMicro); err != nil {
		return err
	}
	t.Ledger.EarnedMicro += amountMicro
	return nil
}

// LockFunds moves amount from available to locked. Total is unchanged:
// the funds are still owned, just committed.
func (t *Tx) LockFunds(amountMicro int64) error {
	if amountMicro <= 0 {
		return fmt.Errorf("%w: lock amount must be positive", ErrValidation)
	}
	if t.Ledger.AvailableMicro < amountMicro {
		return fmt.Errorf("%w: have %s TRX, need %s TRX",
			ErrInsufficientFunds, FormatTRX(t.Ledger.AvailableMicro), FormatTRX(amountMicro))
	}
	t.Ledger.AvailableMicro -= amountMicro
	t.Ledger.LockedMicro += amountMicro
	return nil
}

// UnlockFunds releases previously locked principal back to available.
func (t *Tx) UnlockFunds(amountMicro int64) error {
	if amountMicro <= 0 {
		return fmt.Errorf("%w: unlock amount must be positive", ErrValidation)
	}
	if t.Ledger.LockedMicro < amountMicro {
		return fmt.Errorf("%w: locked balance below unlock amount", ErrPreconditionFailed)
	}
	t.Ledger.LockedMicro -= amountMicro
	t.Ledger.AvailableMicro += amountMicro
	return nil
}

// AddWithdrawn bumps the cumulative withdrawn counter (payout confirmed).
func (t *Tx) AddWithdrawn(amountMicro int64) {
	t.Ledger.WithdrawnMicro += amountMicro
}

// Append queues an audit record for insertion in the same transaction.
// Defaults: status completed, timestamp Now().
func (t *Tx) Append(rec *models.TransactionRecord) {
	if rec.Status == "" {
		rec.Status = domain.TxStatusCompleted
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = t.now
	}
	t.records = append(t.records, rec)
}

// Touch queues a status transition of an existing audit record (pending
// withdrawal resolution). The transitioned record is itself the audit
// evidence of the mutation; no new record is appended.
func (t *Tx) Touch(rec *models.TransactionRecord) {
	t.updates = append(t.updates, rec)
}

// Records returns the audit records queued so far (inserted on commit).
func (t *Tx) Records() []*models.TransactionRecord { return t.records }

func (m *Mutator) accountLock(userID uint) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[userID] = l
	}
	return l
}

// Mutate runs fn against userID's ledger as one atomic unit. On any error
// nothing is persisted. Conflicting concurrent transactions are retried a
// bounded number of times before ErrStorageConflict surfaces.
func (m *Mutator) Mutate(ctx context.Context, userID uint, fn func(tx *Tx) error) error {
	lock := m.accountLock(userID)
	lock.Lock()
	defer lock.Unlock()

	var lastErr error
	for attempt := 0; attempt < m.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 25 * time.Millisecond)
		}
		err := m.runOnce(ctx, userID, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
		logrus.WithFields(logrus.Fields{"user_id": userID, "attempt": attempt + 1}).
			Warnf("ledger: transaction conflict, retrying: %v", err)
	}
	return fmt.Errorf("%w: %v", ErrStorageConflict, lastErr)
}

func (m *Mutator) runOnce(ctx context.Context, userID uint, fn func(tx *Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	return m.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		var l models.Ledger
		err := gtx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&l).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: ledger for account %d", ErrNotFound, userID)
			}
			return err
		}

		tx := &Tx{DB: gtx, Ledger: &l, now: time.Now().UTC()}
		if err := fn(tx); err != nil {
			return err
		}

		if l.AvailableMicro < 0 {
			return fmt.Errorf("%w: available balance would go negative", ErrInsufficientFunds)
		}
		if l.LockedMicro < 0 || l.TotalMicro != l.AvailableMicro+l.LockedMicro {
			return fmt.Errorf("ledger: invariant violation for account %d (total=%d available=%d locked=%d)",
				userID, l.TotalMicro, l.AvailableMicro, l.LockedMicro)
		}
		if len(tx.records)+len(tx.updates) == 0 {
			return fmt.Errorf("ledger: mutation for account %d produced no audit record", userID)
		}
		for _, rec := range tx.records {
			if rec.SenderID == nil && rec.ReceiverID == nil {
				return fmt.Errorf("ledger: audit record without sender or receiver")
			}
			if rec.FeeMicro < 0 {
				return fmt.Errorf("ledger: negative fee on audit record")
			}
		}

		l.UpdatedAt = tx.now
		if err := gtx.Save(&l).Error; err != nil {
			return err
		}
		for _, rec := range tx.records {
			if err := gtx.Create(rec).Error; err != nil {
				return err
			}
		}
		for _, rec := range tx.updates {
			if err := gtx.Save(rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// isRetryable classifies driver-level conflicts that are safe to re-run:
// MySQL deadlocks/lock timeouts and SQLite busy states.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
