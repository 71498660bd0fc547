// Package ledger is the authoritative state machine of the marketplace. It
// owns asset identity and ownership, sale/rental listings, and the monetary
// settlement of each trade. Every mutating operation is a serializable
// transaction: it either fully commits (state mutated, funds moved, event
// emitted) or fails with one of the sentinel errors before any effect is
// observable.
//
// The surrounding REST/metadata/storage layers are collaborators, not
// authorities: they feed opaque metadata references in and replay committed
// events out. Ownership and funds are only ever decided here.
package ledger

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
)

const (
	// maxRoyaltyBasisPoints caps the creator royalty at 10%.
	maxRoyaltyBasisPoints = 1000

	// platformFeeBasisPoints is the fixed 2.5% marketplace cut on sales.
	platformFeeBasisPoints = 250

	// feeDenominator converts basis points to a fraction.
	feeDenominator = 10000

	// defaultPeriodLength is one rental period when the configuration
	// does not say otherwise.
	defaultPeriodLength = 24 * time.Hour
)

// Options configures a Ledger at construction. Admin, PlatformWallet and
// Bank are required.
type Options struct {
	// Admin is the single identity authorized for pause/unpause and
	// platform wallet changes.
	Admin string

	// PlatformWallet receives the platform fee of every sale.
	PlatformWallet string

	// PeriodLength is the wall-clock length of one rental period.
	// Zero means defaultPeriodLength.
	PeriodLength time.Duration

	// Bank moves funds between identities during settlement.
	Bank Bank

	// Clock overrides time.Now, used by tests to control rental expiry.
	Clock func() time.Time
}

// entry bundles everything the ledger tracks for one asset. The entry mutex
// serializes the whole validate-compute-disburse-mutate sequence of any
// operation on the asset; operations on different assets do not contend.
type entry struct {
	mu      sync.Mutex
	asset   Asset
	listing Listing
	rental  Rental
}

// Ledger holds the shared marketplace state. The registry mutex guards the
// asset map, the id counter and the platform configuration; each asset
// carries its own lock for settlement.
type Ledger struct {
	mu     sync.RWMutex
	assets map[uint64]*entry
	nextID uint64

	admin          string
	platformWallet string
	paused         bool

	periodLength time.Duration
	bank         Bank
	now          func() time.Time

	subMu       sync.RWMutex
	subscribers []Subscriber

	log *logger.L
}

// New creates an empty ledger.
func New(opts Options) *Ledger {
	periodLength := opts.PeriodLength
	if periodLength <= 0 {
		periodLength = defaultPeriodLength
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &Ledger{
		assets:         make(map[uint64]*entry),
		admin:          opts.Admin,
		platformWallet: opts.PlatformWallet,
		periodLength:   periodLength,
		bank:           opts.Bank,
		now:            now,
		log:            logger.New("ledger"),
	}
}

// Subscribe registers fn to receive every committed event. Subscribers run
// synchronously on the committing goroutine, in per-asset commit order.
func (l *Ledger) Subscribe(fn Subscriber) {
	l.subMu.Lock()
	l.subscribers = append(l.subscribers, fn)
	l.subMu.Unlock()
}

func (l *Ledger) emit(ev Event) {
	l.subMu.RLock()
	subs := l.subscribers
	l.subMu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (l *Ledger) newEventBase(assetID uint64) eventBase {
	return eventBase{
		EventID:     uuid.NewString(),
		AssetID:     assetID,
		CommittedAt: l.now(),
	}
}

// lookup returns the entry for an asset id. Read queries and the per-asset
// operations all start here.
func (l *Ledger) lookup(assetID uint64) (*entry, error) {
	l.mu.RLock()
	e := l.assets[assetID]
	l.mu.RUnlock()
	if e == nil {
		return nil, ErrUnknownAsset
	}
	return e, nil
}

// isPaused snapshots the circuit breaker. The flag is checked once at the
// start of each gated operation; an admin pause during a running settlement
// does not abort it.
func (l *Ledger) isPaused() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.paused
}
