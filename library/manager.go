package library

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"library-lending/internal/logger"
)

// ManagerConfig wires a LibraryManager.
type ManagerConfig struct {
	DailyFine decimal.Decimal
	Journal   bool
	Log       *logger.Logger
}

// LibraryManager is a thin façade over the Library, keeping CLI code simple.
// Every call holds one lock so the item and patron graph is never seen half
// updated. Successful or not, each circulation call is journaled.
type LibraryManager struct {
	mu      sync.Mutex
	lib     *Library
	journal *Journal
	log     *logger.Logger
}

// NewLibraryManager builds an empty library and, when enabled, its journal.
func NewLibraryManager(cfg ManagerConfig) (*LibraryManager, error) {
	var opts []Option
	if cfg.DailyFine.IsPositive() {
		opts = append(opts, WithDailyFine(cfg.DailyFine))
	}
	log := cfg.Log
	if log == nil {
		log = logger.Discard()
	}

	mgr := &LibraryManager{lib: NewLibrary(opts...), log: log}
	if cfg.Journal {
		j, err := NewJournal()
		if err != nil {
			return nil, errors.Wrap(err, "open journal")
		}
		mgr.journal = j
	}
	return mgr, nil
}

// Close closes the journal, if any.
func (lm *LibraryManager) Close() error {
	if lm.journal == nil {
		return nil
	}
	return lm.journal.Close()
}

// ------------------ Catalog ------------------

// LoadSeed registers every item and patron in s.
func (lm *LibraryManager) LoadSeed(s *Seed) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	s.Apply(lm.lib)
	lm.log.Info("seed loaded", "items", len(s.Items), "patrons", len(s.Patrons))
}

// AddItem registers a copy of it; later changes to it are not seen.
func (lm *LibraryManager) AddItem(it *Item) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.lib.AddItem(it.clone())
}

// AddPatron registers a copy of p.
func (lm *LibraryManager) AddPatron(p *Patron) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.lib.AddPatron(p.clone())
}

// The getters below return copies taken under the lock. They are safe to
// read while other goroutines circulate, and go stale rather than change.

func (lm *LibraryManager) GetItem(id string) (*Item, bool) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	it, ok := lm.lib.FindItem(id)
	if !ok {
		return nil, false
	}
	return it.clone(), true
}

func (lm *LibraryManager) GetPatron(id string) (*Patron, bool) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	p, ok := lm.lib.FindPatron(id)
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

func (lm *LibraryManager) GetAllItems() []*Item {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return cloneItems(lm.lib.Items())
}

func (lm *LibraryManager) GetAllPatrons() []*Patron {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	patrons := lm.lib.Patrons()
	for i, p := range patrons {
		patrons[i] = p.clone()
	}
	return patrons
}

func (lm *LibraryManager) CheckedOutItems(patronID string) ([]*Item, Result) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	items, r := lm.lib.CheckedOutItems(patronID)
	return cloneItems(items), r
}

func cloneItems(items []*Item) []*Item {
	if items == nil {
		return nil
	}
	out := make([]*Item, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}

func (lm *LibraryManager) CurrentDate() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.lib.CurrentDate()
}

func (lm *LibraryManager) Overdue() []OverdueLoan {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.lib.Overdue()
}

// FineBalance reports the patron's outstanding fine.
func (lm *LibraryManager) FineBalance(patronID string) (decimal.Decimal, bool) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	p, ok := lm.lib.FindPatron(patronID)
	if !ok {
		return decimal.Zero, false
	}
	return p.FineBalance(), true
}

// ------------------ Circulation ------------------

func (lm *LibraryManager) CheckOut(patronID, itemID string) (Result, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	r := lm.lib.CheckOut(patronID, itemID)
	return r, lm.record(OpCheckOut, patronID, itemID, decimal.Zero, r)
}

// ReturnItem returns the item and yields the patron who had it.
func (lm *LibraryManager) ReturnItem(itemID string) (Result, string, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	var holder string
	if it, ok := lm.lib.FindItem(itemID); ok {
		holder, _ = it.CheckedOutBy()
	}
	r := lm.lib.ReturnItem(itemID)
	return r, holder, lm.record(OpReturn, holder, itemID, decimal.Zero, r)
}

func (lm *LibraryManager) RequestItem(patronID, itemID string) (Result, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	r := lm.lib.RequestItem(patronID, itemID)
	return r, lm.record(OpRequest, patronID, itemID, decimal.Zero, r)
}

func (lm *LibraryManager) PayFine(patronID string, amount decimal.Decimal) (Result, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	r := lm.lib.PayFine(patronID, amount)
	return r, lm.record(OpPayFine, patronID, "", amount, r)
}

// AdvanceDate moves the clock one day and returns the loans that were
// fined on that step.
func (lm *LibraryManager) AdvanceDate() ([]OverdueLoan, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.advanceLocked()
}

// AdvanceDays calls AdvanceDate n times and returns every fine posted.
func (lm *LibraryManager) AdvanceDays(n int) ([]OverdueLoan, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	var posted []OverdueLoan
	for i := 0; i < n; i++ {
		fined, err := lm.advanceLocked()
		posted = append(posted, fined...)
		if err != nil {
			return posted, err
		}
	}
	return posted, nil
}

func (lm *LibraryManager) advanceLocked() ([]OverdueLoan, error) {
	lm.lib.AdvanceDate()
	day := lm.lib.CurrentDate()
	fined := lm.lib.Overdue()

	lm.log.Debug("date advanced", "day", day, "fines_posted", len(fined))
	if lm.journal == nil {
		return fined, nil
	}

	entries := []Entry{{Day: day, Kind: OpAdvance, Result: Success}}
	for _, od := range fined {
		entries = append(entries, Entry{
			Day:      day,
			Kind:     OpFine,
			PatronID: od.PatronID,
			ItemID:   od.ItemID,
			Amount:   lm.lib.DailyFine(),
			Result:   Success,
		})
	}
	if err := lm.journal.RecordAll(entries); err != nil {
		lm.log.Error("journal write failed", "day", day, "error", err)
		return fined, err
	}
	return fined, nil
}

func (lm *LibraryManager) record(op Operation, patronID, itemID string, amount decimal.Decimal, r Result) error {
	day := lm.lib.CurrentDate()
	attrs := []any{"op", string(op), "day", day, "patron_id", patronID, "item_id", itemID, "result", r.String()}
	if r.OK() {
		lm.log.Info(Describe(op, r), attrs...)
	} else {
		lm.log.Warn("operation rejected", attrs...)
	}

	if lm.journal == nil {
		return nil
	}
	_, err := lm.journal.Record(Entry{
		Day:      day,
		Kind:     op,
		PatronID: patronID,
		ItemID:   itemID,
		Amount:   amount,
		Result:   r,
	})
	if err != nil {
		lm.log.Error("journal write failed", append(attrs, "error", err)...)
	}
	return err
}

// ------------------ History ------------------

// ErrJournalDisabled is returned by history queries when no journal is kept.
var ErrJournalDisabled = errors.New("circulation journal is disabled")

// History returns the journal entries for an item or patron id, or every
// entry when id is empty. Item ids win when an id names both.
func (lm *LibraryManager) History(id string) ([]Entry, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if lm.journal == nil {
		return nil, ErrJournalDisabled
	}
	if id == "" {
		return lm.journal.All()
	}
	if _, ok := lm.lib.FindItem(id); ok {
		return lm.journal.ForItem(id)
	}
	return lm.journal.ForPatron(id)
}

// FinesPosted totals the daily fines ever charged to patronID.
func (lm *LibraryManager) FinesPosted(patronID string) (decimal.Decimal, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if lm.journal == nil {
		return decimal.Zero, ErrJournalDisabled
	}
	return lm.journal.FinesPosted(patronID)
}

// ------------------ Utilities ------------------

// PrettyItem formats an item for lists.
func PrettyItem(it *Item) string {
	holder, _ := it.CheckedOutBy()
	requester, _ := it.RequestedBy()
	creator := fmt.Sprintf("%s: %s", it.creatorLabel(), it.Creator())
	return fmt.Sprintf("%-15s %-6s %-30s %-30s %-14s %-10s %-10s",
		it.ID(), it.Category(), Truncate(it.Title(), 30), Truncate(creator, 30), it.Location(), holder, requester)
}

// PrettyPatron formats a patron for lists.
func PrettyPatron(p *Patron) string {
	return fmt.Sprintf("%-10s %-25s %8s  %s",
		p.ID(), Truncate(p.Name(), 25), p.FineBalance().StringFixed(2), strings.Join(p.CheckedOutItemIDs(), ","))
}

// Truncate shortens s to at most maxLen runes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
