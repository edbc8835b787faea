package library

import (
	"github.com/shopspring/decimal"
)

// DefaultDailyFine is posted once per day step for every overdue loan.
var DefaultDailyFine = decimal.New(10, -2)

// Library owns every item and patron plus the simulated clock. It is not
// safe for concurrent use; LibraryManager serializes access.
type Library struct {
	holdings  []*Item
	itemIndex map[string]int

	members     []*Patron
	patronIndex map[string]int

	currentDate int
	dailyFine   decimal.Decimal
}

// Option configures a Library.
type Option func(*Library)

// WithDailyFine overrides the per-day overdue fine.
func WithDailyFine(amount decimal.Decimal) Option {
	return func(l *Library) { l.dailyFine = amount }
}

// NewLibrary returns an empty library on day 0.
func NewLibrary(opts ...Option) *Library {
	l := &Library{
		itemIndex:   make(map[string]int),
		patronIndex: make(map[string]int),
		dailyFine:   DefaultDailyFine,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddItem registers an item. Ids are not checked for uniqueness; lookups
// resolve to the first item registered under an id.
func (l *Library) AddItem(it *Item) {
	l.holdings = append(l.holdings, it)
	if _, ok := l.itemIndex[it.id]; !ok {
		l.itemIndex[it.id] = len(l.holdings) - 1
	}
}

// AddPatron registers a patron. Same id rules as AddItem.
func (l *Library) AddPatron(p *Patron) {
	l.members = append(l.members, p)
	if _, ok := l.patronIndex[p.id]; !ok {
		l.patronIndex[p.id] = len(l.members) - 1
	}
}

func (l *Library) FindItem(id string) (*Item, bool) {
	i, ok := l.itemIndex[id]
	if !ok {
		return nil, false
	}
	return l.holdings[i], true
}

func (l *Library) FindPatron(id string) (*Patron, bool) {
	i, ok := l.patronIndex[id]
	if !ok {
		return nil, false
	}
	return l.members[i], true
}

func (l *Library) CurrentDate() int           { return l.currentDate }
func (l *Library) DailyFine() decimal.Decimal { return l.dailyFine }
func (l *Library) Items() []*Item             { return append([]*Item(nil), l.holdings...) }
func (l *Library) Patrons() []*Patron         { return append([]*Patron(nil), l.members...) }

// CheckOut lends itemID to patronID on the current day.
func (l *Library) CheckOut(patronID, itemID string) Result {
	patron, ok := l.FindPatron(patronID)
	if !ok {
		return PatronNotFound
	}
	item, ok := l.FindItem(itemID)
	if !ok {
		return ItemNotFound
	}
	if item.loan != nil {
		return AlreadyCheckedOut
	}
	if item.requested && item.requestedBy != patron.id {
		return HeldByOther
	}

	item.loan = &Loan{PatronID: patron.id, Day: l.currentDate}
	item.location = CheckedOut
	patron.addItem(item.id)

	// A patron collecting their own hold consumes it.
	if item.requested && item.requestedBy == patron.id {
		item.requested = false
		item.requestedBy = ""
	}
	return Success
}

// ReturnItem puts itemID back on the shelf, or on the hold shelf when a
// request is outstanding. Fines are not settled here; they accrue only
// through AdvanceDate.
func (l *Library) ReturnItem(itemID string) Result {
	item, ok := l.FindItem(itemID)
	if !ok {
		return ItemNotFound
	}
	if item.loan == nil {
		return NotCheckedOut
	}

	if patron, ok := l.FindPatron(item.loan.PatronID); ok {
		patron.removeItem(item.id)
	}
	item.loan = nil
	if item.requested {
		item.location = OnHoldShelf
	} else {
		item.location = OnShelf
	}
	return Success
}

// RequestItem places a hold on itemID for patronID. Only one hold may be
// outstanding per item, including a repeat request by the same patron.
func (l *Library) RequestItem(patronID, itemID string) Result {
	patron, ok := l.FindPatron(patronID)
	if !ok {
		return PatronNotFound
	}
	item, ok := l.FindItem(itemID)
	if !ok {
		return ItemNotFound
	}
	if item.requested {
		return AlreadyOnHold
	}

	item.requested = true
	item.requestedBy = patron.id
	if item.location == OnShelf {
		item.location = OnHoldShelf
	}
	return Success
}

// PayFine reduces the patron's balance by amount, never below zero.
// Overpayment is absorbed; non-positive amounts change nothing.
func (l *Library) PayFine(patronID string, amount decimal.Decimal) Result {
	patron, ok := l.FindPatron(patronID)
	if !ok {
		return PatronNotFound
	}
	if amount.IsPositive() {
		patron.amendFine(amount.Neg())
	}
	return Success
}

// AdvanceDate moves the clock forward one day and posts one daily fine for
// every loan that is now past its checkout period.
func (l *Library) AdvanceDate() {
	l.currentDate++
	for _, od := range l.Overdue() {
		if patron, ok := l.FindPatron(od.PatronID); ok {
			patron.amendFine(l.dailyFine)
		}
	}
}

// OverdueLoan is a loan held past its checkout period.
type OverdueLoan struct {
	PatronID    string
	ItemID      string
	DaysHeld    int
	DaysOverdue int
}

// Overdue lists overdue loans as of the current day, walking patrons in
// registration order and each patron's items in checkout order.
func (l *Library) Overdue() []OverdueLoan {
	var out []OverdueLoan
	for _, patron := range l.members {
		for _, itemID := range patron.items {
			item, ok := l.FindItem(itemID)
			if !ok || item.location != CheckedOut || item.loan == nil {
				continue
			}
			held := l.currentDate - item.loan.Day
			if held > item.CheckoutPeriod() {
				out = append(out, OverdueLoan{
					PatronID:    patron.id,
					ItemID:      item.id,
					DaysHeld:    held,
					DaysOverdue: held - item.CheckoutPeriod(),
				})
			}
		}
	}
	return out
}

// CheckedOutItems returns the items patronID currently holds.
func (l *Library) CheckedOutItems(patronID string) ([]*Item, Result) {
	patron, ok := l.FindPatron(patronID)
	if !ok {
		return nil, PatronNotFound
	}
	items := make([]*Item, 0, len(patron.items))
	for _, id := range patron.items {
		if item, ok := l.FindItem(id); ok {
			items = append(items, item)
		}
	}
	return items, Success
}
