package library

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Location is where an item physically sits.
type Location int

const (
	OnShelf Location = iota
	OnHoldShelf
	CheckedOut
)

func (l Location) String() string {
	switch l {
	case OnShelf:
		return "ON_SHELF"
	case OnHoldShelf:
		return "ON_HOLD_SHELF"
	case CheckedOut:
		return "CHECKED_OUT"
	default:
		return fmt.Sprintf("Location(%d)", int(l))
	}
}

// Category tags the kind of lending unit.
type Category string

const (
	Book  Category = "book"
	Album Category = "album"
	Movie Category = "movie"
)

// CheckoutPeriod is the number of days an item of category c may be kept
// before it starts accruing fines.
func CheckoutPeriod(c Category) int {
	switch c {
	case Book:
		return 21
	case Album:
		return 14
	case Movie:
		return 7
	default:
		return 0
	}
}

// CreatorLabel names the creator attribute for a category.
func CreatorLabel(c Category) string {
	switch c {
	case Book:
		return "author"
	case Album:
		return "artist"
	case Movie:
		return "director"
	default:
		return "creator"
	}
}

// Loan records who has an item and since which library day.
type Loan struct {
	PatronID string
	Day      int
}

// Item is a single lending unit in the library's holdings.
// The relationship fields hold patron ids, never patron pointers.
type Item struct {
	id       string
	title    string
	category Category
	creator  string

	location    Location
	loan        *Loan
	requestedBy string
	requested   bool
}

// NewBook creates a book written by author.
func NewBook(id, title, author string) *Item { return newItem(id, title, Book, author) }

// NewAlbum creates an album recorded by artist.
func NewAlbum(id, title, artist string) *Item { return newItem(id, title, Album, artist) }

// NewMovie creates a movie made by director.
func NewMovie(id, title, director string) *Item { return newItem(id, title, Movie, director) }

// NewItem creates an item of the given category.
func NewItem(id, title string, c Category, creator string) *Item {
	return newItem(id, title, c, creator)
}

func newItem(id, title string, c Category, creator string) *Item {
	return &Item{id: id, title: title, category: c, creator: creator, location: OnShelf}
}

func (it *Item) ID() string           { return it.id }
func (it *Item) Title() string        { return it.title }
func (it *Item) Category() Category   { return it.category }
func (it *Item) Creator() string      { return it.creator }
func (it *Item) Location() Location   { return it.location }
func (it *Item) CheckoutPeriod() int  { return CheckoutPeriod(it.category) }
func (it *Item) IsCheckedOut() bool   { return it.loan != nil }
func (it *Item) HasRequest() bool     { return it.requested }
func (it *Item) Author() string       { return it.creatorFor(Book) }
func (it *Item) Artist() string       { return it.creatorFor(Album) }
func (it *Item) Director() string     { return it.creatorFor(Movie) }
func (it *Item) creatorLabel() string { return CreatorLabel(it.category) }

func (it *Item) creatorFor(c Category) string {
	if it.category != c {
		return ""
	}
	return it.creator
}

// CheckedOutBy returns the id of the patron holding the item.
func (it *Item) CheckedOutBy() (string, bool) {
	if it.loan == nil {
		return "", false
	}
	return it.loan.PatronID, true
}

// DateCheckedOut returns the library day the current loan started.
func (it *Item) DateCheckedOut() (int, bool) {
	if it.loan == nil {
		return 0, false
	}
	return it.loan.Day, true
}

// RequestedBy returns the id of the patron with an outstanding hold.
func (it *Item) RequestedBy() (string, bool) {
	return it.requestedBy, it.requested
}

// clone returns a detached copy that later circulation does not touch.
func (it *Item) clone() *Item {
	c := *it
	if it.loan != nil {
		loan := *it.loan
		c.loan = &loan
	}
	return &c
}

// Patron is a library member.
type Patron struct {
	id    string
	name  string
	items []string
	fine  decimal.Decimal
}

// NewPatron creates a patron with no loans and no fines.
func NewPatron(id, name string) *Patron {
	return &Patron{id: id, name: name}
}

func (p *Patron) ID() string   { return p.id }
func (p *Patron) Name() string { return p.name }

// FineBalance is the outstanding fine rounded to cents.
func (p *Patron) FineBalance() decimal.Decimal { return p.fine.Round(2) }

// CheckedOutItemIDs returns the ids of the items the patron holds, in
// checkout order.
func (p *Patron) CheckedOutItemIDs() []string {
	out := make([]string, len(p.items))
	copy(out, p.items)
	return out
}

func (p *Patron) clone() *Patron {
	c := *p
	c.items = p.CheckedOutItemIDs()
	return &c
}

func (p *Patron) hasItem(itemID string) bool {
	for _, id := range p.items {
		if id == itemID {
			return true
		}
	}
	return false
}

func (p *Patron) addItem(itemID string) {
	if p.hasItem(itemID) {
		return
	}
	p.items = append(p.items, itemID)
}

func (p *Patron) removeItem(itemID string) {
	for i, id := range p.items {
		if id == itemID {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return
		}
	}
}

// amendFine adds amount (which may be negative) and clamps at zero.
func (p *Patron) amendFine(amount decimal.Decimal) {
	p.fine = p.fine.Add(amount)
	if p.fine.IsNegative() {
		p.fine = decimal.Zero
	}
}
