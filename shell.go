package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"library-lending/library"
)

const helpText = `Available commands:
  Circulation: checkout PATRON ITEM, return ITEM, request PATRON ITEM
  Fines:       pay PATRON AMOUNT, overdue
  Calendar:    advance [DAYS], date
  Catalog:     items, patrons, item ITEM, patron PATRON
  Journal:     history [ITEM|PATRON]
  System:      help, exit`

func (a *app) runShell(in io.Reader, out io.Writer, interactive bool) error {
	sh := &shell{mgr: a.mgr, out: out}
	scanner := bufio.NewScanner(in)

	if interactive {
		fmt.Fprintln(out, "Welcome to the library circulation desk!")
		fmt.Fprintln(out, helpText)
	}
	for {
		if interactive {
			fmt.Fprint(out, "\n> ")
		}
		if !scanner.Scan() {
			break
		}
		if quit := sh.exec(scanner.Text()); quit {
			if interactive {
				fmt.Fprintln(out, "Goodbye!")
			}
			return nil
		}
	}
	return scanner.Err()
}

type shell struct {
	mgr *library.LibraryManager
	out io.Writer
}

func (s *shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// exec runs one command line and reports whether the session should end.
func (s *shell) exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "checkout":
		if s.needArgs(cmd, args, 2) {
			s.handleCheckout(args[0], args[1])
		}
	case "return":
		if s.needArgs(cmd, args, 1) {
			s.handleReturn(args[0])
		}
	case "request":
		if s.needArgs(cmd, args, 2) {
			s.handleRequest(args[0], args[1])
		}
	case "pay":
		if s.needArgs(cmd, args, 2) {
			s.handlePay(args[0], args[1])
		}
	case "advance":
		s.handleAdvance(args)
	case "date":
		s.printf("Current date: %d\n", s.mgr.CurrentDate())
	case "items":
		s.handleListItems()
	case "patrons":
		s.handleListPatrons()
	case "item":
		if s.needArgs(cmd, args, 1) {
			s.handleShowItem(args[0])
		}
	case "patron":
		if s.needArgs(cmd, args, 1) {
			s.handleShowPatron(args[0])
		}
	case "overdue":
		s.handleOverdue()
	case "history":
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		s.handleHistory(id)
	case "help":
		s.printf("%s\n", helpText)
	case "exit", "quit":
		return true
	default:
		s.printf("Unknown command %q. Type 'help' for the list of commands.\n", cmd)
	}
	return false
}

func (s *shell) needArgs(cmd string, args []string, n int) bool {
	if len(args) != n {
		s.printf("Usage error: %s takes %d argument(s), got %d\n", cmd, n, len(args))
		return false
	}
	return true
}

func (s *shell) handleCheckout(patronID, itemID string) {
	r, err := s.mgr.CheckOut(patronID, itemID)
	s.report(library.OpCheckOut, r, err)
}

func (s *shell) handleReturn(itemID string) {
	r, holder, err := s.mgr.ReturnItem(itemID)
	s.report(library.OpReturn, r, err)
	if !r.OK() {
		return
	}
	if it, ok := s.mgr.GetItem(itemID); ok && it.Location() == library.OnHoldShelf {
		requester, _ := it.RequestedBy()
		s.printf("Item '%s' returned by %s and moved to the hold shelf for %s\n", it.Title(), holder, requester)
	}
}

func (s *shell) handleRequest(patronID, itemID string) {
	r, err := s.mgr.RequestItem(patronID, itemID)
	s.report(library.OpRequest, r, err)
}

func (s *shell) handlePay(patronID, raw string) {
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		s.printf("Invalid amount: %s\n", raw)
		return
	}
	r, err := s.mgr.PayFine(patronID, amount)
	s.report(library.OpPayFine, r, err)
	if balance, ok := s.mgr.FineBalance(patronID); ok {
		s.printf("New fine amount: $%s\n", balance.StringFixed(2))
	}
}

func (s *shell) handleAdvance(args []string) {
	days := 1
	if len(args) > 1 {
		s.printf("Usage error: advance takes at most 1 argument, got %d\n", len(args))
		return
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			s.printf("Invalid number of days: %s\n", args[0])
			return
		}
		days = n
	}
	fined, err := s.mgr.AdvanceDays(days)
	if err != nil {
		s.printf("Warning: journal not updated: %v\n", err)
	}
	s.printf("Current date after increment: %d (%d fine(s) posted)\n", s.mgr.CurrentDate(), len(fined))
}

func (s *shell) handleListItems() {
	items := s.mgr.GetAllItems()
	if len(items) == 0 {
		s.printf("No items in library.\n")
		return
	}
	s.printf("%-15s %-6s %-30s %-30s %-14s %-10s %-10s\n", "ID", "Type", "Title", "Creator", "Location", "Borrower", "Hold")
	s.printf("%s\n", strings.Repeat("-", 125))
	for _, it := range items {
		s.printf("%s\n", library.PrettyItem(it))
	}
}

func (s *shell) handleListPatrons() {
	patrons := s.mgr.GetAllPatrons()
	if len(patrons) == 0 {
		s.printf("No patrons registered.\n")
		return
	}
	s.printf("%-10s %-25s %8s  %s\n", "ID", "Name", "Fine", "Checked out")
	s.printf("%s\n", strings.Repeat("-", 70))
	for _, p := range patrons {
		s.printf("%s\n", library.PrettyPatron(p))
	}
}

func (s *shell) handleShowItem(itemID string) {
	it, ok := s.mgr.GetItem(itemID)
	if !ok {
		s.printf("%s\n", library.ItemNotFound)
		return
	}
	s.printf("%s (%s) %s: %s\n", it.Title(), it.Category(), library.CreatorLabel(it.Category()), it.Creator())
	s.printf("Location: %s, loan period %d days\n", it.Location(), it.CheckoutPeriod())
	if holder, ok := it.CheckedOutBy(); ok {
		day, _ := it.DateCheckedOut()
		s.printf("Checked out by %s on day %d\n", holder, day)
	}
	if requester, ok := it.RequestedBy(); ok {
		s.printf("Requested by %s\n", requester)
	}
}

func (s *shell) handleShowPatron(patronID string) {
	p, ok := s.mgr.GetPatron(patronID)
	if !ok {
		s.printf("%s\n", library.PatronNotFound)
		return
	}
	s.printf("%s (%s), fine $%s\n", p.Name(), p.ID(), p.FineBalance().StringFixed(2))
	items, _ := s.mgr.CheckedOutItems(patronID)
	if len(items) == 0 {
		s.printf("No items checked out.\n")
		return
	}
	for _, it := range items {
		day, _ := it.DateCheckedOut()
		s.printf("  %-15s %-30s since day %d\n", it.ID(), library.Truncate(it.Title(), 30), day)
	}
}

func (s *shell) handleOverdue() {
	loans := s.mgr.Overdue()
	if len(loans) == 0 {
		s.printf("No overdue items.\n")
		return
	}
	s.printf("%-10s %-15s %-10s %s\n", "Patron", "Item", "Held", "Overdue")
	for _, od := range loans {
		s.printf("%-10s %-15s %-10d %d\n", od.PatronID, od.ItemID, od.DaysHeld, od.DaysOverdue)
	}
}

func (s *shell) handleHistory(id string) {
	entries, err := s.mgr.History(id)
	if err != nil {
		s.printf("Error: %v\n", err)
		return
	}
	if len(entries) == 0 {
		s.printf("No history recorded.\n")
		return
	}
	s.printf("%-5s %-9s %-10s %-15s %-8s %s\n", "Day", "Kind", "Patron", "Item", "Amount", "Result")
	for _, e := range entries {
		s.printf("%s\n", library.PrettyEntry(e))
	}
}

func (s *shell) report(op library.Operation, r library.Result, err error) {
	s.printf("%s\n", library.Describe(op, r))
	if err != nil {
		s.printf("Warning: journal not updated: %v\n", err)
	}
}
