package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"library-lending/library"
)

// runDemo walks the default catalog through one of every circulation call.
// It expects the built-in seed; other seeds simply report "not found".
func runDemo(mgr *library.LibraryManager, out io.Writer) error {
	checkout := func(patronID, itemID string) error {
		r, err := mgr.CheckOut(patronID, itemID)
		fmt.Fprintln(out, library.Describe(library.OpCheckOut, r))
		return err
	}
	giveBack := func(itemID string) error {
		r, _, err := mgr.ReturnItem(itemID)
		fmt.Fprintln(out, library.Describe(library.OpReturn, r))
		return err
	}
	request := func(patronID, itemID string) error {
		r, err := mgr.RequestItem(patronID, itemID)
		fmt.Fprintln(out, library.Describe(library.OpRequest, r))
		return err
	}
	pay := func(patronID string, amount decimal.Decimal) error {
		r, err := mgr.PayFine(patronID, amount)
		fmt.Fprintln(out, library.Describe(library.OpPayFine, r))
		if balance, ok := mgr.FineBalance(patronID); ok {
			fmt.Fprintf(out, "New fine amount: $%s\n", balance.StringFixed(2))
		}
		return err
	}

	steps := []struct {
		title string
		run   []func() error
	}{
		{"Testing Check Out Library Item:", []func() error{
			func() error { return checkout("126453", "A888751199729") },
			func() error { return checkout("126453", "B1009653") },
			func() error { return checkout("459786", "B1009653") },
			func() error { return checkout("xyz", "A888751199729") },
			func() error { return checkout("459786", "999") },
		}},
		{"Testing Return Library Item:", []func() error{
			func() error { return giveBack("A888751199729") },
			func() error { return giveBack("999") },
			func() error { return giveBack("M024543617907") },
		}},
		{"Testing Request Library Item:", []func() error{
			func() error { return request("459786", "A888751199729") },
			func() error { return request("126453", "A888751199729") },
			func() error { return request("xyz", "A888751199729") },
			func() error { return request("459786", "999") },
		}},
		{"Testing Pay Fine:", []func() error{
			func() error { return pay("459786", decimal.NewFromInt(5)) },
			func() error { return pay("xyz", decimal.NewFromInt(5)) },
		}},
	}

	for _, step := range steps {
		fmt.Fprintf(out, "\n%s\n", step.title)
		for _, run := range step.run {
			if err := run(); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(out, "\nTesting Increment Current Date:\n")
	if _, err := mgr.AdvanceDays(5); err != nil {
		return err
	}
	fmt.Fprintf(out, "Current date after increment: %d\n", mgr.CurrentDate())
	return nil
}
