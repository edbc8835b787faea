package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-lending/internal/config"
)

func newTestApp(t *testing.T, journal bool) *app {
	t.Helper()
	a := &app{}
	require.NoError(t, a.open(&config.Config{
		LogLevel:  "error",
		LogFormat: "text",
		DailyFine: decimal.RequireFromString("0.10"),
		Journal:   journal,
	}))
	t.Cleanup(func() { a.close() })
	return a
}

func runScript(t *testing.T, a *app, script string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, a.runShell(strings.NewReader(script), &out, false))
	return out.String()
}

func TestShellCirculation(t *testing.T) {
	a := newTestApp(t, true)
	out := runScript(t, a, `
# Harry borrows a book and keeps it too long
checkout 459786 B1009653
checkout 126453 B1009653
request 126453 B1009653
advance 25
patron 459786
return B1009653
item B1009653
pay 459786 5.00
pay 459786 5.00
history B1009653
`)

	assert.Contains(t, out, "check out successful")
	assert.Contains(t, out, "item already checked out")
	assert.Contains(t, out, "request successful")
	assert.Contains(t, out, "Current date after increment: 25 (4 fine(s) posted)")
	assert.Contains(t, out, "Harry Styles (459786), fine $0.40")
	assert.Contains(t, out, "moved to the hold shelf for 126453")
	assert.Contains(t, out, "Location: ON_HOLD_SHELF")
	assert.Contains(t, out, "payment successful")
	assert.Equal(t, 2, strings.Count(out, "New fine amount: $0.00"))
	assert.Contains(t, out, "fine posted")
}

func TestShellRejections(t *testing.T) {
	a := newTestApp(t, false)
	out := runScript(t, a, `
checkout xyz A888751199729
checkout 459786 999
return 999
return M024543617907
request xyz A888751199729
pay xyz 5
pay 459786 -1
advance zero
checkout onlyone
frobnicate
history
`)

	assert.Contains(t, out, "patron not found")
	assert.Contains(t, out, "item not found")
	assert.Contains(t, out, "item already in library")
	assert.Contains(t, out, "Invalid amount: -1")
	assert.Contains(t, out, "Invalid number of days: zero")
	assert.Contains(t, out, "Usage error: checkout takes 2 argument(s), got 1")
	assert.Contains(t, out, `Unknown command "frobnicate"`)
	assert.Contains(t, out, "circulation journal is disabled")
}

func TestShellStopsAtExit(t *testing.T) {
	a := newTestApp(t, false)
	out := runScript(t, a, "advance\nexit\nadvance\n")
	assert.Equal(t, 1, a.mgr.CurrentDate())
	assert.Contains(t, out, "Current date after increment: 1")
}

func TestShellListings(t *testing.T) {
	a := newTestApp(t, false)
	out := runScript(t, a, "checkout 126453 M024543617907\nadvance 9\nitems\npatrons\noverdue\ndate\n")

	assert.Contains(t, out, "Fight Club")
	assert.Contains(t, out, "director: David Fincher")
	assert.Contains(t, out, "Niall Horan")
	assert.Contains(t, out, "0.20")
	assert.Contains(t, out, "Current date: 9")
	assert.Regexp(t, `126453\s+M024543617907\s+9\s+2`, out)
}

func TestDemo(t *testing.T) {
	a := newTestApp(t, true)
	var out bytes.Buffer
	require.NoError(t, runDemo(a.mgr, &out))

	want := []string{
		"Testing Check Out Library Item:",
		"check out successful",
		"item already checked out",
		"patron not found",
		"item not found",
		"Testing Return Library Item:",
		"return successful",
		"item already in library",
		"Testing Request Library Item:",
		"request successful",
		"item already on hold",
		"Testing Pay Fine:",
		"payment successful",
		"Current date after increment: 5",
	}
	for _, w := range want {
		assert.Contains(t, out.String(), w)
	}

	// only Harry's payment finds a patron
	assert.Equal(t, 1, strings.Count(out.String(), "New fine amount: $0.00"))
	assert.Contains(t, out.String(), "payment successful\nNew fine amount: $0.00\npatron not found\n")
}
