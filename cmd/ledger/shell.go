package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/damon-houk/finance-tracker/internal/application/ledger"
	"github.com/damon-houk/finance-tracker/internal/domain/entity"
)

const shellHelp = `commands:
  list [all|income|expense]   reload and show transactions
  stats                       show totals
  new                         open a draft for a new transaction
  edit <id>                   open a draft for an existing transaction
  set <field> <value>         set type, amount, category, description or date
  show                        show the draft
  submit                      send the draft
  cancel                      discard the draft
  rm <id>                     delete a transaction
  quit
`

// shell reads commands line by line until quit or end of input
func (a *app) shell(ctx context.Context) int {
	if err := a.ctrl.RefreshAll(ctx, entity.FilterAll); err != nil {
		fmt.Fprintln(a.errOut, ledger.Notice(ledger.OpLoad, err))
	}

	for {
		fmt.Fprint(a.out, "> ")
		line, err := a.in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if quit := a.exec(ctx, line); quit {
				return exitOK
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(a.errOut, "ledger: %v\n", err)
				return exitFailure
			}
			fmt.Fprintln(a.out)
			return exitOK
		}
		if ctx.Err() != nil {
			return exitOK
		}
	}
}

// exec runs one shell command and reports whether the session should end
func (a *app) exec(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprint(a.out, shellHelp)
	case "list":
		filter := a.ctrl.Filter()
		if rest != "" {
			f, err := entity.ParseFilter(rest)
			if err != nil {
				fmt.Fprintln(a.errOut, err)
				return false
			}
			filter = f
		}
		if err := a.ctrl.SetFilter(ctx, filter); err != nil {
			fmt.Fprintln(a.errOut, ledger.Notice(ledger.OpLoad, err))
			return false
		}
		a.printTransactions()
		a.printStats()
	case "stats":
		a.printStats()
	case "new":
		a.ctrl.Form().OpenForCreate()
		a.printDraft()
	case "edit":
		tx, ok := a.ctrl.Find(rest)
		if !ok {
			fmt.Fprintf(a.errOut, "Transaction %s not found\n", rest)
			return false
		}
		a.ctrl.Form().OpenForEdit(tx)
		a.printDraft()
	case "set":
		if !a.ctrl.Form().IsOpen() {
			fmt.Fprintln(a.errOut, "No draft open; use new or edit <id>")
			return false
		}
		field, value, _ := strings.Cut(rest, " ")
		if err := a.ctrl.Form().SetField(ledger.Field(field), strings.TrimSpace(value)); err != nil {
			fmt.Fprintln(a.errOut, err)
		}
	case "show":
		a.printDraft()
	case "submit":
		if !a.ctrl.Form().IsOpen() {
			fmt.Fprintln(a.errOut, "No draft open; use new or edit <id>")
			return false
		}
		op := ledger.OpCreate
		if _, editing := a.ctrl.Form().EditingID(); editing {
			op = ledger.OpUpdate
		}
		a.report(op, a.ctrl.Submit(ctx))
	case "cancel":
		a.ctrl.Cancel()
	case "rm":
		a.removeID(ctx, rest)
	default:
		fmt.Fprintf(a.errOut, "unknown command %q; try help\n", cmd)
	}
	return false
}
