package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/damon-houk/finance-tracker/internal/application/ledger"
	"github.com/damon-houk/finance-tracker/internal/domain/entity"
)

// draftFlags maps command flags onto draft fields
type draftFlags struct {
	values map[ledger.Field]*string
	set    map[ledger.Field]bool
}

// fieldOrder applies the type before the category since a type change clears it
var fieldOrder = []ledger.Field{
	ledger.FieldType,
	ledger.FieldAmount,
	ledger.FieldCategory,
	ledger.FieldDescription,
	ledger.FieldDate,
}

func newDraftFlags(fs *flag.FlagSet) *draftFlags {
	d := &draftFlags{
		values: make(map[ledger.Field]*string),
		set:    make(map[ledger.Field]bool),
	}
	d.values[ledger.FieldType] = fs.String("type", "", "income or expense")
	d.values[ledger.FieldAmount] = fs.String("amount", "", "non-negative amount")
	d.values[ledger.FieldCategory] = fs.String("category", "", "category valid for the type")
	d.values[ledger.FieldDescription] = fs.String("description", "", "free text")
	d.values[ledger.FieldDate] = fs.String("date", "", "date as YYYY-MM-DD")
	return d
}

// parsed records which fields were given on the command line
func (d *draftFlags) parsed(fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		field := ledger.Field(f.Name)
		if _, ok := d.values[field]; ok {
			d.set[field] = true
		}
	})
}

func (d *draftFlags) apply(form *ledger.DraftForm) error {
	for _, field := range fieldOrder {
		if !d.set[field] {
			continue
		}
		if err := form.SetField(field, *d.values[field]); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) list(ctx context.Context, args []string) int {
	fs := a.newFlagSet("list")
	filterArg := fs.String("filter", string(entity.FilterAll), "all, income or expense")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	filter, err := entity.ParseFilter(*filterArg)
	if err != nil {
		fmt.Fprintf(a.errOut, "ledger: %v\n", err)
		return exitUsage
	}

	if err := a.ctrl.SetFilter(ctx, filter); err != nil {
		return a.report(ledger.OpLoad, err)
	}
	a.printTransactions()
	a.printStats()
	return exitOK
}

func (a *app) stats(ctx context.Context, args []string) int {
	fs := a.newFlagSet("stats")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if err := a.ctrl.RefreshAll(ctx, entity.FilterAll); err != nil {
		return a.report(ledger.OpLoad, err)
	}
	a.printStats()
	return exitOK
}

func (a *app) add(ctx context.Context, args []string) int {
	fs := a.newFlagSet("add")
	fields := newDraftFlags(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	fields.parsed(fs)

	form := a.ctrl.Form()
	form.OpenForCreate()
	if err := fields.apply(form); err != nil {
		fmt.Fprintf(a.errOut, "ledger: %v\n", err)
		return exitUsage
	}
	return a.report(ledger.OpCreate, a.ctrl.Submit(ctx))
}

func (a *app) edit(ctx context.Context, args []string) int {
	fs := a.newFlagSet("edit")
	id := fs.String("id", "", "id of the transaction to edit")
	fields := newDraftFlags(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	fields.parsed(fs)
	if *id == "" && fs.NArg() > 0 {
		*id = fs.Arg(0)
	}
	if *id == "" {
		return a.report(ledger.OpUpdate, ledger.ErrMissingID)
	}

	if err := a.ctrl.RefreshAll(ctx, entity.FilterAll); err != nil {
		return a.report(ledger.OpLoad, err)
	}
	tx, ok := a.ctrl.Find(*id)
	if !ok {
		fmt.Fprintf(a.errOut, "Transaction %s not found\n", *id)
		return exitFailure
	}

	form := a.ctrl.Form()
	form.OpenForEdit(tx)
	if err := fields.apply(form); err != nil {
		fmt.Fprintf(a.errOut, "ledger: %v\n", err)
		return exitUsage
	}
	return a.report(ledger.OpUpdate, a.ctrl.Submit(ctx))
}

func (a *app) remove(ctx context.Context, args []string) int {
	fs := a.newFlagSet("rm")
	id := fs.String("id", "", "id of the transaction to delete")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *id == "" && fs.NArg() > 0 {
		*id = fs.Arg(0)
	}
	a.assumeYes = *yes

	return a.removeID(ctx, *id)
}

func (a *app) removeID(ctx context.Context, id string) int {
	removed, err := a.ctrl.Remove(ctx, id)
	if err != nil {
		return a.report(ledger.OpRemove, err)
	}
	if !removed {
		fmt.Fprintln(a.out, "Deletion cancelled")
		return exitOK
	}
	return a.report(ledger.OpRemove, nil)
}

func (a *app) categories(args []string) int {
	fs := a.newFlagSet("categories")
	typeArg := fs.String("type", "", "income or expense; both when empty")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	types := []entity.TransactionType{entity.TypeIncome, entity.TypeExpense}
	if *typeArg != "" {
		t, err := entity.ParseTransactionType(*typeArg)
		if err != nil {
			fmt.Fprintf(a.errOut, "ledger: %v\n", err)
			return exitUsage
		}
		types = []entity.TransactionType{t}
	}
	for _, t := range types {
		fmt.Fprintf(a.out, "%s: %s\n", t, strings.Join(entity.Categories(t), ", "))
	}
	return exitOK
}

func (a *app) printTransactions() {
	txs := a.ctrl.Transactions()
	if len(txs) == 0 {
		fmt.Fprintln(a.out, "No transactions")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Type, tx.Category, tx.Amount.StringFixed(2), tx.Description)
	}
	w.Flush()
}

func (a *app) printStats() {
	s := a.ctrl.Stats()
	fmt.Fprintf(a.out, "Income: %s  Expense: %s  Balance: %s\n",
		s.Income.StringFixed(2), s.Expense.StringFixed(2), s.Balance.StringFixed(2))
}

func (a *app) printDraft() {
	snap := a.ctrl.Snapshot()
	if !snap.FormOpen {
		fmt.Fprintln(a.out, "No draft open; use new or edit <id>")
		return
	}
	mode := "new transaction"
	if snap.EditingID != "" {
		mode = "editing " + snap.EditingID
	}
	d := snap.Draft
	fmt.Fprintf(a.out, "Draft (%s)\n  type: %s\n  amount: %s\n  category: %s\n  description: %s\n  date: %s\n",
		mode, d.Type, d.Amount, d.Category, d.Description, d.Date)
	if err := d.Validate(); err != nil {
		fmt.Fprintf(a.out, "  invalid: %v\n", err)
	}
}
