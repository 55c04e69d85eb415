package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kalorikoll/backend/internal/domain"
	"github.com/kalorikoll/backend/internal/usecase"
)

type productLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (*domain.NutrientRecord, error)
}

// session is one terminal run of the scan loop
type session struct {
	in     *bufio.Scanner
	out    io.Writer
	lookup productLookup
	diary  *usecase.DiaryService
}

func newSession(in io.Reader, out io.Writer, lookup productLookup, diary *usecase.DiaryService) *session {
	return &session{in: bufio.NewScanner(in), out: out, lookup: lookup, diary: diary}
}

// ask prints prompt and returns the next trimmed line; ok is false at EOF
func (s *session) ask(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *session) run(ctx context.Context) {
	for {
		code, ok := s.ask("\nScan or type a barcode ('q' to quit): ")
		if !ok || strings.EqualFold(code, "q") {
			return
		}
		if code == "" {
			continue
		}
		if !s.handle(ctx, code) {
			return
		}
	}
}

// handle processes one barcode; false means input ended
func (s *session) handle(ctx context.Context, code string) bool {
	record, err := s.lookup.LookupBarcode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			fmt.Fprintf(s.out, "That does not look like a barcode: %v\n", err)
		} else {
			fmt.Fprintln(s.out, "Could not find the item. Is the barcode correct?")
		}
		return true
	}

	fmt.Fprintf(s.out, "Found: %s\n", record.Name)
	fmt.Fprintf(s.out, "Kcal: %g | P: %g | C: %g | F: %g (per 100 g)\n",
		record.Kcal, record.Protein, record.Carbs, record.Fat)

	answer, ok := s.ask("Save to catalog? (y/n): ")
	if !ok {
		return false
	}
	if strings.EqualFold(answer, "y") {
		if _, err := s.diary.SaveItem(ctx, *record); err != nil {
			fmt.Fprintf(s.out, "Could not save: %v\n", err)
		} else {
			fmt.Fprintln(s.out, "Saved to catalog.")
		}
	}

	return s.logPortion(ctx, *record)
}

func (s *session) logPortion(ctx context.Context, record domain.NutrientRecord) bool {
	grams, ok := s.ask("Grams eaten (blank to skip): ")
	if !ok {
		return false
	}
	if grams == "" {
		return true
	}

	meal, ok := s.ask("Meal (breakfast/lunch/dinner/snack): ")
	if !ok {
		return false
	}
	cost, ok := s.ask("Cost (blank for 0): ")
	if !ok {
		return false
	}

	entry, err := s.diary.LogEntry(ctx, usecase.LogRequest{
		Record:    record,
		QuantityG: domain.ParseNumber(grams),
		Meal:      meal,
		Cost:      domain.ParseNumber(cost),
	})
	if err != nil {
		fmt.Fprintf(s.out, "Could not log: %v\n", err)
		return true
	}
	fmt.Fprintf(s.out, "Logged %g g %s: %g kcal\n", entry.QuantityG, entry.Item, entry.Kcal)

	s.printSummary(ctx)
	return true
}

func (s *session) printSummary(ctx context.Context) {
	summary, err := s.diary.Summary(ctx, "", s.diary.DefaultTargets())
	if err != nil {
		return
	}

	t := summary.Totals
	fmt.Fprintf(s.out, "Today: %d kcal | P %d g | C %d g | F %d g | cost %d\n",
		t.Calories, t.Protein, t.Carbs, t.Fat, t.Cost)
	if summary.Deltas != nil {
		d := summary.Deltas
		fmt.Fprintf(s.out, "Left:  %d kcal | P %d g | C %d g | F %d g\n",
			d.Calories, d.Protein, d.Carbs, d.Fat)
	}
	if summary.TargetError != "" {
		fmt.Fprintf(s.out, "Targets: %s\n", summary.TargetError)
	}
	if summary.Warning != "" {
		fmt.Fprintf(s.out, "Warning: %s\n", summary.Warning)
	}
}
