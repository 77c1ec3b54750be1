package nav

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ledgerlift/statex/internal/workbook"
)

// Master workbook sheets read by Fetch.
const (
	SheetFunds        = "Mutual Fund"
	SheetTransactions = "Mutual Fund Transaction"
)

// Fund is one holding listed on the Mutual Fund sheet.
type Fund struct {
	ISIN       string
	AMFICode   string
	FundName   string
	SchemeName string
	FolioNo    string
}

// FileName is <ISIN>-<Fund Name>-<Scheme Name>.xlsx with slashes replaced.
func (f Fund) FileName() string {
	return strings.ReplaceAll(fmt.Sprintf("%s-%s-%s.xlsx", f.ISIN, f.FundName, f.SchemeName), "/", "-")
}

func (f Fund) key() string {
	return f.FundName + "\x1f" + f.SchemeName + "\x1f" + f.FolioNo
}

// Source returns the NAV history of a scheme code.
type Source interface {
	History(ctx context.Context, code string) ([]Point, error)
}

// Options configures Fetch.
type Options struct {
	Workbook     string
	OutputFolder string
	Source       Source
	Concurrency  int
	Logger       logrus.FieldLogger
}

// Result counts what Fetch did per fund.
type Result struct {
	Funds     int
	Skipped   int
	Unchanged int
	Updated   int
	Failed    int
	Rows      int
}

// Fetch brings every fund history in the output folder up to date. A fund
// that fails is logged and counted; the others still run.
func Fetch(ctx context.Context, opts Options) (Result, error) {
	var res Result
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	sheets, err := workbook.ReadSheets(opts.Workbook, SheetFunds, SheetTransactions)
	if err != nil {
		return res, err
	}
	funds, ok := sheets[SheetFunds]
	if !ok {
		return res, fmt.Errorf("sheet %q not found in %s", SheetFunds, opts.Workbook)
	}
	first := FirstTransactions(sheets[SheetTransactions])

	var mu sync.Mutex
	count := func(f func(*Result)) {
		mu.Lock()
		defer mu.Unlock()
		f(&res)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))
	for _, fund := range ReadFunds(funds) {
		count(func(r *Result) { r.Funds++ })
		since, ok := first[fund.key()]
		if !ok {
			count(func(r *Result) { r.Skipped++ })
			log.WithField("fund", fund.FileName()).Debug("no transactions, skipping")
			continue
		}
		fund := fund
		g.Go(func() error {
			flog := log.WithFields(logrus.Fields{"isin": fund.ISIN, "amfi_code": fund.AMFICode})
			added, err := update(gctx, opts, fund, since)
			if err != nil {
				flog.WithError(err).Error("NAV update failed")
				count(func(r *Result) { r.Failed++ })
				return nil
			}
			if added == 0 {
				flog.Info("no new NAV rows")
				count(func(r *Result) { r.Unchanged++ })
				return nil
			}
			flog.WithField("rows", added).Info("NAV history updated")
			count(func(r *Result) { r.Updated++; r.Rows += added })
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, ctx.Err()
}

func update(ctx context.Context, opts Options, fund Fund, since time.Time) (int, error) {
	if fund.AMFICode == "" {
		return 0, fmt.Errorf("fund %s has no AMFI code", fund.FileName())
	}
	path := filepath.Join(opts.OutputFolder, fund.FileName())
	existing, err := ReadHistory(path)
	if err != nil {
		return 0, err
	}

	points, err := opts.Source.History(ctx, fund.AMFICode)
	if err != nil {
		return 0, err
	}
	last, hasHistory := LastDate(existing)
	points = Delta(points, last, hasHistory, since)
	if len(points) == 0 {
		return 0, nil
	}

	incoming := make([]Row, len(points))
	for i, p := range points {
		incoming[i] = Row{Fund: fund, Date: p.Date, NAV: p.NAV}
	}
	if err := WriteHistory(path, Merge(existing, incoming)); err != nil {
		return 0, fmt.Errorf("writing %s: %w", fund.FileName(), err)
	}
	return len(incoming), nil
}

// ReadFunds reads the Mutual Fund sheet. Rows without an ISIN are dropped.
func ReadFunds(t *workbook.Table) []Fund {
	var out []Fund
	for _, r := range t.Rows {
		f := Fund{
			ISIN:       strings.TrimSpace(t.Get(r, "ISIN")),
			AMFICode:   strings.TrimSpace(t.Get(r, "AMFI Code")),
			FundName:   t.Get(r, "Fund Name"),
			SchemeName: t.Get(r, "Scheme Name"),
			FolioNo:    t.Get(r, "Folio No"),
		}
		if f.ISIN == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FirstTransactions maps each (Fund Name, Scheme Name, Folio No) to its
// earliest transaction Date. A nil table has no transactions.
func FirstTransactions(t *workbook.Table) map[string]time.Time {
	out := make(map[string]time.Time)
	if t == nil {
		return out
	}
	for _, r := range t.Rows {
		d, ok := workbook.ParseDate(t.Get(r, "Date"))
		if !ok {
			continue
		}
		k := Fund{FundName: t.Get(r, "Fund Name"), SchemeName: t.Get(r, "Scheme Name"), FolioNo: t.Get(r, "Folio No")}.key()
		if cur, ok := out[k]; !ok || d.Before(cur) {
			out[k] = d
		}
	}
	return out
}
