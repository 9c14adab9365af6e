package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/erickpeirson/congress/internal/bulkdata"
	"github.com/erickpeirson/congress/internal/store"
)

// BillStatusFilename is the bulk-data file name the processor looks for
// inside each bill directory.
const BillStatusFilename = "fdsys_billstatus.xml"

// forceListElements are the bulk-data elements that must always decode
// as lists regardless of cardinality.
var forceListElements = []string{"item", "amendment", "committeeReport"}

// ProcessOptions control one batch run.
type ProcessOptions struct {
	DataDir    string
	BillID     string   // process a single bill instead of scanning
	Congresses []string // restrict the scan to these congresses
	Limit      int
	Force      bool // reprocess even when the bulk file is unchanged
	GovTrack   bool // render legacy numeric legislator ids
	Amendments bool // cascade into each bill's amendments
	IDs        *LegislatorIDs
}

// ProcessStats tracks batch statistics.
type ProcessStats struct {
	Total      int
	Processed  int
	Failed     int
	Amendments int
}

// Processor re-derives the canonical record for every changed bill on
// disk and writes the data.json and data.xml artifacts next to the bulk
// file. Records are independent: one record's failure is logged and
// counted, and the batch continues.
type Processor struct {
	opts      ProcessOptions
	records   *store.RecordStore // nil runs artifact-only
	logger    *log.Logger
	errLogger *log.Logger
}

// NewProcessor creates a Processor. records may be nil to skip status
// persistence.
func NewProcessor(opts ProcessOptions, records *store.RecordStore) *Processor {
	return &Processor{
		opts:      opts,
		records:   records,
		logger:    log.New(os.Stdout, "", log.LstdFlags),
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

var billIDRe = regexp.MustCompile(`^([a-z]+)(\d+)-(\d+)$`)

// SplitBillID splits a composite id like "hr1234-113" into its type,
// number, and congress. Amendment ids share the format.
func SplitBillID(billID string) (billType, number, congress string, err error) {
	m := billIDRe.FindStringSubmatch(billID)
	if m == nil {
		return "", "", "", fmt.Errorf("malformed bill id %q", billID)
	}
	return m[1], m[2], m[3], nil
}

// Run executes one batch over the data directory.
func (p *Processor) Run(ctx context.Context) (*ProcessStats, error) {
	stats := &ProcessStats{}

	var billIDs []string
	if p.opts.BillID != "" {
		billIDs = []string{p.opts.BillID}
	} else {
		ids, err := p.billsToProcess()
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			p.logger.Println("No bills changed.")
			return stats, nil
		}
		billIDs = ids
	}

	if p.opts.Limit > 0 && len(billIDs) > p.opts.Limit {
		billIDs = billIDs[:p.opts.Limit]
	}
	stats.Total = len(billIDs)

	for idx, billID := range billIDs {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		p.logger.Printf("[%d/%d] Processing %s...", idx+1, stats.Total, billID)
		if err := p.ProcessBill(ctx, billID, stats); err != nil {
			p.errLogger.Printf("Failed to process %s: %v", billID, err)
			stats.Failed++
			continue
		}
		stats.Processed++
	}

	return stats, nil
}

// billsToProcess scans the data directory for bills whose bulk file has
// changed since the last run, in stable (congress, type, number) order.
func (p *Processor) billsToProcess() ([]string, error) {
	congresses := p.opts.Congresses
	if len(congresses) == 0 {
		entries, err := os.ReadDir(p.opts.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read data directory: %w", err)
		}
		for _, entry := range entries {
			if _, err := strconv.Atoi(entry.Name()); err == nil {
				congresses = append(congresses, entry.Name())
			}
		}
	}
	sort.Slice(congresses, func(i, j int) bool {
		a, _ := strconv.Atoi(congresses[i])
		b, _ := strconv.Atoi(congresses[j])
		return a < b
	})

	var billIDs []string
	for _, congress := range congresses {
		billTypes, err := sortedDirNames(filepath.Join(p.opts.DataDir, congress, "bills"))
		if err != nil {
			continue // congress directory without bills
		}
		for _, billType := range billTypes {
			typeDir := filepath.Join(p.opts.DataDir, congress, "bills", billType)
			bills, err := sortedDirNames(typeDir)
			if err != nil {
				continue
			}
			sort.Slice(bills, func(i, j int) bool {
				a, _ := strconv.Atoi(strings.TrimPrefix(bills[i], billType))
				b, _ := strconv.Atoi(strings.TrimPrefix(bills[j], billType))
				return a < b
			})

			for _, bill := range bills {
				billDir := filepath.Join(typeDir, bill)
				fn := filepath.Join(billDir, BillStatusFilename)
				if _, err := os.Stat(fn); err != nil {
					continue
				}
				if p.opts.Force || p.changedSinceLastRun(billDir, fn) {
					billIDs = append(billIDs, bill+"-"+congress)
				}
			}
		}
	}
	return billIDs, nil
}

func sortedDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// changedSinceLastRun compares the bulk file's lastmod sidecar against
// the one saved when this bill was last processed.
func (p *Processor) changedSinceLastRun(billDir, fn string) bool {
	bulkLastmod, err := os.ReadFile(lastmodPath(fn))
	if err != nil {
		return true // no sidecar, always process
	}
	parsedLastmod, err := os.ReadFile(filepath.Join(billDir, "data-fromfdsys-lastmod.txt"))
	if err != nil {
		return true
	}
	return string(bulkLastmod) != string(parsedLastmod)
}

func lastmodPath(fn string) string {
	return strings.TrimSuffix(fn, ".xml") + "-lastmod.txt"
}

func (p *Processor) renderOptions() RenderOptions {
	return RenderOptions{GovTrack: p.opts.GovTrack, IDs: p.opts.IDs}
}

// ProcessBill parses one bill's bulk file, re-derives the canonical
// record, writes both artifacts, cascades into amendments, and marks the
// bulk file processed.
func (p *Processor) ProcessBill(ctx context.Context, billID string, stats *ProcessStats) error {
	billType, number, congress, err := SplitBillID(billID)
	if err != nil {
		return err
	}
	billDir := filepath.Join(p.opts.DataDir, congress, "bills", billType, billType+number)
	fn := filepath.Join(billDir, BillStatusFilename)

	f, err := os.Open(fn)
	if err != nil {
		return fmt.Errorf("failed to open bulk file: %w", err)
	}
	root, err := bulkdata.Parse(f, forceListElements...)
	f.Close()
	if err != nil {
		return err
	}

	bill, err := BillFrom(root)
	if err != nil {
		return err
	}

	jsonOut, err := BillJSON(bill)
	if err != nil {
		return fmt.Errorf("failed to render JSON for %s: %w", billID, err)
	}
	xmlOut, err := BillXML(bill, p.renderOptions())
	if err != nil {
		return fmt.Errorf("failed to render XML for %s: %w", billID, err)
	}
	if err := os.WriteFile(filepath.Join(billDir, "data.json"), jsonOut, 0o644); err != nil {
		return fmt.Errorf("failed to write data.json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(billDir, "data.xml"), xmlOut, 0o644); err != nil {
		return fmt.Errorf("failed to write data.xml: %w", err)
	}

	if p.opts.Amendments {
		p.processAmendments(ctx, billID, root, stats)
	}

	// Mark the bulk file processed by saving its lastmod under the
	// processed name.
	if lastmod, err := os.ReadFile(lastmodPath(fn)); err == nil {
		if err := os.WriteFile(filepath.Join(billDir, "data-fromfdsys-lastmod.txt"), lastmod, 0o644); err != nil {
			return fmt.Errorf("failed to write lastmod marker: %w", err)
		}
	}

	if p.records != nil {
		record := &store.Record{
			RecordID:   bill.BillID,
			RecordType: bill.BillType,
			Congress:   bill.Congress,
			Number:     bill.Number,
			Status:     string(bill.Status),
			StatusAt:   bill.StatusAt,
			UpdatedAt:  bill.UpdatedAt,
		}
		if err := p.records.Upsert(ctx, record); err != nil {
			return fmt.Errorf("failed to record status for %s: %w", billID, err)
		}
	}

	return nil
}

// processAmendments cascades into each amendment carried in the bill's
// bulk data. A single amendment's failure does not fail the bill.
func (p *Processor) processAmendments(ctx context.Context, billID string, root *bulkdata.Node, stats *ProcessStats) {
	for _, node := range root.List("billStatus", "bill", "amendments", "amendment") {
		if err := p.processAmendment(ctx, node); err != nil {
			p.errLogger.Printf("[%s] Failed to process amendment: %v", billID, err)
			stats.Failed++
			continue
		}
		stats.Amendments++
	}
}

func (p *Processor) processAmendment(ctx context.Context, node *bulkdata.Node) error {
	amdt, err := AmendmentFrom(node)
	if err != nil {
		return err
	}

	dir := filepath.Join(p.opts.DataDir, amdt.Congress, "amendments", amdt.AmendmentType,
		amdt.AmendmentType+strconv.Itoa(amdt.Number))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create amendment directory: %w", err)
	}

	jsonOut, err := AmendmentJSON(amdt)
	if err != nil {
		return fmt.Errorf("failed to render JSON for %s: %w", amdt.AmendmentID, err)
	}
	xmlOut, err := AmendmentXML(amdt, p.renderOptions())
	if err != nil {
		return fmt.Errorf("failed to render XML for %s: %w", amdt.AmendmentID, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data.json"), jsonOut, 0o644); err != nil {
		return fmt.Errorf("failed to write data.json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data.xml"), xmlOut, 0o644); err != nil {
		return fmt.Errorf("failed to write data.xml: %w", err)
	}

	if p.records != nil {
		record := &store.Record{
			RecordID:   amdt.AmendmentID,
			RecordType: amdt.AmendmentType,
			Congress:   amdt.Congress,
			Number:     strconv.Itoa(amdt.Number),
			Status:     string(amdt.Status),
			StatusAt:   amdt.StatusAt,
			UpdatedAt:  amdt.UpdatedAt,
		}
		if err := p.records.Upsert(ctx, record); err != nil {
			return fmt.Errorf("failed to record status for %s: %w", amdt.AmendmentID, err)
		}
	}

	return nil
}

// PrintSummary prints the batch statistics.
func (p *Processor) PrintSummary(stats *ProcessStats, elapsed time.Duration) {
	p.logger.Println("")
	p.logger.Println("=== Processing Summary ===")
	p.logger.Printf("Total bills:     %d", stats.Total)
	p.logger.Printf("Processed:       %d", stats.Processed)
	p.logger.Printf("Amendments:      %d", stats.Amendments)
	p.logger.Printf("Failed:          %d", stats.Failed)
	p.logger.Printf("Elapsed:         %s", elapsed.Round(time.Millisecond))
}
