package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

const processorFixture = `<?xml version="1.0" encoding="UTF-8"?>
<billStatus>
  <bill>
    <billType>HR</billType>
    <billNumber>10</billNumber>
    <congress>113</congress>
    <introducedDate>2013-03-04</introducedDate>
    <updateDate>2013-07-15T12:00:00Z</updateDate>
    <titles>
      <item>
        <titleType>Official Title as Introduced</titleType>
        <title>To improve things generally.</title>
      </item>
    </titles>
    <sponsors>
      <item>
        <fullName>Rep. Smith, Adam [D-WA-9]</fullName>
        <bioguideId>S000510</bioguideId>
        <state>WA</state>
      </item>
    </sponsors>
    <actions>
      <item>
        <actionDate>2013-03-04</actionDate>
        <text>Introduced in House</text>
        <sourceSystem><name>Library of Congress</name></sourceSystem>
      </item>
      <item>
        <actionDate>2013-03-05</actionDate>
        <text>Referred to the House Committee on the Judiciary.</text>
        <sourceSystem><name>House floor actions</name></sourceSystem>
      </item>
    </actions>
    <amendments>
      <amendment>
        <type>HAMDT</type>
        <number>12</number>
        <congress>113</congress>
        <updateDate>2013-07-01T10:00:00Z</updateDate>
        <submittedDate>2013-06-20</submittedDate>
        <amendedBill>
          <type>HR</type>
          <number>10</number>
          <congress>113</congress>
        </amendedBill>
      </amendment>
    </amendments>
  </bill>
</billStatus>
`

func writeBillFixture(t *testing.T, dataDir, billID, lastmod string) string {
	t.Helper()
	billType, number, congress, err := SplitBillID(billID)
	if err != nil {
		t.Fatalf("split bill id: %v", err)
	}
	billDir := filepath.Join(dataDir, congress, "bills", billType, billType+number)
	if err := os.MkdirAll(billDir, 0o755); err != nil {
		t.Fatalf("create bill directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(billDir, BillStatusFilename), []byte(processorFixture), 0o644); err != nil {
		t.Fatalf("write bulk file: %v", err)
	}
	if lastmod != "" {
		fn := filepath.Join(billDir, "fdsys_billstatus-lastmod.txt")
		if err := os.WriteFile(fn, []byte(lastmod), 0o644); err != nil {
			t.Fatalf("write lastmod sidecar: %v", err)
		}
	}
	return billDir
}

func TestProcessorRunEndToEnd(t *testing.T) {
	dataDir := t.TempDir()
	billDir := writeBillFixture(t, dataDir, "hr10-113", "2013-07-15T12:00:00Z")

	p := NewProcessor(ProcessOptions{DataDir: dataDir, Amendments: true}, nil)
	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Total != 1 || stats.Processed != 1 || stats.Failed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Amendments != 1 {
		t.Fatalf("expected 1 amendment processed, got %d", stats.Amendments)
	}

	for _, name := range []string{"data.json", "data.xml"} {
		if _, err := os.Stat(filepath.Join(billDir, name)); err != nil {
			t.Fatalf("missing bill artifact %s: %v", name, err)
		}
	}

	marker, err := os.ReadFile(filepath.Join(billDir, "data-fromfdsys-lastmod.txt"))
	if err != nil {
		t.Fatalf("missing processed marker: %v", err)
	}
	if string(marker) != "2013-07-15T12:00:00Z" {
		t.Fatalf("unexpected processed marker: %q", marker)
	}

	amdtDir := filepath.Join(dataDir, "113", "amendments", "hamdt", "hamdt12")
	for _, name := range []string{"data.json", "data.xml"} {
		if _, err := os.Stat(filepath.Join(amdtDir, name)); err != nil {
			t.Fatalf("missing amendment artifact %s: %v", name, err)
		}
	}
}

func TestProcessorSkipsUnchangedBills(t *testing.T) {
	dataDir := t.TempDir()
	writeBillFixture(t, dataDir, "hr10-113", "2013-07-15T12:00:00Z")

	p := NewProcessor(ProcessOptions{DataDir: dataDir}, nil)
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("unchanged bill must be skipped, got %+v", stats)
	}
}

func TestProcessorDetectsChangedLastmod(t *testing.T) {
	dataDir := t.TempDir()
	billDir := writeBillFixture(t, dataDir, "hr10-113", "2013-07-15T12:00:00Z")

	p := NewProcessor(ProcessOptions{DataDir: dataDir}, nil)
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	fn := filepath.Join(billDir, "fdsys_billstatus-lastmod.txt")
	if err := os.WriteFile(fn, []byte("2013-08-01T09:00:00Z"), 0o644); err != nil {
		t.Fatalf("update lastmod sidecar: %v", err)
	}

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.Processed != 1 {
		t.Fatalf("changed bill must be reprocessed, got %+v", stats)
	}
}

func TestProcessorForceIsIdempotent(t *testing.T) {
	dataDir := t.TempDir()
	billDir := writeBillFixture(t, dataDir, "hr10-113", "2013-07-15T12:00:00Z")

	p := NewProcessor(ProcessOptions{DataDir: dataDir, Force: true, Amendments: true}, nil)
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(billDir, "data.json"))
	if err != nil {
		t.Fatalf("read first artifact: %v", err)
	}

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(billDir, "data.json"))
	if err != nil {
		t.Fatalf("read second artifact: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatalf("reprocessing an unchanged bulk file produced different bytes")
	}
}

func TestProcessorSingleBill(t *testing.T) {
	dataDir := t.TempDir()
	billDir := writeBillFixture(t, dataDir, "hr10-113", "")

	p := NewProcessor(ProcessOptions{DataDir: dataDir, BillID: "hr10-113"}, nil)
	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Processed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if _, err := os.Stat(filepath.Join(billDir, "data.json")); err != nil {
		t.Fatalf("missing bill artifact: %v", err)
	}
}

func TestProcessorRecordsFailureAndContinues(t *testing.T) {
	dataDir := t.TempDir()

	p := NewProcessor(ProcessOptions{DataDir: dataDir, BillID: "hr999-113"}, nil)
	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Failed != 1 || stats.Processed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestProcessorHonorsCancellation(t *testing.T) {
	dataDir := t.TempDir()
	writeBillFixture(t, dataDir, "hr10-113", "2013-07-15T12:00:00Z")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProcessor(ProcessOptions{DataDir: dataDir}, nil)
	if _, err := p.Run(ctx); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestSplitBillID(t *testing.T) {
	billType, number, congress, err := SplitBillID("hr1234-113")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if billType != "hr" || number != "1234" || congress != "113" {
		t.Fatalf("unexpected parts: %q %q %q", billType, number, congress)
	}

	if _, _, _, err := SplitBillID("samdt45-113"); err != nil {
		t.Fatalf("amendment ids share the format: %v", err)
	}

	for _, bad := range []string{"", "hr-113", "1234-113", "hr1234", "HR1234-113"} {
		if _, _, _, err := SplitBillID(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestLoadLegislatorIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legislators.yaml")
	if err := os.WriteFile(path, []byte("S000510: 400379\nB000944: 400050\n"), 0o644); err != nil {
		t.Fatalf("write id map: %v", err)
	}

	ids, err := LoadLegislatorIDs(path)
	if err != nil {
		t.Fatalf("load id map: %v", err)
	}
	if id, ok := ids.GovTrackID("S000510"); !ok || id != 400379 {
		t.Fatalf("unexpected translation: %d %v", id, ok)
	}
	if _, ok := ids.GovTrackID("X999999"); ok {
		t.Fatalf("unknown id must not translate")
	}

	var nilIDs *LegislatorIDs
	if _, ok := nilIDs.GovTrackID("S000510"); ok {
		t.Fatalf("nil table must not translate")
	}

	if _, err := LoadLegislatorIDs(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
