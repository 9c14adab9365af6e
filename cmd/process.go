package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erickpeirson/congress/internal/config"
	"github.com/erickpeirson/congress/internal/service"
	"github.com/erickpeirson/congress/internal/store"
)

var (
	processBillID     string
	processCongresses string
	processLimit      int
	processForce      bool
	processGovTrack   bool
	processAmendments bool
	processDataDir    string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process changed bulk-data files into data.json and data.xml",
	Long: `Process walks the data directory for government bulk bill-status XML
files that changed since the last run, re-derives each bill's and
amendment's normalized record, and writes the JSON and legacy XML
artifacts next to the bulk file.

Examples:
  # Process everything that changed
  ./congress process

  # Reprocess one bill and its amendments
  ./congress process --bill-id hr1234-113 --force

  # Process two congresses with legacy numeric legislator ids
  ./congress process --congress 113,114 --govtrack

  # Dry-run sizing: stop after 50 bills
  ./congress process --limit 50`,
	Run: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processBillID, "bill-id", "", "Process a single bill (e.g. hr1234-113)")
	processCmd.Flags().StringVar(&processCongresses, "congress", "", "Comma-separated congress numbers to scan")
	processCmd.Flags().IntVar(&processLimit, "limit", 0, "Stop after this many bills (0 = no limit)")
	processCmd.Flags().BoolVar(&processForce, "force", false, "Reprocess bills whose bulk file is unchanged")
	processCmd.Flags().BoolVar(&processGovTrack, "govtrack", false, "Render legacy numeric legislator ids")
	processCmd.Flags().BoolVar(&processAmendments, "amendments", true, "Cascade into each bill's amendments")
	processCmd.Flags().StringVar(&processDataDir, "data-dir", "", "Data directory (overrides config)")
}

func runProcess(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override config where set.
	if processDataDir != "" {
		cfg.DataDir = processDataDir
	}
	if cmd.Flags().Changed("govtrack") {
		cfg.GovTrack = processGovTrack
	}
	amendments := cfg.ProcessAmendments()
	if cmd.Flags().Changed("amendments") {
		amendments = processAmendments
	}

	var ids *service.LegislatorIDs
	if cfg.GovTrack {
		if cfg.LegislatorIDMap == "" {
			log.Fatal("legislator_id_map is required when govtrack rendering is enabled")
		}
		ids, err = service.LoadLegislatorIDs(cfg.LegislatorIDMap)
		if err != nil {
			log.Fatalf("Failed to load legislator id map: %v", err)
		}
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	var records *store.RecordStore
	if cfg.DatabaseURL != "" {
		log.Println("Connecting to database...")
		db, err := store.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := store.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("Failed to prepare database: %v", err)
		}
		records = store.NewRecordStore(db)
	} else {
		log.Println("No DATABASE_URL set; running artifact-only")
	}

	opts := service.ProcessOptions{
		DataDir:    cfg.DataDir,
		BillID:     processBillID,
		Limit:      processLimit,
		Force:      processForce,
		GovTrack:   cfg.GovTrack,
		Amendments: amendments,
		IDs:        ids,
	}
	if processCongresses != "" {
		for _, c := range strings.Split(processCongresses, ",") {
			if c = strings.TrimSpace(c); c != "" {
				opts.Congresses = append(opts.Congresses, c)
			}
		}
	}

	processor := service.NewProcessor(opts, records)

	start := time.Now()
	stats, err := processor.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Processing cancelled")
			processor.PrintSummary(stats, time.Since(start))
			os.Exit(1)
		}
		log.Fatalf("Processing failed: %v", err)
	}
	processor.PrintSummary(stats, time.Since(start))

	if stats.Failed > 0 {
		os.Exit(1)
	}
}
