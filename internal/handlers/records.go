package handlers

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/erickpeirson/congress/internal/service"
	"github.com/erickpeirson/congress/internal/store"
)

func recordJSON(r store.Record) fiber.Map {
	return fiber.Map{
		"record_id":    r.RecordID,
		"record_type":  r.RecordType,
		"congress":     r.Congress,
		"number":       r.Number,
		"status":       r.Status,
		"status_at":    r.StatusAt,
		"updated_at":   r.UpdatedAt,
		"processed_at": r.ProcessedAt,
	}
}

// ListRecordsHandler serves processed records, optionally filtered by
// congress and record type.
func ListRecordsHandler(records *store.RecordStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		limit := c.QueryInt("limit", 100)
		list, err := records.List(ctx, c.Query("congress"), c.Query("type"), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading records")
		}

		out := make([]fiber.Map, 0, len(list))
		for _, r := range list {
			out = append(out, recordJSON(r))
		}
		return c.JSON(fiber.Map{"records": out})
	}
}

// RecordHandler serves one processed record's status row.
func RecordHandler(records *store.RecordStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		record, err := records.GetByID(ctx, c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading record")
		}
		if record == nil {
			return c.Status(fiber.StatusNotFound).SendString("Record not found")
		}
		return c.JSON(recordJSON(*record))
	}
}

// ArtifactHandler serves a processed record's rendered artifact
// (data.json or data.xml) from the data directory.
func ArtifactHandler(dataDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recordID := c.Params("id")
		artifact := c.Params("artifact")
		if artifact != "data.json" && artifact != "data.xml" {
			return c.Status(fiber.StatusNotFound).SendString("Unknown artifact")
		}

		recordType, number, congress, err := service.SplitBillID(recordID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid record id")
		}

		kind := "bills"
		if strings.HasSuffix(recordType, "amdt") {
			kind = "amendments"
		}
		path := filepath.Join(dataDir, congress, kind, recordType, recordType+number, artifact)

		if artifact == "data.xml" {
			c.Type("xml")
		} else {
			c.Type("json")
		}
		return c.SendFile(path)
	}
}

// StatusCountsHandler aggregates record statuses for one congress.
func StatusCountsHandler(records *store.RecordStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		congress := c.Params("congress")
		counts, err := records.StatusCounts(ctx, congress)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error counting statuses")
		}

		out := make([]fiber.Map, 0, len(counts))
		for _, sc := range counts {
			out = append(out, fiber.Map{"status": sc.Status, "count": sc.Count})
		}
		return c.JSON(fiber.Map{"congress": congress, "statuses": out})
	}
}
