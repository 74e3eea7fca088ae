package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/stocktrail/stocktrail/internal/config"
	lookupdomain "github.com/stocktrail/stocktrail/internal/lookup/domain"
	orderdomain "github.com/stocktrail/stocktrail/internal/order/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Column headers the importer understands. Anything else in the orders file
// is preserved as-is in the extra column.
const (
	colOrderID   = "OrderID"
	colWarehouse = "Warehouse"
	colStatus    = "Status"
	colInvoiceNo = "InvoiceNo"
	colOrderDate = "OrderDate"
	colUpdatedBy = "UpdatedBy"
	colUpdatedAt = "UpdatedAt"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ImportCSV bootstraps empty order and lookup stores from their CSV exports.
// A store that already has rows is left untouched; a missing file is not an
// error, the store simply starts empty.
func ImportCSV(db *gorm.DB, cfg config.Config, log *zap.Logger) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	log = log.Named("seed")
	ctx := context.Background()

	if err := importOrders(ctx, db, cfg.OrdersCSV, log); err != nil {
		return fmt.Errorf("import orders: %w", err)
	}
	if err := importLookups(ctx, db, cfg.LookupsCSV, log); err != nil {
		return fmt.Errorf("import lookups: %w", err)
	}
	return nil
}

func importOrders(ctx context.Context, db *gorm.DB, path string, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&orderdomain.Order{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rows, err := readCSV(path)
	if err != nil || rows == nil {
		return err
	}

	orders := make([]orderdomain.Order, 0, len(rows))
	for _, row := range rows {
		order := orderdomain.Order{
			OrderID:   strings.TrimSpace(row[colOrderID]),
			Warehouse: strings.TrimSpace(row[colWarehouse]),
			Status:    strings.TrimSpace(row[colStatus]),
			InvoiceNo: strings.TrimSpace(row[colInvoiceNo]),
		}
		if order.OrderID == "" {
			continue
		}
		if parsed, ok := parseDate(row[colOrderDate]); ok {
			order.OrderDate = parsed
		}
		order.UpdatedBy = strings.TrimSpace(row[colUpdatedBy])
		if parsed, ok := parseDate(row[colUpdatedAt]); ok {
			order.UpdatedAt = parsed
		}

		extra := datatypes.JSONMap{}
		for key, value := range row {
			switch key {
			case colOrderID, colWarehouse, colStatus, colInvoiceNo, colOrderDate, colUpdatedBy, colUpdatedAt:
			default:
				extra[key] = value
			}
		}
		if len(extra) > 0 {
			order.Extra = extra
		}
		orders = append(orders, order)
	}

	if len(orders) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Create(&orders).Error; err != nil {
		return err
	}
	log.Info("orders imported", zap.String("path", path), zap.Int("rows", len(orders)))
	return nil
}

func importLookups(ctx context.Context, db *gorm.DB, path string, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&lookupdomain.Lookup{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rows, err := readCSV(path)
	if err != nil || rows == nil {
		return err
	}

	lookups := make([]lookupdomain.Lookup, 0, len(rows))
	for _, row := range rows {
		lookupType := strings.TrimSpace(row["Type"])
		value := strings.TrimSpace(row["Value"])
		if lookupType == "" || value == "" {
			continue
		}
		lookups = append(lookups, lookupdomain.Lookup{Type: lookupType, Value: value})
	}

	if len(lookups) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Create(&lookups).Error; err != nil {
		return err
	}
	log.Info("lookups imported", zap.String("path", path), zap.Int("rows", len(lookups)))
	return nil
}

// readCSV returns one map per data row keyed by header, or nil when the file
// does not exist.
func readCSV(path string) ([]map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[strings.TrimSpace(name)] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
