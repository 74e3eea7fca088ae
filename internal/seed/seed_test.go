package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stocktrail/stocktrail/internal/config"
	lookupdomain "github.com/stocktrail/stocktrail/internal/lookup/domain"
	orderdomain "github.com/stocktrail/stocktrail/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:seed%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&orderdomain.Order{}, &lookupdomain.Lookup{}))
	return db
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportCSV(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()

	ordersPath := writeFile(t, dir, "orders.csv",
		"OrderID,Warehouse,Status,InvoiceNo,OrderDate,Customer\n"+
			"SO-1,WH-A,Open,,2026-03-01,Acme\n"+
			"SO-2,WH-B,Invoiced,INV-1,2026-02-15T08:30:00Z,Globex\n"+
			",WH-C,Open,,2026-03-02,NoID\n")
	lookupsPath := writeFile(t, dir, "lookups.csv",
		"Type,Value\nStatus,Open\nStatus,Invoiced\nCarrier,DHL\n")

	cfg := config.Config{OrdersCSV: ordersPath, LookupsCSV: lookupsPath}
	require.NoError(t, ImportCSV(db, cfg, zap.NewNop()))

	var orders []orderdomain.Order
	require.NoError(t, db.Order("order_id").Find(&orders).Error)
	require.Len(t, orders, 2, "rows without an order id are skipped")

	assert.Equal(t, "SO-1", orders[0].OrderID)
	assert.Equal(t, "WH-A", orders[0].Warehouse)
	assert.Equal(t, "Open", orders[0].Status)
	assert.Equal(t, 2026, orders[0].OrderDate.Year())
	// Unknown columns survive the import.
	require.NotNil(t, orders[0].Extra)
	assert.Equal(t, "Acme", orders[0].Extra["Customer"])

	assert.Equal(t, "INV-1", orders[1].InvoiceNo)

	var lookups int64
	require.NoError(t, db.Model(&lookupdomain.Lookup{}).Count(&lookups).Error)
	assert.EqualValues(t, 3, lookups)
}

func TestImportCSVSkipsPopulatedStore(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()

	ordersPath := writeFile(t, dir, "orders.csv",
		"OrderID,Warehouse,Status,InvoiceNo,OrderDate\nSO-1,WH-A,Open,,2026-03-01\n")

	cfg := config.Config{OrdersCSV: ordersPath}
	require.NoError(t, ImportCSV(db, cfg, zap.NewNop()))
	require.NoError(t, ImportCSV(db, cfg, zap.NewNop()))

	var count int64
	require.NoError(t, db.Model(&orderdomain.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "a populated store is never re-imported")
}

func TestImportCSVMissingFilesAreFine(t *testing.T) {
	db := newTestDB(t)

	cfg := config.Config{
		OrdersCSV:  "/nonexistent/orders.csv",
		LookupsCSV: "",
	}
	require.NoError(t, ImportCSV(db, cfg, zap.NewNop()))

	var count int64
	require.NoError(t, db.Model(&orderdomain.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}
