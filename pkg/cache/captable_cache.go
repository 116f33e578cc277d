package cache

import (
	"sync"
	"time"

	"spv_captable_back/models"
)

type cachedCapTable struct {
	Rows      []models.CapTableRow
	Timestamp time.Time
}

var (
	capTables     = make(map[int64]cachedCapTable)
	cacheDuration = 30 * time.Second
	mu            sync.Mutex
)

// GetCapTable returns the cached cap table for a vehicle, or false if missing
// or stale.
func GetCapTable(vehicleID int64) ([]models.CapTableRow, bool) {
	mu.Lock()
	defer mu.Unlock()

	entry, ok := capTables[vehicleID]
	if !ok {
		return nil, false
	}
	if time.Since(entry.Timestamp) > cacheDuration {
		return nil, false
	}
	return entry.Rows, true
}

func SetCapTable(vehicleID int64, rows []models.CapTableRow) {
	mu.Lock()
	defer mu.Unlock()

	capTables[vehicleID] = cachedCapTable{
		Rows:      rows,
		Timestamp: time.Now(),
	}
}

// InvalidateCapTable drops the cached view after a ledger write.
func InvalidateCapTable(vehicleID int64) {
	mu.Lock()
	defer mu.Unlock()

	delete(capTables, vehicleID)
}
