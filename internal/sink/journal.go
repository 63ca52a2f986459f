package sink

import (
	"main/internal/errors"
	"main/internal/model"
	"main/pkg/conn"
)

// tradeRow is the gorm-mapped row for the optional Postgres trade journal.
// This is additive to spec.md's CSV/dashboard sinks and intentionally does
// not implement position crash recovery (spec.md's Non-goals exclude that);
// it is an append-only analytical record, nothing reads it back at startup.
type tradeRow struct {
	ID        uint64 `gorm:"primaryKey"`
	TsNs      int64
	Symbol    string
	BuyVenue  string
	SellVenue string
	Quantity  float64
	BuyPrice  float64
	SellPrice float64
	GrossPnL  float64
	Fees      float64
	NetPnL    float64
	Status    uint8
}

func (tradeRow) TableName() string { return "arbitrage_trades" }

// Journal persists executed trades to Postgres via gorm, grounded on the
// teacher's pkg/conn.Client connection wrapper.
type Journal struct {
	client *conn.Client
}

// OpenJournal connects to Postgres and migrates the trade table.
func OpenJournal(opt conn.Option) (*Journal, error) {
	client, err := conn.New(opt)
	if err != nil {
		return nil, errors.Wrap(err, "open trade journal")
	}
	if err := client.DB().AutoMigrate(&tradeRow{}); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "migrate trade journal")
	}
	return &Journal{client: client}, nil
}

// Append inserts one executed trade.
func (j *Journal) Append(t model.Trade) error {
	row := tradeRow{
		ID:        t.ID,
		TsNs:      t.TsNs,
		Symbol:    t.Symbol,
		BuyVenue:  t.BuyVenue,
		SellVenue: t.SellVenue,
		Quantity:  t.Quantity,
		BuyPrice:  t.BuyPrice,
		SellPrice: t.SellPrice,
		GrossPnL:  t.GrossPnL,
		Fees:      t.Fees,
		NetPnL:    t.NetPnL,
		Status:    uint8(t.Status),
	}
	if err := j.client.DB().Create(&row).Error; err != nil {
		return errors.Wrap(err, "append trade journal row")
	}
	return nil
}

// Close releases the underlying connection pool.
func (j *Journal) Close() error {
	return j.client.Close()
}
