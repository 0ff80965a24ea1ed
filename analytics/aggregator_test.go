package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"app/models"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func saleAt(machineID, productID, name string, qty int, price float64, ts time.Time) models.SaleRecord {
	return models.SaleRecord{
		MachineID:     machineID,
		ProductID:     productID,
		ProductName:   name,
		QuantitySold:  qty,
		SalePrice:     decimal.NewFromFloat(price),
		SaleTimestamp: ts.Format(time.RFC3339),
	}
}

func TestAggregateEndToEnd(t *testing.T) {
	records := []models.SaleRecord{
		saleAt("M1", "P1", "Sparkling Water", 5, 2.50, testNow),
		saleAt("M1", "P1", "Sparkling Water", 3, 2.50, testNow.AddDate(0, 0, -3)),
		saleAt("M1", "P2", "Milk Tea", 1, 3.00, testNow.AddDate(0, 0, -10)),
		saleAt("M1", "P3", "Cola", -1, 1.50, testNow), // invalid: negative quantity
	}

	agg := Aggregate(records, testNow, 7)

	assert.Equal(t, 3, agg.Stats.RowsIngested)
	assert.Equal(t, 1, agg.Stats.RowsIgnored)
	assert.False(t, agg.IsEmpty())

	assert.Equal(t, 8, agg.PerProductTotal["P1"].Quantity)
	assert.Equal(t, 1, agg.PerProductTotal["P2"].Quantity)
	assert.NotContains(t, agg.PerProductTotal, "P3")

	// The 10-day-old P2 sale is outside the trailing week.
	trend := agg.TrendWindow["M1"]
	assert.Len(t, trend, 2)
	assert.Equal(t, 5, trend[testNow.Format(DateKeyLayout)])
	assert.Equal(t, 3, trend[testNow.AddDate(0, 0, -3).Format(DateKeyLayout)])

	top := agg.TopProductsByMachine["M1"]
	assert.Len(t, top, 2)
	assert.Equal(t, "P1", top[0].ProductID)
	assert.Equal(t, "P2", top[1].ProductID)
}

func TestAggregateQuantityConservation(t *testing.T) {
	records := []models.SaleRecord{
		saleAt("M1", "P1", "A", 4, 1, testNow),
		saleAt("M2", "P1", "A", 6, 1, testNow),
		saleAt("M2", "P2", "B", 2, 1, testNow),
		saleAt("M3", "P3", "C", 9, 1, testNow.AddDate(0, 0, -2)),
	}

	agg := Aggregate(records, testNow, 7)

	total := 0
	for _, pt := range agg.PerProductTotal {
		total += pt.Quantity
	}
	assert.Equal(t, 4+6+2+9, total)
	assert.Equal(t, len(records), agg.Stats.RowsIngested)
}

func TestAggregateRejectsMalformedRows(t *testing.T) {
	records := []models.SaleRecord{
		{MachineID: "M1", ProductID: "P1", QuantitySold: 1, SaleTimestamp: "not-a-date"},
		{MachineID: "M1", ProductID: "P2", QuantitySold: -5, SaleTimestamp: testNow.Format(time.RFC3339)},
		{MachineID: "M1", ProductID: "P3", QuantitySold: 1, SaleTimestamp: ""},
	}

	agg := Aggregate(records, testNow, 7)

	assert.Equal(t, 0, agg.Stats.RowsIngested)
	assert.Equal(t, 3, agg.Stats.RowsIgnored)
	assert.True(t, agg.IsEmpty())
	assert.Empty(t, agg.PerMachineDaily)
	assert.Empty(t, agg.PerProductTotal)
	assert.Empty(t, agg.TopProductsByMachine)
}

func TestAggregatePermissiveTimestamps(t *testing.T) {
	records := []models.SaleRecord{
		{MachineID: "M1", ProductID: "P1", ProductName: "A", QuantitySold: 1, SaleTimestamp: "2026-08-30 10:15:00"},
		{MachineID: "M1", ProductID: "P2", ProductName: "B", QuantitySold: 2, SaleTimestamp: "2026-08-29"},
		{MachineID: "M1", ProductID: "P3", ProductName: "C", QuantitySold: 3, SaleTimestamp: "2026-08-28T09:00:00"},
	}

	agg := Aggregate(records, testNow, 7)

	assert.Equal(t, 3, agg.Stats.RowsIngested)
	assert.Equal(t, 0, agg.Stats.RowsIgnored)
	assert.Equal(t, 1, agg.PerMachineDaily["M1"]["2026-08-30"].Quantity)
	assert.Equal(t, 2, agg.PerMachineDaily["M1"]["2026-08-29"].Quantity)
}

func TestAggregateRevenueDerivation(t *testing.T) {
	explicit := decimal.NewFromFloat(99.99)
	records := []models.SaleRecord{
		{
			MachineID: "M1", ProductID: "P1", ProductName: "A",
			QuantitySold: 4, SalePrice: decimal.NewFromFloat(2.50),
			SaleTimestamp: testNow.Format(time.RFC3339),
		},
		{
			MachineID: "M1", ProductID: "P1", ProductName: "A",
			QuantitySold: 1, SalePrice: decimal.NewFromFloat(2.50),
			Revenue:       &explicit,
			SaleTimestamp: testNow.Format(time.RFC3339),
		},
	}

	agg := Aggregate(records, testNow, 7)

	// 4 * 2.50 derived + 99.99 explicit
	want := decimal.NewFromFloat(109.99)
	assert.True(t, agg.PerProductTotal["P1"].Revenue.Equal(want),
		"got %s", agg.PerProductTotal["P1"].Revenue)
}

func TestTopProductsStableTieBreak(t *testing.T) {
	records := []models.SaleRecord{
		saleAt("M1", "P1", "First", 3, 1, testNow),
		saleAt("M1", "P2", "Second", 3, 1, testNow),
		saleAt("M1", "P3", "Third", 7, 1, testNow),
	}

	agg := Aggregate(records, testNow, 7)

	top := agg.TopProductsByMachine["M1"]
	assert.Len(t, top, 3)
	assert.Equal(t, "P3", top[0].ProductID)
	// Equal quantities keep first-encountered order.
	assert.Equal(t, "P1", top[1].ProductID)
	assert.Equal(t, "P2", top[2].ProductID)
}

func TestTopProductsCappedAtFive(t *testing.T) {
	records := []models.SaleRecord{}
	for i := 0; i < 8; i++ {
		records = append(records, saleAt("M1", string(rune('A'+i)), "Product", 10-i, 1, testNow))
	}

	agg := Aggregate(records, testNow, 7)

	top := agg.TopProductsByMachine["M1"]
	assert.Len(t, top, 5)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Quantity, top[i].Quantity)
	}
}

func TestAggregateFirstSeenNameWins(t *testing.T) {
	records := []models.SaleRecord{
		saleAt("M1", "P1", "Original Name", 1, 1, testNow),
		saleAt("M1", "P1", "Renamed Later", 1, 1, testNow),
	}

	agg := Aggregate(records, testNow, 7)

	assert.Equal(t, "Original Name", agg.PerProductTotal["P1"].Name)
	assert.Equal(t, "Original Name", agg.TopProductsByMachine["M1"][0].Name)
}

func TestAggregateLastSaleIsMaxTimestamp(t *testing.T) {
	records := []models.SaleRecord{
		saleAt("M1", "P1", "A", 1, 1, testNow.AddDate(0, 0, -1)),
		saleAt("M1", "P1", "A", 1, 1, testNow.AddDate(0, 0, -5)),
	}

	agg := Aggregate(records, testNow, 7)

	last := agg.TopProductsByMachine["M1"][0].LastSale
	assert.True(t, last.Equal(testNow.AddDate(0, 0, -1)))
}

func TestAggregateOrderIndependence(t *testing.T) {
	records := []models.SaleRecord{
		saleAt("M1", "P1", "A", 2, 1.5, testNow),
		saleAt("M2", "P2", "B", 4, 2.0, testNow.AddDate(0, 0, -1)),
		saleAt("M1", "P2", "B", 1, 2.0, testNow.AddDate(0, 0, -2)),
	}
	reversed := []models.SaleRecord{records[2], records[1], records[0]}

	a := Aggregate(records, testNow, 7)
	b := Aggregate(reversed, testNow, 7)

	assert.Equal(t, a.PerMachineDaily, b.PerMachineDaily)
	assert.Equal(t, a.PerProductTotal, b.PerProductTotal)
	assert.Equal(t, a.TrendWindow, b.TrendWindow)
	assert.Equal(t, a.Stats.RowsIngested, b.Stats.RowsIngested)
}

func TestParseSaleTimestamp(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2026-09-01T12:00:00Z", true},
		{"2026-09-01T12:00:00+08:00", true},
		{"2026-09-01 12:00:00", true},
		{"2026-09-01", true},
		{"", false},
		{"yesterday", false},
		{"2026-13-45", false},
	}
	for _, c := range cases {
		_, ok := ParseSaleTimestamp(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
	}
}
