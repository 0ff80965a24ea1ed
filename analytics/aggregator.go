package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"app/models"
)

// DateKeyLayout is the bucket key format for daily aggregates.
const DateKeyLayout = "2006-01-02"

// DefaultTrendWindowDays is the trailing window used when callers do not
// request a specific one.
const DefaultTrendWindowDays = 7

// DayBucket accumulates one machine's sales for a single day.
type DayBucket struct {
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// ProductTotal accumulates all-time sales for one product across machines.
// Name is the first-seen display name and is never overwritten.
type ProductTotal struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// TopProduct is one entry of a machine's best-seller list.
type TopProduct struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	LastSale  time.Time `json:"last_sale"`
}

// Stats reports how much of the raw feed survived validation.
type Stats struct {
	RowsIngested    int       `json:"rowsIngested"`
	RowsIgnored     int       `json:"rowsIgnored"`
	LastRefreshTime time.Time `json:"lastRefreshTime"`
}

// Aggregation is the validated, bucketed view of a raw sale-event feed.
// It is a pure function of the input records and the reference time and is
// recomputed on every call; nothing here is cached.
type Aggregation struct {
	PerMachineDaily      map[string]map[string]DayBucket `json:"perMachineDaily"`
	PerProductTotal      map[string]ProductTotal         `json:"perProductTotal"`
	TopProductsByMachine map[string][]TopProduct         `json:"topProductsByMachine"`
	TrendWindow          map[string]map[string]int       `json:"trendWindow"`
	Stats                Stats                           `json:"stats"`
}

// IsEmpty reports whether no valid rows were ingested. Callers must treat
// an empty aggregation as "not enough data" and skip further computation.
func (a Aggregation) IsEmpty() bool {
	return a.Stats.RowsIngested == 0
}

// Layouts tried after a strict RFC3339 parse fails. The sale feed is
// produced by heterogeneous machine agents, so the parser is deliberately
// permissive.
var permissiveLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.UnixDate,
}

// ParseSaleTimestamp parses a loosely formatted sale timestamp. It returns
// false when the value does not resolve to a real instant.
func ParseSaleTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	for _, layout := range permissiveLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// topAccumulator carries the per-machine per-product running totals used to
// derive the top-N lists. seen is the first-encountered position within the
// machine, which breaks quantity ties.
type topAccumulator struct {
	productID string
	name      string
	quantity  int
	lastSale  time.Time
	seen      int
}

// Aggregate validates and buckets raw sale records. Invalid rows (bad
// timestamp or negative quantity) are counted and discarded, never surfaced
// as errors. The result is independent of input order except for the
// documented first-seen tie-break in the top-N lists.
func Aggregate(records []models.SaleRecord, now time.Time, trendWindowDays int) Aggregation {
	if trendWindowDays <= 0 {
		trendWindowDays = DefaultTrendWindowDays
	}
	windowStart := now.AddDate(0, 0, -trendWindowDays)

	agg := Aggregation{
		PerMachineDaily:      make(map[string]map[string]DayBucket),
		PerProductTotal:      make(map[string]ProductTotal),
		TopProductsByMachine: make(map[string][]TopProduct),
		TrendWindow:          make(map[string]map[string]int),
		Stats:                Stats{LastRefreshTime: now},
	}

	running := make(map[string]map[string]*topAccumulator)

	for _, rec := range records {
		ts, ok := ParseSaleTimestamp(rec.SaleTimestamp)
		if !ok || rec.QuantitySold < 0 {
			agg.Stats.RowsIgnored++
			continue
		}
		agg.Stats.RowsIngested++

		qty := rec.QuantitySold
		revenue := rec.SalePrice.Mul(decimal.NewFromInt(int64(qty)))
		if rec.Revenue != nil {
			revenue = *rec.Revenue
		}
		dateKey := ts.Format(DateKeyLayout)

		// Per machine per day
		days, ok := agg.PerMachineDaily[rec.MachineID]
		if !ok {
			days = make(map[string]DayBucket)
			agg.PerMachineDaily[rec.MachineID] = days
		}
		bucket := days[dateKey]
		bucket.Quantity += qty
		bucket.Revenue = bucket.Revenue.Add(revenue)
		days[dateKey] = bucket

		// Per product total; first-seen name wins
		total, ok := agg.PerProductTotal[rec.ProductID]
		if !ok {
			total.Name = displayName(rec.ProductName)
		}
		total.Quantity += qty
		total.Revenue = total.Revenue.Add(revenue)
		agg.PerProductTotal[rec.ProductID] = total

		// Per machine per product running totals for the top-N lists
		perProduct, ok := running[rec.MachineID]
		if !ok {
			perProduct = make(map[string]*topAccumulator)
			running[rec.MachineID] = perProduct
		}
		acc, ok := perProduct[rec.ProductID]
		if !ok {
			acc = &topAccumulator{
				productID: rec.ProductID,
				name:      displayName(rec.ProductName),
				seen:      len(perProduct),
			}
			perProduct[rec.ProductID] = acc
		}
		acc.quantity += qty
		if ts.After(acc.lastSale) {
			acc.lastSale = ts
		}

		// Trailing trend window
		if !ts.Before(windowStart) {
			trend, ok := agg.TrendWindow[rec.MachineID]
			if !ok {
				trend = make(map[string]int)
				agg.TrendWindow[rec.MachineID] = trend
			}
			trend[dateKey] += qty
		}
	}

	for machineID, perProduct := range running {
		entries := make([]*topAccumulator, 0, len(perProduct))
		for _, acc := range perProduct {
			entries = append(entries, acc)
		}
		// Restore first-seen order before the stable sort so equal
		// quantities keep their encounter order.
		sort.Slice(entries, func(i, j int) bool { return entries[i].seen < entries[j].seen })
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].quantity > entries[j].quantity })

		if len(entries) > 5 {
			entries = entries[:5]
		}
		top := make([]TopProduct, len(entries))
		for i, acc := range entries {
			top[i] = TopProduct{
				ProductID: acc.productID,
				Name:      acc.name,
				Quantity:  acc.quantity,
				LastSale:  acc.lastSale,
			}
		}
		agg.TopProductsByMachine[machineID] = top
	}

	return agg
}

func displayName(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
