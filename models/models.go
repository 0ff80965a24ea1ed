package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// --- Custom JSON Type for database/sql ---

// MachineInventory allows storing a machine's slot inventory in a
// PostgreSQL jsonb column.
type MachineInventory []MachineStockItem

func (m MachineInventory) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MachineInventory) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, m)
}

// MachineStockItem is one product slot inside a vending machine.
type MachineStockItem struct {
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// --- Core Models ---

// VendingMachine represents a single machine placed at a location.
type VendingMachine struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Address           *string          `json:"address,omitempty"`
	Latitude          *float64         `json:"latitude,omitempty"`
	Longitude         *float64         `json:"longitude,omitempty"`
	Status            string           `json:"status"` // active | maintenance | offline
	ProductsInventory MachineInventory `json:"products_inventory"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Product is an item sold through the machines and the points mall.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    *string         `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	PointsValue int             `json:"points_value"`
	Tags        []string        `json:"tags"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SaleRecord is one raw sale event reported by a machine. The feed is
// heterogeneous: timestamps arrive in whatever format the reporting agent
// used and revenue may be missing, in which case it is derived from the
// sale price. Rows are never trusted until the aggregator has validated them.
type SaleRecord struct {
	ID            string           `json:"id"`
	MachineID     string           `json:"machine_id"`
	ProductID     string           `json:"product_id"`
	ProductName   string           `json:"product_name"`
	QuantitySold  int              `json:"quantity_sold"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	Revenue       *decimal.Decimal `json:"revenue,omitempty"`
	SaleTimestamp string           `json:"sale_timestamp"`
}

// PurchaseItem is a line item inside a consumer purchase.
type PurchaseItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// PurchaseItems allows storing purchase line items in a jsonb column.
type PurchaseItems []PurchaseItem

func (p PurchaseItems) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *PurchaseItems) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, p)
}

// Purchase is a completed consumer order.
type Purchase struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	UserEmail   string          `json:"user_email"`
	MachineID   *string         `json:"machine_id,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Products    PurchaseItems   `json:"products"`
	CreatedAt   time.Time       `json:"created_at"`
}

// WishlistItem is a product a user has saved for later.
type WishlistItem struct {
	ID           string           `json:"id"`
	UserEmail    string           `json:"user_email"`
	ProductID    string           `json:"product_id"`
	ProductName  string           `json:"product_name"`
	ProductImage *string          `json:"product_image,omitempty"`
	ProductPrice *decimal.Decimal `json:"product_price,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// PointsTransaction is one credit or debit on a user's loyalty balance.
// The balance itself is never stored; it is always the sum of transactions.
type PointsTransaction struct {
	ID           string    `json:"id"`
	UserEmail    string    `json:"user_email"`
	PointsAmount int       `json:"points_amount"`
	Description  string    `json:"description"`
	ReferenceID  *string   `json:"reference_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Prize is one segment on the lucky-draw wheel.
type Prize struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PrizeType   string    `json:"prize_type"` // points | product | coupon | discount | none
	PrizeValue  string    `json:"prize_value"`
	Probability int       `json:"probability"`
	CreatedAt   time.Time `json:"created_at"`
}

// DrawRecord is one spin of the lucky-draw wheel.
type DrawRecord struct {
	ID          string    `json:"id"`
	UserEmail   string    `json:"user_email"`
	PrizeID     string    `json:"prize_id"`
	PrizeName   string    `json:"prize_name"`
	PointsSpent int       `json:"points_spent"`
	DrawDate    time.Time `json:"draw_date"`
}

// RewardItem is something the points mall sells for loyalty points.
type RewardItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"` // product | merchandise | coupon
	PointsCost    int       `json:"points_cost"`
	StockQuantity int       `json:"stock_quantity"`
	ImageURL      *string   `json:"image_url,omitempty"`
	IsAvailable   bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
}

// Coupon is a discount voucher held by a user. Coupons are minted by the
// lucky draw (coupon and discount prizes) and by the one-time welcome gift.
type Coupon struct {
	ID             string          `json:"id"`
	UserEmail      string          `json:"user_email"`
	Code           string          `json:"code"`
	Title          string          `json:"title"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DiscountType   string          `json:"discount_type"` // fixed
	MinPurchase    decimal.Decimal `json:"min_purchase"`
	ExpiryDate     time.Time       `json:"expiry_date"`
	Status         string          `json:"status"` // active | used | expired
	CreatedAt      time.Time       `json:"created_at"`
}

// WishlistDemand is the operator-facing aggregation of wishlist requests
// for a single product.
type WishlistDemand struct {
	ProductID    string           `json:"product_id"`
	ProductName  string           `json:"product_name"`
	ProductImage *string          `json:"product_image,omitempty"`
	ProductPrice *decimal.Decimal `json:"product_price,omitempty"`
	RequestCount int              `json:"request_count"`
	UniqueUsers  int              `json:"unique_users_count"`
}
