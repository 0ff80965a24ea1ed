package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"app/models"
)

// couponValidity is how long a freshly minted coupon stays redeemable.
const couponValidity = 30 * 24 * time.Hour

// defaultDiscountAmount applies when a prize value carries no usable number.
const defaultDiscountAmount = 5

// couponMinPurchase is the spend floor for every minted coupon.
var couponMinPurchase = decimal.NewFromInt(10)

// NewPrizeCoupon mints the coupon for a coupon- or discount-type lucky-draw
// prize. The discount is the number embedded in the prize value ("¥10 off"
// yields 10); values without digits fall back to 5.
func NewPrizeCoupon(userEmail string, prize models.Prize, now time.Time) models.Coupon {
	amount := digitsIn(prize.PrizeValue)
	if amount <= 0 {
		amount = defaultDiscountAmount
	}
	return models.Coupon{
		ID:             uuid.New().String(),
		UserEmail:      userEmail,
		Code:           fmt.Sprintf("LUCKY%d", now.UnixMilli()),
		Title:          prize.Name,
		DiscountAmount: decimal.NewFromInt(int64(amount)),
		DiscountType:   "fixed",
		MinPurchase:    couponMinPurchase,
		ExpiryDate:     now.Add(couponValidity),
		Status:         "active",
	}
}

// NewWelcomeCoupon mints the one-time new-user gift coupon.
func NewWelcomeCoupon(userEmail string, now time.Time) models.Coupon {
	return models.Coupon{
		ID:             uuid.New().String(),
		UserEmail:      userEmail,
		Code:           fmt.Sprintf("WELCOME%d", now.UnixMilli()),
		Title:          "Welcome Gift Coupon",
		DiscountAmount: decimal.NewFromInt(defaultDiscountAmount),
		DiscountType:   "fixed",
		MinPurchase:    couponMinPurchase,
		ExpiryDate:     now.Add(couponValidity),
		Status:         "active",
	}
}

// digitsIn collects the decimal digits of s into one number, so "¥10 off"
// becomes 10 and "save 2 now 5" becomes 25.
func digitsIn(s string) int {
	n := 0
	found := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			found = true
		}
	}
	if !found {
		return 0
	}
	return n
}
