package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
)

type CartItem struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Color    string             `bson:"color,omitempty" json:"color,omitempty"`
	Price    float64            `bson:"price" json:"price"`
}

type Cart struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CartItems               []CartItem         `bson:"cartItems" json:"cartItems"`
	TotalCartPrice          float64            `bson:"totalCartPrice" json:"totalCartPrice"`
	TotalPriceAfterDiscount *float64           `bson:"totalPriceAfterDiscount,omitempty" json:"totalPriceAfterDiscount,omitempty"`
	User                    primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt               time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt               time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// AddProduct bumps the quantity of an existing product+color line or appends a new line at price.
func (c *Cart) AddProduct(productID primitive.ObjectID, color string, price float64) {
	for i := range c.CartItems {
		if c.CartItems[i].Product == productID && c.CartItems[i].Color == color {
			c.CartItems[i].Quantity++
			c.RecalculateTotal()
			return
		}
	}

	c.CartItems = append(c.CartItems, CartItem{
		ID:       primitive.NewObjectID(),
		Product:  productID,
		Quantity: 1,
		Color:    color,
		Price:    price,
	})
	c.RecalculateTotal()
}

func (c *Cart) RemoveItem(itemID primitive.ObjectID) bool {
	for i := range c.CartItems {
		if c.CartItems[i].ID == itemID {
			c.CartItems = append(c.CartItems[:i], c.CartItems[i+1:]...)
			c.RecalculateTotal()
			return true
		}
	}
	return false
}

func (c *Cart) SetItemQuantity(itemID primitive.ObjectID, quantity int) bool {
	for i := range c.CartItems {
		if c.CartItems[i].ID == itemID {
			c.CartItems[i].Quantity = quantity
			c.RecalculateTotal()
			return true
		}
	}
	return false
}

// RecalculateTotal sums quantity x captured price and drops any applied discount.
func (c *Cart) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range c.CartItems {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	c.TotalCartPrice, _ = total.Float64()
	c.TotalPriceAfterDiscount = nil
}

// ApplyDiscount stores total minus percent, truncated to two decimals.
func (c *Cart) ApplyDiscount(percent float64) {
	total := decimal.NewFromFloat(c.TotalCartPrice)
	discount := total.Mul(decimal.NewFromFloat(percent)).Div(decimal.NewFromInt(100))

	discounted, _ := total.Sub(discount).Truncate(2).Float64()
	c.TotalPriceAfterDiscount = &discounted
}

// Payable is the discounted total when a coupon was applied, else the plain total.
func (c Cart) Payable() float64 {
	if c.TotalPriceAfterDiscount != nil {
		return *c.TotalPriceAfterDiscount
	}
	return c.TotalCartPrice
}

type ShippingAddress struct {
	Details    string `bson:"details,omitempty" json:"details,omitempty"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
}

type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User              primitive.ObjectID `bson:"user" json:"user"`
	CartItems         []CartItem         `bson:"cartItems" json:"cartItems"`
	TaxPrice          float64            `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice     float64            `bson:"shippingPrice" json:"shippingPrice"`
	ShippingAddress   ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	TotalOrderPrice   float64            `bson:"totalOrderPrice" json:"totalOrderPrice"`
	PaymentMethodType string             `bson:"paymentMethodType" json:"paymentMethodType"`
	IsPaid            bool               `bson:"isPaid" json:"isPaid"`
	PaidAt            *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsDelivered       bool               `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt       *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}
