package models

// Remote-owned records mirrored by the client. The server controls their
// lifecycle; local copies are caches refreshed by fetches.

type User struct {
	ID           string `json:"id"`
	UserName     string `json:"userName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage"`
	Status       string `json:"status"`
}

type Product struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Image       string   `json:"image"`
	Price       float64  `json:"price"`
	SalePrice   float64  `json:"salePrice"`
	TotalStock  uint     `json:"totalStock"`
	Reviews     []Review `json:"reviews,omitempty"`
}

// EffectivePrice is the sale price when one is set, otherwise the list price.
func (p Product) EffectivePrice() float64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}

type CartItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	SalePrice float64 `json:"salePrice"`
	Quantity  uint    `json:"quantity"`
}

func (i CartItem) EffectivePrice() float64 {
	if i.SalePrice > 0 {
		return i.SalePrice
	}
	return i.Price
}

type Cart struct {
	ID     string     `json:"_id"`
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

type AddressInfo struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes,omitempty"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title,omitempty"`
	Price     float64 `json:"price"`
	Quantity  uint    `json:"quantity"`
}

type Order struct {
	ID            string      `json:"_id"`
	UserID        string      `json:"userId"`
	CartID        string      `json:"cartId,omitempty"`
	ClientRef     string      `json:"clientRef,omitempty"`
	CartItems     []OrderItem `json:"cartItems"`
	AddressInfo   AddressInfo `json:"addressInfo"`
	OrderStatus   string      `json:"orderStatus"`
	PaymentMethod string      `json:"paymentMethod"`
	PaymentStatus string      `json:"paymentStatus"`
	PaymentID     string      `json:"paymentId,omitempty"`
	TotalAmount   float64     `json:"totalAmount"`
	OrderDate     string      `json:"orderDate,omitempty"`
	User          *User       `json:"user,omitempty"`

	// CustomerName is derived locally, never sent by the server.
	CustomerName string `json:"-"`
}

// Order status progression plus the terminal cancelled state.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

type Review struct {
	ID            string `json:"_id"`
	ProductID     string `json:"productId"`
	UserID        string `json:"userId"`
	UserName      string `json:"userName"`
	ReviewMessage string `json:"reviewMessage"`
	ReviewValue   int    `json:"reviewValue"`
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type FeatureImage struct {
	ID    string `json:"_id"`
	Image string `json:"image"`
}

// GatewayOrder is the provider-issued hosted-checkout descriptor returned by
// order creation when the payment method is the online gateway.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
