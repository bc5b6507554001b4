package checkout

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
)

// DeepLink builds the messaging link that opens a chat with recipient and
// the text pre-filled.
func DeepLink(recipient, text string) string {
	return "https://wa.me/" + recipient + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// OrderMessage is the plain-text order summary sent to the merchant.
func OrderMessage(store string, cur catalog.Currency, o orders.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New Order from %s!\n\n", store)
	fmt.Fprintf(&b, "Order ID: %s\n", o.OrderID)
	fmt.Fprintf(&b, "Customer: %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n", o.Customer.Phone)
	fmt.Fprintf(&b, "Address: %s\n", o.Customer.Address)
	fmt.Fprintf(&b, "Shipping Method: %s\n\n", o.ShippingMethod)
	b.WriteString("Items:\n")
	for i, it := range o.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s (%d) - %s%s", it.Title, it.Quantity, cur, it.Price.String())
	}
	fmt.Fprintf(&b, "\n\nSubtotal: %s%s\n", cur, o.Subtotal.String())
	fmt.Fprintf(&b, "Shipping: %s%s\n", cur, o.Shipping.String())
	fmt.Fprintf(&b, "Total: %s%s\n", cur, o.Total.String())
	fmt.Fprintf(&b, "Payment: %s", o.PaymentMethod)
	return b.String()
}

// InquiryMessage asks the merchant about one product.
func InquiryMessage(cur catalog.Currency, p catalog.PublicProduct, qty int, size string) string {
	sizeText := ""
	if size != "" {
		sizeText = " (Size: " + size + ")"
	}
	price := strconv.FormatFloat(p.Price, 'f', -1, 64)
	return fmt.Sprintf("Hi! I want to buy: %s%s - %s%s (Qty: %d)", p.Title, sizeText, cur, price, qty)
}

type Contact struct {
	Name    string
	Email   string
	Message string
}

func ContactMessage(store string, c Contact) string {
	return fmt.Sprintf("New Contact Message from %s!\n\nName: %s\nEmail: %s\n\nMessage:\n%s", store, c.Name, c.Email, c.Message)
}
