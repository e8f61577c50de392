// Package notification builds the HTML email content for order
// lifecycle notifications. Transport is owned by the dispatcher; this
// package only produces subjects and bodies.
package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Carrier identifies the delivery partner quoted in shipping emails.
const Carrier = "Name: Abdul Rashid | Tel: +1234567890"

// Message is a rendered notification ready for dispatch.
type Message struct {
	Subject string
	HTML    string
}

// NewTrackingNumber generates a tracking reference for a shipment.
func NewTrackingNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))

	return "TRK" + raw[:12]
}

var (
	confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html lang="en">
  <body>
    <div class="container">
      <div class="header"><h1>Order Confirmation</h1></div>
      <p>Dear <span class="user-name">{{.Name}}</span>,</p>
      <p>Your order with Order ID: <span class="order-id">{{.OrderID}}</span> has been successfully placed.</p>
      <div class="order-details">
        <p><strong>Order Details:</strong></p>
        <p>Total Price: <span class="total-price">${{.TotalPrice}}</span></p>
      </div>
      <p>Thank you for shopping with us!</p>
      <p class="footer">This is an automated email, please do not reply.</p>
    </div>
  </body>
</html>`))

	statusChangeTmpl = template.Must(template.New("status-change").Parse(`<!DOCTYPE html>
<html lang="en">
  <body>
    <div class="container">
      <div class="header"><h1>Order Update</h1></div>
      <p>Dear {{.Name}},</p>
      <p>We're writing to inform you about an update regarding your order with Order ID: <span class="order-id">{{.OrderID}}</span>.</p>
      <div class="order-details">
        <p><strong>Order Status Update:</strong></p>
        <p>Your order status has been updated to: <span class="order-status">{{.Status}}</span></p>
      </div>
      <p>If you have any questions or concerns, please feel free to contact our customer support.</p>
      <p class="footer">This is an automated email, please do not reply.</p>
    </div>
  </body>
</html>`))

	shippedTmpl = template.Must(template.New("shipped").Parse(`<!DOCTYPE html>
<html lang="en">
  <body>
    <div class="container">
      <div class="header"><h1>Order Shipped Notification</h1></div>
      <p>Dear {{.Name}},</p>
      <p>Good news! Your order with Order ID: <span class="order-id">{{.OrderID}}</span> has been shipped.</p>
      <div class="order-details">
        <p>Tracking Number: <span class="tracking-number">{{.TrackingNumber}}</span></p>
        <p>Carrier: <span class="carrier">{{.Carrier}}</span></p>
        <p>Estimated Delivery Date: <span class="delivery-date">{{.DeliveryDate}}</span></p>
        <p>Delivery City: <span class="delivery-city">{{.DeliveryCity}}</span></p>
      </div>
      <p>Thank you for shopping with us!</p>
      <p class="footer">This is an automated email, please do not reply.</p>
    </div>
  </body>
</html>`))

	outForDeliveryTmpl = template.Must(template.New("out-for-delivery").Parse(`<!DOCTYPE html>
<html lang="en">
  <body>
    <div class="container">
      <div class="header"><h1>Order Out for Delivery</h1></div>
      <p>Dear {{.Name}},</p>
      <p>Your order with Order ID: <span class="order-id">{{.OrderID}}</span> is out for delivery.</p>
      <div class="order-details">
        <p>Tracking Number: <span class="tracking-number">{{.TrackingNumber}}</span></p>
        <p>Carrier: <span class="carrier">{{.Carrier}}</span></p>
        <p>Expected Delivery Time: <span class="delivery-time">{{.DeliveryTime}}</span></p>
        <p>Delivery Address: <span class="delivery-address">{{.DeliveryAddress}}</span></p>
      </div>
      <p>Thank you for shopping with us!</p>
      <p class="footer">This is an automated email, please do not reply.</p>
    </div>
  </body>
</html>`))
)

// Confirmation builds the order-confirmation message sent right after
// an order is materialized.
func Confirmation(orderID string, totalPrice float64, name string) Message {
	return Message{
		Subject: "Order Confirmation",
		HTML: render(confirmationTmpl, map[string]any{
			"OrderID":    orderID,
			"TotalPrice": fmt.Sprintf("%.2f", totalPrice),
			"Name":       displayName(name),
		}),
	}
}

// StatusChange builds the generic status-change message.
func StatusChange(orderID, name, status string) Message {
	return Message{
		Subject: "Order Status Change",
		HTML: render(statusChangeTmpl, map[string]any{
			"OrderID": orderID,
			"Name":    displayName(name),
			"Status":  status,
		}),
	}
}

// Shipped builds the shipping message with tracking details.
func Shipped(orderID, name, trackingNumber, carrier, deliveryDate, deliveryCity string) Message {
	return Message{
		Subject: "Order Shipped Notification",
		HTML: render(shippedTmpl, map[string]any{
			"OrderID":        orderID,
			"Name":           displayName(name),
			"TrackingNumber": trackingNumber,
			"Carrier":        carrier,
			"DeliveryDate":   deliveryDate,
			"DeliveryCity":   deliveryCity,
		}),
	}
}

// OutForDelivery builds the delivery message with the expected
// delivery time computed when the order was created.
func OutForDelivery(orderID, name, trackingNumber, carrier, deliveryTime, deliveryAddress string) Message {
	return Message{
		Subject: "Order Out for Delivery",
		HTML: render(outForDeliveryTmpl, map[string]any{
			"OrderID":         orderID,
			"Name":            displayName(name),
			"TrackingNumber":  trackingNumber,
			"Carrier":         carrier,
			"DeliveryTime":    deliveryTime,
			"DeliveryAddress": deliveryAddress,
		}),
	}
}

func render(tmpl *template.Template, data map[string]any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("Failed to render notification template", "template", tmpl.Name(), "error", err)
	}

	return buf.String()
}

func displayName(name string) string {
	if name == "" {
		return "User"
	}

	return name
}
