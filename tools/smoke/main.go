// Command smoke runs a quick end-to-end pass against a running gateway:
// log in, browse the catalog, build a cart, check out, and poll the order
// until it shows up. Useful after a compose up to confirm the services
// are actually talking to each other.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rishavk21/UrbanCart-backend/pkg/apiclient"
)

func main() {
	var (
		baseURL  = flag.String("base-url", envOr("GATEWAY_URL", "http://localhost:8080"), "gateway base URL")
		email    = flag.String("email", envOr("SMOKE_EMAIL", ""), "account email")
		password = flag.String("password", envOr("SMOKE_PASSWORD", ""), "account password")
		timeout  = flag.Duration("timeout", 60*time.Second, "overall deadline")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("smoke: -email and -password (or SMOKE_EMAIL/SMOKE_PASSWORD) are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := apiclient.New(*baseURL,
		apiclient.WithAuthFailureHandler(func(err error) {
			log.Fatalf("smoke: session expired and refresh failed: %v", err)
		}))
	if err != nil {
		log.Fatalf("smoke: %v", err)
	}

	if err := run(ctx, client, *email, *password); err != nil {
		log.Fatalf("smoke: FAILED: %v", err)
	}
	fmt.Println("smoke: OK")
}

func run(ctx context.Context, client *apiclient.Client, email, password string) error {
	login := map[string]string{"email": email, "password": password}
	if err := client.Post(ctx, "/api/auth/login", login, nil, apiclient.Public()); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	step("logged in as %s", email)

	var me struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := client.Get(ctx, "/api/auth/logged-in-user", &me); err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	step("session valid, user id %s", me.User.ID)

	var listing struct {
		Products []struct {
			ID    string  `json:"id"`
			SKU   string  `json:"sku"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
			Stock int     `json:"stock"`
		} `json:"products"`
		Total int64 `json:"total"`
	}
	if err := client.Get(ctx, "/api/products?limit=5", &listing, apiclient.Public()); err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	if len(listing.Products) == 0 {
		return fmt.Errorf("catalog is empty, seed some products first")
	}
	product := listing.Products[0]
	step("catalog has %d products, using %s (%s)", listing.Total, product.SKU, product.Name)

	addItem := map[string]interface{}{
		"sku":        product.SKU,
		"product_id": product.ID,
		"name":       product.Name,
		"unit_price": product.Price,
		"quantity":   1,
		"max_stock":  product.Stock,
	}
	if err := client.Post(ctx, "/api/cart/items", addItem, nil); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	// A second add of the same SKU must merge, not duplicate.
	if err := client.Post(ctx, "/api/cart/items", addItem, nil); err != nil {
		return fmt.Errorf("re-add to cart: %w", err)
	}

	var cart struct {
		Items []struct {
			SKU      string `json:"sku"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
	}
	if err := client.Get(ctx, "/api/cart", &cart); err != nil {
		return fmt.Errorf("get cart: %w", err)
	}
	if len(cart.Items) != 1 {
		return fmt.Errorf("expected one merged cart line, got %d", len(cart.Items))
	}
	step("cart merged to a single line, qty %d", cart.Items[0].Quantity)

	checkout := map[string]interface{}{
		"idempotency_key": uuid.NewString(),
		"payment_method":  "cod",
		"shipping_address": map[string]string{
			"name":        "Smoke Test",
			"line1":       "1 Test Street",
			"city":        "Testville",
			"state":       "TS",
			"postal_code": "00000",
			"country":     "IN",
			"phone":       "0000000000",
		},
	}
	if err := client.Post(ctx, "/api/cart/checkout", checkout, nil); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	step("checkout accepted")

	// The order is created asynchronously off the checkout event.
	deadline := time.Now().Add(30 * time.Second)
	for {
		var orders struct {
			Orders []struct {
				OrderNumber string `json:"order_number"`
				Status      string `json:"status"`
			} `json:"orders"`
		}
		if err := client.Get(ctx, "/api/orders/my-orders?limit=1", &orders); err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		if len(orders.Orders) > 0 {
			step("order %s visible with status %s", orders.Orders[0].OrderNumber, orders.Orders[0].Status)
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("order never appeared after checkout")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func step(format string, args ...interface{}) {
	fmt.Printf("smoke: "+format+"\n", args...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
