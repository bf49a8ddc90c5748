// Command order-client is a terminal client for the food ordering API. It
// keeps a cart in a local JSON file, mirrors the browser client's cart
// behavior, and submits orders over HTTP.
//
// Usage:
//
//	order-client [-server URL] [-cart-file PATH] <command> [args]
//
// Commands:
//
//	menu                 list available menu items
//	add <id>             add one unit of a menu item to the cart
//	set <id> <qty>       set the quantity of a cart line (0 removes it)
//	remove <id>          remove a cart line
//	show                 print the cart with subtotal, tax, and total
//	clear                empty the cart
//	checkout             submit the cart as an order
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/food-order-api/internal/cart"
	"github.com/xenking/food-order-api/internal/domain/menu"
	"github.com/xenking/food-order-api/internal/domain/order"
)

func main() {
	var (
		serverURL string
		cartFile  string
	)

	flag.StringVar(&serverURL, "server", "http://localhost:8080", "API server base URL")
	flag.StringVar(&cartFile, "cart-file", defaultCartFile(), "path to the local cart file")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cli := &client{
		baseURL:  serverURL,
		cartFile: cartFile,
		http:     &http.Client{Timeout: 15 * time.Second},
	}

	if err := cli.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func defaultCartFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".food-order-cart.json"
	}
	return filepath.Join(home, ".food-order-cart.json")
}

type client struct {
	baseURL  string
	cartFile string
	http     *http.Client
}

func (c *client) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "menu":
		return c.showMenu(ctx)
	case "add":
		if len(args) != 1 {
			return errors.New("usage: add <id>")
		}
		return c.addItem(ctx, args[0])
	case "set":
		if len(args) != 2 {
			return errors.New("usage: set <id> <qty>")
		}
		return c.setQuantity(args[0], args[1])
	case "remove":
		if len(args) != 1 {
			return errors.New("usage: remove <id>")
		}
		return c.removeItem(args[0])
	case "show":
		return c.showCart()
	case "clear":
		return c.clearCart()
	case "checkout":
		return c.checkout(ctx, args)
	default:
		return errors.Errorf("unknown command %q", command)
	}
}

func (c *client) showMenu(ctx context.Context) error {
	items, err := c.fetchMenu(ctx)
	if err != nil {
		return err
	}

	for _, item := range items {
		fmt.Printf("%3d  %-24s $%s\n", item.ID, item.Name, item.Price.StringFixed(2))
		if item.Description != "" {
			fmt.Printf("     %s\n", item.Description)
		}
	}
	return nil
}

func (c *client) addItem(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	items, err := c.fetchMenu(ctx)
	if err != nil {
		return err
	}

	var found *menu.Item
	for i := range items {
		if items[i].ID == id {
			found = &items[i]
			break
		}
	}
	if found == nil {
		return errors.Errorf("menu item %d not found", id)
	}

	crt, err := c.loadCart()
	if err != nil {
		return err
	}
	crt.Add(*found)
	if err := c.saveCart(crt); err != nil {
		return err
	}

	fmt.Printf("added %s, cart has %d item(s)\n", found.Name, crt.TotalItems())
	return nil
}

func (c *client) setQuantity(rawID, rawQty string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(rawQty)
	if err != nil {
		return errors.Wrap(err, "parse quantity")
	}

	crt, err := c.loadCart()
	if err != nil {
		return err
	}
	crt.SetQuantity(id, qty)
	if err := c.saveCart(crt); err != nil {
		return err
	}

	fmt.Printf("cart has %d item(s)\n", crt.TotalItems())
	return nil
}

func (c *client) removeItem(rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	crt, err := c.loadCart()
	if err != nil {
		return err
	}
	crt.Remove(id)
	if err := c.saveCart(crt); err != nil {
		return err
	}

	fmt.Printf("cart has %d item(s)\n", crt.TotalItems())
	return nil
}

func (c *client) showCart() error {
	crt, err := c.loadCart()
	if err != nil {
		return err
	}
	if crt.Empty() {
		fmt.Println("cart is empty")
		return nil
	}

	for _, l := range crt.Lines() {
		lineTotal := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		fmt.Printf("%3d  %-24s %2d x $%s = $%s\n",
			l.ItemID, l.Name, l.Quantity, l.UnitPrice.StringFixed(2), lineTotal.StringFixed(2))
	}
	fmt.Printf("\nsubtotal  $%s\n", crt.Subtotal().StringFixed(2))
	fmt.Printf("tax       $%s\n", crt.Tax().StringFixed(2))
	fmt.Printf("total     $%s\n", crt.Total().StringFixed(2))
	return nil
}

func (c *client) clearCart() error {
	crt, err := c.loadCart()
	if err != nil {
		return err
	}
	crt.Clear()
	if err := c.saveCart(crt); err != nil {
		return err
	}

	fmt.Println("cart cleared")
	return nil
}

func (c *client) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	var (
		name    = fs.String("name", "", "customer name (required)")
		email   = fs.String("email", "", "customer email (required)")
		phone   = fs.String("phone", "", "customer phone (required)")
		address = fs.String("address", "", "delivery address")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	crt, err := c.loadCart()
	if err != nil {
		return err
	}
	if crt.Empty() {
		return errors.New("cart is empty")
	}

	req := crt.Submission(order.Customer{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Address: *address,
	})

	orderID, err := c.submitOrder(ctx, req)
	if err != nil {
		return err
	}

	// The cart survives a failed submission so the client can retry.
	crt.Clear()
	if err := c.saveCart(crt); err != nil {
		return errors.Wrap(err, "clear cart after submit")
	}

	fmt.Printf("order %d placed, total $%s\n", orderID, req.DeclaredTotal.StringFixed(2))
	return nil
}

type menuItemJSON struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

func (c *client) fetchMenu(ctx context.Context) ([]menu.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/menu", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build menu request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch menu")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch menu: unexpected status %d", resp.StatusCode)
	}

	var raw []menuItemJSON
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode menu")
	}

	items := make([]menu.Item, len(raw))
	for i, m := range raw {
		items[i] = menu.Item{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Price:       m.Price,
			Image:       m.Image,
		}
	}
	return items, nil
}

type submitOrderJSON struct {
	CustomerInfo struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address,omitempty"`
	} `json:"customerInfo"`
	CartItems []struct {
		ID       int64           `json:"id"`
		Quantity int             `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
	} `json:"cartItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (c *client) submitOrder(ctx context.Context, sub order.SubmitRequest) (int64, error) {
	var body submitOrderJSON
	body.CustomerInfo.Name = sub.Customer.Name
	body.CustomerInfo.Email = sub.Customer.Email
	body.CustomerInfo.Phone = sub.Customer.Phone
	body.CustomerInfo.Address = sub.Customer.Address
	body.CartItems = make([]struct {
		ID       int64           `json:"id"`
		Quantity int             `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
	}, len(sub.Lines))
	for i, l := range sub.Lines {
		body.CartItems[i].ID = l.ItemID
		body.CartItems[i].Quantity = l.Quantity
		body.CartItems[i].Price = l.UnitPrice
	}
	body.TotalAmount = sub.DeclaredTotal

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, errors.Wrap(err, "encode order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(payload))
	if err != nil {
		return 0, errors.Wrap(err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "submit order")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, errors.Wrap(err, "read response")
	}

	var result struct {
		Message string `json:"message"`
		OrderID int64  `json:"orderId"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, errors.Errorf("submit order: status %d, unreadable body", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusCreated {
		return 0, errors.Errorf("submit order rejected: %s", result.Message)
	}
	return result.OrderID, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse item id")
	}
	if id <= 0 {
		return 0, errors.New("item id must be positive")
	}
	return id, nil
}

func (c *client) loadCart() (*cart.Cart, error) {
	data, err := os.ReadFile(c.cartFile)
	if errors.Is(err, os.ErrNotExist) {
		return &cart.Cart{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read cart file")
	}

	var crt cart.Cart
	if err := json.Unmarshal(data, &crt); err != nil {
		return nil, errors.Wrap(err, "parse cart file")
	}
	return &crt, nil
}

func (c *client) saveCart(crt *cart.Cart) error {
	data, err := json.Marshal(crt)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	if err := os.WriteFile(c.cartFile, data, 0o600); err != nil {
		return errors.Wrap(err, "write cart file")
	}
	return nil
}
