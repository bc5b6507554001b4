package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

const requestTimeout = 15 * time.Second

type shop struct {
	cfg      config.Config
	api      *storefront.Client
	carts    cart.Storage
	composer *checkout.Composer
	reg      *CommandRegistry
	out      io.Writer
}

func newShop(cfg config.Config, log zerolog.Logger, out io.Writer) *shop {
	s := &shop{
		cfg: cfg,
		api: storefront.New(cfg.StorefrontAPI),
		out: out,
	}
	if cfg.CartRedisKey != "" {
		s.carts = cart.RedisStorage{RDB: redisx.New(cfg.RedisAddr), Name: cfg.CartRedisKey}
	} else {
		s.carts = cart.FileStorage{Path: cfg.CartFile}
	}
	s.composer = &checkout.Composer{
		Sink:              s.api,
		Handoff:           checkout.HandoffFunc(s.printLink),
		Recipient:         cfg.MerchantWhatsApp,
		StoreName:         cfg.StoreName,
		FreeShippingAbove: cfg.FreeShippingAbove,
		Log:               log,
	}
	s.reg = NewCommandRegistry(out)
	s.registerCommands()
	return s
}

func (s *shop) printLink(link string) error {
	_, err := fmt.Fprintf(s.out, "\nSend it on WhatsApp:\n  %s\n", link)
	return err
}

func (s *shop) openCart(ctx context.Context, products ...catalog.PublicProduct) (*cart.Cart, error) {
	c, err := cart.Open(ctx, s.carts, cart.NewSnapshot(products))
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

func money(cur catalog.Currency, v decimal.Decimal) string {
	if cur == "" {
		cur = catalog.DefaultCurrency
	}
	return string(cur) + v.String()
}

func priceLabel(p catalog.PublicProduct) string {
	label := money(p.Currency, decimal.NewFromFloat(p.Price))
	if p.IsPromoActive && p.PromoPrice != nil {
		return money(p.Currency, decimal.NewFromFloat(*p.PromoPrice)) + " (promo, was " + label + ")"
	}
	if p.OldPrice != nil {
		label += " (was " + money(p.Currency, decimal.NewFromFloat(*p.OldPrice)) + ")"
	}
	return label
}

func (s *shop) products(args []string) error {
	fs := s.reg.NewFlagSet("products")
	category := fs.String("category", "", "Men or Women")
	search := fs.String("search", "", "free-text search")
	featured := fs.Bool("featured", false, "only featured products")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	ps, err := s.api.ListProducts(ctx, storefront.ListOptions{
		Category: catalog.Category(*category),
		Search:   *search,
		Featured: *featured,
	})
	if err != nil {
		return err
	}
	if len(ps) == 0 {
		fmt.Fprintln(s.out, "No products found.")
		return nil
	}

	t := NewTableWriter("ID", "Title", "Category", "Price", "Stock")
	for _, p := range ps {
		t.AddRow(p.ID, p.Title, string(p.Category), priceLabel(p), p.Stock.String())
	}
	t.Print(s.out)
	return nil
}

func (s *shop) show(args []string) error {
	fs := s.reg.NewFlagSet("show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("product id required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	p, err := s.api.GetProduct(ctx, fs.Arg(0))
	if errors.Is(err, storefront.ErrNotFound) {
		return fmt.Errorf("product %s not found", fs.Arg(0))
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%s (%s)\n", p.Title, p.ID)
	fmt.Fprintf(s.out, "Category: %s\n", p.Category)
	fmt.Fprintf(s.out, "Price:    %s\n", priceLabel(p))
	fmt.Fprintf(s.out, "Stock:    %s\n", p.Stock)
	if len(p.Sizes) > 0 {
		fmt.Fprintf(s.out, "Sizes:    %s\n", strings.Join(p.Sizes, ", "))
	}
	if p.Brand != "" {
		fmt.Fprintf(s.out, "Brand:    %s\n", p.Brand)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(s.out, "Tags:     %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Fprintf(s.out, "\n%s\n", p.ShortDescription)
	if p.Description != "" {
		fmt.Fprintf(s.out, "\n%s\n", p.Description)
	}
	for _, img := range p.Images {
		fmt.Fprintf(s.out, "  %s\n", img)
	}
	return nil
}

func (s *shop) add(args []string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		s.reg.commands["add"].PrintUsage(s.out)
		return fmt.Errorf("product id required")
	}
	id := args[0]
	fs := s.reg.NewFlagSet("add")
	qty := fs.Int("qty", 1, "quantity")
	size := fs.String("size", "", "size, when the product has sizes")
	inquire := fs.Bool("inquire", false, "also print a WhatsApp inquiry link for the product")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	p, err := s.api.GetProduct(ctx, id)
	if errors.Is(err, storefront.ErrNotFound) {
		return fmt.Errorf("product %s not found", id)
	}
	if err != nil {
		return err
	}
	if !p.Stock.Available() {
		return fmt.Errorf("%s is out of stock", p.Title)
	}
	if *size != "" && len(p.Sizes) > 0 && !slices.Contains(p.Sizes, *size) {
		return fmt.Errorf("size %s is not available; choose one of %s", *size, strings.Join(p.Sizes, ", "))
	}

	c, err := s.openCart(ctx, p)
	if err != nil {
		return err
	}
	if _, err := c.Add(ctx, p.ID, *qty, *size); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added %d x %s to your cart (%d items).\n", *qty, p.Title, c.Count())

	if *inquire {
		msg := checkout.InquiryMessage(currencyOf(p), p, *qty, *size)
		return s.printLink(checkout.DeepLink(s.cfg.MerchantWhatsApp, msg))
	}
	return nil
}

func currencyOf(p catalog.PublicProduct) catalog.Currency {
	if p.Currency == "" {
		return catalog.DefaultCurrency
	}
	return p.Currency
}

func lineArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid line number %q", s)
	}
	return n - 1, nil
}

func (s *shop) remove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: shop remove <line>")
	}
	idx, err := lineArg(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	c, err := s.openCart(ctx)
	if err != nil {
		return err
	}
	if err := c.Remove(ctx, idx); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Removed line %s (%d items left).\n", args[0], c.Count())
	return nil
}

func (s *shop) qty(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: shop qty <line> <quantity>")
	}
	idx, err := lineArg(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}

	ctx := context.Background()
	c, err := s.openCart(ctx)
	if err != nil {
		return err
	}
	if err := c.UpdateQuantity(ctx, idx, n); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Cart has %d items.\n", c.Count())
	return nil
}

func (s *shop) showCart(args []string) error {
	fs := s.reg.NewFlagSet("cart")
	shipping := fs.String("shipping", "", "shipping method, e.g. express-20")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := s.openCart(context.Background())
	if err != nil {
		return err
	}
	if c.Empty() {
		fmt.Fprintln(s.out, "Your cart is empty.")
		return nil
	}

	cur := catalog.DefaultCurrency
	t := NewTableWriter("#", "Item", "Size", "Qty", "Price", "Total")
	for i, l := range c.Lines() {
		t.AddRow(strconv.Itoa(i+1), l.Title, l.Size, strconv.Itoa(l.Quantity), money(cur, l.Price), money(cur, l.Total()))
	}
	t.Print(s.out)

	tot := c.Totals(cart.ShippingFor(*shipping, s.cfg.FreeShippingAbove))
	fmt.Fprintf(s.out, "Subtotal: %s\n", money(cur, tot.Subtotal))
	fmt.Fprintf(s.out, "Shipping: %s\n", money(cur, tot.Shipping))
	fmt.Fprintf(s.out, "Total:    %s\n", money(cur, tot.Total))
	return nil
}

func (s *shop) clear(args []string) error {
	ctx := context.Background()
	c, err := s.openCart(ctx)
	if err != nil {
		return err
	}
	if err := c.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Cart cleared.")
	return nil
}

func (s *shop) checkout(args []string) error {
	fs := s.reg.NewFlagSet("checkout")
	var f checkout.Form
	fs.StringVar(&f.Name, "name", "", "full name (required)")
	fs.StringVar(&f.Phone, "phone", "", "phone number (required)")
	fs.StringVar(&f.Email, "email", "", "email address")
	fs.StringVar(&f.Address, "address", "", "delivery address (required)")
	fs.StringVar(&f.ShippingMethod, "shipping", "", "shipping method, e.g. express-20")
	fs.StringVar(&f.PaymentMethod, "payment", "", "payment method")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	c, err := s.openCart(ctx)
	if err != nil {
		return err
	}
	rc, err := s.composer.Submit(ctx, c, f)
	if errors.Is(err, checkout.ErrEmptyCart) {
		return fmt.Errorf("your cart is empty")
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "\nOrder %s placed. Total %s.\n", rc.Order.OrderID, money(catalog.DefaultCurrency, rc.Order.Total.Decimal))
	if !rc.Saved {
		fmt.Fprintln(s.out, "The store could not be reached; send the WhatsApp message above to complete your order.")
	}
	return nil
}

func (s *shop) contact(args []string) error {
	fs := s.reg.NewFlagSet("contact")
	var ct checkout.Contact
	fs.StringVar(&ct.Name, "name", "", "your name")
	fs.StringVar(&ct.Email, "email", "", "your email")
	fs.StringVar(&ct.Message, "message", "", "message text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(ct.Name) == "" || strings.TrimSpace(ct.Message) == "" {
		return fmt.Errorf("--name and --message are required")
	}
	return s.printLink(checkout.DeepLink(s.cfg.MerchantWhatsApp, checkout.ContactMessage(s.cfg.StoreName, ct)))
}
