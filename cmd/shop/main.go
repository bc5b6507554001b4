package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New("shop", cfg.LogLevel, cfg.Env).Output(zerolog.ConsoleWriter{Out: os.Stderr})

	s := newShop(cfg, log, os.Stdout)
	if err := s.reg.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (s *shop) registerCommands() {
	s.reg.Register(&Command{
		Name:        "products",
		Description: "List products in the catalog",
		Usage:       "shop products [--category Men|Women] [--search text] [--featured]",
		Examples: []string{
			"shop products",
			"shop products --category Women --search dress",
		},
		Run: s.products,
	})
	s.reg.Register(&Command{
		Name:        "show",
		Description: "Show one product",
		Usage:       "shop show <product-id>",
		Examples:    []string{"shop show KC-001"},
		Run:         s.show,
	})
	s.reg.Register(&Command{
		Name:        "add",
		Description: "Add a product to the cart",
		Usage:       "shop add <product-id> [--qty n] [--size s] [--inquire]",
		Examples: []string{
			"shop add KC-001 --qty 2 --size M",
			"shop add KC-001 --inquire",
		},
		Run: s.add,
	})
	s.reg.Register(&Command{
		Name:        "remove",
		Description: "Remove a cart line",
		Usage:       "shop remove <line>",
		Examples:    []string{"shop remove 1"},
		Run:         s.remove,
	})
	s.reg.Register(&Command{
		Name:        "qty",
		Description: "Change the quantity of a cart line; 0 removes it",
		Usage:       "shop qty <line> <quantity>",
		Examples:    []string{"shop qty 1 3"},
		Run:         s.qty,
	})
	s.reg.Register(&Command{
		Name:        "cart",
		Description: "Show the cart and its totals",
		Usage:       "shop cart [--shipping method]",
		Examples:    []string{"shop cart --shipping express-20"},
		Run:         s.showCart,
	})
	s.reg.Register(&Command{
		Name:        "clear",
		Description: "Empty the cart",
		Usage:       "shop clear",
		Run:         s.clear,
	})
	s.reg.Register(&Command{
		Name:        "checkout",
		Description: "Place the order and print the WhatsApp hand-off link",
		Usage:       "shop checkout --name n --phone p --address a [--email e] [--shipping method] [--payment method]",
		Examples: []string{
			`shop checkout --name "Ama Mensah" --phone 0240000000 --address "East Legon, Accra" --shipping express-20 --payment momo`,
		},
		Run: s.checkout,
	})
	s.reg.Register(&Command{
		Name:        "contact",
		Description: "Write to the store over WhatsApp",
		Usage:       "shop contact --name n --email e --message m",
		Examples:    []string{`shop contact --name Kofi --email k@example.com --message "Do you ship to Kumasi?"`},
		Run:         s.contact,
	})
}
