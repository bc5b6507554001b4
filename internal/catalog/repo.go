package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-storefront/internal/postgres"
)

// Repo is the Postgres Store.
type Repo struct{ DB *pgxpool.Pool }

var _ Store = (*Repo)(nil)

const productColumns = `product_id, title, short_description, long_description,
	price::text, old_price::text, promo_price::text, is_promo_active, currency,
	category, brand, sizes, images, tags, featured, in_stock, stock_quantity,
	weight, dim_length, dim_width, dim_height, material, care_instructions,
	is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p                    Product
		price                string
		oldPrice, promoPrice *string
		currency, category   string
	)
	err := row.Scan(&p.ID, &p.Title, &p.ShortDescription, &p.LongDescription,
		&price, &oldPrice, &promoPrice, &p.IsPromoActive, &currency,
		&category, &p.Brand, &p.Sizes, &p.Images, &p.Tags, &p.Featured, &p.InStock, &p.StockQuantity,
		&p.Weight, &p.Dimensions.Length, &p.Dimensions.Width, &p.Dimensions.Height, &p.Material, &p.CareInstructions,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	p.Currency = Currency(currency)
	p.Category = Category(category)
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return Product{}, fmt.Errorf("scan price: %w", err)
	}
	if p.OldPrice, err = nullDecimal(oldPrice); err != nil {
		return Product{}, fmt.Errorf("scan old_price: %w", err)
	}
	if p.PromoPrice, err = nullDecimal(promoPrice); err != nil {
		return Product{}, fmt.Errorf("scan promo_price: %w", err)
	}
	return p, nil
}

func nullDecimal(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func moneyArg(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

// where builds the WHERE clause for active-product filters.
func where(f Filter) (string, []any) {
	conds := []string{"is_active = TRUE"}
	var args []any
	if f.Category != "" {
		args = append(args, string(f.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		args = append(args, q)
		// any stemmed term matches: plainto_tsquery ANDs the terms, so turn & into |
		conds = append(conds, fmt.Sprintf("search_doc @@ replace(plainto_tsquery('english', $%d)::text, ' & ', ' | ')::tsquery", len(args)))
	}
	if f.FeaturedOnly {
		conds = append(conds, "featured = TRUE")
	}
	if f.OutOfStock {
		conds = append(conds, "stock_quantity = 0 AND in_stock = FALSE")
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *Repo) ListActive(ctx context.Context, f Filter) ([]Product, error) {
	clause, args := where(f)
	q := `SELECT ` + productColumns + ` FROM products` + clause + ` ORDER BY created_at DESC, row_id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) CountActive(ctx context.Context, f Filter) (int, error) {
	clause, args := where(f)
	var n int
	err := r.DB.QueryRow(ctx, `SELECT count(*) FROM products`+clause, args...).Scan(&n)
	return n, err
}

func (r *Repo) GetActive(ctx context.Context, id string) (Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE product_id=$1 AND is_active = TRUE`, id)
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE product_id=$1`, id)
}

func (r *Repo) get(ctx context.Context, q, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE product_id=$1)`, id).Scan(&ok)
	return ok, err
}

func (r *Repo) Insert(ctx context.Context, p Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products (product_id, title, short_description, long_description,
			price, old_price, promo_price, is_promo_active, currency,
			category, brand, sizes, images, tags, featured, in_stock, stock_quantity,
			weight, dim_length, dim_width, dim_height, material, care_instructions,
			search_doc, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5::numeric,$6::numeric,$7::numeric,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
			$18,$19,$20,$21,$22,$23, to_tsvector('english', $24), $25, $26, $27)`,
		p.ID, p.Title, p.ShortDescription, p.LongDescription,
		p.Price.String(), moneyArg(p.OldPrice), moneyArg(p.PromoPrice), p.IsPromoActive, string(p.Currency),
		string(p.Category), p.Brand, nonNil(p.Sizes), nonNil(p.Images), nonNil(p.Tags), p.Featured, p.InStock, p.StockQuantity,
		p.Weight, p.Dimensions.Length, p.Dimensions.Width, p.Dimensions.Height, p.Material, p.CareInstructions,
		searchDocument(p), p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if _, dup := postgres.UniqueViolation(err); dup {
		return ErrDuplicateID
	}
	return err
}

// Update rewrites the editable columns. is_active and created_at stay as stored.
func (r *Repo) Update(ctx context.Context, p Product) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE products SET title=$2, short_description=$3, long_description=$4,
			price=$5::numeric, old_price=$6::numeric, promo_price=$7::numeric, is_promo_active=$8, currency=$9,
			category=$10, brand=$11, sizes=$12, images=$13, tags=$14, featured=$15, in_stock=$16, stock_quantity=$17,
			weight=$18, dim_length=$19, dim_width=$20, dim_height=$21, material=$22, care_instructions=$23,
			search_doc=to_tsvector('english', $24), updated_at=$25
		WHERE product_id=$1`,
		p.ID, p.Title, p.ShortDescription, p.LongDescription,
		p.Price.String(), moneyArg(p.OldPrice), moneyArg(p.PromoPrice), p.IsPromoActive, string(p.Currency),
		string(p.Category), p.Brand, nonNil(p.Sizes), nonNil(p.Images), nonNil(p.Tags), p.Featured, p.InStock, p.StockQuantity,
		p.Weight, p.Dimensions.Length, p.Dimensions.Width, p.Dimensions.Height, p.Material, p.CareInstructions,
		searchDocument(p), p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Deactivate(ctx context.Context, id string, at time.Time) error {
	tag, err := r.DB.Exec(ctx, `UPDATE products SET is_active = FALSE, updated_at=$2 WHERE product_id=$1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
