// Package fixtures loads a storefront ledger from YAML. cmd/seed writes it to
// the database; tests turn it into an in-memory ledger.
package fixtures

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/raja1702/computer-storage-solutions/internal/data/memledger"
	"github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
)

type document struct {
	Users    []userDoc    `yaml:"users"`
	Products []productDoc `yaml:"products"`
	Orders   []orderDoc   `yaml:"orders"`
}

type userDoc struct {
	ID        string `yaml:"id"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Phone     string `yaml:"phone"`
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	CreatedAt string `yaml:"created_at"`
}

type productDoc struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Category    string         `yaml:"category"`
	Price       string         `yaml:"price"`
	Stock       int            `yaml:"stock"`
	Attributes  map[string]any `yaml:"attributes"`
}

type orderDoc struct {
	ID          string    `yaml:"id"`
	UserID      string    `yaml:"user_id"`
	OrderDate   string    `yaml:"order_date"`
	TotalAmount string    `yaml:"total_amount"`
	Lines       []lineDoc `yaml:"lines"`
}

type lineDoc struct {
	ID        string `yaml:"id"`
	ProductID string `yaml:"product_id"`
	Quantity  int    `yaml:"quantity"`
	UnitPrice string `yaml:"unit_price"`
}

// Set is a parsed, validated fixture.
type Set struct {
	Users    []commerce.User
	Products []commerce.Product
	Orders   []commerce.Order
	Lines    []commerce.OrderLine

	passwords map[uuid.UUID]string
}

func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML fixture. Order totals default to the sum of their lines;
// an explicit total that disagrees with the lines is rejected.
func Load(r io.Reader) (*Set, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	now := time.Now().UTC()
	set := &Set{passwords: make(map[uuid.UUID]string)}

	for i, u := range doc.Users {
		id, err := parseID(u.ID, "users[%d].id", i)
		if err != nil {
			return nil, err
		}
		created, err := parseTimeOr(u.CreatedAt, now, "users[%d].created_at", i)
		if err != nil {
			return nil, err
		}
		set.Users = append(set.Users, commerce.User{
			ID:        id,
			Email:     strings.TrimSpace(u.Email),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Phone:     u.Phone,
			Address:   u.Address,
			CreatedAt: created,
		})
		if u.Password != "" {
			set.passwords[id] = u.Password
		}
	}

	for i, p := range doc.Products {
		id, err := parseID(p.ID, "products[%d].id", i)
		if err != nil {
			return nil, err
		}
		price, err := parseMoney(p.Price, "products[%d].price", i)
		if err != nil {
			return nil, err
		}
		var attrs datatypes.JSON
		if len(p.Attributes) > 0 {
			raw, err := jsonAttributes(p.Attributes)
			if err != nil {
				return nil, fmt.Errorf("products[%d].attributes: %w", i, err)
			}
			attrs = raw
		}
		set.Products = append(set.Products, commerce.Product{
			ID:          id,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       price,
			Stock:       p.Stock,
			Attributes:  attrs,
			CreatedAt:   now,
		})
	}

	for i, o := range doc.Orders {
		order, lines, err := parseOrder(i, o, now)
		if err != nil {
			return nil, err
		}
		set.Orders = append(set.Orders, order)
		set.Lines = append(set.Lines, lines...)
	}
	return set, nil
}

func parseOrder(i int, o orderDoc, now time.Time) (commerce.Order, []commerce.OrderLine, error) {
	id, err := parseID(o.ID, "orders[%d].id", i)
	if err != nil {
		return commerce.Order{}, nil, err
	}
	userID, err := parseID(o.UserID, "orders[%d].user_id", i)
	if err != nil {
		return commerce.Order{}, nil, err
	}
	date, err := parseTimeOr(o.OrderDate, time.Time{}, "orders[%d].order_date", i)
	if err != nil {
		return commerce.Order{}, nil, err
	}
	if date.IsZero() {
		return commerce.Order{}, nil, fmt.Errorf("orders[%d].order_date: required", i)
	}

	total := decimal.Zero
	lines := make([]commerce.OrderLine, 0, len(o.Lines))
	for j, l := range o.Lines {
		productID, err := parseID(l.ProductID, fmt.Sprintf("orders[%d].lines[%%d].product_id", i), j)
		if err != nil {
			return commerce.Order{}, nil, err
		}
		if l.Quantity <= 0 {
			return commerce.Order{}, nil, fmt.Errorf("orders[%d].lines[%d].quantity: must be positive, got %d", i, j, l.Quantity)
		}
		price, err := parseMoney(l.UnitPrice, fmt.Sprintf("orders[%d].lines[%%d].unit_price", i), j)
		if err != nil {
			return commerce.Order{}, nil, err
		}
		lineID := uuid.NewSHA1(id, []byte(fmt.Sprintf("line-%d", j)))
		if strings.TrimSpace(l.ID) != "" {
			if lineID, err = parseID(l.ID, fmt.Sprintf("orders[%d].lines[%%d].id", i), j); err != nil {
				return commerce.Order{}, nil, err
			}
		}
		line := commerce.OrderLine{ID: lineID, OrderID: id, ProductID: productID, Quantity: l.Quantity, UnitPrice: price}
		total = total.Add(line.LineTotal())
		lines = append(lines, line)
	}

	if strings.TrimSpace(o.TotalAmount) != "" {
		declared, err := parseMoney(o.TotalAmount, "orders[%d].total_amount", i)
		if err != nil {
			return commerce.Order{}, nil, err
		}
		if len(lines) > 0 && !declared.Equal(total) {
			return commerce.Order{}, nil, fmt.Errorf("orders[%d].total_amount: %s does not match line total %s", i, declared, total)
		}
		total = declared
	}

	return commerce.Order{
		ID:          id,
		UserID:      userID,
		OrderDate:   date,
		TotalAmount: total,
		CreatedAt:   now,
	}, lines, nil
}

// Ledger builds an in-memory ledger holding the fixture.
func (s *Set) Ledger() *memledger.Store {
	store := memledger.New()
	store.AddUsers(s.Users...)
	store.AddProducts(s.Products...)
	for _, o := range s.Orders {
		store.AddOrder(o)
	}
	store.AddLines(s.Lines...)
	return store
}

type ApplyOptions struct {
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	BatchSize  int
}

// Apply inserts the fixture in one transaction. Plain-text passwords are
// stored as bcrypt hashes.
func (s *Set) Apply(ctx context.Context, db *gorm.DB, opts ApplyOptions) error {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 200
	}
	users := make([]commerce.User, len(s.Users))
	copy(users, s.Users)
	for i := range users {
		pw, ok := s.passwords[users[i].ID]
		if !ok {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), opts.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", users[i].ID, err)
		}
		users[i].PasswordHash = string(hash)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(users) > 0 {
			if err := tx.CreateInBatches(users, opts.BatchSize).Error; err != nil {
				return fmt.Errorf("insert users: %w", err)
			}
		}
		if len(s.Products) > 0 {
			if err := tx.CreateInBatches(s.Products, opts.BatchSize).Error; err != nil {
				return fmt.Errorf("insert products: %w", err)
			}
		}
		if len(s.Orders) > 0 {
			if err := tx.CreateInBatches(s.Orders, opts.BatchSize).Error; err != nil {
				return fmt.Errorf("insert orders: %w", err)
			}
		}
		if len(s.Lines) > 0 {
			if err := tx.CreateInBatches(s.Lines, opts.BatchSize).Error; err != nil {
				return fmt.Errorf("insert order lines: %w", err)
			}
		}
		return nil
	})
}

func parseID(raw, field string, args ...any) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", fmt.Sprintf(field, args...), err)
	}
	return id, nil
}

func parseMoney(raw, field string, args ...any) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", fmt.Sprintf(field, args...), err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s: must not be negative", fmt.Sprintf(field, args...))
	}
	return d, nil
}

func parseTimeOr(raw string, def time.Time, field string, args ...any) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: unable to parse date %q", fmt.Sprintf(field, args...), raw)
}
