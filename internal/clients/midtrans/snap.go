package midtrans

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	mt "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type Config struct {
	ServerKey  string
	Production bool
}

type Customer struct {
	Name  string
	Email string
}

type LineItem struct {
	ID    string
	Name  string
	Price int64
}

type Transaction struct {
	Token       string
	RedirectURL string
}

// Gateway is the payment provider as seen by checkout.
type Gateway interface {
	CreateTransaction(ctx context.Context, orderID string, amount int64, item LineItem, cust Customer) (*Transaction, error)
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}

type snapGateway struct {
	client    snap.Client
	serverKey string
}

func NewGateway(cfg Config) (Gateway, error) {
	key := strings.TrimSpace(cfg.ServerKey)
	if key == "" {
		return nil, fmt.Errorf("missing midtrans server key")
	}
	g := &snapGateway{serverKey: key}
	if cfg.Production {
		g.client.New(key, mt.Production)
	} else {
		g.client.New(key, mt.Sandbox)
	}
	return g, nil
}

func (g *snapGateway) CreateTransaction(ctx context.Context, orderID string, amount int64, item LineItem, cust Customer) (*Transaction, error) {
	if amount <= 0 {
		return nil, errors.New("invalid amount")
	}
	if orderID == "" {
		return nil, errors.New("order id required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := &snap.Request{
		TransactionDetails: mt.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CustomerDetail: &mt.CustomerDetails{
			FName: cust.Name,
			Email: cust.Email,
		},
		Items: &[]mt.ItemDetails{{
			ID:    item.ID,
			Name:  truncate(item.Name, 50),
			Price: item.Price,
			Qty:   1,
		}},
	}

	resp, mErr := g.client.CreateTransaction(req)
	if mErr != nil {
		return nil, fmt.Errorf("midtrans create transaction: %w", mErr)
	}
	if resp == nil || resp.Token == "" {
		return nil, errors.New("midtrans returned no token")
	}
	return &Transaction{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// VerifySignature checks SHA512(order_id + status_code + gross_amount + server_key).
func (g *snapGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return VerifySignature(g.serverKey, orderID, statusCode, grossAmount, signature)
}

func Signature(serverKey, orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(serverKey, orderID, statusCode, grossAmount, signature string) bool {
	want := strings.ToLower(strings.TrimSpace(signature))
	if want == "" || serverKey == "" {
		return false
	}
	got := Signature(serverKey, orderID, statusCode, grossAmount)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// truncate keeps at most n runes so multi-byte names stay valid UTF-8.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
