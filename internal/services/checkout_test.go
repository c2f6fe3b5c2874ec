package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursehub-backend/internal/clients/midtrans"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

const testServerKey = "SB-Mid-server-test"

type fakeGateway struct {
	calls int
	fail  error
}

func (g *fakeGateway) CreateTransaction(_ context.Context, orderID string, amount int64, _ midtrans.LineItem, _ midtrans.Customer) (*midtrans.Transaction, error) {
	g.calls++
	if g.fail != nil {
		return nil, g.fail
	}
	return &midtrans.Transaction{Token: "tok-" + orderID, RedirectURL: "https://pay.example.com/" + orderID}, nil
}

func (g *fakeGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return midtrans.VerifySignature(testServerKey, orderID, statusCode, grossAmount, signature)
}

func signed(orderID, status, gross, txStatus string) Notification {
	return Notification{
		OrderID:           orderID,
		StatusCode:        status,
		GrossAmount:       gross,
		SignatureKey:      midtrans.Signature(testServerKey, orderID, status, gross),
		TransactionStatus: txStatus,
	}
}

func TestCheckout_PaidFlow(t *testing.T) {
	f := newFixture(t)
	gw := &fakeGateway{}
	svc := NewCheckoutService(f.db, f.log, f.orders, f.repos.Courses, f.repos.Products, f.access, gw)
	u := testutil.SeedUser(t, f.ctx, f.db, "buyer@example.com")
	c := testutil.SeedCourse(t, f.ctx, f.db, true)

	res, err := svc.CreateCheckout(f.ctx, CheckoutInput{UserID: u.ID, Email: u.Email, ItemType: types.ItemCourse, ItemID: c.ID})
	require.NoError(t, err)
	require.False(t, res.Free)
	require.Equal(t, types.OrderPending, res.Status)
	require.Equal(t, "tok-"+res.OrderID, res.Token)

	// Bad signature is rejected before any state changes.
	bad := signed(res.OrderID, "200", "150000.00", "settlement")
	bad.SignatureKey = "deadbeef"
	_, err = svc.HandleNotification(f.ctx, bad)
	require.ErrorIs(t, err, apierr.ErrUnauthorized)

	_, err = svc.HandleNotification(f.ctx, signed(res.OrderID, "200", "1.00", "settlement"))
	require.ErrorIs(t, err, apierr.ErrMalformed)

	out, err := svc.HandleNotification(f.ctx, signed(res.OrderID, "200", "150000.00", "settlement"))
	require.NoError(t, err)
	require.True(t, out.Applied)
	require.Equal(t, types.OrderPaid, out.Status)

	ok, err := f.access.HasCourseAccess(f.ctx, Authz{UserID: u.ID}, c.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// Redelivery is absorbed.
	again, err := svc.HandleNotification(f.ctx, signed(res.OrderID, "200", "150000.00", "settlement"))
	require.NoError(t, err)
	require.False(t, again.Applied)
	require.Equal(t, types.OrderPaid, again.Status)

	ents, err := f.access.ListEntitlements(f.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, ents, 1)
	require.Equal(t, int64(150000), ents[0].AmountPaid)

	_, err = svc.CreateCheckout(f.ctx, CheckoutInput{UserID: u.ID, ItemType: types.ItemCourse, ItemID: c.ID})
	require.ErrorIs(t, err, apierr.ErrConflict)
	require.Equal(t, 1, gw.calls)
}

func TestCheckout_ExpiredOrderGrantsNothing(t *testing.T) {
	f := newFixture(t)
	svc := NewCheckoutService(f.db, f.log, f.orders, f.repos.Courses, f.repos.Products, f.access, &fakeGateway{})
	u := testutil.SeedUser(t, f.ctx, f.db, "buyer@example.com")
	p := testutil.SeedProduct(t, f.ctx, f.db)

	res, err := svc.CreateCheckout(f.ctx, CheckoutInput{UserID: u.ID, ItemType: types.ItemProduct, ItemID: p.ID})
	require.NoError(t, err)

	pending, err := svc.HandleNotification(f.ctx, signed(res.OrderID, "201", "50000.00", "pending"))
	require.NoError(t, err)
	require.False(t, pending.Applied)

	out, err := svc.HandleNotification(f.ctx, signed(res.OrderID, "407", "50000.00", "expire"))
	require.NoError(t, err)
	require.Equal(t, types.OrderExpired, out.Status)

	// A late settlement cannot resurrect an expired order.
	late, err := svc.HandleNotification(f.ctx, signed(res.OrderID, "200", "50000.00", "settlement"))
	require.NoError(t, err)
	require.False(t, late.Applied)

	ok, err := f.access.HasProductAccess(f.ctx, Authz{UserID: u.ID}, p.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckout_FreeItemSkipsGateway(t *testing.T) {
	f := newFixture(t)
	gw := &fakeGateway{}
	svc := NewCheckoutService(f.db, f.log, f.orders, f.repos.Courses, f.repos.Products, f.access, gw)
	u := testutil.SeedUser(t, f.ctx, f.db, "buyer@example.com")
	c := testutil.SeedCourse(t, f.ctx, f.db, false)
	require.NoError(t, f.db.Model(c).Update("price_amount", 0).Error)

	res, err := svc.CreateCheckout(f.ctx, CheckoutInput{UserID: u.ID, ItemType: types.ItemCourse, ItemID: c.ID})
	require.NoError(t, err)
	require.True(t, res.Free)
	require.Zero(t, gw.calls)

	ok, err := f.access.HasCourseAccess(f.ctx, Authz{UserID: u.ID}, c.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCheckout_GatewayFailureMarksOrderFailed(t *testing.T) {
	f := newFixture(t)
	svc := NewCheckoutService(f.db, f.log, f.orders, f.repos.Courses, f.repos.Products, f.access, &fakeGateway{fail: errors.New("boom")})
	u := testutil.SeedUser(t, f.ctx, f.db, "buyer@example.com")
	c := testutil.SeedCourse(t, f.ctx, f.db, false)

	_, err := svc.CreateCheckout(f.ctx, CheckoutInput{UserID: u.ID, ItemType: types.ItemCourse, ItemID: c.ID})
	e, ok := apierr.As(err)
	require.True(t, ok)
	require.Equal(t, "payment_provider_error", e.Code)
}

func TestMapTransactionStatus(t *testing.T) {
	cases := []struct {
		status, fraud string
		want          types.OrderStatus
		settles       bool
	}{
		{"capture", "accept", types.OrderPaid, true},
		{"capture", "challenge", types.OrderPending, false},
		{"capture", "deny", types.OrderFailed, true},
		{"settlement", "", types.OrderPaid, true},
		{"pending", "", types.OrderPending, false},
		{"expire", "", types.OrderExpired, true},
		{"cancel", "", types.OrderCancelled, true},
		{"deny", "", types.OrderFailed, true},
		{"refund", "", types.OrderPending, false},
	}
	for _, tc := range cases {
		got, settles := mapTransactionStatus(tc.status, tc.fraud)
		if got != tc.want || settles != tc.settles {
			t.Fatalf("%s/%s: want=%s,%v got=%s,%v", tc.status, tc.fraud, tc.want, tc.settles, got, settles)
		}
	}
}
