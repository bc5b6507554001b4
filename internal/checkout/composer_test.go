package checkout

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	mock_checkout "github.com/ariefcatur/go-storefront/internal/checkout/mock"
	"github.com/ariefcatur/go-storefront/internal/orders"
)

var fixedNow = time.UnixMilli(1767225600123)

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	snap := cart.NewSnapshot([]catalog.PublicProduct{
		{ID: "KC-1", Title: "Shirt", Price: 60},
		{ID: "KC-2", Title: "Socks", Price: 10},
	})
	c, err := cart.Open(context.Background(), cart.FileStorage{Path: filepath.Join(t.TempDir(), "cart.json")}, snap)
	require.NoError(t, err)
	_, err = c.Add(context.Background(), "KC-1", 2, "M")
	require.NoError(t, err)
	_, err = c.Add(context.Background(), "KC-2", 1, "")
	require.NoError(t, err)
	return c
}

func form() Form {
	return Form{Name: "Ama", Phone: "0240000000", Address: "Accra", ShippingMethod: "express-20", PaymentMethod: "momo"}
}

func composer(sink Sink, h Handoff) *Composer {
	return &Composer{
		Sink:      sink,
		Handoff:   h,
		Recipient: "2330538380937",
		StoreName: "Kadi's Collectionz",
		Log:       zerolog.Nop(),
		Now:       func() time.Time { return fixedNow },
	}
}

func TestSubmitHappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_checkout.NewMockSink(ctrl)
	handoff := mock_checkout.NewMockHandoff(ctrl)
	sink.EXPECT().SubmitOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o orders.Order) (orders.Ack, error) {
			assert.Equal(t, "1767225600123", o.OrderID)
			assert.Equal(t, "150", o.Total.String())
			require.NotNil(t, o.Items[0].Variant)
			assert.Equal(t, "M", *o.Items[0].Variant)
			assert.Nil(t, o.Items[1].Variant)
			assert.Nil(t, o.Customer.Email)
			return orders.Ack{Success: true, OrderID: "x"}, nil
		})
	handoff.EXPECT().Open(gomock.Any()).Return(nil)

	c := filledCart(t)
	rc, err := composer(sink, handoff).Submit(context.Background(), c, form())
	require.NoError(t, err)
	assert.True(t, rc.Saved)
	assert.Equal(t, StageConfirmed, rc.Stage)
	assert.True(t, c.Empty())
	assert.True(t, strings.HasPrefix(rc.DeepLink, "https://wa.me/2330538380937?text="))
	assert.NotContains(t, rc.DeepLink, "+")
}

func TestSubmitSinkFailureStillConfirms(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_checkout.NewMockSink(ctrl)
	sink.EXPECT().SubmitOrder(gomock.Any(), gomock.Any()).Return(orders.Ack{}, errors.New("connection refused"))
	handoff := mock_checkout.NewMockHandoff(ctrl)
	handoff.EXPECT().Open(gomock.Any()).Return(errors.New("no browser"))

	c := filledCart(t)
	rc, err := composer(sink, handoff).Submit(context.Background(), c, form())
	require.NoError(t, err)
	assert.False(t, rc.Saved)
	assert.Equal(t, StageConfirmed, rc.Stage)
	assert.Equal(t, "1767225600123", rc.Order.OrderID)
	assert.True(t, c.Empty())
}

func TestSubmitRejectsIncompleteForm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	sink := mock_checkout.NewMockSink(ctrl)

	c := filledCart(t)
	f := form()
	f.Phone = " "
	f.Address = ""
	_, err := composer(sink, nil).Submit(context.Background(), c, f)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"phone", "address"}, verr.Missing)
	assert.False(t, c.Empty())
}

func TestSubmitEmptyCart(t *testing.T) {
	c, err := cart.Open(context.Background(), cart.FileStorage{Path: filepath.Join(t.TempDir(), "c.json")}, nil)
	require.NoError(t, err)
	_, err = composer(nil, nil).Submit(context.Background(), c, form())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderMessage(t *testing.T) {
	rc, err := composer(nil, nil).Submit(context.Background(), filledCart(t), form())
	require.NoError(t, err)

	want := "New Order from Kadi's Collectionz!\n\n" +
		"Order ID: 1767225600123\n" +
		"Customer: Ama\n" +
		"Phone: 0240000000\n" +
		"Address: Accra\n" +
		"Shipping Method: express-20\n\n" +
		"Items:\n" +
		"- Shirt (2) - ₵60\n" +
		"- Socks (1) - ₵10\n\n" +
		"Subtotal: ₵130\n" +
		"Shipping: ₵20\n" +
		"Total: ₵150\n" +
		"Payment: momo"
	assert.Equal(t, want, rc.Message)

	u, err := url.Parse(rc.DeepLink)
	require.NoError(t, err)
	assert.Equal(t, want, u.Query().Get("text"))
}

func TestInquiryAndContactMessages(t *testing.T) {
	p := catalog.PublicProduct{Title: "Wrap Dress", Price: 80.5}
	assert.Equal(t, "Hi! I want to buy: Wrap Dress (Size: M) - ₵80.5 (Qty: 2)", InquiryMessage(catalog.CurrencyCedi, p, 2, "M"))
	assert.Equal(t, "Hi! I want to buy: Wrap Dress - $80.5 (Qty: 1)", InquiryMessage(catalog.CurrencyDollar, p, 1, ""))

	msg := ContactMessage("Kadi's Collectionz", Contact{Name: "Kofi", Email: "k@example.com", Message: "Do you ship to Kumasi?"})
	assert.Equal(t, "New Contact Message from Kadi's Collectionz!\n\nName: Kofi\nEmail: k@example.com\n\nMessage:\nDo you ship to Kumasi?", msg)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StageBrowsing, StageCartHasItems))
	assert.True(t, CanTransition(StageSubmitted, StageConfirmed))
	assert.False(t, CanTransition(StageBrowsing, StageSubmitted))
	assert.False(t, CanTransition(StageSubmitted, StageCheckoutFilled))
	assert.False(t, CanTransition(StageConfirmed, StageSubmitted))
}

func TestSubmitWaivesShippingAboveThreshold(t *testing.T) {
	c := composer(nil, nil)
	c.FreeShippingAbove = decimal.NewFromInt(100)

	rc, err := c.Submit(context.Background(), filledCart(t), form())
	require.NoError(t, err)
	assert.Equal(t, "130", rc.Order.Subtotal.String())
	assert.True(t, rc.Order.Shipping.IsZero())
	assert.Equal(t, "130", rc.Order.Total.String())
}
