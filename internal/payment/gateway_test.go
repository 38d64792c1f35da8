package payment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paydirect/internal/worldline"
)

// fakeRecord is an in-memory payment.Record.
type fakeRecord struct {
	id             string
	returnURL      string
	amount         Amount
	customer       *Customer
	billingAddress *BillingAddress

	meta          map[string]string
	actionURL     string
	status        Status
	statusSet     bool
	transactionID string
	saves         int
	saveErr       error
}

func newFakeRecord() *fakeRecord {
	return &fakeRecord{
		id:        "p1",
		returnURL: "https://shop.example/return",
		amount:    Amount{MinorUnits: 1099, CurrencyCode: "EUR"},
		meta:      make(map[string]string),
		status:    StatusOpen,
	}
}

func (f *fakeRecord) ID() string                      { return f.id }
func (f *fakeRecord) ReturnURL() string               { return f.returnURL }
func (f *fakeRecord) TotalAmount() Amount             { return f.amount }
func (f *fakeRecord) Customer() *Customer             { return f.customer }
func (f *fakeRecord) BillingAddress() *BillingAddress { return f.billingAddress }
func (f *fakeRecord) Meta(key string) string          { return f.meta[key] }
func (f *fakeRecord) SetMeta(key, value string)       { f.meta[key] = value }
func (f *fakeRecord) SetActionURL(url string)         { f.actionURL = url }
func (f *fakeRecord) SetTransactionID(id string)      { f.transactionID = id }
func (f *fakeRecord) SetStatus(status Status) {
	f.status = status
	f.statusSet = true
}
func (f *fakeRecord) Save() error {
	f.saves++
	return f.saveErr
}

// fakeClient is a canned CheckoutClient.
type fakeClient struct {
	session    *worldline.HostedCheckoutSession
	createErr  error
	lastCreate *worldline.CreateHostedCheckoutRequest

	report     *worldline.HostedCheckoutStatusReport
	statusErr  error
	statusGets int
	lastID     string
}

func (f *fakeClient) CreateHostedCheckout(_ context.Context, req *worldline.CreateHostedCheckoutRequest) (*worldline.HostedCheckoutSession, error) {
	f.lastCreate = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.session, nil
}

func (f *fakeClient) HostedCheckoutStatus(_ context.Context, id string) (*worldline.HostedCheckoutStatusReport, error) {
	f.statusGets++
	f.lastID = id
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.report, nil
}

func newTestGateway(client *fakeClient) *Gateway {
	return NewGateway(
		&worldline.Config{APIHost: worldline.HostTest, MerchantID: "m1", APIKey: "k", APISecret: "s"},
		client,
		NewWebhookURLBuilder("https://shop.example", "worldline/v1"),
		zap.NewNop(),
	)
}

func TestStartPersistsSessionAndActionURL(t *testing.T) {
	client := &fakeClient{session: &worldline.HostedCheckoutSession{
		HostedCheckoutID: "abc123",
		ReturnMAC:        "mac1",
		RedirectURL:      "https://pay.example/abc123",
	}}
	gw := newTestGateway(client)
	rec := newFakeRecord()

	require.NoError(t, gw.Start(context.Background(), rec))

	require.Equal(t, "abc123", rec.meta[MetaHostedCheckoutID])
	require.Equal(t, "mac1", rec.meta[MetaReturnMAC])
	require.Equal(t, "https://pay.example/abc123", rec.actionURL)
	require.Equal(t, 1, rec.saves)
}

func TestStartWithoutRedirectURLFailsWithoutMutation(t *testing.T) {
	client := &fakeClient{session: &worldline.HostedCheckoutSession{
		HostedCheckoutID: "abc123",
		ReturnMAC:        "mac1",
	}}
	gw := newTestGateway(client)
	rec := newFakeRecord()

	err := gw.Start(context.Background(), rec)

	var contractErr *ContractError
	require.ErrorAs(t, err, &contractErr)
	require.Equal(t, "redirectUrl", contractErr.Field)

	require.Empty(t, rec.meta)
	require.Empty(t, rec.actionURL)
	require.Zero(t, rec.saves)
}

func TestStartPropagatesClientErrors(t *testing.T) {
	wantErr := &worldline.ResponseError{Op: "create hosted checkout", StatusCode: 500, Body: "boom"}
	client := &fakeClient{createErr: wantErr}
	gw := newTestGateway(client)
	rec := newFakeRecord()

	err := gw.Start(context.Background(), rec)
	require.ErrorIs(t, err, wantErr)
	require.Zero(t, rec.saves)
}

func TestStartRequestPayload(t *testing.T) {
	client := &fakeClient{session: &worldline.HostedCheckoutSession{RedirectURL: "https://pay.example/x"}}
	gw := newTestGateway(client)
	rec := newFakeRecord()

	require.NoError(t, gw.Start(context.Background(), rec))

	req := client.lastCreate
	require.Equal(t, "https://shop.example/return", req.HostedCheckoutSpecificInput.ReturnURL)
	require.Equal(t, "p1", req.Order.References.MerchantReference)
	require.Equal(t, "Order p1", req.Order.References.Descriptor)
	require.Equal(t, int64(1099), req.Order.AmountOfMoney.Amount)
	require.Equal(t, "EUR", req.Order.AmountOfMoney.CurrencyCode)
	require.NotNil(t, req.Feedbacks)
	require.Equal(t, []string{"https://shop.example/worldline/v1/webhook/p1"}, req.Feedbacks.WebhooksURLs)
}

func TestStartAppliesReferenceTemplates(t *testing.T) {
	client := &fakeClient{session: &worldline.HostedCheckoutSession{RedirectURL: "https://pay.example/x"}}
	gw := newTestGateway(client)
	gw.config.MerchantReferenceTemplate = "shop-{payment_id}"
	gw.config.DescriptorTemplate = "Webshop order {payment_id}"
	rec := newFakeRecord()

	require.NoError(t, gw.Start(context.Background(), rec))

	require.Equal(t, "shop-p1", client.lastCreate.Order.References.MerchantReference)
	require.Equal(t, "Webshop order p1", client.lastCreate.Order.References.Descriptor)
}

func TestUpdateStatusWithoutCheckoutIDIsNoOp(t *testing.T) {
	client := &fakeClient{}
	gw := newTestGateway(client)
	rec := newFakeRecord()

	require.NoError(t, gw.UpdateStatus(context.Background(), rec))

	require.Zero(t, client.statusGets)
	require.Zero(t, rec.saves)
	require.False(t, rec.statusSet)
}

func TestUpdateStatusMapping(t *testing.T) {
	successful := worldline.PaymentStatusCategorySuccessful
	rejected := worldline.PaymentStatusCategoryRejected
	unknown := worldline.PaymentStatusCategoryStatusUnknown

	cases := []struct {
		name       string
		report     *worldline.HostedCheckoutStatusReport
		wantStatus Status
		wantSet    bool
	}{
		{
			name:       "cancelled by consumer",
			report:     &worldline.HostedCheckoutStatusReport{Status: worldline.CheckoutStatusCancelledByConsumer},
			wantStatus: StatusCancelled,
			wantSet:    true,
		},
		{
			name:       "in progress",
			report:     &worldline.HostedCheckoutStatusReport{Status: worldline.CheckoutStatusInProgress},
			wantStatus: StatusOpen,
			wantSet:    true,
		},
		{
			name:    "payment created without output leaves status unchanged",
			report:  &worldline.HostedCheckoutStatusReport{Status: worldline.CheckoutStatusPaymentCreated},
			wantSet: false,
		},
		{
			name: "payment created without category leaves status unchanged",
			report: &worldline.HostedCheckoutStatusReport{
				Status:               worldline.CheckoutStatusPaymentCreated,
				CreatedPaymentOutput: &worldline.CreatedPaymentOutput{},
			},
			wantSet: false,
		},
		{
			name: "payment created successful",
			report: &worldline.HostedCheckoutStatusReport{
				Status:               worldline.CheckoutStatusPaymentCreated,
				CreatedPaymentOutput: &worldline.CreatedPaymentOutput{PaymentStatusCategory: &successful},
			},
			wantStatus: StatusSuccess,
			wantSet:    true,
		},
		{
			name: "payment created rejected",
			report: &worldline.HostedCheckoutStatusReport{
				Status:               worldline.CheckoutStatusPaymentCreated,
				CreatedPaymentOutput: &worldline.CreatedPaymentOutput{PaymentStatusCategory: &rejected},
			},
			wantStatus: StatusExpired,
			wantSet:    true,
		},
		{
			name: "payment created status unknown",
			report: &worldline.HostedCheckoutStatusReport{
				Status:               worldline.CheckoutStatusPaymentCreated,
				CreatedPaymentOutput: &worldline.CreatedPaymentOutput{PaymentStatusCategory: &unknown},
			},
			wantStatus: StatusOpen,
			wantSet:    true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{report: tc.report}
			gw := newTestGateway(client)
			rec := newFakeRecord()
			rec.meta[MetaHostedCheckoutID] = "abc123"

			require.NoError(t, gw.UpdateStatus(context.Background(), rec))
			require.Equal(t, "abc123", client.lastID)
			require.Equal(t, 1, rec.saves)
			require.Equal(t, tc.wantSet, rec.statusSet)
			if tc.wantSet {
				require.Equal(t, tc.wantStatus, rec.status)
			}
		})
	}
}

func TestUpdateStatusSetsTransactionIDRegardlessOfBranch(t *testing.T) {
	successful := worldline.PaymentStatusCategorySuccessful

	// With category.
	client := &fakeClient{report: &worldline.HostedCheckoutStatusReport{
		Status: worldline.CheckoutStatusPaymentCreated,
		CreatedPaymentOutput: &worldline.CreatedPaymentOutput{
			Payment:               &worldline.PaymentReference{ID: "pay999"},
			PaymentStatusCategory: &successful,
		},
	}}
	gw := newTestGateway(client)
	rec := newFakeRecord()
	rec.meta[MetaHostedCheckoutID] = "abc123"

	require.NoError(t, gw.UpdateStatus(context.Background(), rec))
	require.Equal(t, StatusSuccess, rec.status)
	require.Equal(t, "pay999", rec.transactionID)

	// Without category: status untouched, transaction ID still taken.
	client = &fakeClient{report: &worldline.HostedCheckoutStatusReport{
		Status: worldline.CheckoutStatusPaymentCreated,
		CreatedPaymentOutput: &worldline.CreatedPaymentOutput{
			Payment: &worldline.PaymentReference{ID: "pay1000"},
		},
	}}
	gw = newTestGateway(client)
	rec = newFakeRecord()
	rec.meta[MetaHostedCheckoutID] = "abc123"

	require.NoError(t, gw.UpdateStatus(context.Background(), rec))
	require.False(t, rec.statusSet)
	require.Equal(t, "pay1000", rec.transactionID)
}

func TestUpdateStatusIsIdempotent(t *testing.T) {
	client := &fakeClient{report: &worldline.HostedCheckoutStatusReport{
		Status: worldline.CheckoutStatusCancelledByConsumer,
	}}
	gw := newTestGateway(client)
	rec := newFakeRecord()
	rec.meta[MetaHostedCheckoutID] = "abc123"

	require.NoError(t, gw.UpdateStatus(context.Background(), rec))
	first := rec.status
	require.NoError(t, gw.UpdateStatus(context.Background(), rec))

	require.Equal(t, first, rec.status)
	require.Equal(t, 2, client.statusGets)
}

func TestUpdateStatusPropagatesClientErrors(t *testing.T) {
	wantErr := errors.New("network down")
	client := &fakeClient{statusErr: &worldline.RequestError{Op: "get hosted checkout status", Err: wantErr}}
	gw := newTestGateway(client)
	rec := newFakeRecord()
	rec.meta[MetaHostedCheckoutID] = "abc123"

	err := gw.UpdateStatus(context.Background(), rec)
	require.Error(t, err)
	require.ErrorIs(t, err, wantErr)
	require.Zero(t, rec.saves)
}

func TestBuildCustomerOmission(t *testing.T) {
	// No payer data at all: no customer block.
	require.Nil(t, buildCustomer(nil, nil))
	require.Nil(t, buildCustomer(&Customer{}, &BillingAddress{}))

	// The whole order payload must not carry a customer key either.
	client := &fakeClient{session: &worldline.HostedCheckoutSession{RedirectURL: "https://pay.example/x"}}
	gw := newTestGateway(client)
	rec := newFakeRecord()
	require.NoError(t, gw.Start(context.Background(), rec))

	encoded, err := json.Marshal(client.lastCreate.Order)
	require.NoError(t, err)
	require.NotContains(t, string(encoded), `"customer"`)
}

func TestBuildCustomerSubObjects(t *testing.T) {
	c := buildCustomer(&Customer{Email: "jan@example.org"}, nil)
	require.NotNil(t, c)
	require.Nil(t, c.PersonalInformation)
	require.NotNil(t, c.ContactDetails)
	require.Equal(t, "jan@example.org", c.ContactDetails.EmailAddress)
	require.Nil(t, c.BillingAddress)
	require.Nil(t, c.Device)

	c = buildCustomer(
		&Customer{FirstName: "Jan", LastName: "Jansen", Locale: "nl_NL", IPAddress: "203.0.113.7"},
		&BillingAddress{Street: "Kerkstraat", HouseNumber: "1", City: "Amsterdam", PostalCode: "1012 AB", CountryCode: "NL"},
	)
	require.NotNil(t, c.PersonalInformation)
	require.Equal(t, "Jan", c.PersonalInformation.Name.FirstName)
	require.Equal(t, "Jansen", c.PersonalInformation.Name.Surname)
	require.Equal(t, "nl_NL", c.Locale)
	require.Equal(t, "203.0.113.7", c.Device.IPAddress)
	require.Equal(t, "1012 AB", c.BillingAddress.Zip)
	require.Equal(t, "NL", c.BillingAddress.CountryCode)

	// Address alone is enough to keep the customer block.
	c = buildCustomer(nil, &BillingAddress{City: "Utrecht"})
	require.NotNil(t, c)
	require.Equal(t, "Utrecht", c.BillingAddress.City)
}
