package controllers

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"zap-shift-server/models"
	"zap-shift-server/utils"
)

// withVars attaches mux path variables to a request built outside a router
func withVars(r *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(r, vars)
}

// In-memory store fakes. The payment fake holds its lock across the
// exists-check and insert, mirroring the atomicity the unique index gives
// the real store.

type fakeParcelStore struct {
	mu      sync.Mutex
	parcels map[string]*models.Parcel
}

func newFakeParcelStore() *fakeParcelStore {
	return &fakeParcelStore{parcels: map[string]*models.Parcel{}}
}

func (f *fakeParcelStore) List(ctx context.Context, email string) ([]models.Parcel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Parcel
	for _, p := range f.parcels {
		if email == "" || p.SenderEmail == email {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeParcelStore) Insert(ctx context.Context, parcel *models.Parcel) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if parcel.ID.IsZero() {
		parcel.ID = primitive.NewObjectID()
	}
	id := parcel.ID.Hex()
	copied := *parcel
	f.parcels[id] = &copied
	return id, nil
}

func (f *fakeParcelStore) FindByID(ctx context.Context, id string) (*models.Parcel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.parcels[id]
	if !ok {
		return nil, utils.NotFound("parcel not found")
	}
	copied := *p
	return &copied, nil
}

func (f *fakeParcelStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.parcels[id]; !ok {
		return utils.NotFound("parcel not found")
	}
	delete(f.parcels, id)
	return nil
}

func (f *fakeParcelStore) MarkPaid(ctx context.Context, id, trackingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.parcels[id]
	if !ok || p.PaymentStatus != "unpaid" {
		return false, nil
	}
	p.PaymentStatus = "paid"
	p.TrackingID = trackingID
	return true, nil
}

// seed stores a parcel directly, bypassing handler defaults
func (f *fakeParcelStore) seed(p models.Parcel) string {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parcels[p.ID.Hex()] = &p
	return p.ID.Hex()
}

type fakePaymentStore struct {
	mu       sync.Mutex
	payments map[string]*models.Payment // keyed by transaction id
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: map[string]*models.Payment{}}
}

func (f *fakePaymentStore) FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[transactionID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakePaymentStore) Insert(ctx context.Context, payment *models.Payment) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.payments[payment.TransactionID]; ok {
		return "", utils.Conflict("payment already exists for transaction " + payment.TransactionID)
	}
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	copied := *payment
	f.payments[payment.TransactionID] = &copied
	return payment.ID.Hex(), nil
}

func (f *fakePaymentStore) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.Email == email {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

func (f *fakePaymentStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payments)
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by email
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) Insert(ctx context.Context, user *models.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	f.users[user.Email] = &copied
	return user.ID.Hex(), nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) UpdateRoleByID(ctx context.Context, id, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID.Hex() == id {
			u.Role = role
			return nil
		}
	}
	return utils.NotFound("user not found")
}

func (f *fakeUserStore) UpdateRoleByEmail(ctx context.Context, email, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[email]; ok {
		u.Role = role
	}
	return nil
}

type fakeRiderStore struct {
	mu     sync.Mutex
	riders map[string]*models.Rider
}

func newFakeRiderStore() *fakeRiderStore {
	return &fakeRiderStore{riders: map[string]*models.Rider{}}
}

func (f *fakeRiderStore) List(ctx context.Context, status string) ([]models.Rider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Rider
	for _, rd := range f.riders {
		if status == "" || rd.Status == status {
			out = append(out, *rd)
		}
	}
	return out, nil
}

func (f *fakeRiderStore) Insert(ctx context.Context, rider *models.Rider) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rider.ID.IsZero() {
		rider.ID = primitive.NewObjectID()
	}
	id := rider.ID.Hex()
	copied := *rider
	f.riders[id] = &copied
	return id, nil
}

func (f *fakeRiderStore) FindByID(ctx context.Context, id string) (*models.Rider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rd, ok := f.riders[id]
	if !ok {
		return nil, utils.NotFound("rider not found")
	}
	copied := *rd
	return &copied, nil
}

func (f *fakeRiderStore) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rd, ok := f.riders[id]
	if !ok {
		return utils.NotFound("rider not found")
	}
	rd.Status = status
	return nil
}

// fakeCheckout serves canned sessions and records creations
type fakeCheckout struct {
	mu       sync.Mutex
	sessions map[string]*utils.CheckoutSession
	created  []utils.CreateSessionParams
}

func newFakeCheckout() *fakeCheckout {
	return &fakeCheckout{sessions: map[string]*utils.CheckoutSession{}}
}

func (f *fakeCheckout) CreateSession(ctx context.Context, params utils.CreateSessionParams) (*utils.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, params)
	session := &utils.CheckoutSession{
		ID:            "cs_test",
		URL:           "https://checkout.example.com/cs_test",
		PaymentStatus: "unpaid",
		AmountTotal:   utils.MinorUnits(params.Price),
		Currency:      params.Currency,
		CustomerEmail: params.Email,
		Metadata: map[string]string{
			"parcelId":   params.ParcelID,
			"parcelName": params.ParcelName,
		},
	}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeCheckout) GetSession(ctx context.Context, sessionID string) (*utils.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, utils.Upstream("no such session: " + sessionID)
	}
	copied := *session
	return &copied, nil
}

func (f *fakeCheckout) put(session *utils.CheckoutSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = session
}
