package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ibrahimkeyboad/payadmin/internal/adapter/storage"
	"github.com/ibrahimkeyboad/payadmin/internal/core/domain"
)

// In-memory stores backing the handler tests. They mirror the Postgres
// repositories' observable behavior, including sentinel errors.

type memUserStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]domain.User
	creds   map[string]storage.Credentials
	listErr error

	balanceUpdates int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users: make(map[uuid.UUID]domain.User),
		creds: make(map[string]storage.Credentials),
	}
}

func (s *memUserStore) CreateUser(_ context.Context, user storage.NewUser) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.creds[user.Email]; exists {
		return domain.User{}, storage.ErrAlreadyExists
	}
	id := uuid.New()
	created := domain.User{
		ID:          id,
		Email:       user.Email,
		FullName:    user.FullName,
		Username:    user.Username,
		PhoneNumber: user.PhoneNumber,
		IsAdmin:     user.IsAdmin,
		IsVerified:  user.IsVerified,
		Balance:     user.Balance,
		CreatedAt:   time.Now(),
	}
	s.users[id] = created
	s.creds[user.Email] = storage.Credentials{AccountID: id, PasswordHash: user.PasswordHash}
	return created, nil
}

func (s *memUserStore) FindCredentials(_ context.Context, email string) (storage.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	creds, ok := s.creds[email]
	if !ok {
		return storage.Credentials{}, storage.ErrNotFound
	}
	return creds, nil
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *memUserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memUserStore) UpdateBalance(_ context.Context, id uuid.UUID, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.Balance = balance
	s.users[id] = user
	s.balanceUpdates++
	return nil
}

func (s *memUserStore) UpdateInfo(_ context.Context, id uuid.UUID, update domain.UserUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.PhoneNumber != nil {
		user.PhoneNumber = *update.PhoneNumber
	}
	if update.ProfilePictureURL != nil {
		user.ProfilePictureURL = *update.ProfilePictureURL
	}
	s.users[id] = user
	return nil
}

func (s *memUserStore) SetVerified(_ context.Context, id uuid.UUID, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.IsVerified = verified
	s.users[id] = user
	return nil
}

type memSession struct {
	accountID uuid.UUID
	expiresAt time.Time
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]memSession
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]memSession)}
}

func (s *memSessionStore) Create(_ context.Context, tokenHash string, accountID uuid.UUID, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenHash] = memSession{accountID: accountID, expiresAt: expiresAt}
	return nil
}

func (s *memSessionStore) Find(_ context.Context, tokenHash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[tokenHash]
	if !ok || session.expiresAt.Before(time.Now()) {
		return uuid.Nil, storage.ErrNotFound
	}
	return session.accountID, nil
}

func (s *memSessionStore) Delete(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenHash)
	return nil
}

func (s *memSessionStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for hash, session := range s.sessions {
		if session.expiresAt.Before(time.Now()) {
			delete(s.sessions, hash)
			removed++
		}
	}
	return removed, nil
}

type memNotificationStore struct {
	mu    sync.Mutex
	byUID map[uuid.UUID][]domain.Notification
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{byUID: make(map[uuid.UUID][]domain.Notification)}
}

func (s *memNotificationStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append([]domain.Notification(nil), s.byUID[userID]...)
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

func (s *memNotificationStore) Add(_ context.Context, userID uuid.UUID, message string) (domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := domain.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Message: message,
		Date:    time.Now(),
	}
	s.byUID[userID] = append(s.byUID[userID], n)
	return n, nil
}

func (s *memNotificationStore) SetRead(_ context.Context, userID, notificationID uuid.UUID, read bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.byUID[userID] {
		if n.ID == notificationID {
			s.byUID[userID][i].Read = read
			return nil
		}
	}
	return storage.ErrNotFound
}

type memTransactionStore struct {
	mu            sync.Mutex
	txs           map[uuid.UUID]domain.Transaction
	order         []uuid.UUID
	statusUpdates int
}

func newMemTransactionStore() *memTransactionStore {
	return &memTransactionStore{txs: make(map[uuid.UUID]domain.Transaction)}
}

func (s *memTransactionStore) seed(tx domain.Transaction) domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	s.txs[tx.ID] = tx
	s.order = append(s.order, tx.ID)
	return tx
}

func (s *memTransactionStore) List(_ context.Context) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.txs[id])
	}
	return out, nil
}

func (s *memTransactionStore) GetByID(_ context.Context, id uuid.UUID) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return domain.Transaction{}, storage.ErrNotFound
	}
	return tx, nil
}

func (s *memTransactionStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.TransactionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return storage.ErrNotFound
	}
	tx.Status = status
	s.txs[id] = tx
	s.statusUpdates++
	return nil
}

type memBankStore struct {
	mu       sync.Mutex
	accounts []domain.CompanyBankAccount
}

func (s *memBankStore) List(_ context.Context) ([]domain.CompanyBankAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CompanyBankAccount(nil), s.accounts...), nil
}

func (s *memBankStore) ReplaceAll(_ context.Context, accounts []domain.CompanyBankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append([]domain.CompanyBankAccount(nil), accounts...)
	return nil
}

type memWebhookQueue struct {
	mu   sync.Mutex
	jobs [][]byte
}

func (s *memWebhookQueue) Enqueue(_ context.Context, _ string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, payload)
	return nil
}
