package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"logi-events/config"
	"logi-events/internal/auth"
	"logi-events/internal/clock"
	"logi-events/internal/database"
	"logi-events/internal/handler"
	"logi-events/internal/model"
	"logi-events/internal/notify"
	"logi-events/internal/repository"
	"logi-events/internal/service"
	"logi-events/internal/testutil"
	apperrors "logi-events/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDispatcher 記錄每個收件者最後收到的驗證碼
type recordingDispatcher struct {
	mu     sync.Mutex
	codes  map[string]string
	emails []notify.Email
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{codes: map[string]string{}}
}

func (d *recordingDispatcher) SendVerificationCode(ctx context.Context, phoneNumber, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.codes[phoneNumber] = code
	return nil
}

func (d *recordingDispatcher) SendEmail(ctx context.Context, email notify.Email) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.emails = append(d.emails, email)
	return nil
}

func (d *recordingDispatcher) code(to string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.codes[to]
}

type allowAll struct{}

func (allowAll) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	return true, 0, nil
}

func (allowAll) Reset(ctx context.Context, key string) error { return nil }

type stack struct {
	pool         *pgxpool.Pool
	dispatcher   *recordingDispatcher
	events       repository.EventRepository
	reservations service.ReservationService
	deletions    service.DeletionService
	guard        *auth.Guard
	router       *gin.Engine
}

func setupStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pool := testutil.SetupPostgres(t)
	cfg := config.LoadTestConfig()

	s := &stack{
		pool:       pool,
		dispatcher: newRecordingDispatcher(),
		events:     repository.NewEventRepository(pool),
		guard:      auth.NewGuard(cfg.Auth.JWTSecret, time.Hour),
	}
	tickets := repository.NewTicketRepository(pool)
	users := repository.NewUserRepository(pool)
	txm := database.NewTxManager(pool)

	store := service.NewOTPStore(txm, repository.NewOTPRepository(), clock.NewSystem(), cfg.OTP)
	gate := service.NewOTPGate(txm, store, allowAll{}, cfg.OTP)

	s.reservations = service.NewReservationService(gate, service.NewCapacityLedger(s.events), s.dispatcher, s.events, tickets, txm)
	s.deletions = service.NewDeletionService(gate, s.dispatcher, s.events, users, cfg.OTP)
	s.router = handler.NewRouter(handler.RouterDeps{
		Guard:              s.guard,
		EventHandler:       handler.NewEventHandler(service.NewEventService(s.events, tickets, users)),
		ReservationHandler: handler.NewReservationHandler(s.reservations),
		DeletionHandler:    handler.NewDeletionHandler(s.deletions),
	})
	return s
}

func (s *stack) request(t *testing.T, method, url string, user *model.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := s.guard.Issue(user.ID, user.Role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestReservationLifecycle(t *testing.T) {
	s := setupStack(t)
	admin := testutil.CreateUser(t, s.pool, model.RoleAdmin)
	user := testutil.CreateUser(t, s.pool, model.RoleUser)
	event := testutil.CreateEvent(t, s.pool, admin.ID, 10)
	phone := "+15550001111"

	// 1. 申請預約，收到驗證碼
	w := s.request(t, http.MethodPost, fmt.Sprintf("/event/%s/reserve", event.ID), user,
		model.ReserveRequest{PhoneNumber: phone, Quantity: 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	code := s.dispatcher.code(phone)
	require.Len(t, code, 6)

	confirm := model.ConfirmReservationRequest{
		PhoneNumber: phone, Code: "WRONGX", FullName: "Ada Lovelace", Email: "ada@example.com", Quantity: 4,
	}

	// 2. 錯誤的驗證碼不影響名額
	w = s.request(t, http.MethodPost, fmt.Sprintf("/event/%s/confirm-reservation", event.ID), user, confirm)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	got, _ := s.events.FindByID(context.Background(), event.ID)
	assert.Equal(t, 10, got.AvailableSpots)

	// 3. 正確的驗證碼建立票券
	confirm.Code = code
	w = s.request(t, http.MethodPost, fmt.Sprintf("/event/%s/confirm-reservation", event.ID), user, confirm)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.ReservationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Reservation confirmed", resp.Message)
	assert.Equal(t, 60.0, resp.Total)

	got, _ = s.events.FindByID(context.Background(), event.ID)
	assert.Equal(t, 6, got.AvailableSpots)
	require.Len(t, s.dispatcher.emails, 1)
	assert.Equal(t, "Reservation Confirmation", s.dispatcher.emails[0].Subject)

	// 4. 驗證碼只能用一次
	w = s.request(t, http.MethodPost, fmt.Sprintf("/event/%s/confirm-reservation", event.ID), user, confirm)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid OTP code")

	// 5. 出現在使用者的活動列表
	w = s.request(t, http.MethodGet, fmt.Sprintf("/event/user/%s", user.ID), user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), event.ID.String())

	// 6. 取消後名額歸還
	w = s.request(t, http.MethodPost, fmt.Sprintf("/event/%s/unattend", event.ID), user, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got, _ = s.events.FindByID(context.Background(), event.ID)
	assert.Equal(t, 10, got.AvailableSpots)
}

func TestReservation_CapacityChangedBeforeConfirm(t *testing.T) {
	s := setupStack(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, s.pool, model.RoleAdmin)
	first := testutil.CreateUser(t, s.pool, model.RoleUser)
	second := testutil.CreateUser(t, s.pool, model.RoleUser)
	event := testutil.CreateEvent(t, s.pool, admin.ID, 5)

	// 兩人都在名額充足時拿到驗證碼
	require.NoError(t, s.reservations.RequestReservation(ctx, first.ID, event.ID, model.ReserveRequest{PhoneNumber: "+15550000001", Quantity: 3}))
	require.NoError(t, s.reservations.RequestReservation(ctx, second.ID, event.ID, model.ReserveRequest{PhoneNumber: "+15550000002", Quantity: 3}))

	_, err := s.reservations.ConfirmReservation(ctx, first.ID, event.ID, model.ConfirmReservationRequest{
		PhoneNumber: "+15550000001", Code: s.dispatcher.code("+15550000001"), FullName: "First", Email: "first@example.com", Quantity: 3,
	})
	require.NoError(t, err)

	secondReq := model.ConfirmReservationRequest{
		PhoneNumber: "+15550000002", Code: s.dispatcher.code("+15550000002"), FullName: "Second", Email: "second@example.com", Quantity: 3,
	}
	_, err = s.reservations.ConfirmReservation(ctx, second.ID, event.ID, secondReq)

	var capErr *apperrors.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Available)

	// 失敗時驗證碼未被消耗，減少數量後可重試
	secondReq.Quantity = 2
	_, err = s.reservations.ConfirmReservation(ctx, second.ID, event.ID, secondReq)
	require.NoError(t, err)

	got, _ := s.events.FindByID(ctx, event.ID)
	assert.Equal(t, 0, got.AvailableSpots)
	assert.Equal(t, model.EventStatusSoldOut, got.Status)
}

func TestReservation_ConcurrentConfirmNeverOversells(t *testing.T) {
	s := setupStack(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, s.pool, model.RoleAdmin)
	event := testutil.CreateEvent(t, s.pool, admin.ID, 5)

	const buyers = 15
	type buyer struct {
		user  *model.User
		phone string
	}
	all := make([]buyer, buyers)
	for i := range all {
		all[i] = buyer{user: testutil.CreateUser(t, s.pool, model.RoleUser), phone: fmt.Sprintf("+1555100%04d", i)}
		require.NoError(t, s.reservations.RequestReservation(ctx, all[i].user.ID, event.ID,
			model.ReserveRequest{PhoneNumber: all[i].phone, Quantity: 1}))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
		unknown   []error
	)
	for _, b := range all {
		wg.Add(1)
		go func(b buyer) {
			defer wg.Done()
			_, err := s.reservations.ConfirmReservation(ctx, b.user.ID, event.ID, model.ConfirmReservationRequest{
				PhoneNumber: b.phone, Code: s.dispatcher.code(b.phone), FullName: "Buyer", Email: "buyer@example.com", Quantity: 1,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperrors.ErrCapacityExceeded):
				rejected++
			default:
				unknown = append(unknown, err)
			}
		}(b)
	}
	wg.Wait()

	require.Empty(t, unknown)
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, buyers-5, rejected)

	got, _ := s.events.FindByID(ctx, event.ID)
	assert.Equal(t, 0, got.AvailableSpots)

	var sold int
	require.NoError(t, s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM tickets WHERE event_id = $1 AND status = 'active'`, event.ID,
	).Scan(&sold))
	assert.Equal(t, 5, sold)
}

func TestDeletionLifecycle(t *testing.T) {
	s := setupStack(t)
	owner := testutil.CreateUser(t, s.pool, model.RoleAdmin)
	otherAdmin := testutil.CreateUser(t, s.pool, model.RoleAdmin)
	event := testutil.CreateEvent(t, s.pool, owner.ID, 10)
	url := fmt.Sprintf("/event/%s", event.ID)

	// 非擁有者不會收到驗證碼
	w := s.request(t, http.MethodDelete, url, otherAdmin, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.request(t, http.MethodDelete, url, owner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	code := s.dispatcher.code(owner.PhoneNumber)
	require.NotEmpty(t, code)
	require.Len(t, s.dispatcher.emails, 1)
	assert.Equal(t, "Event Deletion OTP", s.dispatcher.emails[0].Subject)

	// 驗證碼綁定擁有者本人
	w = s.request(t, http.MethodPost, url+"/confirm-delete", otherAdmin, model.ConfirmDeletionRequest{Code: code})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.request(t, http.MethodPost, url+"/confirm-delete", owner, model.ConfirmDeletionRequest{Code: code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Event deleted successfully")

	w = s.request(t, http.MethodGet, url, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 重送同一組驗證碼
	w = s.request(t, http.MethodPost, url+"/confirm-delete", owner, model.ConfirmDeletionRequest{Code: code})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid OTP code")
}
