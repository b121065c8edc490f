package repository_test

import (
	"context"
	"testing"

	"logi-events/internal/database"
	"logi-events/internal/model"
	"logi-events/internal/repository"
	"logi-events/internal/testutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTicket(t *testing.T, txm database.TxManager, repo repository.TicketRepository, eventID, userID uuid.UUID, quantity int) *model.Ticket {
	t.Helper()
	var created *model.Ticket
	err := txm.WithTx(context.Background(), func(tx pgx.Tx) error {
		var err error
		created, err = repo.Create(context.Background(), tx, &model.Ticket{
			EventID:     eventID,
			UserID:      userID,
			HolderName:  "Ada Lovelace",
			HolderEmail: "ada@example.com",
			PhoneNumber: "+15550001111",
			UnitPrice:   15,
			Type:        model.TicketTypeGeneral,
			Status:      model.TicketStatusActive,
			Quantity:    quantity,
		})
		return err
	})
	require.NoError(t, err)
	return created
}

func TestTicketRepository(t *testing.T) {
	pool := testutil.SetupPostgres(t)
	tickets := repository.NewTicketRepository(pool)
	events := repository.NewEventRepository(pool)
	txm := database.NewTxManager(pool)
	ctx := context.Background()

	admin := testutil.CreateUser(t, pool, model.RoleAdmin)
	alice := testutil.CreateUser(t, pool, model.RoleUser)
	bob := testutil.CreateUser(t, pool, model.RoleUser)
	event := testutil.CreateEvent(t, pool, admin.ID, 20)

	first := createTicket(t, txm, tickets, event.ID, alice.ID, 2)
	createTicket(t, txm, tickets, event.ID, alice.ID, 3)
	createTicket(t, txm, tickets, event.ID, bob.ID, 1)

	t.Run("find", func(t *testing.T) {
		got, err := tickets.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 30.0, got.TotalPrice())
		assert.True(t, got.IsActive())
	})

	t.Run("attendees are distinct", func(t *testing.T) {
		ids, err := tickets.ListAttendeeIDs(ctx, event.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{alice.ID, bob.ID}, ids)
	})

	t.Run("attended events", func(t *testing.T) {
		list, err := events.ListByAttendee(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, event.ID, list[0].ID)
	})

	t.Run("cancel sums released spots", func(t *testing.T) {
		var released, remaining int
		err := txm.WithTx(ctx, func(tx pgx.Tx) error {
			var err error
			if released, err = tickets.CancelByEventAndUser(ctx, tx, event.ID, alice.ID); err != nil {
				return err
			}
			remaining, err = tickets.SumActiveQuantity(ctx, tx, event.ID)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 5, released)
		assert.Equal(t, 1, remaining)

		list, err := tickets.ListByEventID(ctx, event.ID)
		require.NoError(t, err)
		assert.Len(t, list, 3)

		attended, err := events.ListByAttendee(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, attended)
	})

	t.Run("cancel twice releases nothing", func(t *testing.T) {
		var released int
		err := txm.WithTx(ctx, func(tx pgx.Tx) error {
			var err error
			released, err = tickets.CancelByEventAndUser(ctx, tx, event.ID, alice.ID)
			return err
		})
		require.NoError(t, err)
		assert.Zero(t, released)
	})
}
