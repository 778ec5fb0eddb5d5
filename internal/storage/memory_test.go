package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provigo/provigo-backend/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestSessionLifecycle(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetSession("233200000001")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.CreateSession(&models.UssdSession{
		PhoneNumber: "233200000001",
		Step:        "MAIN_MENU",
	}))

	session, err := store.GetSession("233200000001")
	require.NoError(t, err)
	assert.Equal(t, "MAIN_MENU", session.Step)
	assert.False(t, session.CreatedAt.IsZero())

	require.NoError(t, store.DeleteSession("233200000001"))
	_, err = store.GetSession("233200000001")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteSession("233200000001"), ErrNotFound)
}

func TestUpdateSessionMergesFields(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.CreateSession(&models.UssdSession{
		PhoneNumber: "233200000002",
		Step:        "SELECT_PACKAGE",
	}))

	require.NoError(t, store.UpdateSession("233200000002", &models.SessionUpdate{
		Step:            strPtr("ENTER_SCHOOL"),
		SelectedPackage: strPtr("Starter"),
		PackagePrice:    intPtr(350),
	}))

	// A later partial update must not erase earlier selections
	require.NoError(t, store.UpdateSession("233200000002", &models.SessionUpdate{
		Step:       strPtr("ENTER_STUDENT"),
		SchoolName: strPtr("Mfantsipim"),
	}))

	session, err := store.GetSession("233200000002")
	require.NoError(t, err)
	assert.Equal(t, "ENTER_STUDENT", session.Step)
	assert.Equal(t, "Starter", session.SelectedPackage)
	assert.Equal(t, 350, session.PackagePrice)
	assert.Equal(t, "Mfantsipim", session.SchoolName)

	assert.ErrorIs(t, store.UpdateSession("233209999999", &models.SessionUpdate{
		Step: strPtr("MAIN_MENU"),
	}), ErrNotFound)
}

func TestGetSessionReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.CreateSession(&models.UssdSession{
		PhoneNumber: "233200000003",
		Step:        "MAIN_MENU",
	}))

	first, err := store.GetSession("233200000003")
	require.NoError(t, err)
	first.Step = "MUTATED"

	second, err := store.GetSession("233200000003")
	require.NoError(t, err)
	assert.Equal(t, "MAIN_MENU", second.Step)
}

func TestDeleteExpiredSessions(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.CreateSession(&models.UssdSession{
		PhoneNumber: "233200000004",
		Step:        "MAIN_MENU",
		CreatedAt:   time.Now().Add(-10 * time.Minute),
	}))
	require.NoError(t, store.CreateSession(&models.UssdSession{
		PhoneNumber: "233200000005",
		Step:        "MAIN_MENU",
		CreatedAt:   time.Now(),
	}))

	removed, err := store.DeleteExpiredSessions(time.Now().Add(-5 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.GetSession("233200000004")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetSession("233200000005")
	assert.NoError(t, err)
}

func TestOrderLookups(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.CreateOrder(&models.Order{
		Ref:         "ref-a",
		OrderID:     "PVG-2024-0007",
		StudentName: "Kojo",
	})
	require.NoError(t, err)
	_, err = store.CreateOrder(&models.Order{
		Ref:         "ref-b",
		StudentName: "Ama",
	})
	require.NoError(t, err)

	byRef, err := store.GetOrderByRef("ref-b")
	require.NoError(t, err)
	assert.Equal(t, "Ama", byRef.StudentName)

	byID, err := store.GetOrderByOrderID("PVG-2024-0007")
	require.NoError(t, err)
	assert.Equal(t, "ref-a", byID.Ref)

	// An unassigned order ID never matches the empty string
	_, err = store.GetOrderByOrderID("")
	assert.ErrorIs(t, err, ErrNotFound)

	byName, err := store.GetOrderByStudentName("Ama")
	require.NoError(t, err)
	assert.Equal(t, "ref-b", byName.Ref)

	_, err = store.GetOrderByStudentName("ama")
	assert.ErrorIs(t, err, ErrNotFound, "student name lookup is case-sensitive")
}

func TestNextOrderNumberIncrementsPerYear(t *testing.T) {
	store := NewMemoryStore()

	n, err := store.NextOrderNumber(2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = store.NextOrderNumber(2026)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.NextOrderNumber(2027)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "each year has its own sequence")
}

func TestRecentSMSLogsOrderAndLimit(t *testing.T) {
	store := NewMemoryStore()
	for i := 0; i < 3; i++ {
		entry := &models.SMSLog{
			OrderID:     "PVG-2026-0001",
			PhoneNumber: "233200000006",
			Message:     "hello",
			Type:        models.SMSTypePaymentConfirmation,
			Status:      models.SMSStatusSent,
		}
		entry.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, store.CreateSMSLog(entry))
	}

	logs, err := store.GetRecentSMSLogs(2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].CreatedAt.After(logs[1].CreatedAt), "newest first")
}
