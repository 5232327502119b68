package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/models"
)

func TestRequesterService_Resolve(t *testing.T) {
	db := openTestDB(t)
	svc := NewRequesterService(db)
	createRequester(t, db, "req-1", 60)

	r, err := svc.Resolve("req-1")
	require.NoError(t, err)
	assert.Equal(t, 60, r.TrustLevel)

	_, err = svc.Resolve("ghost")
	assert.ErrorIs(t, err, ErrRequesterNotFound)
}

func TestRequesterService_ResolveDisabled(t *testing.T) {
	db := openTestDB(t)
	svc := NewRequesterService(db)
	r := createRequester(t, db, "req-1", 60)
	require.NoError(t, db.Model(r).Update("enabled", false).Error)

	_, err := svc.Resolve("req-1")
	assert.ErrorIs(t, err, ErrRequesterDisabled)
}

func TestRequesterService_TrustLevelBounds(t *testing.T) {
	db := openTestDB(t)
	svc := NewRequesterService(db)

	err := svc.Create(&models.Requester{Name: "x", TrustLevel: 101, Enabled: true})
	assert.ErrorIs(t, err, ErrInvalidTrustLevel)

	err = svc.Create(&models.Requester{Name: "x", TrustLevel: -1, Enabled: true})
	assert.ErrorIs(t, err, ErrInvalidTrustLevel)

	ok := models.Requester{Name: "x", TrustLevel: 0, Enabled: true}
	assert.NoError(t, svc.Create(&ok))
	assert.NotEmpty(t, ok.UUID)

	ok.TrustLevel = 200
	assert.ErrorIs(t, svc.Update(&ok), ErrInvalidTrustLevel)
}

func TestRequesterService_Delete(t *testing.T) {
	db := openTestDB(t)
	svc := NewRequesterService(db)
	createRequester(t, db, "req-1", 50)

	require.NoError(t, svc.Delete("req-1"))
	assert.ErrorIs(t, svc.Delete("req-1"), ErrRequesterNotFound)
}

func TestRequesterService_RecordOutcome(t *testing.T) {
	db := openTestDB(t)
	svc := NewRequesterService(db)
	createRequester(t, db, "req-1", 50)

	require.NoError(t, svc.RecordOutcome(db, "req-1", "approved_count"))
	require.NoError(t, svc.RecordOutcome(db, "req-1", "approved_count"))
	require.NoError(t, svc.RecordOutcome(db, "req-1", "rejected_count"))

	r := fetchRequester(t, db, "req-1")
	assert.Equal(t, 2, r.ApprovedCount)
	assert.Equal(t, 1, r.RejectedCount)

	assert.Error(t, svc.RecordOutcome(db, "req-1", "trust_level"), "only known counters may be bumped")
}
