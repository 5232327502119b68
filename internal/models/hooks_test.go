package models

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Action{}, &PendingApproval{}, &Requester{}, &ApprovalRule{}, &User{}))
	return db
}

func TestBeforeCreate_AssignsUUIDs(t *testing.T) {
	db := openDB(t)

	action := Action{Type: "transfer"}
	require.NoError(t, db.Create(&action).Error)
	assert.NotEmpty(t, action.UUID)

	requester := Requester{Name: "agent"}
	require.NoError(t, db.Create(&requester).Error)
	assert.NotEmpty(t, requester.UUID)

	rule := ApprovalRule{Name: "r", Outcome: RuleOutcomeManual}
	require.NoError(t, db.Create(&rule).Error)
	assert.NotEmpty(t, rule.UUID)

	// A caller-supplied uuid is kept.
	fixed := Action{UUID: "fixed-id", Type: "query"}
	require.NoError(t, db.Create(&fixed).Error)
	assert.Equal(t, "fixed-id", fixed.UUID)
}

func TestPendingApproval_PriorityRankDenormalized(t *testing.T) {
	db := openDB(t)

	p := PendingApproval{ActionUUID: "a-1", Priority: RiskLevelCritical}
	require.NoError(t, db.Create(&p).Error)
	assert.Equal(t, 4, p.PriorityRank)

	p2 := PendingApproval{ActionUUID: "a-2", Priority: RiskLevelLow}
	require.NoError(t, db.Create(&p2).Error)
	assert.Equal(t, 1, p2.PriorityRank)
}

func TestAction_Decided(t *testing.T) {
	a := Action{}
	assert.False(t, a.Decided())

	db := openDB(t)
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Model(&a).Update("decided_at", gorm.Expr("CURRENT_TIMESTAMP")).Error)

	var got Action
	require.NoError(t, db.First(&got, a.ID).Error)
	assert.True(t, got.Decided())
}

func TestRiskLevel_RankAndValid(t *testing.T) {
	assert.Equal(t, 4, RiskLevelCritical.Rank())
	assert.Equal(t, 3, RiskLevelHigh.Rank())
	assert.Equal(t, 2, RiskLevelMedium.Rank())
	assert.Equal(t, 1, RiskLevelLow.Rank())
	assert.Equal(t, 0, RiskLevel("bogus").Rank())

	assert.True(t, RiskLevelMedium.Valid())
	assert.False(t, RiskLevel("").Valid())
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("   "))
	assert.Equal(t, []string{"a", "b"}, SplitList("a,b"))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a , , b ,"))
}

func TestUser_PasswordHashing(t *testing.T) {
	u := User{}
	require.NoError(t, u.SetPassword("hunter22"))
	assert.NotEqual(t, "hunter22", u.PasswordHash)
	assert.True(t, u.CheckPassword("hunter22"))
	assert.False(t, u.CheckPassword("wrong"))
}
