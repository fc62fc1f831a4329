package repositories

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSB = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func TestLikePattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, likePattern(" 50%_off "))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestApplyItemFilter(t *testing.T) {
	minPrice := 10.0
	sql, args, err := applyItemFilter(testSB.Select("COUNT(*)").From("items i"), dto.ItemFilter{
		Search:   "bike",
		Category: "Sports",
		MinPrice: &minPrice,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "(i.name ILIKE $1 OR i.description ILIKE $2)")
	assert.Contains(t, sql, "LOWER(i.category) = LOWER($3)")
	assert.Contains(t, sql, "i.price >= $4")
	assert.Contains(t, sql, "i.is_sold = $5")
	assert.NotContains(t, sql, "seller_id")
	assert.Equal(t, []interface{}{"%bike%", "%bike%", "Sports", 10.0, false}, args)
}

func TestApplyItemFilter_IncludeSoldAndSeller(t *testing.T) {
	sql, args, err := applyItemFilter(testSB.Select("COUNT(*)").From("items i"), dto.ItemFilter{
		IncludeSold: true,
		SellerID:    7,
	}).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM items i WHERE i.seller_id = $1", sql)
	assert.Equal(t, []interface{}{int64(7)}, args)
}

func TestApplyLostItemFilter(t *testing.T) {
	sql, args, err := applyLostItemFilter(testSB.Select("COUNT(*)").From("lost_items li"), dto.LostItemFilter{
		Search: "wallet",
		Status: models.LostItemStatusFound,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "(li.name ILIKE $1 OR li.description ILIKE $2 OR li.location ILIKE $3)")
	assert.Contains(t, sql, "li.status = $4")
	assert.Equal(t, []interface{}{"%wallet%", "%wallet%", "%wallet%", models.LostItemStatusFound}, args)
}

func TestApplyLostItemFilter_Empty(t *testing.T) {
	sql, args, err := applyLostItemFilter(testSB.Select("COUNT(*)").From("lost_items li"), dto.LostItemFilter{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM lost_items li", sql)
	assert.Empty(t, args)
}

func TestApplyMaterialFilter(t *testing.T) {
	sql, args, err := applyMaterialFilter(testSB.Select("COUNT(*)").From("study_materials m"), dto.MaterialFilter{
		Branch:      "CSE",
		Semester:    3,
		SubjectCode: " cs201 ",
		Type:        models.MaterialPYQ,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "LOWER(m.branch) = LOWER($1)")
	assert.Contains(t, sql, "m.semester = $2")
	assert.Contains(t, sql, "m.subject_code = $3")
	assert.Contains(t, sql, "m.type = $4")
	assert.Equal(t, []interface{}{"CSE", 3, "CS201", models.MaterialPYQ}, args)
}

func TestUpsertRecordQuery_ReplacesStatusOnConflict(t *testing.T) {
	r := &AttendanceRepository{sb: testSB}
	sql, args, err := r.upsertRecordQuery(&models.AttendanceRecord{UserID: 1, SubjectID: 2, Status: models.AttendancePresent})
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO attendance_records (user_id,subject_id,date,status) VALUES ($1,$2,$3,$4)")
	assert.Contains(t, sql, "DO UPDATE SET status = EXCLUDED.status")
	assert.Len(t, args, 4)
}

func TestRevokeActiveQuery_OnlyLiveTokens(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sql, args, err := revokeActiveQuery(testSB, "tok", now).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE refresh_tokens SET is_revoked = $1 WHERE is_revoked = $2 AND token = $3 AND expires_at > $4", sql)
	assert.Equal(t, []interface{}{true, false, "tok", now}, args)
}
