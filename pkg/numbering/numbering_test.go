package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDatedPrefix(t *testing.T) {
	day := time.Date(2024, time.March, 7, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "ZAP/2024/03/07/", Requisition.Prefix(day))
	assert.Equal(t, "HR/2024/03/07/", HRRequisition.Scope(day))
	assert.Equal(t, "", ItemIndex.Prefix(day))
	assert.Equal(t, "ITEM", ItemIndex.Scope(day))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "ZAP/2024/03/07/12", Requisition.Format("ZAP/2024/03/07/", 12))
	assert.Equal(t, "000001", ItemIndex.Format("", 1))
	assert.Equal(t, "000042", ItemIndex.Format("", 42))
}

func TestMaxSuffix_ToleratesLegacyValues(t *testing.T) {
	prefix := "ZAP/2024/03/07/"
	values := []string{
		prefix + "1",
		prefix + "7",
		prefix + "abc",
		prefix + "3",
		prefix,
		prefix + "2/extra",
	}

	maxN, anomalies := MaxSuffix(values, prefix)

	assert.Equal(t, int64(7), maxN)
	assert.ElementsMatch(t, []string{prefix + "abc", prefix, prefix + "2/extra"}, anomalies)
}

func TestMaxSuffix_ItemIndices(t *testing.T) {
	maxN, anomalies := MaxSuffix([]string{"000001", "000009", "A-12"}, "")
	assert.Equal(t, int64(9), maxN)
	assert.Equal(t, []string{"A-12"}, anomalies)

	maxN, anomalies = MaxSuffix(nil, "")
	assert.Zero(t, maxN)
	assert.Empty(t, anomalies)
}

func TestKindMax(t *testing.T) {
	assert.Equal(t, int64(999999), ItemIndex.Max())
	assert.Len(t, ItemIndex.Format("", ItemIndex.Max()), 6)
	assert.Equal(t, int64(0), Requisition.Max(), "у датированных серий нет верхней границы")
}
