package fine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPolicy_Fine(t *testing.T) {
	due := day("2024-03-15")

	tests := []struct {
		name string
		asOf time.Time
		want Amount
	}{
		{"early", day("2024-03-01"), 0},
		{"on due date", due, 0},
		{"on due date late evening", due.Add(23*time.Hour + 59*time.Minute), 0},
		{"one day late", day("2024-03-16"), 100},
		{"three days late", day("2024-03-18"), 300},
		{"across month end", day("2024-04-01"), 1700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultPolicy.Fine(due, tt.asOf))
		})
	}
}

func TestPolicy_CustomRate(t *testing.T) {
	p := Policy{DailyRate: 25}
	assert.Equal(t, Amount(75), p.Fine(day("2024-01-01"), day("2024-01-04")))
}

func TestDaysOverdue_IgnoresLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	due := time.Date(2024, 5, 1, 0, 0, 0, 0, loc)
	asOf := time.Date(2024, 5, 3, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysOverdue(due, asOf))
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "3.00", Amount(300).String())
	assert.Equal(t, "0.05", Amount(5).String())
	assert.Equal(t, "12.34", Amount(1234).String())
	assert.Equal(t, "-1.50", Amount(-150).String())
}

func TestAmount_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Fine Amount `json:"fine"`
	}{Fine: 300})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fine":"3.00"}`, string(b))

	var out struct {
		Fine Amount `json:"fine"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"fine":"2.5"}`), &out))
	assert.Equal(t, Amount(250), out.Fine)
	require.NoError(t, json.Unmarshal([]byte(`{"fine":4}`), &out))
	assert.Equal(t, Amount(400), out.Fine)
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, s := range []string{"", "abc", "1.234", ".5", "1.-5", "1.+5", "+2", "-+2", "1.", "1. 5", "--1"} {
		_, err := ParseAmount(s)
		assert.ErrorIs(t, err, ErrInvalidAmount, s)
	}
}

func TestAmount_UnmarshalJSONRejectsSignedParts(t *testing.T) {
	var a Amount
	assert.ErrorIs(t, json.Unmarshal([]byte(`"1.-5"`), &a), ErrInvalidAmount)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"+2"`), &a), ErrInvalidAmount)
	assert.Equal(t, Amount(0), a)

	require.NoError(t, json.Unmarshal([]byte(`"-1.05"`), &a))
	assert.Equal(t, Amount(-105), a)
}
