package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("rounds to whole dong", func(t *testing.T) {
		m := NewMoney(decimal.NewFromFloat(1500.5))
		assert.Equal(t, int64(1501), m.Amount().IntPart())
		assert.Equal(t, VND, m.Currency())
	})

	t.Run("parses string", func(t *testing.T) {
		m, err := NewMoneyFromString("200000000")
		require.NoError(t, err)
		assert.True(t, m.Equals(NewMoneyFromInt(200_000_000)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	total := NewMoneyFromInt(1_000_000_000)
	paid := NewMoneyFromInt(200_000_000)

	assert.True(t, total.Subtract(paid).Equals(NewMoneyFromInt(800_000_000)))
	assert.True(t, paid.Add(NewMoneyFromInt(800_000_000)).Equals(total))
	assert.True(t, NewMoneyFromInt(150_000).MultiplyByInt(3).Equals(NewMoneyFromInt(450_000)))
	assert.True(t, paid.LessThan(total))
	assert.True(t, total.GreaterThan(paid))
}

func TestMoney_Percent(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		pct    int64
		want   int64
	}{
		{"twenty percent", 1_000_000_000, 20, 200_000_000},
		{"ten percent", 999_999, 10, 100_000},
		{"thirty percent", 333_333, 30, 100_000},
		{"zero total", 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMoneyFromInt(tt.amount).Percent(decimal.NewFromInt(tt.pct))
			assert.Equal(t, tt.want, got.Amount().IntPart())
		})
	}
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "1.000.000 ₫", FormatVND(decimal.NewFromInt(1_000_000)))
	assert.Equal(t, "0 ₫", FormatVND(decimal.Zero))
	assert.Equal(t, "950 ₫", FormatVND(decimal.NewFromInt(950)))
	assert.Equal(t, "1.234.567.890", FormatNumber(decimal.NewFromInt(1_234_567_890)))
	assert.Equal(t, "1.000.000 ₫", NewMoneyFromInt(1_000_000).String())
}

func TestMoney_JSON(t *testing.T) {
	t.Run("marshals as number", func(t *testing.T) {
		data, err := json.Marshal(NewMoneyFromInt(800_000_000))
		require.NoError(t, err)
		assert.Equal(t, "800000000", string(data))
	})

	t.Run("unmarshals number and string", func(t *testing.T) {
		var a, b Money
		require.NoError(t, json.Unmarshal([]byte(`1200000`), &a))
		require.NoError(t, json.Unmarshal([]byte(`"1200000"`), &b))
		assert.True(t, a.Equals(b))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var m Money
		assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
	})
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("1500000"))
	assert.Equal(t, int64(1_500_000), m.Amount().IntPart())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	v, err := NewMoneyFromInt(42).Value()
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}
