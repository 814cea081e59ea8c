package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	cases := map[string]Money{
		"200":    20000,
		"200.5":  20050,
		"200.05": 20005,
		"0.00":   0,
		"-12.30": -1230,
		" 1001 ": 100100,
		".75":    75,
		"+3":     300,

		"9999999999.99": MaxMoney,
	}
	for in, want := range cases {
		got, err := ParseMoney(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "abc", "1.234", "1.", "1.-2", "-", ".",
		"--500", "+-5", "1.+5", "1 000", "0x10", "1e3",
		"10000000000", "9999999999.999", "184467440737095517", "-184467440737095517"} {
		_, err := ParseMoney(bad)
		assert.Error(t, err, bad)
	}
}

func TestMoneyArithmeticAndFormat(t *testing.T) {
	price := Rupees(200)
	assert.Equal(t, "800.00", price.Mul(4).String())
	assert.Equal(t, "INR 800.00", price.Mul(4).Display())
	assert.Equal(t, "Free", Money(0).Display())
	assert.Equal(t, "INR 25,101.50", Money(2510150).Display())
	assert.Equal(t, "301.00", Rupees(201).Add(Rupees(100)).String())
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan([]byte("1501.00")))
	assert.Equal(t, Money(150100), m)
	require.NoError(t, m.Scan("51.00"))
	assert.Equal(t, Money(5100), m)
	require.NoError(t, m.Scan(int64(7)))
	assert.Equal(t, Money(700), m)
	require.NoError(t, m.Scan(nil))
	assert.Equal(t, Money(0), m)
	assert.Error(t, m.Scan(true))
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{Total: Rupees(800)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":800.00}`, string(b))

	var in struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":501.5,"b":"1100.00"}`), &in))
	assert.Equal(t, Money(50150), in.A)
	assert.Equal(t, Money(110000), in.B)
}

func TestMoneyJSONRejectsOverflowAndDoubleSigns(t *testing.T) {
	var in struct {
		Amount Money `json:"amount"`
	}
	for _, body := range []string{
		`{"amount":184467440737095517}`,
		`{"amount":"--500"}`,
		`{"amount":"1.+5"}`,
	} {
		assert.Error(t, json.Unmarshal([]byte(body), &in), body)
	}
}
