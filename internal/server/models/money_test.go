package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{in: "100", want: 10000},
		{in: "150.00", want: 15000},
		{in: "150.5", want: 15050},
		{in: "0.07", want: 7},
		{in: ".5", want: 50},
		{in: "-12.34", want: -1234},
		{in: "1.234", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "1.-5", wantErr: true},
		{in: "1.+5", wantErr: true},
		{in: "+-1", wantErr: true},
		{in: "1 .50", wantErr: true},
		{in: "92233720368547757.99", want: 9223372036854775799},
		{in: "92233720368547758.00", wantErr: true},
		{in: "184467440737095517.00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "150.00", Money(15000).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-1.50", Money(-150).String())
}

func TestMoney_JSON(t *testing.T) {
	var body struct {
		Valor Money `json:"valor"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"valor": 100.00}`), &body))
	assert.Equal(t, Money(10000), body.Valor)

	require.NoError(t, json.Unmarshal([]byte(`{"valor": "99.9"}`), &body))
	assert.Equal(t, Money(9990), body.Valor)

	require.NoError(t, json.Unmarshal([]byte(`{"valor": 1.5e2}`), &body))
	assert.Equal(t, Money(15000), body.Valor)

	require.Error(t, json.Unmarshal([]byte(`{"valor": true}`), &body))
	require.Error(t, json.Unmarshal([]byte(`{"valor": 184467440737095517.00}`), &body))
	require.Error(t, json.Unmarshal([]byte(`{"valor": "1.+5"}`), &body))

	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"valor": 150.00}`, string(out))
}
