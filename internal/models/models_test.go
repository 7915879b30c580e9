package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartyRefDecodesBareID(t *testing.T) {
	var appt Appointment
	err := json.Unmarshal([]byte(`{"_id":"a1","buyerId":"u-buyer","sellerId":null,"status":"PENDING"}`), &appt)
	require.NoError(t, err)

	assert.Equal(t, PartyRef{ID: "u-buyer"}, appt.Buyer)
	assert.True(t, appt.Seller.IsZero())
}

func TestPartyRefDecodesExpandedObject(t *testing.T) {
	payload := `{
		"_id": "a1",
		"buyerId": {"_id": "u-buyer", "fullName": "Nguyễn Văn A", "phone": "0901234567", "email": "a@example.vn"},
		"sellerId": {"id": "u-seller", "name": "Trần Thị B"}
	}`

	var appt Appointment
	require.NoError(t, json.Unmarshal([]byte(payload), &appt))

	assert.Equal(t, "u-buyer", appt.Buyer.ID)
	assert.Equal(t, "Nguyễn Văn A", appt.Buyer.Name)
	assert.Equal(t, "0901234567", appt.Buyer.Phone)
	assert.Equal(t, "u-seller", appt.Seller.ID)
	assert.Equal(t, "Trần Thị B", appt.Seller.Name)
}

func TestPartyRefEncodesCanonicalShape(t *testing.T) {
	data, err := json.Marshal(PartyRef{ID: "u1", Name: "A"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","name":"A"}`, string(data))
}

func TestContractRemaining(t *testing.T) {
	tests := []struct {
		price, deposit, expected int64
	}{
		{500_000_000, 50_000_000, 450_000_000},
		{100_000_000, 100_000_000, 0},
		{100_000_000, 120_000_000, 0},
		{0, 0, 0},
	}

	for _, test := range tests {
		c := Contract{
			PurchasePrice: decimal.NewFromInt(test.price),
			DepositAmount: decimal.NewFromInt(test.deposit),
		}
		assert.True(t, decimal.NewFromInt(test.expected).Equal(c.Remaining()),
			"price=%d deposit=%d got %s", test.price, test.deposit, c.Remaining())
	}
}

func TestContractPhotoPartition(t *testing.T) {
	c := Contract{Photos: []string{"s1", "s2", "s3", "b1", "b2", "b3"}}
	assert.Equal(t, []string{"s1", "s2", "s3"}, c.SellerPhotos())
	assert.Equal(t, []string{"b1", "b2", "b3"}, c.BuyerPhotos())

	partial := Contract{Photos: []string{"s1", "s2", "s3", "b1"}}
	assert.Equal(t, []string{"b1"}, partial.BuyerPhotos())

	empty := Contract{}
	assert.Empty(t, empty.SellerPhotos())
	assert.Empty(t, empty.BuyerPhotos())
}

func TestStatusTerminality(t *testing.T) {
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
	assert.True(t, AppointmentStatusCancelled.IsTerminal())
	assert.False(t, AppointmentStatusPending.IsTerminal())
	assert.False(t, AppointmentStatusRescheduled.IsTerminal())

	assert.False(t, ContractStatusSigned.IsTerminal())
	assert.True(t, ContractStatusCompleted.IsTerminal())
	assert.True(t, ContractStatusCancelled.IsTerminal())
}

func TestContractAmountsDecodeFromNumbers(t *testing.T) {
	var c Contract
	require.NoError(t, json.Unmarshal([]byte(`{"purchasePrice": 750000000, "depositAmount": "75000000"}`), &c))
	assert.Equal(t, "675000000", c.Remaining().String())
}
