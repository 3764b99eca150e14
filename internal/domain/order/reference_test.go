package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReference_Unmarshal(t *testing.T) {
	t.Run("bare id", func(t *testing.T) {
		var r Reference[Customer]
		require.NoError(t, json.Unmarshal([]byte(`"cus-1"`), &r))
		assert.Equal(t, "cus-1", r.ID())
		assert.False(t, r.IsResolved())
		_, ok := r.Value()
		assert.False(t, ok)
	})

	t.Run("populated object", func(t *testing.T) {
		var r Reference[Customer]
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"cus-2","full_name":"Nguyễn Văn A","address":"12 Lê Lợi"}`), &r))
		assert.Equal(t, "cus-2", r.ID())
		c, ok := r.Value()
		require.True(t, ok)
		assert.Equal(t, "Nguyễn Văn A", c.FullName)
		assert.True(t, c.HasAddress())
	})

	t.Run("object with plain id", func(t *testing.T) {
		var r Reference[Dealership]
		require.NoError(t, json.Unmarshal([]byte(`{"id":"dl-1","name":"VinFast Hà Nội"}`), &r))
		assert.Equal(t, "dl-1", r.ID())
	})

	t.Run("null", func(t *testing.T) {
		var r Reference[Dealership]
		require.NoError(t, json.Unmarshal([]byte(`null`), &r))
		assert.True(t, r.IsZero())
	})

	t.Run("rejects numbers", func(t *testing.T) {
		var r Reference[Dealership]
		assert.Error(t, json.Unmarshal([]byte(`42`), &r))
	})
}

func TestReference_Marshal(t *testing.T) {
	data, err := json.Marshal(RefID[Customer]("cus-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `"cus-1"`, string(data))

	data, err = json.Marshal(RefResolved(Customer{ID: "cus-1", FullName: "A"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"cus-1","full_name":"A"}`, string(data))

	data, err = json.Marshal(Reference[Customer]{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestReference_Or(t *testing.T) {
	bare := RefID[Dealership]("dl-1")
	full := RefResolved(Dealership{ID: "dl-1", CompanyName: "Công ty A"})
	empty := Reference[Dealership]{}

	assert.True(t, bare.Or(full).IsResolved())
	assert.True(t, full.Or(bare).IsResolved())
	assert.Equal(t, "dl-1", empty.Or(bare).ID())
	assert.True(t, empty.Or(empty).IsZero())

	anonymous := RefResolved(Dealership{CompanyName: "Công ty A"})
	merged := bare.Or(anonymous)
	require.True(t, merged.IsResolved())
	assert.Equal(t, "dl-1", merged.ID())
	assert.Equal(t, "dl-1", anonymous.Or(bare).ID())
}

func TestAddress_Unmarshal(t *testing.T) {
	t.Run("string form", func(t *testing.T) {
		var a Address
		require.NoError(t, json.Unmarshal([]byte(`"1 Tràng Tiền, Hà Nội"`), &a))
		assert.Equal(t, "1 Tràng Tiền, Hà Nội", a.Raw)
		assert.False(t, a.IsEmpty())
	})

	t.Run("structured form", func(t *testing.T) {
		var a Address
		require.NoError(t, json.Unmarshal([]byte(`{"street":"1 Tràng Tiền","ward":"Tràng Tiền","district":"Hoàn Kiếm","city":"Hà Nội"}`), &a))
		assert.Equal(t, "1 Tràng Tiền, Tràng Tiền, Hoàn Kiếm, Hà Nội", a.Flatten())
	})

	t.Run("empty object", func(t *testing.T) {
		var a Address
		require.NoError(t, json.Unmarshal([]byte(`{}`), &a))
		assert.True(t, a.IsEmpty())
	})
}

func TestDealership_IsSparse(t *testing.T) {
	assert.True(t, Dealership{ID: "dl-1", Name: "A"}.IsSparse())
	assert.False(t, Dealership{ID: "dl-1", TaxCode: "0101"}.IsSparse())
	assert.False(t, Dealership{ID: "dl-1", Contact: &Contact{Phone: "024"}}.IsSparse())
	assert.False(t, Dealership{ID: "dl-1", Address: &Address{Raw: "Hà Nội"}}.IsSparse())
}

func TestVehicle_DisplayName(t *testing.T) {
	assert.Equal(t, "VF 8 Plus", Vehicle{Name: "VF 8", Version: "Plus"}.DisplayName())
	assert.Equal(t, "Vision", Vehicle{Model: "Vision"}.DisplayName())
	assert.Equal(t, "", Vehicle{}.DisplayName())
}
