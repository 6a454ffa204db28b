package validate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/stockroom/internal/model"
)

const validBody = `{
	"name": "Laptop",
	"description": "Dell XPS 15",
	"sku": "LAP-001",
	"assetTag": "AT-100",
	"location": "Storage Room A",
	"quantity": 3,
	"acquisitionDate": "2024-05-01",
	"status": "In Use",
	"assignedTo": "Alice",
	"notes": "spare charger in drawer"
}`

func TestItemAcceptsValidPayload(t *testing.T) {
	in, problems := Item([]byte(validBody))
	require.Empty(t, problems)

	assert.Equal(t, model.ItemInput{
		Name:            "Laptop",
		Description:     "Dell XPS 15",
		SKU:             "LAP-001",
		AssetTag:        "AT-100",
		Location:        "Storage Room A",
		Quantity:        3,
		AcquisitionDate: "2024-05-01",
		Status:          model.StatusInUse,
		AssignedTo:      "Alice",
		Notes:           "spare charger in drawer",
	}, in)
}

func TestItemAcceptsZeroQuantity(t *testing.T) {
	in, problems := Item([]byte(`{"name":"Cable","sku":"C-1","location":"Shelf","quantity":0,"status":"Available"}`))
	require.Empty(t, problems)
	assert.Equal(t, int64(0), in.Quantity)
}

func TestItemAcceptsWholeFloatQuantity(t *testing.T) {
	in, problems := Item([]byte(`{"name":"Cable","sku":"C-1","location":"Shelf","quantity":4.0,"status":"Available"}`))
	require.Empty(t, problems)
	assert.Equal(t, int64(4), in.Quantity)
}

func TestItemAcceptsMaxQuantity(t *testing.T) {
	in, problems := Item([]byte(`{"name":"Cable","sku":"C-1","location":"Shelf","quantity":9223372036854775807,"status":"Available"}`))
	require.Empty(t, problems)
	assert.Equal(t, int64(math.MaxInt64), in.Quantity)
}

func TestItemKeepsSubmittedWhitespace(t *testing.T) {
	in, problems := Item([]byte(`{"name":"  Laptop ","sku":" LAP-1","assetTag":"AT-1 ","location":"Shelf\t","quantity":1,"status":"Available"}`))
	require.Empty(t, problems)
	assert.Equal(t, "  Laptop ", in.Name)
	assert.Equal(t, " LAP-1", in.SKU)
	assert.Equal(t, "AT-1 ", in.AssetTag)
	assert.Equal(t, "Shelf\t", in.Location)
}

func TestItemBlankOptionalFieldsAreAbsent(t *testing.T) {
	in, problems := Item([]byte(`{"name":"Cable","sku":"C-1","assetTag":"  ","acquisitionDate":"","location":"Shelf","quantity":1,"status":"Available"}`))
	require.Empty(t, problems)
	assert.Empty(t, in.AssetTag)
	assert.Empty(t, in.AcquisitionDate)
}

func TestItemCollectsEveryViolation(t *testing.T) {
	_, problems := Item([]byte(`{}`))

	assert.Equal(t, []string{
		"name is required",
		"sku is required",
		"location is required",
		"quantity is required",
		"status is required",
	}, problems)
}

func TestItemRules(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"blank name", `{"name":"   ","sku":"S","location":"L","quantity":1,"status":"Available"}`, "name must not be blank"},
		{"null name", `{"name":null,"sku":"S","location":"L","quantity":1,"status":"Available"}`, "name is required"},
		{"numeric name", `{"name":42,"sku":"S","location":"L","quantity":1,"status":"Available"}`, "name must be a string"},
		{"blank sku", `{"name":"N","sku":"","location":"L","quantity":1,"status":"Available"}`, "sku must not be blank"},
		{"blank location", `{"name":"N","sku":"S","location":"\t","quantity":1,"status":"Available"}`, "location must not be blank"},
		{"negative quantity", `{"name":"N","sku":"S","location":"L","quantity":-1,"status":"Available"}`, "quantity must be greater than or equal to 0"},
		{"string quantity", `{"name":"N","sku":"S","location":"L","quantity":"5","status":"Available"}`, "quantity must be a number"},
		{"fractional quantity", `{"name":"N","sku":"S","location":"L","quantity":1.5,"status":"Available"}`, "quantity must be a whole number"},
		{"quantity past int64", `{"name":"N","sku":"S","location":"L","quantity":9223372036854775808,"status":"Available"}`, "quantity is out of range"},
		{"quantity max int64 as float", `{"name":"N","sku":"S","location":"L","quantity":9223372036854775807.0,"status":"Available"}`, "quantity is out of range"},
		{"huge quantity", `{"name":"N","sku":"S","location":"L","quantity":1e30,"status":"Available"}`, "quantity is out of range"},
		{"unknown status", `{"name":"N","sku":"S","location":"L","quantity":1,"status":"Lost"}`, "status must be one of: Available, In Use, Under Repair, Disposed"},
		{"status wrong case", `{"name":"N","sku":"S","location":"L","quantity":1,"status":"available"}`, "status must be one of: Available, In Use, Under Repair, Disposed"},
		{"bad date", `{"name":"N","sku":"S","location":"L","quantity":1,"status":"Available","acquisitionDate":"May 1st"}`, "acquisitionDate must be a date in YYYY-MM-DD format"},
		{"numeric notes", `{"name":"N","sku":"S","location":"L","quantity":1,"status":"Available","notes":7}`, "notes must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, problems := Item([]byte(tt.body))
			assert.Equal(t, []string{tt.want}, problems)
		})
	}
}

func TestItemRejectsNonObjectBodies(t *testing.T) {
	for _, body := range []string{``, `null`, `[]`, `"item"`, `{"name":`} {
		_, problems := Item([]byte(body))
		assert.Equal(t, []string{"request body must be a JSON object"}, problems, "body %q", body)
	}
}

func TestItemIgnoresUnknownFields(t *testing.T) {
	in, problems := Item([]byte(`{"id":99,"color":"red","name":"N","sku":"S","location":"L","quantity":1,"status":"Disposed"}`))
	require.Empty(t, problems)
	assert.Equal(t, model.StatusDisposed, in.Status)
}
