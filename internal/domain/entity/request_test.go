package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

func TestDeriveRequestType(t *testing.T) {
	cases := []struct {
		name     string
		from     entity.LocationKind
		to       entity.LocationKind
		want     entity.RequestType
		ok       bool
		isReturn bool
	}{
		{"service center issues to technician", entity.LocationServiceCenter, entity.LocationTechnician, entity.RequestTypeTechnicianIssue, true, false},
		{"technician returns to service center", entity.LocationTechnician, entity.LocationServiceCenter, entity.RequestTypeTechnicianConsignmentReturn, true, true},
		{"plant fills up service center", entity.LocationPlant, entity.LocationServiceCenter, entity.RequestTypeFillUp, true, false},
		{"service center returns to plant", entity.LocationServiceCenter, entity.LocationPlant, entity.RequestTypeConsignmentReturn, true, true},
		{"plant to technician is not routable", entity.LocationPlant, entity.LocationTechnician, "", false, false},
		{"technician to plant is not routable", entity.LocationTechnician, entity.LocationPlant, "", false, false},
		{"technician to technician is not routable", entity.LocationTechnician, entity.LocationTechnician, "", false, false},
		{"customer has no routing pair", entity.LocationCustomer, entity.LocationServiceCenter, "", false, false},
		{"service center to customer is not routable", entity.LocationServiceCenter, entity.LocationCustomer, "", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := entity.DeriveRequestType(tc.from, tc.to)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
			if ok {
				assert.Equal(t, tc.isReturn, got.IsReturn())
			}
		})
	}
}

// The same pair must always yield the same type: the type is a function of
// the routing pair, never an input.
func TestDeriveRequestTypeDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		got, ok := entity.DeriveRequestType(entity.LocationServiceCenter, entity.LocationTechnician)
		assert.True(t, ok)
		assert.Equal(t, entity.RequestTypeTechnicianIssue, got)
	}
}

func TestReceiptConditionDestinationBucket(t *testing.T) {
	assert.Equal(t, entity.BucketGood, entity.ConditionGood.DestinationBucket())
	assert.Equal(t, entity.BucketDefective, entity.ConditionDamaged.DestinationBucket())
	assert.Equal(t, entity.BucketDefective, entity.ConditionDefective.DestinationBucket())
}

func TestItemTypeSourceBucket(t *testing.T) {
	bucket, ok := entity.ItemTypeUnused.SourceBucket()
	assert.True(t, ok)
	assert.Equal(t, entity.BucketGood, bucket)

	bucket, ok = entity.ItemTypeDefective.SourceBucket()
	assert.True(t, ok)
	assert.Equal(t, entity.BucketDefective, bucket)

	_, ok = entity.ItemType("broken").SourceBucket()
	assert.False(t, ok)
}

func TestLocationValid(t *testing.T) {
	assert.True(t, entity.Location{Kind: entity.LocationPlant, ID: 1}.Valid())
	assert.True(t, entity.Location{Kind: entity.LocationCustomer, ID: 9}.Valid())
	assert.False(t, entity.Location{Kind: "warehouse", ID: 1}.Valid())
	assert.False(t, entity.Location{Kind: entity.LocationPlant, ID: 0}.Valid())
}

func TestReasonValidation(t *testing.T) {
	assert.True(t, entity.ReasonDefect.ValidIssueReason())
	assert.True(t, entity.ReasonMSL.ValidIssueReason())
	assert.False(t, entity.ReasonConsignmentReturn.ValidIssueReason())

	assert.True(t, entity.ReasonConsignmentReturn.ValidReturnReason())
	assert.True(t, entity.ReasonDefect.ValidReturnReason())
	assert.False(t, entity.ReasonBulk.ValidReturnReason())
}

func TestBalanceAvailable(t *testing.T) {
	bal := entity.InventoryBalance{GoodQty: 10, ReservedGood: 4, DefectiveQty: 3}
	assert.Equal(t, int64(6), bal.Available(entity.BucketGood))
	assert.Equal(t, int64(3), bal.Available(entity.BucketDefective))

	bal.Add(entity.BucketGood, -2)
	bal.AddReserved(entity.BucketGood, -1)
	assert.Equal(t, int64(8), bal.Qty(entity.BucketGood))
	assert.Equal(t, int64(5), bal.Available(entity.BucketGood))
}

func TestMovementLineSum(t *testing.T) {
	m := entity.StockMovement{Lines: []entity.MovementLine{{Qty: 3}, {Qty: 4}}}
	assert.Equal(t, int64(7), m.LineSum())
}
