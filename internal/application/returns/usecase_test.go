package returns_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ledger"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/request"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/returns"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/stockmovement"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/infrastructure/events"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/infrastructure/memory"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/logger"
)

var (
	plant1 = entity.Location{Kind: entity.LocationPlant, ID: 1}
	sc1    = entity.Location{Kind: entity.LocationServiceCenter, ID: 1}
	tech7  = entity.Location{Kind: entity.LocationTechnician, ID: 7}
)

type testEnv struct {
	uc       *returns.UseCase
	engine   *request.Engine
	recorder *stockmovement.Recorder
	ledger   *ledger.Ledger
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	publisher := events.NewInMemoryPublisher()
	log := logger.Nop()
	movements := memory.NewMovementRepository(store)
	engine := request.NewEngine(memory.NewRequestRepository(store), movements, tx, publisher, log)
	return &testEnv{
		uc:       returns.NewUseCase(engine, log),
		engine:   engine,
		recorder: stockmovement.NewRecorder(movements, tx, publisher, log),
		ledger:   ledger.NewLedger(memory.NewBalanceRepository(store), tx, log),
	}
}

func TestCreateReturnDerivesBuckets(t *testing.T) {
	e := newEnv(t)

	req, err := e.uc.CreateReturn(context.Background(), returns.CreateInput{
		From:     tech7,
		To:       sc1,
		Reason:   entity.ReasonConsignmentReturn,
		RaisedBy: "tech-7",
		Lines: []returns.ReturnLine{
			{Spare: entity.SparePart{ID: 42}, Qty: 2, ItemType: entity.ItemTypeDefective},
			{Spare: entity.SparePart{ID: 43}, Qty: 3, ItemType: entity.ItemTypeUnused},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestTypeTechnicianConsignmentReturn, req.Type)
	assert.Equal(t, entity.RequestStatusPending, req.Status)
	require.Len(t, req.Items, 2)
	assert.Equal(t, entity.BucketDefective, req.Items[0].Bucket)
	assert.Equal(t, entity.BucketGood, req.Items[1].Bucket)
}

// A downward pair is not a return, even though it is a valid request pair.
func TestCreateReturnRejectsIssueDirection(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.CreateReturn(context.Background(), returns.CreateInput{
		From:   sc1,
		To:     tech7,
		Reason: entity.ReasonConsignmentReturn,
		Lines:  []returns.ReturnLine{{Spare: entity.SparePart{ID: 42}, Qty: 1, ItemType: entity.ItemTypeUnused}},
	})
	var routing *domain.InvalidRoutingError
	require.ErrorAs(t, err, &routing)
}

func TestCreateReturnRequiresItemType(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.CreateReturn(context.Background(), returns.CreateInput{
		From:   tech7,
		To:     sc1,
		Reason: entity.ReasonDefect,
		Lines:  []returns.ReturnLine{{Spare: entity.SparePart{ID: 42}, Qty: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// End-to-end: a defective return travels in the defective bucket and, with
// the receiving side confirming the defect, lands in the service center's
// defective bucket.
func TestReturnFlowDefectivePart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.ledger.Adjust(ctx, 42, tech7, entity.BucketDefective, 2))

	req, err := e.uc.CreateReturn(ctx, returns.CreateInput{
		From:     tech7,
		To:       sc1,
		Reason:   entity.ReasonDefect,
		RaisedBy: "tech-7",
		Lines:    []returns.ReturnLine{{Spare: entity.SparePart{ID: 42}, Qty: 2, ItemType: entity.ItemTypeDefective}},
	})
	require.NoError(t, err)

	_, err = e.engine.Approve(ctx, req.ID, map[int64]int64{req.Items[0].ID: 2}, "sc-manager")
	require.NoError(t, err)
	m, err := e.engine.Allocate(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReferenceReturn, m.Reference.Type)
	assert.Equal(t, entity.BucketDefective, m.Lines[0].Bucket)

	_, err = e.recorder.MarkReceived(ctx, m.ID, []stockmovement.ReceivedLine{
		{LineID: m.Lines[0].ID, ReceivedQty: 2, Condition: entity.ConditionDefective},
	}, "DOC-2001", "")
	require.NoError(t, err)

	techBal, _ := e.ledger.GetBalance(ctx, 42, tech7)
	scBal, _ := e.ledger.GetBalance(ctx, 42, sc1)
	assert.Zero(t, techBal.DefectiveQty)
	assert.Equal(t, int64(2), scBal.DefectiveQty)
	assert.Zero(t, scBal.GoodQty)

	final, _ := e.engine.GetRequest(ctx, req.ID)
	assert.Equal(t, entity.RequestStatusFulfilled, final.Status)
}

// An unused return travels in the good bucket and is restocked as good when
// the receiving side confirms its condition.
func TestReturnFlowUnusedPartRestocksGood(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.ledger.Adjust(ctx, 42, sc1, entity.BucketGood, 5))

	req, err := e.uc.CreateReturn(ctx, returns.CreateInput{
		From:     sc1,
		To:       plant1,
		Reason:   entity.ReasonConsignmentReturn,
		RaisedBy: "sc-manager",
		Lines:    []returns.ReturnLine{{Spare: entity.SparePart{ID: 42}, Qty: 5, ItemType: entity.ItemTypeUnused}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestTypeConsignmentReturn, req.Type)

	_, err = e.engine.Approve(ctx, req.ID, map[int64]int64{req.Items[0].ID: 5}, "plant-admin")
	require.NoError(t, err)
	m, err := e.engine.Allocate(ctx, req.ID)
	require.NoError(t, err)

	_, err = e.recorder.MarkReceived(ctx, m.ID, []stockmovement.ReceivedLine{
		{LineID: m.Lines[0].ID, ReceivedQty: 5, Condition: entity.ConditionGood},
	}, "DOC-2002", "")
	require.NoError(t, err)

	plantBal, _ := e.ledger.GetBalance(ctx, 42, plant1)
	assert.Equal(t, int64(5), plantBal.GoodQty)
}

func TestListReturnsFiltersIssues(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.engine.Create(ctx, request.CreateInput{
		From:   sc1,
		To:     tech7,
		Reason: entity.ReasonDefect,
		Lines:  []request.CreateLine{{Spare: entity.SparePart{ID: 42}, Qty: 1}},
	})
	require.NoError(t, err)
	_, err = e.uc.CreateReturn(ctx, returns.CreateInput{
		From:   tech7,
		To:     sc1,
		Reason: entity.ReasonDefect,
		Lines:  []returns.ReturnLine{{Spare: entity.SparePart{ID: 42}, Qty: 1, ItemType: entity.ItemTypeDefective}},
	})
	require.NoError(t, err)

	list, err := e.uc.ListReturnsForLocation(ctx, sc1, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Type.IsReturn())
}
