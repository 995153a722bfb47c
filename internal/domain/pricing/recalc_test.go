package pricing

import (
	"testing"

	"proposal_builder/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleItemProposal() entities.Proposal {
	return entities.Proposal{
		ID:         "proposal-1",
		ClientName: "Acme",
		Budget:     5000,
		Phases: []entities.Phase{{
			ID:   "phase-1",
			Name: "Design",
			LineItems: []entities.LineItem{
				{ID: "item-1", Name: "Logo", Hours: 5, Rate: 100, Cost: 500},
			},
			TotalCost: 500,
		}},
		Subtotal: 500,
		Total:    500,
	}
}

func TestApplyFieldEdit_HoursPropagate(t *testing.T) {
	p := singleItemProposal()

	out, err := ApplyFieldEdit(p, "phase-1", "item-1", FieldHours, 8)
	require.NoError(t, err)

	item := out.Phases[0].LineItems[0]
	assert.Equal(t, 8.0, item.Hours)
	assert.Equal(t, 800.0, item.Cost)
	assert.True(t, item.IsEdited)
	assert.Equal(t, 800.0, out.Phases[0].TotalCost)
	assert.Equal(t, 800.0, out.Subtotal)
	assert.Equal(t, 800.0, out.Total)

	// value semantics
	assert.Equal(t, 5.0, p.Phases[0].LineItems[0].Hours)
	assert.False(t, p.Phases[0].LineItems[0].IsEdited)
	assert.Equal(t, 500.0, p.Subtotal)
}

func TestApplyFieldEdit_Rate(t *testing.T) {
	out, err := ApplyFieldEdit(singleItemProposal(), "phase-1", "item-1", FieldRate, 125.5)
	require.NoError(t, err)
	assert.Equal(t, 627.5, out.Phases[0].LineItems[0].Cost)
	assert.Equal(t, 627.5, out.Total)
}

func TestApplyFieldEdit_Idempotent(t *testing.T) {
	once, err := ApplyFieldEdit(singleItemProposal(), "phase-1", "item-1", FieldHours, 8)
	require.NoError(t, err)
	twice, err := ApplyFieldEdit(once, "phase-1", "item-1", FieldHours, 8)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestApplyFieldEdit_AddressingMissIsNoOp(t *testing.T) {
	drifted := singleItemProposal()
	drifted.Phases[0].LineItems[0].Cost = 12345
	drifted.Phases[0].TotalCost = 12345
	drifted.Subtotal = 99
	drifted.Total = 99

	cases := []struct {
		name, phaseID, itemID string
	}{
		{name: "unknown phase", phaseID: "phase-x", itemID: "item-1"},
		{name: "unknown item", phaseID: "phase-1", itemID: "item-x"},
		{name: "empty ids", phaseID: "", itemID: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ApplyFieldEdit(drifted, tc.phaseID, tc.itemID, FieldHours, 3)
			require.NoError(t, err)

			item := out.Phases[0].LineItems[0]
			assert.Equal(t, 5.0, item.Hours)
			assert.Equal(t, 500.0, item.Cost)
			assert.False(t, item.IsEdited)
			assert.Equal(t, 500.0, out.Phases[0].TotalCost)
			assert.Equal(t, 500.0, out.Subtotal)
			assert.Equal(t, 500.0, out.Total)

			// input untouched
			assert.Equal(t, 12345.0, drifted.Phases[0].LineItems[0].Cost)
			assert.Equal(t, 99.0, drifted.Total)
		})
	}

	clean := singleItemProposal()
	out, err := ApplyFieldEdit(clean, "phase-x", "item-1", FieldRate, 1)
	require.NoError(t, err)
	assert.Equal(t, clean, out)
}

func TestApplyFieldEdit_Validation(t *testing.T) {
	p := singleItemProposal()

	_, err := ApplyFieldEdit(p, "phase-1", "item-1", Field("cost"), 1)
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = ApplyFieldEdit(p, "phase-1", "item-1", FieldHours, -1)
	assert.ErrorIs(t, err, ErrNegativeValue)

	assert.Equal(t, 5.0, p.Phases[0].LineItems[0].Hours)
}

func TestApplyFieldEdit_OnlyTargetItemChanges(t *testing.T) {
	p := singleItemProposal()
	p.Phases = append(p.Phases, entities.Phase{
		ID:   "phase-2",
		Name: "Build",
		LineItems: []entities.LineItem{
			{ID: "item-2", Name: "Pages", Hours: 10, Rate: 120},
			{ID: "item-3", Name: "QA", Hours: 4, Rate: 80, IsEdited: true},
		},
	})
	p = Recalculate(p)

	out, err := ApplyFieldEdit(p, "phase-2", "item-2", FieldHours, 12)
	require.NoError(t, err)

	assert.Equal(t, p.Phases[0], out.Phases[0])
	assert.Equal(t, 1440.0, out.Phases[1].LineItems[0].Cost)
	assert.Equal(t, p.Phases[1].LineItems[1], out.Phases[1].LineItems[1])
	assert.Equal(t, 1440.0+320, out.Phases[1].TotalCost)
	assert.Equal(t, 500.0+1440+320, out.Subtotal)
}

func TestParseField(t *testing.T) {
	f, err := ParseField(" Hours ")
	require.NoError(t, err)
	assert.Equal(t, FieldHours, f)

	f, err = ParseField("rate")
	require.NoError(t, err)
	assert.Equal(t, FieldRate, f)

	_, err = ParseField("cost")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestRecalculate_IgnoresSuppliedAmounts(t *testing.T) {
	p := entities.Proposal{
		Phases: []entities.Phase{{
			ID:        "phase-1",
			TotalCost: 1,
			LineItems: []entities.LineItem{
				{ID: "a", Hours: 3, Rate: 33.33, Cost: 1},
				{ID: "b", Hours: -2, Rate: 10, Cost: 50},
			},
		}},
		Subtotal: 7,
		Discount: -5,
		Total:    7,
	}

	out := Recalculate(p)

	assert.Equal(t, 99.99, out.Phases[0].LineItems[0].Cost)
	assert.Zero(t, out.Phases[0].LineItems[1].Hours)
	assert.Zero(t, out.Phases[0].LineItems[1].Cost)
	assert.Equal(t, 99.99, out.Phases[0].TotalCost)
	assert.Equal(t, 99.99, out.Subtotal)
	assert.Zero(t, out.Discount)
	assert.Equal(t, 99.99, out.Total)
}

func TestApplyDiscount(t *testing.T) {
	p := singleItemProposal()

	out, err := ApplyDiscount(p, 50)
	require.NoError(t, err)
	assert.Equal(t, 50.0, out.Discount)
	assert.Equal(t, 450.0, out.Total)
	assert.Equal(t, 500.0, out.Subtotal)

	_, err = ApplyDiscount(p, -1)
	assert.ErrorIs(t, err, ErrNegativeValue)

	_, err = ApplyDiscount(p, 501)
	assert.ErrorIs(t, err, ErrDiscountTooLarge)

	// discount survives later field edits
	edited, err := ApplyFieldEdit(out, "phase-1", "item-1", FieldHours, 8)
	require.NoError(t, err)
	assert.Equal(t, 750.0, edited.Total)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
	assert.Equal(t, 1234.57, LineCost(1, 1234.567))
	assert.Equal(t, 0.1, Sub(0.3, 0.2))
	assert.Zero(t, Sum())
}

func TestNormalizeItem(t *testing.T) {
	cases := []struct {
		name              string
		hours             float64
		rate, cost        *float64
		wantHours, wantRt float64
	}{
		{name: "rate wins over cost", hours: 10, rate: float(150), cost: float(9999), wantHours: 10, wantRt: 150},
		{name: "cost derives rate", hours: 4, cost: float(1000), wantHours: 4, wantRt: 250},
		{name: "cost without hours becomes one unit", cost: float(450), wantHours: 1, wantRt: 450},
		{name: "nothing known", hours: 6, wantHours: 6, wantRt: 0},
		{name: "zero rate kept when no cost", hours: 6, rate: float(0), wantHours: 6, wantRt: 0},
		{name: "negative hours clamp", hours: -3, rate: float(100), wantHours: 0, wantRt: 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, r := normalizeItem(tc.hours, tc.rate, tc.cost)
			assert.Equal(t, tc.wantHours, h)
			assert.Equal(t, tc.wantRt, r)
		})
	}
}
