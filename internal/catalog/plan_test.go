package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlan() *StylePlan {
	return &StylePlan{
		LookID:        "look_001",
		RequiredSlots: []string{SlotTop, SlotBottom, SlotShoe},
		PerSlot: []SlotConstraint{
			{Slot: SlotTop, Category: "blouse", Keywords: []string{"silk", "white"}, MinPrice: 20, MaxPrice: 80},
			{Slot: SlotBottom, Category: "trousers", MinPrice: 30, MaxPrice: 120},
			{Slot: SlotShoe, Category: "loafers", MinPrice: 40, MaxPrice: 150},
		},
		BudgetTotal:      300,
		Currency:         "EUR",
		RetailerPriority: []string{"zalando", "asos"},
		SearchQueries: []SearchQuery{
			{Slot: SlotTop, Query: "white silk blouse women"},
		},
	}
}

func TestStylePlanValidate_OK(t *testing.T) {
	require.NoError(t, validPlan().Validate())
}

func TestStylePlanValidate_MissingLookID(t *testing.T) {
	plan := validPlan()
	plan.LookID = ""
	assert.Error(t, plan.Validate())
}

func TestStylePlanValidate_RequiredSlotWithoutConstraint(t *testing.T) {
	plan := validPlan()
	plan.RequiredSlots = append(plan.RequiredSlots, SlotBag)
	err := plan.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bag")
}

func TestStylePlanValidate_UnknownSlot(t *testing.T) {
	plan := validPlan()
	plan.PerSlot = append(plan.PerSlot, SlotConstraint{Slot: "hat"})
	assert.Error(t, plan.Validate())
}

func TestStylePlanValidate_InvertedPriceBand(t *testing.T) {
	plan := validPlan()
	plan.PerSlot[0].MinPrice = 100
	plan.PerSlot[0].MaxPrice = 50
	err := plan.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_price")
}

func TestStylePlanValidate_ZeroBudget(t *testing.T) {
	plan := validPlan()
	plan.BudgetTotal = 0
	assert.Error(t, plan.Validate())
}

func TestQueryFor_PreparedQueryWins(t *testing.T) {
	plan := validPlan()
	assert.Equal(t, "white silk blouse women", plan.QueryFor(SlotTop))
}

func TestQueryFor_FallsBackToConstraintKeywords(t *testing.T) {
	plan := validPlan()
	assert.Equal(t, "trousers", plan.QueryFor(SlotBottom))
	plan.PerSlot[1].Keywords = []string{"wide leg", "linen"}
	assert.Equal(t, "trousers wide leg linen", plan.QueryFor(SlotBottom))
}

func TestQueryFor_UnconstrainedSlotUsesSlotName(t *testing.T) {
	plan := validPlan()
	assert.Equal(t, "bag", plan.QueryFor(SlotBag))
}

func TestConstraint_Lookup(t *testing.T) {
	plan := validPlan()
	c := plan.Constraint(SlotShoe)
	require.NotNil(t, c)
	assert.Equal(t, "loafers", c.Category)
	assert.Nil(t, plan.Constraint(SlotDress))
}
