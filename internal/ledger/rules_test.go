package ledger_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agritrace/internal/domain"
	"agritrace/internal/ledger"
)

func TestPolicyAdjacentForwardOnly(t *testing.T) {
	p := ledger.AdjacentForwardOnly
	tests := []struct {
		from, to domain.Status
		role     domain.Role
		want     error
	}{
		{domain.StatusRegistered, domain.StatusPickedUp, domain.RoleDistributor, nil},
		{domain.StatusRegistered, domain.StatusPickedUp, domain.RoleFarmer, nil},
		{domain.StatusPickedUp, domain.StatusInTransit, domain.RoleDistributor, nil},
		{domain.StatusInTransit, domain.StatusAtWarehouse, domain.RoleDistributor, nil},
		{domain.StatusInTransit, domain.StatusReadyForHandover, domain.RoleDistributor, nil},
		{domain.StatusAtWarehouse, domain.StatusReadyForHandover, domain.RoleDistributor, nil},
		{domain.StatusAtWarehouse, domain.StatusDeliveredToRetailer, domain.RoleRetailer, nil},
		{domain.StatusReadyForHandover, domain.StatusDeliveredToRetailer, domain.RoleDistributor, nil},
		{domain.StatusDeliveredToRetailer, domain.StatusReadyForSale, domain.RoleRetailer, nil},
		{domain.StatusReadyForSale, domain.StatusSold, domain.RoleRetailer, nil},

		{domain.StatusRegistered, domain.StatusDeliveredToRetailer, domain.RoleRetailer, ledger.ErrInvalidTransition},
		{domain.StatusRegistered, domain.StatusSold, domain.RoleRetailer, ledger.ErrInvalidTransition},
		{domain.StatusReadyForHandover, domain.StatusAtWarehouse, domain.RoleDistributor, ledger.ErrInvalidTransition},
		{domain.StatusInTransit, domain.StatusInTransit, domain.RoleDistributor, ledger.ErrInvalidTransition},
		{domain.StatusInTransit, domain.StatusPickedUp, domain.RoleDistributor, ledger.ErrInvalidTransition},
		{domain.StatusReadyForSale, domain.StatusSold, domain.RoleDistributor, ledger.ErrInvalidTransition},
		{domain.StatusRegistered, domain.StatusPickedUp, domain.RoleConsumer, ledger.ErrInvalidTransition},
		{domain.StatusRegistered, domain.StatusPickedUp, "", ledger.ErrInvalidTransition},
		{domain.StatusSold, domain.StatusSold, domain.RoleRetailer, ledger.ErrTerminalState},
		{domain.StatusSold, domain.StatusRegistered, domain.RoleFarmer, ledger.ErrTerminalState},
		{domain.StatusRegistered, domain.Status(42), domain.RoleFarmer, ledger.ErrInvalidInput},
	}
	for _, tt := range tests {
		err := p.Check(tt.from, tt.to, tt.role)
		if tt.want == nil {
			assert.NoError(t, err, "%s -> %s by %s", tt.from, tt.to, tt.role)
			continue
		}
		assert.ErrorIs(t, err, tt.want, "%s -> %s by %s", tt.from, tt.to, tt.role)
	}
}

func TestPolicyAllowSkipAndAny(t *testing.T) {
	require.NoError(t, ledger.AllowSkip.Check(domain.StatusRegistered, domain.StatusDeliveredToRetailer, domain.RoleRetailer))
	require.ErrorIs(t, ledger.AllowSkip.Check(domain.StatusInTransit, domain.StatusPickedUp, domain.RoleDistributor), ledger.ErrInvalidTransition)

	require.NoError(t, ledger.AllowAny.Check(domain.StatusInTransit, domain.StatusPickedUp, domain.RoleDistributor))
	require.NoError(t, ledger.AllowAny.Check(domain.StatusInTransit, domain.StatusInTransit, domain.RoleDistributor))
	require.ErrorIs(t, ledger.AllowAny.Check(domain.StatusSold, domain.StatusReadyForSale, domain.RoleRetailer), ledger.ErrTerminalState)
	// role permissions apply under every policy
	require.ErrorIs(t, ledger.AllowAny.Check(domain.StatusRegistered, domain.StatusSold, domain.RoleFarmer), ledger.ErrInvalidTransition)
}

func TestPolicyByName(t *testing.T) {
	for name, want := range map[string]ledger.Policy{
		"":                      ledger.AdjacentForwardOnly,
		"adjacent-forward-only": ledger.AdjacentForwardOnly,
		" Allow-Skip ":          ledger.AllowSkip,
		"allow-any":             ledger.AllowAny,
	} {
		got, err := ledger.PolicyByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}
	_, err := ledger.PolicyByName("anything-goes")
	require.ErrorIs(t, err, ledger.ErrInvalidInput)
}

func TestPolicyNext(t *testing.T) {
	p := ledger.AdjacentForwardOnly
	tests := []struct {
		from domain.Status
		role domain.Role
		want []domain.Status
	}{
		{domain.StatusRegistered, domain.RoleDistributor, []domain.Status{domain.StatusPickedUp}},
		{domain.StatusInTransit, domain.RoleDistributor, []domain.Status{domain.StatusAtWarehouse, domain.StatusReadyForHandover}},
		{domain.StatusAtWarehouse, domain.RoleDistributor, []domain.Status{domain.StatusReadyForHandover, domain.StatusDeliveredToRetailer}},
		{domain.StatusDeliveredToRetailer, domain.RoleRetailer, []domain.Status{domain.StatusReadyForSale}},
		{domain.StatusSold, domain.RoleRetailer, nil},
		{domain.StatusRegistered, domain.RoleConsumer, nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, p.Next(tt.from, tt.role)); diff != "" {
			t.Errorf("Next(%s, %s) (-want +got):\n%s", tt.from, tt.role, diff)
		}
	}
}

func TestRegistryWithSkipPolicy(t *testing.T) {
	reg, _ := newTestRegistry(ledger.WithPolicy(ledger.AllowSkip))
	b, err := reg.Register(tomatoes())
	require.NoError(t, err)

	_, err = reg.RecordEvent(b.BatchID, move(domain.StatusDeliveredToRetailer, retailer))
	require.NoError(t, err)
	assert.Equal(t, ledger.AllowSkip, reg.Policy())
}

func TestKind(t *testing.T) {
	assert.Equal(t, "", ledger.Kind(nil))
	assert.Equal(t, "terminal_state", ledger.Kind(ledger.AdjacentForwardOnly.Check(domain.StatusSold, domain.StatusSold, domain.RoleRetailer)))
	assert.Equal(t, "invalid_transition", ledger.Kind(ledger.AdjacentForwardOnly.Check(domain.StatusRegistered, domain.StatusSold, domain.RoleRetailer)))
	assert.Equal(t, "unknown_batch", ledger.Kind(ledger.ErrUnknownBatch))
	assert.Equal(t, "not_found", ledger.Kind(ledger.ErrNotFound))
	assert.Equal(t, "out_of_order_timestamp", ledger.Kind(ledger.ErrOutOfOrderTimestamp))
	assert.Equal(t, "invalid_input", ledger.Kind(ledger.ErrInvalidInput))
	assert.Equal(t, "internal", ledger.Kind(assert.AnError))
}
