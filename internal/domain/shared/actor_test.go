package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActor_CanAccessDealership(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		dealer string
		want   bool
	}{
		{"admin any dealership", Actor{Role: RoleAdmin}, "d-1", true},
		{"evm staff any dealership", Actor{Role: RoleEVMStaff, DealershipID: "d-2"}, "d-1", true},
		{"manager own dealership", Actor{Role: RoleDealerManager, DealershipID: "d-1"}, "d-1", true},
		{"staff other dealership", Actor{Role: RoleDealerStaff, DealershipID: "d-2"}, "d-1", false},
		{"staff without dealership", Actor{Role: RoleDealerStaff}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.CanAccessDealership(tt.dealer))
		})
	}
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleDealerManager.IsValid())
	assert.False(t, Role("customer").IsValid())
	assert.True(t, RoleDealerStaff.IsDealershipScoped())
	assert.False(t, RoleAdmin.IsDealershipScoped())
}
