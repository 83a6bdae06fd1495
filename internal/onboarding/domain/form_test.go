package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/stretchr/testify/require"
)

func TestEmailAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email domain.Email
		want  string
	}{
		{"selected domain", domain.Email{Local: "alice", Domain: "example.com"}, "alice@example.com"},
		{"custom domain", domain.Email{Local: "alice", Domain: domain.CustomDomainOption, CustomDomain: "corp.kr"}, "alice@corp.kr"},
		{"custom with at", domain.Email{Local: "alice", Domain: domain.CustomDomainOption, CustomDomain: "@corp.kr"}, "alice@corp.kr"},
		{"selected with at", domain.Email{Local: "alice", Domain: "@gmail.com"}, "alice@gmail.com"},
		{"trims", domain.Email{Local: " alice ", Domain: " example.com "}, "alice@example.com"},
		{"empty", domain.Email{}, ""},
		{"domain only", domain.Email{Domain: "example.com"}, "@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.email.Address())
		})
	}
}

func TestFormPatch(t *testing.T) {
	t.Parallel()

	name, local := "Acme", "bob"
	f := domain.FormData{TenantName: "Old", PlanID: "plan-1", Email: domain.Email{Local: "alice", Domain: "example.com"}}

	p := domain.FormPatch{TenantName: &name}
	require.False(t, p.TouchesEmail())
	p.Apply(&f)
	require.Equal(t, "Acme", f.TenantName)
	require.Equal(t, "plan-1", f.PlanID)

	p = domain.FormPatch{EmailLocal: &local}
	require.True(t, p.TouchesEmail())
	p.Apply(&f)
	require.Equal(t, "bob@example.com", f.Email.Address())
}
