package subscription

import "fmt"

// Provider identifies where a subscription row came from.
type Provider string

const (
	// ProviderRecurring is the recurring-billing platform; it reports next-charge dates.
	ProviderRecurring Provider = "recurring"
	// ProviderInstallment is the installment-purchase platform; expiry is derived from the approval date.
	ProviderInstallment Provider = "installment"
	// ProviderManual marks grants created by an administrator.
	ProviderManual Provider = "manual"
)

func (p Provider) String() string {
	return string(p)
}

func (p Provider) IsValid() bool {
	switch p {
	case ProviderRecurring, ProviderInstallment, ProviderManual:
		return true
	}
	return false
}

func ParseProvider(s string) (Provider, error) {
	p := Provider(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidProvider, s)
	}
	return p, nil
}
