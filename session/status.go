package session

import "github.com/amirwmr/wp-front/identity"

// IsOnboardingComplete reports whether the profile has finished
// first-time setup. Vendors must complete both the account-level and
// the vendor-profile onboarding; a vendor profile without its own
// status inherits the account-level one.
func IsOnboardingComplete(p *identity.Profile) bool {
	if p == nil {
		return false
	}
	baseComplete := p.OnboardingStatus == identity.OnboardingCompleted
	if p.Role == identity.RoleVendor {
		vendorStatus := p.OnboardingStatus
		if p.VendorProfile != nil && p.VendorProfile.OnboardingStatus != "" {
			vendorStatus = p.VendorProfile.OnboardingStatus
		}
		return baseComplete && vendorStatus == identity.OnboardingCompleted
	}
	return baseComplete
}
