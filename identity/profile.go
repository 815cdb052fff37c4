package identity

// RoleType identifies the kind of account a profile belongs to.
type RoleType string

const (
	RoleCouple RoleType = "couple"
	RoleVendor RoleType = "vendor"
	RoleAdmin  RoleType = "admin"
)

// OnboardingStatus tracks how far an account has progressed through
// first-time setup.
type OnboardingStatus string

const (
	OnboardingInProgress OnboardingStatus = "in_progress"
	OnboardingCompleted  OnboardingStatus = "completed"
)

// VendorProfile carries the vendor-specific part of a profile. Vendors
// have their own onboarding state in addition to the account-level one.
type VendorProfile struct {
	BusinessName     string           `json:"business_name,omitempty"`
	BusinessCategory string           `json:"business_category,omitempty"`
	Address          string           `json:"address,omitempty"`
	OnboardingStatus OnboardingStatus `json:"onboarding_status,omitempty"`
}

// Profile is the identity and role information the backend returns for
// a valid access token. This core treats it as immutable beyond reading
// the role and onboarding fields used by route guards.
type Profile struct {
	Username         string           `json:"username"`
	Name             string           `json:"name,omitempty"`
	Email            string           `json:"email,omitempty"`
	Role             RoleType         `json:"role"`
	OnboardingStatus OnboardingStatus `json:"onboarding_status"`
	VendorProfile    *VendorProfile   `json:"vendor_profile,omitempty"`
}
