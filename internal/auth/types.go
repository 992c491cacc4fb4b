package auth

import (
	"time"

	"github.com/google/uuid"
)

// SocialType identifies how an account authenticates: the local password
// mechanism or one of the supported OAuth2 providers.
type SocialType string

const (
	SocialTypeLocal   SocialType = "LOCAL"
	SocialTypeGoogle  SocialType = "GOOGLE"
	SocialTypeKakao   SocialType = "KAKAO"
	SocialTypeNaver   SocialType = "NAVER"
	SocialTypeUnknown SocialType = "UNKNOWN"
)

// ParseSocialType maps a stored or token-carried value to a SocialType,
// falling back to UNKNOWN for anything unrecognized.
func ParseSocialType(s string) SocialType {
	switch SocialType(s) {
	case SocialTypeLocal, SocialTypeGoogle, SocialTypeKakao, SocialTypeNaver:
		return SocialType(s)
	default:
		return SocialTypeUnknown
	}
}

// AccountLinkStatus tracks whether a different login method has tried to
// claim the account's email and is waiting for explicit linking.
type AccountLinkStatus string

const (
	LinkStatusNone     AccountLinkStatus = "NONE"
	LinkStatusRequired AccountLinkStatus = "LINK_REQUIRED"
)

// User is the canonical identity record. Email is unique across all users
// regardless of provider; a LOCAL account never carries a provider id.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string // set only for LOCAL accounts
	AvatarURL    string
	SocialType   SocialType
	ProviderID   string

	AccountLinkStatus       AccountLinkStatus
	LinkCandidateProvider   SocialType
	LinkCandidateProviderID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLocalUser creates a password-based account.
func NewLocalUser(email, name, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:                uuid.New(),
		Email:             email,
		Name:              name,
		PasswordHash:      passwordHash,
		SocialType:        SocialTypeLocal,
		AccountLinkStatus: LinkStatusNone,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// NewSocialUser creates an account from a normalized provider profile.
func NewSocialUser(p Profile) *User {
	now := time.Now()
	return &User{
		ID:                uuid.New(),
		Email:             p.Email,
		Name:              p.Name,
		AvatarURL:         p.AvatarURL,
		SocialType:        p.SocialType,
		ProviderID:        p.ProviderID,
		AccountLinkStatus: LinkStatusNone,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsLocalAccount reports whether the account authenticates with a password.
func (u *User) IsLocalAccount() bool {
	return u.SocialType == "" || u.SocialType == SocialTypeLocal
}

// HasSameProvider reports whether the account belongs to the given provider.
func (u *User) HasSameProvider(t SocialType) bool {
	return u.SocialType != "" && u.SocialType == t
}

// ShouldUpdateProvider reports whether the provider-assigned id drifted from
// the stored one.
func (u *User) ShouldUpdateProvider(providerID string) bool {
	return providerID != "" && providerID != u.ProviderID
}

// UpdateSocialAccount refreshes the provider identity in place and clears any
// pending link requirement atomically with the update.
func (u *User) UpdateSocialAccount(t SocialType, providerID, avatarURL string) {
	u.SocialType = t
	u.ProviderID = providerID
	if avatarURL != "" {
		u.AvatarURL = avatarURL
	}
	u.ClearLinkRequirement()
	u.UpdatedAt = time.Now()
}

// MarkLinkRequired records that a different login method tried to claim this
// email. The existing identity is never overwritten here.
func (u *User) MarkLinkRequired(candidate SocialType, candidateProviderID string) {
	u.AccountLinkStatus = LinkStatusRequired
	u.LinkCandidateProvider = candidate
	u.LinkCandidateProviderID = candidateProviderID
	u.UpdatedAt = time.Now()
}

// ClearLinkRequirement resets the link-conflict fields as a unit.
func (u *User) ClearLinkRequirement() {
	u.AccountLinkStatus = LinkStatusNone
	u.LinkCandidateProvider = ""
	u.LinkCandidateProviderID = ""
}

// Profile is the normalized projection of a provider's attribute map,
// produced at the OAuth2 boundary before reconciliation.
type Profile struct {
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
	SocialType SocialType
}

// Principal is the request-scoped projection of a User used to mint tokens
// and to answer "who is calling". It is never persisted.
type Principal struct {
	ID         uuid.UUID
	Email      string
	Name       string
	AvatarURL  string
	SocialType SocialType
}

// PrincipalFromUser projects a stored user into a Principal.
func PrincipalFromUser(u *User) Principal {
	return Principal{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		AvatarURL:  u.AvatarURL,
		SocialType: u.SocialType,
	}
}

// TokenPair carries a freshly minted access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
