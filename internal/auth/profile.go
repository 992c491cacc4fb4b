package auth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProfileFromAttributes normalizes a provider-specific attribute map into a
// Profile. Each provider nests identity fields differently:
//
//	google: sub, email, name, picture (flat)
//	kakao:  id, kakao_account.email, kakao_account.profile.{nickname,profile_image_url}
//	naver:  response.{id,email,name,profile_image}
//
// Unknown registration ids fail immediately with ErrUnsupportedProvider;
// nothing ever silently defaults to a known provider.
func ProfileFromAttributes(registrationID string, attrs map[string]any) (Profile, error) {
	var p Profile
	switch strings.ToLower(registrationID) {
	case "google":
		p = fromGoogle(attrs)
	case "kakao":
		p = fromKakao(attrs)
	case "naver":
		p = fromNaver(attrs)
	default:
		return Profile{}, fmt.Errorf("%w: %s", ErrUnsupportedProvider, registrationID)
	}

	if p.ProviderID == "" || p.Email == "" {
		return Profile{}, ErrIncompleteProfile
	}
	return p, nil
}

func fromGoogle(attrs map[string]any) Profile {
	return Profile{
		ProviderID: attrString(attrs, "sub"),
		Email:      attrString(attrs, "email"),
		Name:       attrString(attrs, "name"),
		AvatarURL:  attrString(attrs, "picture"),
		SocialType: SocialTypeGoogle,
	}
}

func fromKakao(attrs map[string]any) Profile {
	account := attrMap(attrs, "kakao_account")
	profile := attrMap(account, "profile")

	return Profile{
		ProviderID: attrString(attrs, "id"),
		Email:      attrString(account, "email"),
		Name:       attrString(profile, "nickname"),
		AvatarURL:  attrString(profile, "profile_image_url"),
		SocialType: SocialTypeKakao,
	}
}

func fromNaver(attrs map[string]any) Profile {
	response := attrMap(attrs, "response")

	return Profile{
		ProviderID: attrString(response, "id"),
		Email:      attrString(response, "email"),
		Name:       attrString(response, "name"),
		AvatarURL:  attrString(response, "profile_image"),
		SocialType: SocialTypeNaver,
	}
}

func attrMap(attrs map[string]any, key string) map[string]any {
	if attrs == nil {
		return nil
	}
	m, _ := attrs[key].(map[string]any)
	return m
}

// attrString stringifies an attribute value. Kakao sends its user id as a
// JSON number, so numeric values are formatted without an exponent.
func attrString(attrs map[string]any, key string) string {
	if attrs == nil {
		return ""
	}
	switch v := attrs[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
