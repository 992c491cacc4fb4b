package auth

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	kakaoEndpoint = oauth2.Endpoint{
		AuthURL:  "https://kauth.kakao.com/oauth/authorize",
		TokenURL: "https://kauth.kakao.com/oauth/token",
	}
	naverEndpoint = oauth2.Endpoint{
		AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
		TokenURL: "https://nid.naver.com/oauth2.0/token",
	}
)

func newGoogleAdapter(cfg OAuthProviderConfig) ProviderAdapter {
	return &oauthAdapter{
		name: "google",
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: "https://openidconnect.googleapis.com/v1/userinfo",
	}
}

func newKakaoAdapter(cfg OAuthProviderConfig) ProviderAdapter {
	return &oauthAdapter{
		name: "kakao",
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     kakaoEndpoint,
			Scopes:       []string{"account_email", "profile_nickname", "profile_image"},
		},
		userInfoURL: "https://kapi.kakao.com/v2/user/me",
	}
}

func newNaverAdapter(cfg OAuthProviderConfig) ProviderAdapter {
	return &oauthAdapter{
		name: "naver",
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     naverEndpoint,
		},
		userInfoURL: "https://openapi.naver.com/v1/nid/me",
	}
}
