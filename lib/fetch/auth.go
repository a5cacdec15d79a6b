package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// The source issues its z_at session token to any browser that accepts
// the terms dialog; no credentials are involved. A plain HTTP client
// never receives one, so acceptance runs in a real headless browser
// with stealth applied, the same way the site's own visitors get theirs.

const authCookieName = "z_at"

// ErrNoToken is returned when the dialog flow completed but no token
// cookie appeared.
var ErrNoToken = errors.New("fetch: no auth token cookie set")

// Dialog button labels, tried in order. The first pair dismisses the
// "For Users Abroad" notice, the rest cover the occasional extra
// consent dialog.
var acceptLabels = []string{
	"確認しました",
	"I understand",
	"同意",
	"OK",
}

type AuthConfig struct {
	TermsURL string        `mapstructure:"terms_url"`
	Headless bool          `mapstructure:"headless"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type Authenticator struct {
	cfg AuthConfig
}

func NewAuthenticator(cfg AuthConfig) *Authenticator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &Authenticator{cfg: cfg}
}

// Token launches a browser, accepts whatever dialogs the source shows,
// and harvests the session token cookie.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	l := launcher.New().Headless(a.cfg.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("fetch: launching browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("fetch: connecting to browser: %w", err)
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return "", fmt.Errorf("fetch: opening page: %w", err)
	}
	page = page.Timeout(a.cfg.Timeout)

	if err := page.Navigate(a.cfg.TermsURL); err != nil {
		return "", fmt.Errorf("fetch: navigating to %s: %w", a.cfg.TermsURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		log.Warn().Err(err).Msg("page load wait timed out, continuing")
	}

	a.acceptDialogs(page)

	// The token is set asynchronously after acceptance.
	time.Sleep(3 * time.Second)

	cookies, err := browser.GetCookies()
	if err != nil {
		return "", fmt.Errorf("fetch: reading cookies: %w", err)
	}
	for _, cookie := range cookies {
		if cookie.Name == authCookieName {
			logTokenExpiry(cookie.Value)
			return cookie.Value, nil
		}
	}
	return "", ErrNoToken
}

// acceptDialogs clicks through the consent dialogs. Any label that
// never appears just times out quietly; the dialogs vary by region and
// have changed before.
func (a *Authenticator) acceptDialogs(page *rod.Page) {
	for _, label := range acceptLabels {
		el, err := page.Timeout(5 * time.Second).ElementR("button", label)
		if err != nil {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			log.Warn().Err(err).Str("label", label).Msg("dialog click failed")
			continue
		}
		log.Debug().Str("label", label).Msg("accepted dialog")
	}
}

// TokenValid reports whether a previously obtained token is still
// usable. The signature is the source's concern, not ours; only the
// expiry claim matters here.
func TokenValid(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.Before(exp.Time)
}

func logTokenExpiry(token string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		log.Info().Time("expires", exp.Time).Msg("auth token obtained")
	}
}
